package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const metaTagTimeout = 10 * time.Second

// MetadataTagger encodes object paths into platform metadata tags and
// back. Tagging is best-effort: uploads proceed untagged when the
// service is unreachable.
type MetadataTagger struct {
	base   string
	client *http.Client
}

func NewMetadataTagger(openAPIBase string) *MetadataTagger {
	return &MetadataTagger{
		base:   openAPIBase,
		client: &http.Client{Timeout: metaTagTimeout},
	}
}

type metaEncodeRequest struct {
	OpenID string   `json:"openid"`
	Bucket string   `json:"bucket"`
	Paths  []string `json:"paths"`
}

type metaEncodeResponse struct {
	ErrCode          int      `json:"errcode"`
	ErrMsg           string   `json:"errmsg"`
	MetaFieldStrings []string `json:"x_cos_meta_field_strs"`
}

// Encode returns the metadata tag for a single stored path.
func (t *MetadataTagger) Encode(ctx context.Context, openid, bucket, path string) (string, error) {
	body, err := json.Marshal(metaEncodeRequest{
		OpenID: openid,
		Bucket: bucket,
		Paths:  []string{path},
	})
	if err != nil {
		return "", err
	}

	var out metaEncodeResponse
	if err := t.post(ctx, "/_/cos/metaid/encode", body, &out); err != nil {
		return "", err
	}
	if out.ErrCode != 0 {
		return "", fmt.Errorf("metaid encode failed: %d %s", out.ErrCode, out.ErrMsg)
	}
	if len(out.MetaFieldStrings) == 0 {
		return "", fmt.Errorf("metaid encode returned no tags")
	}

	return out.MetaFieldStrings[0], nil
}

type metaDecodeRequest struct {
	MetaIDs []string `json:"metaid_list"`
}

type metaDecodeResponse struct {
	ErrCode int      `json:"errcode"`
	ErrMsg  string   `json:"errmsg"`
	Paths   []string `json:"paths"`
}

// Decode resolves metadata tags back to stored paths.
func (t *MetadataTagger) Decode(ctx context.Context, metaIDs []string) ([]string, error) {
	body, err := json.Marshal(metaDecodeRequest{MetaIDs: metaIDs})
	if err != nil {
		return nil, err
	}

	var out metaDecodeResponse
	if err := t.post(ctx, "/_/cos/metaid/decode", body, &out); err != nil {
		return nil, err
	}
	if out.ErrCode != 0 {
		return nil, fmt.Errorf("metaid decode failed: %d %s", out.ErrCode, out.ErrMsg)
	}

	return out.Paths, nil
}

func (t *MetadataTagger) post(ctx context.Context, path string, body []byte, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.base+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("metaid service returned %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
