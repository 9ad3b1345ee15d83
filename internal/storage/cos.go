package storage

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/zhenglaizhang/batter-store-api/internal/logger"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// CosConfig configures the COS-backed remote store.
type CosConfig struct {
	Bucket   string
	Region   string
	Endpoint string // derived from Region when empty
}

// CosStore stores objects in Tencent COS through its S3-compatible
// endpoint. Credentials are short-lived, so the S3 client is rebuilt
// whenever the credential cache rotates them.
type CosStore struct {
	cfg    CosConfig
	creds  *CredentialCache
	tagger *MetadataTagger

	mu          sync.Mutex
	client      *s3.S3
	clientToken string
}

func NewCosStore(cfg CosConfig, creds *CredentialCache, tagger *MetadataTagger) *CosStore {
	if cfg.Endpoint == "" {
		cfg.Endpoint = fmt.Sprintf("https://cos.%s.myqcloud.com", cfg.Region)
	}
	return &CosStore{
		cfg:    cfg,
		creds:  creds,
		tagger: tagger,
	}
}

// s3Client returns a client built for the current credential epoch.
func (s *CosStore) s3Client(ctx context.Context) (*s3.S3, error) {
	creds, err := s.creds.Get(ctx)
	if err != nil {
		return nil, &RemoteError{Class: FailureCredentials, Op: "credentials", Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil && s.clientToken == creds.Token {
		return s.client, nil
	}

	awsConfig := &aws.Config{
		Region:           aws.String(s.cfg.Region),
		Endpoint:         aws.String(s.cfg.Endpoint),
		Credentials:      credentials.NewStaticCredentials(creds.SecretID, creds.SecretKey, creds.Token),
		S3ForcePathStyle: aws.Bool(true),
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, &RemoteError{Class: FailureUnknown, Op: "session", Err: err}
	}

	s.client = s3.New(sess)
	s.clientToken = creds.Token
	return s.client, nil
}

// Put uploads data under photos/<ownerID>/<filename> and returns that
// key. The metadata tag is best-effort; a missing ETag on the response
// is treated as a failed upload.
func (s *CosStore) Put(ctx context.Context, ownerID, filename string, data []byte, openid string) (string, error) {
	client, err := s.s3Client(ctx)
	if err != nil {
		return "", err
	}

	key := RemoteKey(ownerID, filename)

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(MimeTypeFor(filename)),
	}

	s.attachMetaTag(ctx, input, key, openid)

	result, err := client.PutObjectWithContext(ctx, input)
	if err != nil {
		return "", classifyRemoteErr("put", err)
	}

	if result.ETag == nil || *result.ETag == "" {
		return "", &RemoteError{Class: FailureService, Op: "put", Err: fmt.Errorf("upload returned no ETag")}
	}

	return key, nil
}

// attachMetaTag sets the fileid metadata header. Encode failures are
// logged and leave the upload untagged.
func (s *CosStore) attachMetaTag(ctx context.Context, input *s3.PutObjectInput, key, openid string) {
	if s.tagger == nil || openid == "" {
		return
	}

	tag, err := s.tagger.Encode(ctx, openid, s.cfg.Bucket, key)
	if err != nil {
		logger.CtxWarn(ctx, "metadata tag encode failed, uploading untagged",
			"key", key,
			"error", err.Error(),
		)
		return
	}

	input.Metadata = map[string]*string{"fileid": aws.String(tag)}
}

// PresignedURL signs a GET for the stored key. Zero ttl means
// DefaultPresignTTL.
func (s *CosStore) PresignedURL(key string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultPresignTTL
	}

	client, err := s.s3Client(context.Background())
	if err != nil {
		return "", err
	}

	req, _ := client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	url, err := req.Presign(ttl)
	if err != nil {
		return "", classifyRemoteErr("presign", err)
	}

	return url, nil
}

// Delete removes the stored object.
func (s *CosStore) Delete(ctx context.Context, key string) error {
	client, err := s.s3Client(ctx)
	if err != nil {
		return err
	}

	_, err = client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return classifyRemoteErr("delete", err)
	}

	return nil
}

// classifyRemoteErr maps SDK failures onto the failure taxonomy.
func classifyRemoteErr(op string, err error) *RemoteError {
	if reqErr, ok := err.(awserr.RequestFailure); ok {
		if reqErr.StatusCode() >= 500 {
			return &RemoteError{Class: FailureService, Op: op, Err: err}
		}
		return &RemoteError{Class: FailureClient, Op: op, Err: err}
	}
	if _, ok := err.(awserr.Error); ok {
		// No HTTP status: transport failure before a response arrived.
		return &RemoteError{Class: FailureService, Op: op, Err: err}
	}
	return &RemoteError{Class: FailureUnknown, Op: op, Err: err}
}
