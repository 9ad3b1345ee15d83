package storage

import (
	"strings"
)

// RefKind classifies a persisted object reference.
type RefKind int

const (
	// RefUnrecognized references resolve to no URL; the record itself
	// is still served.
	RefUnrecognized RefKind = iota
	RefRemote
	RefLocal
)

// RemoteKeyPrefix is the canonical prefix of remote object keys.
const RemoteKeyPrefix = "photos/"

// RemoteKey builds the canonical remote key for an owner's file.
func RemoteKey(ownerID, filename string) string {
	return RemoteKeyPrefix + ownerID + "/" + filename
}

// ResolveRef classifies a stored reference and extracts the canonical
// key or path. It is pure and total: any input yields a result, never
// an error. Three legacy shapes are recognized:
//
//	photos/<owner>/<name>.<ext>   bare remote key, returned unchanged
//	<scheme>://<bucket>/<path>    full object URL; <path> is the key
//	/abs/path or uploads/...      local fallback path, returned unchanged
func ResolveRef(ref string) (RefKind, string) {
	if ref == "" {
		return RefUnrecognized, ""
	}

	if strings.HasPrefix(ref, RemoteKeyPrefix) {
		return RefRemote, ref
	}

	if i := strings.Index(ref, "://"); i >= 0 {
		rest := ref[i+len("://"):]
		// First segment is the bucket (or env.bucket) host part.
		slash := strings.Index(rest, "/")
		if slash < 0 || slash == len(rest)-1 {
			return RefUnrecognized, ""
		}
		return RefRemote, rest[slash+1:]
	}

	if strings.HasPrefix(ref, "/") {
		return RefLocal, ref
	}
	trimmed := strings.TrimPrefix(ref, "./")
	if strings.HasPrefix(trimmed, "uploads/") {
		return RefLocal, ref
	}

	return RefUnrecognized, ""
}
