package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must prefix keys by kind to avoid collisions across kinds.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// EntryUUID is the primary key of a local store entry.
func EntryUUID(key string) uuid.UUID {
	return UUID("go-cms-admin:local_entry:" + strings.TrimSpace(key))
}

// VisitorFingerprint identifies a browser from its stable traits, e.g. the
// user agent and language. The same traits always give the same value.
func VisitorFingerprint(traits ...string) string {
	cleaned := make([]string, 0, len(traits))
	for _, trait := range traits {
		cleaned = append(cleaned, strings.TrimSpace(trait))
	}
	return UUID("go-cms-admin:visitor:" + strings.Join(cleaned, "|")).String()
}
