package identity

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDIsStable(t *testing.T) {
	if UUID("a") != UUID(" a ") {
		t.Fatalf("expected trimmed keys to match")
	}
	if UUID("") != uuid.Nil {
		t.Fatalf("expected nil uuid for empty key")
	}
}

func TestEntryUUIDSeparatesKeys(t *testing.T) {
	if EntryUUID("access_token") == EntryUUID("refresh_token") {
		t.Fatalf("expected distinct ids")
	}
}

func TestVisitorFingerprint(t *testing.T) {
	a := VisitorFingerprint("Mozilla/5.0", "fr-FR")
	if a != VisitorFingerprint("Mozilla/5.0", "fr-FR") {
		t.Fatalf("expected stable fingerprint")
	}
	if a == VisitorFingerprint("Mozilla/5.0", "en-US") {
		t.Fatalf("expected different fingerprint for different traits")
	}
}
