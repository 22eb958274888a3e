package id

import (
	"regexp"
	"testing"
)

func TestScrimUIDGenerator_Format(t *testing.T) {
	t.Parallel()

	pattern := regexp.MustCompile(`^SCRIM-[0-9A-F]{6}$`)
	gen := NewScrimUIDGenerator()
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		uid, err := gen.NewID()
		if err != nil {
			t.Fatalf("NewID error: %v", err)
		}
		if !pattern.MatchString(uid) {
			t.Fatalf("unexpected uid format: %s", uid)
		}
		seen[uid] = struct{}{}
	}
	if len(seen) < 2 {
		t.Fatalf("expected distinct uids, got %d", len(seen))
	}
}
