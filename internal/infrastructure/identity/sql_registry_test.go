package identity

import (
	"strings"
	"testing"
)

func TestBuildIdentityQuery(t *testing.T) {
	t.Parallel()

	query, args, err := buildIdentityQuery("123456789", DefaultGameTitle)
	if err != nil {
		t.Fatalf("build identity query: %v", err)
	}

	if !strings.HasPrefix(query, "SELECT p.id FROM sprocket.user_authentication_account uaa JOIN sprocket.user u") {
		t.Fatalf("unexpected query prefix: %s", query)
	}
	if !strings.HasSuffix(query, `WHERE uaa."accountType" = $1 AND uaa."accountId" = $2 AND g.title = $3 LIMIT 1`) {
		t.Fatalf("unexpected query suffix: %s", query)
	}
	if len(args) != 3 || args[0] != "DISCORD" || args[1] != "123456789" || args[2] != "Trackmania" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestNewSQLRegistry_DefaultsGameTitle(t *testing.T) {
	t.Parallel()

	registry := NewSQLRegistry(nil, " ", 0)
	if registry.gameTitle != DefaultGameTitle {
		t.Fatalf("unexpected game title: got=%s want=%s", registry.gameTitle, DefaultGameTitle)
	}
	if registry.cache != nil {
		t.Fatalf("expected no cache with zero ttl")
	}
}
