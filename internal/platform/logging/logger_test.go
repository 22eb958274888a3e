package logging

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_KeyValueFields(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.DebugLevel)
	logger := FromZap(zap.New(core)).With("component", "queue")

	logger.InfoContext(context.Background(), "player joined", "league", "Academy", "size", 3, "error", errors.New("boom"))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("unexpected entry count: got=%d want=1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["component"] != "queue" {
		t.Fatalf("unexpected component field: %v", fields["component"])
	}
	if fields["league"] != "Academy" {
		t.Fatalf("unexpected league field: %v", fields["league"])
	}
	if fields["error"] != "boom" {
		t.Fatalf("unexpected error field: %v", fields["error"])
	}
}

func TestLogger_OddArgsAndLevelFilter(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.WarnLevel)
	logger := FromZap(zap.New(core))

	logger.Info("dropped")
	logger.Warn("kept", "dangling")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("unexpected entry count: got=%d want=1", len(entries))
	}
	if _, ok := entries[0].ContextMap()["dangling"]; !ok {
		t.Fatalf("expected dangling key to be kept")
	}
}

func TestLogger_NilFallsBackToDefault(t *testing.T) {
	var logger *Logger
	logger.Info("no panic")
	if logger.Named("x") == nil {
		t.Fatalf("expected named logger")
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	if got := ParseFormat("Console"); got != FormatConsole {
		t.Fatalf("unexpected format: got=%s want=%s", got, FormatConsole)
	}
	if got := ParseFormat(""); got != FormatJSON {
		t.Fatalf("unexpected format: got=%s want=%s", got, FormatJSON)
	}
}

func TestLogger_MirrorReceivesEnabledEntries(t *testing.T) {
	core, _ := observer.New(zap.InfoLevel)
	logger := FromZap(zap.New(core))

	var got []string
	SetMirror(func(_ context.Context, level Level, msg string, _ ...any) {
		got = append(got, level.String()+":"+msg)
	})
	t.Cleanup(func() { SetMirror(nil) })

	logger.Debug("filtered")
	logger.Warn("scrim cancelled", "scrim_id", 7)

	if len(got) != 1 || got[0] != "warn:scrim cancelled" {
		t.Fatalf("unexpected mirrored entries: %v", got)
	}
}
