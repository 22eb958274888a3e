package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/scrim-matchmaker/internal/domain/ban"
	"github.com/riskibarqy/scrim-matchmaker/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/scrim-matchmaker/internal/platform/logging"
)

func newTestBanService(now *time.Time) *BanService {
	svc := NewBanService(memory.NewBanRepository(), ban.Policy{}, logging.NewNop())
	svc.now = func() time.Time { return *now }
	return svc
}

func TestBanService_ApplyDodgePenalty_EscalatesInsideWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc := newTestBanService(&now)
	ctx := t.Context()

	wantDurations := []time.Duration{300 * time.Second, 1800 * time.Second, 7200 * time.Second, 7200 * time.Second}
	for i, want := range wantDurations {
		item, err := svc.ApplyDodgePenalty(ctx, 7)
		if err != nil {
			t.Fatalf("apply dodge %d: %v", i+1, err)
		}
		if got := item.End.Sub(item.Start); got != want {
			t.Fatalf("unexpected duration for dodge %d: got=%s want=%s", i+1, got, want)
		}
		if item.DodgeCount != i+1 {
			t.Fatalf("unexpected dodge count: got=%d want=%d", item.DodgeCount, i+1)
		}
		if item.IsManual {
			t.Fatalf("dodge ban must not be manual")
		}
		now = now.Add(time.Minute)
	}

	now = now.Add(25 * time.Hour)
	item, err := svc.ApplyDodgePenalty(ctx, 7)
	if err != nil {
		t.Fatalf("apply dodge after window: %v", err)
	}
	if got := item.End.Sub(item.Start); got != 300*time.Second {
		t.Fatalf("dodge outside window must restart at first tier: got=%s", got)
	}
	if item.Reason != "Queue dodge penalty (1 in 24h)" {
		t.Fatalf("unexpected reason: %s", item.Reason)
	}
}

func TestBanService_ApplyDodgePenalty_ReasonNamesConfiguredWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc := NewBanService(memory.NewBanRepository(), ban.Policy{Window: 6 * time.Hour}, logging.NewNop())
	svc.now = func() time.Time { return now }

	for _, want := range []string{"Queue dodge penalty (1 in 6h)", "Queue dodge penalty (2 in 6h)"} {
		item, err := svc.ApplyDodgePenalty(t.Context(), 7)
		if err != nil {
			t.Fatalf("apply dodge: %v", err)
		}
		if item.Reason != want {
			t.Fatalf("unexpected reason: got=%q want=%q", item.Reason, want)
		}
		now = now.Add(time.Hour)
	}
}

func TestBanService_ManualBansDoNotCountAsDodges(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc := newTestBanService(&now)
	ctx := t.Context()

	if _, err := svc.ApplyManualBan(ctx, 7, time.Hour, "griefing"); err != nil {
		t.Fatalf("apply manual ban: %v", err)
	}
	count, err := svc.RecentDodgeCount(ctx, 7)
	if err != nil {
		t.Fatalf("count dodges: %v", err)
	}
	if count != 0 {
		t.Fatalf("unexpected dodge count: got=%d want=0", count)
	}

	item, err := svc.ApplyDodgePenalty(ctx, 7)
	if err != nil {
		t.Fatalf("apply dodge: %v", err)
	}
	if item.DodgeCount != 1 {
		t.Fatalf("unexpected dodge count: got=%d want=1", item.DodgeCount)
	}
}

func TestBanService_ApplyManualBan_Validation(t *testing.T) {
	now := time.Now()
	svc := newTestBanService(&now)

	if _, err := svc.ApplyManualBan(t.Context(), 7, 0, "reason"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for zero duration, got %v", err)
	}
	if _, err := svc.ApplyManualBan(t.Context(), 7, time.Minute, "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank reason, got %v", err)
	}
}

func TestBanService_TimeRemainingAndExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc := newTestBanService(&now)
	ctx := t.Context()

	if _, err := svc.ApplyDodgePenalty(ctx, 3); err != nil {
		t.Fatalf("apply dodge: %v", err)
	}

	now = now.Add(100*time.Second + 500*time.Millisecond)
	remaining, err := svc.TimeRemaining(ctx, 3)
	if err != nil {
		t.Fatalf("time remaining: %v", err)
	}
	if remaining != 199 {
		t.Fatalf("unexpected remaining: got=%d want=199", remaining)
	}

	now = now.Add(200 * time.Second)
	banned, err := svc.IsBanned(ctx, 3)
	if err != nil {
		t.Fatalf("is banned: %v", err)
	}
	if banned {
		t.Fatalf("ban must be expired")
	}
	if remaining, _ := svc.TimeRemaining(ctx, 3); remaining != 0 {
		t.Fatalf("unexpected remaining after expiry: %d", remaining)
	}
}

func TestBanService_UnbanAndHistory(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc := newTestBanService(&now)
	ctx := t.Context()

	if _, err := svc.ApplyDodgePenalty(ctx, 5); err != nil {
		t.Fatalf("apply dodge: %v", err)
	}
	now = now.Add(time.Second)
	if _, err := svc.ApplyManualBan(ctx, 5, time.Hour, "abuse"); err != nil {
		t.Fatalf("apply manual ban: %v", err)
	}

	ended, err := svc.Unban(ctx, 5)
	if err != nil {
		t.Fatalf("unban: %v", err)
	}
	if ended != 2 {
		t.Fatalf("unexpected ended count: got=%d want=2", ended)
	}
	if banned, _ := svc.IsBanned(ctx, 5); banned {
		t.Fatalf("player must not be banned after unban")
	}

	history, err := svc.History(ctx, 5, 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("unexpected history length: %d", len(history))
	}
	if !history[0].IsManual {
		t.Fatalf("history must list newest ban first")
	}

	count, err := svc.RecentDodgeCount(ctx, 5)
	if err != nil || count != 1 {
		t.Fatalf("unban must keep dodge history: count=%d err=%v", count, err)
	}
}
