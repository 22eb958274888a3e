package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/scrim-matchmaker/internal/domain/ban"
	"github.com/riskibarqy/scrim-matchmaker/internal/domain/gamemap"
	"github.com/riskibarqy/scrim-matchmaker/internal/domain/scrim"
	banmock "github.com/riskibarqy/scrim-matchmaker/internal/mocks/domain/ban"
	gamemapmock "github.com/riskibarqy/scrim-matchmaker/internal/mocks/domain/gamemap"
	scrimmock "github.com/riskibarqy/scrim-matchmaker/internal/mocks/domain/scrim"
	"github.com/riskibarqy/scrim-matchmaker/internal/platform/logging"
)

func TestBanService_ApplyDodgePenalty_ThirdTierUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2026, 5, 2, 18, 0, 0, 0, time.UTC)
	repo := banmock.NewRepository(t)
	svc := NewBanService(repo, ban.DefaultPolicy(), logging.NewNop())
	svc.now = func() time.Time { return now }

	repo.
		On("CountDodgesSince", mock.Anything, int64(42), now.Add(-24*time.Hour)).
		Return(2, nil).
		Once()
	repo.
		On("Create", mock.Anything, mock.MatchedBy(func(b ban.Ban) bool {
			return b.PlayerID == 42 && b.DodgeCount == 3 && !b.IsManual && b.End.Sub(b.Start) == 2*time.Hour
		})).
		Return(func(_ context.Context, b ban.Ban) (ban.Ban, error) {
			b.ID = 9
			return b, nil
		}).
		Once()

	got, err := svc.ApplyDodgePenalty(ctx, 42)
	if err != nil {
		t.Fatalf("apply dodge penalty: %v", err)
	}
	if got.ID != 9 || got.Reason != "Queue dodge penalty (3 in 24h)" {
		t.Fatalf("unexpected ban: %+v", got)
	}
}

func TestBanService_IsBanned_RepositoryErrorUsingMockery(t *testing.T) {
	t.Parallel()

	repo := banmock.NewRepository(t)
	svc := NewBanService(repo, ban.Policy{}, logging.NewNop())
	repoErr := errors.New("connection reset")

	repo.
		On("GetActive", mock.Anything, int64(1), mock.AnythingOfType("time.Time")).
		Return(ban.Ban{}, false, repoErr).
		Once()

	if _, err := svc.IsBanned(context.Background(), 1); !errors.Is(err, repoErr) {
		t.Fatalf("expected wrapped repository error, got %v", err)
	}
}

func TestMapService_Select_RepositoryFailureUsingMockery(t *testing.T) {
	t.Parallel()

	repo := gamemapmock.NewRepository(t)
	svc := NewMapService(repo, MapServiceConfig{}, logging.NewNop())
	repoErr := errors.New("timeout")

	repo.
		On("PlayCounts", mock.Anything, []int64{1, 2, 3, 4}, mock.AnythingOfType("time.Time")).
		Return([]gamemap.PlayCount(nil), repoErr).
		Once()

	if _, err := svc.Select(context.Background(), []int64{1, 2, 3, 4}, 3); !errors.Is(err, repoErr) {
		t.Fatalf("expected wrapped repository error, got %v", err)
	}
}

func TestScrimService_Cancel_GuardedTransitionUsingMockery(t *testing.T) {
	t.Parallel()

	repo := scrimmock.NewRepository(t)
	svc := NewScrimService(repo, nil, nil, ScrimServiceConfig{}, logging.NewNop())

	repo.
		On("UpdateStatus",
			mock.Anything,
			int64(5),
			[]scrim.Status{scrim.StatusCheckingIn, scrim.StatusActive},
			scrim.StatusCancelled,
			mock.AnythingOfType("*time.Time"),
		).
		Return(false, nil).
		Once()

	cancelled, err := svc.Cancel(context.Background(), 5)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled {
		t.Fatalf("cancel must report false when the guard does not match")
	}
}
