package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/scrim-matchmaker/internal/domain/league"
	"github.com/riskibarqy/scrim-matchmaker/internal/domain/player"
	playermock "github.com/riskibarqy/scrim-matchmaker/internal/mocks/domain/player"
	"github.com/riskibarqy/scrim-matchmaker/internal/platform/logging"
)

func newMockedPlayerService(t *testing.T) (*PlayerService, *playermock.Repository) {
	t.Helper()

	leagues, err := league.NewRegistry(league.DefaultNames())
	if err != nil {
		t.Fatalf("build league registry: %v", err)
	}
	repo := playermock.NewRepository(t)
	return NewPlayerService(repo, leagues, nil, logging.NewNop()), repo
}

func TestPlayerService_Register_NormalizesLeagueUsingMockery(t *testing.T) {
	t.Parallel()

	svc, repo := newMockedPlayerService(t)

	repo.
		On("GetByDiscordID", mock.Anything, "tm-77").
		Return(player.Player{}, false, nil).
		Once()
	repo.
		On("Create", mock.Anything, mock.MatchedBy(func(p player.Player) bool {
			return p.DiscordID == "tm-77" && p.Username == "Speedy" && p.League == league.Champion
		})).
		Return(func(_ context.Context, p player.Player) (player.Player, error) {
			p.ID = 77
			return p, nil
		}).
		Once()

	got, err := svc.Register(context.Background(), RegisterPlayerInput{
		DiscordID: " tm-77 ",
		Username:  "Speedy",
		League:    "champion",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if got.ID != 77 || got.League != league.Champion {
		t.Fatalf("unexpected player: %+v", got)
	}
}

func TestPlayerService_Register_DuplicateUsingMockery(t *testing.T) {
	t.Parallel()

	svc, repo := newMockedPlayerService(t)

	repo.
		On("GetByDiscordID", mock.Anything, "tm-1").
		Return(player.Player{ID: 1, DiscordID: "tm-1"}, true, nil).
		Once()

	_, err := svc.Register(context.Background(), RegisterPlayerInput{
		DiscordID: "tm-1",
		Username:  "Dup",
		League:    league.Academy,
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestPlayerService_GetByIDs_KeepsRequestOrderUsingMockery(t *testing.T) {
	t.Parallel()

	svc, repo := newMockedPlayerService(t)

	repo.
		On("ListByIDs", mock.Anything, []int64{3, 9, 1}).
		Return([]player.Player{{ID: 1}, {ID: 3}}, nil).
		Once()

	got, err := svc.GetByIDs(context.Background(), []int64{3, 9, 1})
	if err != nil {
		t.Fatalf("get by ids: %v", err)
	}
	if len(got) != 2 || got[0].ID != 3 || got[1].ID != 1 {
		t.Fatalf("unexpected order: %+v", got)
	}
}
