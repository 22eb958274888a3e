package usecase

import (
	"errors"
	"strings"
	"testing"

	"github.com/riskibarqy/scrim-matchmaker/internal/domain/league"
	"github.com/riskibarqy/scrim-matchmaker/internal/domain/rating"
	"github.com/riskibarqy/scrim-matchmaker/internal/domain/scrim"
)

func activeAcademyScrim(t *testing.T, f *queueFixture) scrim.Scrim {
	t.Helper()

	f.joinAll(t, "academy-1", "academy-2", "academy-3", "academy-4")
	popped := f.onlyPopped(t)
	for _, id := range []string{"academy-1", "academy-2", "academy-3", "academy-4"} {
		if _, err := f.queue.CheckIn(t.Context(), id); err != nil {
			t.Fatalf("check in %s: %v", id, err)
		}
	}
	item, _, err := f.scrims.GetByID(t.Context(), popped.Scrim.ID)
	if err != nil {
		t.Fatalf("get scrim: %v", err)
	}
	if item.Status != scrim.StatusActive {
		t.Fatalf("scrim must be active: %s", item.Status)
	}
	return item
}

func twoTeamStats() []ResultStatInput {
	return []ResultStatInput{
		{PlayerID: 1, TeamID: 1, Points: 10, IsFinished: true},
		{PlayerID: 2, TeamID: 1, Points: 8, IsFinished: true},
		{PlayerID: 3, TeamID: 2, Points: 5, IsFinished: true},
		{PlayerID: 4, TeamID: 2, Points: 2, IsDNF: true, NbRespawns: 3},
	}
}

func TestResultService_Submit_CompletesAndRates(t *testing.T) {
	f := newQueueFixture(t)
	ctx := t.Context()
	item := activeAcademyScrim(t, f)

	out, err := f.results.Submit(ctx, SubmitResultInput{
		ScrimUID: strings.ToLower(item.UID),
		Stats:    twoTeamStats(),
	})
	if err != nil {
		t.Fatalf("submit result: %v", err)
	}
	if out.AlreadyProcessed {
		t.Fatalf("first submission must be processed")
	}
	if out.Scrim.Status != scrim.StatusCompleted || !out.Scrim.RatingProcessed {
		t.Fatalf("unexpected scrim after submit: %+v", out.Scrim)
	}
	if out.Scrim.CompletedAt == nil {
		t.Fatalf("completed scrim must carry completed_at")
	}
	if len(out.Updates) != 4 {
		t.Fatalf("unexpected update count: %d", len(out.Updates))
	}
	for _, u := range out.Updates {
		want := 984
		if u.TeamID == 1 {
			want = 1016
		}
		if u.NewRating != want {
			t.Fatalf("unexpected rating for player %d: got=%d want=%d", u.PlayerID, u.NewRating, want)
		}
	}

	if plays := len(f.mapRepo.Plays()); plays != 12 {
		t.Fatalf("unexpected map play rows: got=%d want=12", plays)
	}
	if n := len(f.events.ofKind(EventScrimCompleted)); n != 1 {
		t.Fatalf("unexpected completed events: %d", n)
	}

	board, err := f.ratings.Leaderboard(ctx, "academy", 0)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(board) != 4 || board[0].Rating != 1016 || board[0].Wins != 1 {
		t.Fatalf("unexpected leaderboard: %+v", board)
	}

	replay, err := f.results.Submit(ctx, SubmitResultInput{ScrimUID: item.UID, Stats: twoTeamStats()})
	if err != nil {
		t.Fatalf("replay submit: %v", err)
	}
	if !replay.AlreadyProcessed || len(replay.Updates) != 0 {
		t.Fatalf("replay must be a no-op: %+v", replay)
	}
	r, err := f.ratings.Rating(ctx, 1, league.Academy)
	if err != nil {
		t.Fatalf("get rating: %v", err)
	}
	if r.Rating != 1016 || r.Wins != 1 {
		t.Fatalf("replay must not change ratings: %+v", r)
	}
}

func TestResultService_Submit_ExplicitWinnerOverridesPoints(t *testing.T) {
	f := newQueueFixture(t)
	item := activeAcademyScrim(t, f)

	winner := 2
	out, err := f.results.Submit(t.Context(), SubmitResultInput{ScrimUID: item.UID, WinnerTeam: &winner, Stats: twoTeamStats()})
	if err != nil {
		t.Fatalf("submit result: %v", err)
	}
	for _, u := range out.Updates {
		if u.TeamID == 2 && !u.IsWin() {
			t.Fatalf("team 2 must win: %+v", u)
		}
	}
	if out.Scrim.WinnerTeam == nil || *out.Scrim.WinnerTeam != 2 {
		t.Fatalf("unexpected winner team: %v", out.Scrim.WinnerTeam)
	}
}

func TestResultService_Submit_Validation(t *testing.T) {
	f := newQueueFixture(t)
	ctx := t.Context()
	item := activeAcademyScrim(t, f)

	oneTeam := twoTeamStats()
	for i := range oneTeam {
		oneTeam[i].TeamID = 1
	}
	stranger := twoTeamStats()
	stranger[3].PlayerID = 9
	badWinner := 7

	cases := []struct {
		name  string
		input SubmitResultInput
	}{
		{name: "missing player", input: SubmitResultInput{ScrimUID: item.UID, Stats: twoTeamStats()[:3]}},
		{name: "single team", input: SubmitResultInput{ScrimUID: item.UID, Stats: oneTeam}},
		{name: "player not in scrim", input: SubmitResultInput{ScrimUID: item.UID, Stats: stranger}},
		{name: "unknown winner team", input: SubmitResultInput{ScrimUID: item.UID, WinnerTeam: &badWinner, Stats: twoTeamStats()}},
	}
	for _, tc := range cases {
		if _, err := f.results.Submit(ctx, tc.input); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", tc.name, err)
		}
	}

	current, _, err := f.scrims.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("get scrim: %v", err)
	}
	if current.Status != scrim.StatusActive {
		t.Fatalf("rejected results must leave the scrim active: %s", current.Status)
	}

	if _, err := f.results.Submit(ctx, SubmitResultInput{ScrimUID: "SCRIM-000000", Stats: twoTeamStats()}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResultService_Submit_RejectsScrimStillCheckingIn(t *testing.T) {
	f := newQueueFixture(t)

	f.joinAll(t, "academy-1", "academy-2", "academy-3", "academy-4")
	popped := f.onlyPopped(t)

	_, err := f.results.Submit(t.Context(), SubmitResultInput{ScrimUID: popped.Scrim.UID, Stats: twoTeamStats()})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestResultService_Submit_RetriesRatingForCompletedScrim(t *testing.T) {
	f := newQueueFixture(t)
	ctx := t.Context()
	item := activeAcademyScrim(t, f)

	stats := make([]rating.PlayerStat, 0, 4)
	for _, st := range twoTeamStats() {
		stats = append(stats, rating.PlayerStat{ScrimID: item.ID, PlayerID: st.PlayerID, TeamID: st.TeamID, Points: st.Points})
	}
	if err := f.ratingRepo.RecordMatchStats(ctx, stats); err != nil {
		t.Fatalf("record stats: %v", err)
	}
	if _, err := f.scrims.Complete(ctx, item.ID, nil); err != nil {
		t.Fatalf("complete scrim: %v", err)
	}

	out, err := f.results.Submit(ctx, SubmitResultInput{ScrimUID: item.UID})
	if err != nil {
		t.Fatalf("submit result: %v", err)
	}
	if out.AlreadyProcessed || len(out.Updates) != 4 {
		t.Fatalf("completed scrim must be rated on retry: %+v", out)
	}
}

func TestRatingService_ProcessMatch(t *testing.T) {
	f := newQueueFixture(t)
	ctx := t.Context()
	item := activeAcademyScrim(t, f)

	if _, err := f.ratings.ProcessMatch(ctx, item.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for active scrim, got %v", err)
	}
	if _, err := f.ratings.ProcessMatch(ctx, 404); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if _, err := f.scrims.Complete(ctx, item.ID, nil); err != nil {
		t.Fatalf("complete scrim: %v", err)
	}
	if _, err := f.ratings.ProcessMatch(ctx, item.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict without stats, got %v", err)
	}

	f.ratingRepo.Put(rating.Rating{PlayerID: 1, League: league.Academy, Rating: 1200})
	stats := []rating.PlayerStat{
		{ScrimID: item.ID, PlayerID: 1, TeamID: 1, Points: 3},
		{ScrimID: item.ID, PlayerID: 2, TeamID: 1, Points: 3},
		{ScrimID: item.ID, PlayerID: 3, TeamID: 2, Points: 3},
		{ScrimID: item.ID, PlayerID: 4, TeamID: 2, Points: 3},
	}
	if err := f.ratingRepo.RecordMatchStats(ctx, stats); err != nil {
		t.Fatalf("record stats: %v", err)
	}

	first, err := f.ratings.ProcessMatch(ctx, item.ID)
	if err != nil {
		t.Fatalf("process match: %v", err)
	}
	if !first.Processed {
		t.Fatalf("first run must process")
	}
	for _, u := range first.Updates {
		if u.Result != rating.ResultDraw {
			t.Fatalf("equal points must draw: %+v", u)
		}
		if u.PlayerID == 1 && u.NewRating >= 1200 {
			t.Fatalf("higher rated player must lose rating on a draw: %+v", u)
		}
	}

	second, err := f.ratings.ProcessMatch(ctx, item.ID)
	if err != nil {
		t.Fatalf("process match again: %v", err)
	}
	if second.Processed {
		t.Fatalf("second run must be a no-op")
	}
}
