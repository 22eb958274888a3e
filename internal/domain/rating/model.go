package rating

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

const (
	KFactor       = 32
	DefaultRating = 1000
)

// Match results from the point of view of one side.
const (
	ResultLoss = 0.0
	ResultDraw = 0.5
	ResultWin  = 1.0
)

var ErrInvalidTeams = errors.New("match must have exactly two teams")

// Rating is a player's Elo standing inside one league.
type Rating struct {
	PlayerID  int64
	League    string
	Rating    int
	Wins      int
	Losses    int
	UpdatedAt time.Time
}

// PlayerStat is one player's line of a submitted match result.
type PlayerStat struct {
	ScrimID    int64
	PlayerID   int64
	TeamID     int
	Points     int
	IsFinished bool
	IsDNF      bool
	NbRespawns int
	CreatedAt  time.Time
}

// Update is the computed rating change for one player.
type Update struct {
	PlayerID  int64
	TeamID    int
	OldRating int
	NewRating int
	Result    float64
}

func (u Update) IsWin() bool  { return u.Result == ResultWin }
func (u Update) IsLoss() bool { return u.Result == ResultLoss }

// ExpectedScore is the probability that a side rated a beats a side rated b.
func ExpectedScore(a, b float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (b-a)/400.0))
}

// NewRating applies one Elo step with K=32 against an opponent rating.
func NewRating(current int, opponent float64, result float64) int {
	expected := ExpectedScore(float64(current), opponent)
	return int(math.Round(float64(current) + KFactor*(result-expected)))
}

// ComputeUpdates rates a two-team match. current holds known ratings; absent
// players count as DefaultRating. Without a winner, the team with more summed
// points wins and equal points draw.
func ComputeUpdates(stats []PlayerStat, current map[int64]int, winnerTeam *int) ([]Update, error) {
	teams := make(map[int][]PlayerStat, 2)
	for _, s := range stats {
		teams[s.TeamID] = append(teams[s.TeamID], s)
	}
	if len(teams) != 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTeams, len(teams))
	}

	teamIDs := make([]int, 0, 2)
	for id := range teams {
		teamIDs = append(teamIDs, id)
	}
	sort.Ints(teamIDs)

	ratingOf := func(playerID int64) int {
		if r, ok := current[playerID]; ok {
			return r
		}
		return DefaultRating
	}

	avg := make(map[int]float64, 2)
	points := make(map[int]int, 2)
	for _, id := range teamIDs {
		sum := 0
		for _, s := range teams[id] {
			sum += ratingOf(s.PlayerID)
			points[id] += s.Points
		}
		avg[id] = float64(sum) / float64(len(teams[id]))
	}

	results := teamResults(teamIDs, points, winnerTeam)

	out := make([]Update, 0, len(stats))
	for i, id := range teamIDs {
		opponent := avg[teamIDs[1-i]]
		for _, s := range teams[id] {
			old := ratingOf(s.PlayerID)
			out = append(out, Update{
				PlayerID:  s.PlayerID,
				TeamID:    id,
				OldRating: old,
				NewRating: NewRating(old, opponent, results[id]),
				Result:    results[id],
			})
		}
	}

	return out, nil
}

func teamResults(teamIDs []int, points map[int]int, winnerTeam *int) map[int]float64 {
	a, b := teamIDs[0], teamIDs[1]
	if winnerTeam != nil && (*winnerTeam == a || *winnerTeam == b) {
		if *winnerTeam == a {
			return map[int]float64{a: ResultWin, b: ResultLoss}
		}
		return map[int]float64{a: ResultLoss, b: ResultWin}
	}

	switch {
	case points[a] > points[b]:
		return map[int]float64{a: ResultWin, b: ResultLoss}
	case points[b] > points[a]:
		return map[int]float64{a: ResultLoss, b: ResultWin}
	default:
		return map[int]float64{a: ResultDraw, b: ResultDraw}
	}
}
