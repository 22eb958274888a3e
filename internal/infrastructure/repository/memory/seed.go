package memory

import (
	"fmt"
	"time"

	"github.com/riskibarqy/scrim-matchmaker/internal/domain/gamemap"
	"github.com/riskibarqy/scrim-matchmaker/internal/domain/league"
	"github.com/riskibarqy/scrim-matchmaker/internal/domain/player"
)

var seedTime = time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)

// SeedPlayers registers four players per default league. Discord ids follow
// "<league>-<n>" in lower case, e.g. "academy-1".
func SeedPlayers() []player.Player {
	out := make([]player.Player, 0, 12)
	var id int64
	for _, name := range league.DefaultNames() {
		for n := 1; n <= 4; n++ {
			id++
			out = append(out, player.Player{
				ID:        id,
				DiscordID: fmt.Sprintf("%s-%d", lower(name), n),
				Username:  fmt.Sprintf("%s Player %d", name, n),
				League:    name,
				CreatedAt: seedTime,
				UpdatedAt: seedTime,
			})
		}
	}
	return out
}

// SeedMaps returns count active campaign maps named "Map 01".."Map NN".
func SeedMaps(count int) []gamemap.Map {
	out := make([]gamemap.Map, 0, count)
	for i := 1; i <= count; i++ {
		out = append(out, gamemap.Map{
			ID:        int64(i),
			Name:      fmt.Sprintf("Map %02d", i),
			UID:       fmt.Sprintf("seed-map-%02d", i),
			Author:    "Nadeo",
			IsActive:  true,
			CreatedAt: seedTime,
		})
	}
	return out
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
