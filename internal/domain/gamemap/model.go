package gamemap

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

var ErrNoActiveMaps = errors.New("no active maps available")

// Map is a playable track in the rotation.
type Map struct {
	ID        int64
	Name      string
	UID       string
	Author    string
	IsActive  bool
	CreatedAt time.Time
}

func (m Map) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("map name is required")
	}
	if strings.TrimSpace(m.UID) == "" {
		return fmt.Errorf("map uid is required")
	}
	return nil
}

// PlayCount is how often a group of players played a map inside a window.
type PlayCount struct {
	Map   Map
	Count int
}

// Play is one row of the append-only play history.
type Play struct {
	PlayerID int64
	MapID    int64
	PlayedAt time.Time
}

// SortByPlayCount orders counts ascending by count, then by map name.
func SortByPlayCount(counts []PlayCount) {
	sort.SliceStable(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count < counts[j].Count
		}
		return counts[i].Map.Name < counts[j].Map.Name
	})
}

// PoolSize is the number of least-played maps eligible for selection:
// the bottom fifth of the rotation, never fewer than minPool.
func PoolSize(total, minPool int) int {
	fifth := int(math.Ceil(float64(total) * 0.2))
	if fifth < minPool {
		return minPool
	}
	return fifth
}
