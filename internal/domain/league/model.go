package league

import (
	"errors"
	"fmt"
	"strings"
)

// Default leagues, in display order.
const (
	Academy  = "Academy"
	Champion = "Champion"
	Master   = "Master"
)

var ErrUnknownLeague = errors.New("unknown league")

func DefaultNames() []string {
	return []string{Academy, Champion, Master}
}

// Registry is the fixed, ordered set of leagues a deployment runs queues for.
type Registry struct {
	names []string
	index map[string]string
}

func NewRegistry(names []string) (*Registry, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("at least one league is required")
	}

	r := &Registry{
		names: make([]string, 0, len(names)),
		index: make(map[string]string, len(names)),
	}
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			return nil, fmt.Errorf("league name is required")
		}
		key := strings.ToLower(name)
		if _, exists := r.index[key]; exists {
			return nil, fmt.Errorf("duplicate league: %s", name)
		}
		r.index[key] = name
		r.names = append(r.names, name)
	}

	return r, nil
}

func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

func (r *Registry) Contains(name string) bool {
	_, ok := r.index[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// Normalize maps a case-insensitive league name to its canonical spelling.
func (r *Registry) Normalize(name string) (string, error) {
	canonical, ok := r.index[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownLeague, name)
	}
	return canonical, nil
}
