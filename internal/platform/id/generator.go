package id

import (
	"strings"

	"github.com/google/uuid"
)

const scrimUIDPrefix = "SCRIM-"

// Generator creates opaque IDs suitable for external references.
type Generator interface {
	NewID() (string, error)
}

// ScrimUIDGenerator yields "SCRIM-" followed by six upper-case characters
// taken from a random UUID.
type ScrimUIDGenerator struct{}

func NewScrimUIDGenerator() *ScrimUIDGenerator {
	return &ScrimUIDGenerator{}
}

func (g *ScrimUIDGenerator) NewID() (string, error) {
	raw, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}

	compact := strings.ReplaceAll(raw.String(), "-", "")
	return scrimUIDPrefix + strings.ToUpper(compact[:6]), nil
}
