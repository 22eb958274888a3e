package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/scrim-matchmaker/internal/platform/cache"
	qb "github.com/riskibarqy/scrim-matchmaker/internal/platform/querybuilder"
	"github.com/riskibarqy/scrim-matchmaker/internal/usecase"
)

const DefaultGameTitle = "Trackmania"

// SQLRegistry looks the account up in the competitor platform's schema: a
// Discord account is valid when it links to a player of the configured game.
type SQLRegistry struct {
	db        *sqlx.DB
	gameTitle string
	cache     *cache.Store[bool]
}

func NewSQLRegistry(db *sqlx.DB, gameTitle string, cacheTTL time.Duration) *SQLRegistry {
	gameTitle = strings.TrimSpace(gameTitle)
	if gameTitle == "" {
		gameTitle = DefaultGameTitle
	}

	var store *cache.Store[bool]
	if cacheTTL > 0 {
		store = cache.NewStore[bool](cacheTTL, 0)
	}
	return &SQLRegistry{db: db, gameTitle: gameTitle, cache: store}
}

func (r *SQLRegistry) IsValidIdentity(ctx context.Context, discordID string) (bool, error) {
	discordID = strings.TrimSpace(discordID)
	if discordID == "" {
		return false, fmt.Errorf("%w: discord id is required", usecase.ErrInvalidInput)
	}
	if r.cache == nil {
		return r.lookup(ctx, discordID)
	}
	return r.cache.GetOrLoad(ctx, "identity:"+discordID, func(ctx context.Context) (bool, error) {
		return r.lookup(ctx, discordID)
	})
}

func (r *SQLRegistry) lookup(ctx context.Context, discordID string) (bool, error) {
	query, args, err := buildIdentityQuery(discordID, r.gameTitle)
	if err != nil {
		return false, fmt.Errorf("build identity query: %w", err)
	}

	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return false, fmt.Errorf("%w: query identity registry: %v", usecase.ErrDependencyUnavailable, err)
	}
	return len(ids) > 0, nil
}

func buildIdentityQuery(discordID, gameTitle string) (string, []any, error) {
	return qb.Select("p.id").
		From("sprocket.user_authentication_account uaa").
		Join(`JOIN sprocket.user u ON u.id = uaa."userId"`).
		Join(`JOIN sprocket.member m ON m."userId" = u.id`).
		Join(`JOIN sprocket.player p ON p."memberId" = m.id`).
		Join(`JOIN sprocket.game_skill_group gsg ON gsg.id = p."skillGroupId"`).
		Join(`JOIN sprocket.game g ON g.id = gsg."gameId"`).
		Where(
			qb.Eq(`uaa."accountType"`, "DISCORD"),
			qb.Eq(`uaa."accountId"`, discordID),
			qb.Eq("g.title", gameTitle),
		).
		Limit(1).
		ToSQL()
}
