package questions

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"quiz_duel/internal/domain"
	"quiz_duel/internal/game"
	"quiz_duel/internal/logger"
	"quiz_duel/internal/metrics"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "duel:questions:"

// CachedPool cache-aside поверх другого Pool. Ошибки Redis не фатальны:
// запрос уходит в исходный пул
type CachedPool struct {
	next Pool
	rdb  *redis.Client
	ttl  time.Duration
	rnd  game.Rand
}

func NewCachedPool(next Pool, rdb *redis.Client, ttl time.Duration) *CachedPool {
	return &CachedPool{next: next, rdb: rdb, ttl: ttl, rnd: game.CryptoRand{}}
}

func (p *CachedPool) FetchQuestions(ctx context.Context, subjectID string) ([]domain.Question, error) {
	key := cacheKeyPrefix + subjectID

	data, err := p.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var qs []domain.Question
		if jsonErr := json.Unmarshal(data, &qs); jsonErr == nil {
			metrics.PoolCache.WithLabelValues("hit").Inc()
			game.Shuffle(p.rnd, qs)
			return qs, nil
		}
		logger.Warn("CachedPool.FetchQuestions: corrupt cache entry", "subject", subjectID)
	case errors.Is(err, redis.Nil):
	default:
		logger.Warn("CachedPool.FetchQuestions: redis get failed", "subject", subjectID, "error", err)
	}
	metrics.PoolCache.WithLabelValues("miss").Inc()

	qs, err := p.next.FetchQuestions(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(qs); err == nil {
		if err := p.rdb.Set(ctx, key, data, p.ttl).Err(); err != nil {
			logger.Warn("CachedPool.FetchQuestions: redis set failed", "subject", subjectID, "error", err)
		}
	}
	return qs, nil
}

// Invalidate сбрасывает кэш темы
func (p *CachedPool) Invalidate(ctx context.Context, subjectID string) error {
	return p.rdb.Del(ctx, cacheKeyPrefix+subjectID).Err()
}
