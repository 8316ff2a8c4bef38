package llm

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"

	"github.com/rs/zerolog/log"

	"github.com/E-Waste-Bank-System/ebs-ai/storage"
)

// CachedValidator wraps a Validator with SQLite caching. The same crop with
// the same candidate category always gets the cached verdict, so repeat
// uploads cost nothing.
type CachedValidator struct {
	inner Validator
	store storage.ValidationStore
}

// NewCachedValidator creates a cached validator.
func NewCachedValidator(inner Validator, store storage.ValidationStore) *CachedValidator {
	return &CachedValidator{inner: inner, store: store}
}

// cacheKey hashes the crop bytes together with the candidate category.
// A length prefix separates the parts to prevent boundary collisions.
func cacheKey(crop []byte, candidate string) string {
	h := sha256.New()
	binary.Write(h, binary.LittleEndian, int64(len(crop)))
	h.Write(crop)
	h.Write([]byte(candidate))
	return hex.EncodeToString(h.Sum(nil))
}

// Validate implements Validator with caching. Cache failures are logged and
// treated as misses; only successful verdicts are stored.
func (c *CachedValidator) Validate(ctx context.Context, crop []byte, label, candidate string) (*Result, error) {
	key := cacheKey(crop, candidate)

	if c.store != nil {
		cached, err := c.store.Get(key)
		if err != nil {
			log.Warn().Err(err).Msg("failed to check validation cache")
		} else if cached != nil {
			log.Debug().Str("key", key[:16]).Msg("validation cache hit")
			return &Result{
				Approved:          cached.Approved,
				CorrectedCategory: cached.CorrectedCategory,
				Rationale:         cached.Rationale,
			}, nil
		}
	}

	result, err := c.inner.Validate(ctx, crop, label, candidate)
	if err != nil {
		return nil, err
	}

	if c.store != nil {
		entry := &storage.ValidationEntry{
			Approved:          result.Approved,
			CorrectedCategory: result.CorrectedCategory,
			Rationale:         result.Rationale,
		}
		if err := c.store.Set(key, entry); err != nil {
			log.Warn().Err(err).Msg("failed to cache validation result")
		} else {
			log.Debug().Str("key", key[:16]).Msg("cached validation result")
		}
	}

	return result, nil
}

// AssessCondition implements Validator. Condition depends on the crop alone
// and is cheap relative to validation, so it is passed through uncached.
func (c *CachedValidator) AssessCondition(ctx context.Context, crop []byte, category string) (int, string, error) {
	return c.inner.AssessCondition(ctx, crop, category)
}
