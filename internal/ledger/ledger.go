// Package ledger keeps a short per-device history of diagnosis results in
// Redis. Each device gets its own capped list, most recent first.
package ledger

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"modam/internal/cache"
	"modam/internal/models"
)

// MaxEntries caps a device's history. Appending past the cap evicts the
// oldest entry.
const MaxEntries = 20

var ErrNotFound = errors.New("ledger: entry not found")

// Ledger stores and retrieves diagnosis results for a device.
type Ledger interface {
	Append(ctx context.Context, deviceID string, result *models.DiagnosisResult) error
	List(ctx context.Context, deviceID string) ([]*models.DiagnosisResult, error)
	GetByID(ctx context.Context, deviceID, resultID string) (*models.DiagnosisResult, error)
}

type redisLedger struct {
	client *redis.Client
}

func NewLedger(client *redis.Client) Ledger {
	return &redisLedger{client: client}
}

// Append pushes the result to the head of the device's list and trims the
// tail so at most MaxEntries survive.
func (l *redisLedger) Append(ctx context.Context, deviceID string, result *models.DiagnosisResult) error {
	if l.client == nil {
		return errors.New("ledger: redis unavailable")
	}

	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	key := cache.LedgerKey(deviceID)
	pipe := l.client.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, MaxEntries-1)
	_, err = pipe.Exec(ctx)
	return err
}

// List returns the device's history, most recent first.
func (l *redisLedger) List(ctx context.Context, deviceID string) ([]*models.DiagnosisResult, error) {
	if l.client == nil {
		return []*models.DiagnosisResult{}, nil
	}

	raw, err := l.client.LRange(ctx, cache.LedgerKey(deviceID), 0, MaxEntries-1).Result()
	if err != nil {
		return nil, err
	}

	results := make([]*models.DiagnosisResult, 0, len(raw))
	for _, item := range raw {
		var result models.DiagnosisResult
		if err := json.Unmarshal([]byte(item), &result); err != nil {
			// Skip entries written by an incompatible older build.
			continue
		}
		results = append(results, &result)
	}
	return results, nil
}

// GetByID scans the device's history for a single result.
func (l *redisLedger) GetByID(ctx context.Context, deviceID, resultID string) (*models.DiagnosisResult, error) {
	results, err := l.List(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	for _, result := range results {
		if result.ID == resultID {
			return result, nil
		}
	}
	return nil, ErrNotFound
}
