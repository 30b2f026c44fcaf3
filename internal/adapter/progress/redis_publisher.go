package progress

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/grammate-io/grammate-api/internal/domain/entity"
)

const (
	// SnapshotKey is the Redis key holding the latest progress snapshot
	SnapshotKey = "grammate:progress"

	// LatestResultKey is the Redis key holding the most recent item result
	LatestResultKey = "grammate:latest_result"

	snapshotTTL = time.Hour
	publishWait = 2 * time.Second
)

// RedisPublisher mirrors progress snapshots into Redis so dashboards and
// sidecars can observe a running batch without hitting the API. Publish
// failures are logged and dropped; observation must never slow the run.
type RedisPublisher struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisPublisher creates a new Redis progress publisher
func NewRedisPublisher(client *redis.Client, logger *zap.Logger) *RedisPublisher {
	return &RedisPublisher{client: client, logger: logger}
}

// OnProgress implements usecase.Observer
func (p *RedisPublisher) OnProgress(snapshot entity.ProgressSnapshot, latest *entity.AnalysisResult) {
	p.publish(snapshot)

	payload, err := json.Marshal(latest)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishWait)
	defer cancel()
	if err := p.client.Set(ctx, LatestResultKey, payload, snapshotTTL).Err(); err != nil {
		p.logger.Debug("failed to publish latest result", zap.Error(err))
	}
}

// OnComplete implements usecase.Observer
func (p *RedisPublisher) OnComplete(snapshot entity.ProgressSnapshot) {
	p.publish(snapshot)
}

func (p *RedisPublisher) publish(snapshot entity.ProgressSnapshot) {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishWait)
	defer cancel()
	if err := p.client.Set(ctx, SnapshotKey, payload, snapshotTTL).Err(); err != nil {
		p.logger.Debug("failed to publish progress snapshot", zap.Error(err))
	}
}
