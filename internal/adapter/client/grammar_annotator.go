package client

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/grammate-io/grammate-api/internal/domain/entity"
	"github.com/grammate-io/grammate-api/internal/domain/service"
	"github.com/grammate-io/grammate-api/internal/infrastructure/metrics"
)

const (
	// DefaultMaxAttempts is the retry cap for transient service errors
	DefaultMaxAttempts = 5

	// DefaultBackoffBase is the base wait before the first retry
	DefaultBackoffBase = 2 * time.Second

	// DefaultJitterMax bounds the random jitter added to each backoff
	DefaultJitterMax = time.Second
)

// RetryPolicy controls how the annotator retries transient failures.
// Wait before retry n is base * 2^n plus random jitter in [0, JitterMax).
type RetryPolicy struct {
	MaxAttempts int
	BackoffBase time.Duration
	JitterMax   time.Duration
}

// DefaultRetryPolicy returns the production retry policy
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: DefaultMaxAttempts,
		BackoffBase: DefaultBackoffBase,
		JitterMax:   DefaultJitterMax,
	}
}

// GrammarAnnotator adapts GrammarClient to the Annotator interface,
// owning retry with exponential backoff for transient service errors.
type GrammarAnnotator struct {
	client *GrammarClient
	policy RetryPolicy
	logger *zap.Logger
}

// NewGrammarAnnotator creates a new GrammarAnnotator
func NewGrammarAnnotator(client *GrammarClient, policy RetryPolicy, logger *zap.Logger) service.Annotator {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = DefaultMaxAttempts
	}
	if policy.BackoffBase <= 0 {
		policy.BackoffBase = DefaultBackoffBase
	}
	return &GrammarAnnotator{
		client: client,
		policy: policy,
		logger: logger,
	}
}

// Annotate submits one text, retrying rate-limit and overload responses up
// to the attempt cap. Any other failure surfaces immediately as fatal.
func (a *GrammarAnnotator) Annotate(ctx context.Context, text string) (*entity.AnalysisResult, error) {
	requestID := uuid.New().String()

	var lastErr *service.RetryableError
	for attempt := 0; attempt < a.policy.MaxAttempts; attempt++ {
		if attempt > 0 {
			metrics.AnnotatorRetries.Inc()
			wait := a.backoff(attempt - 1)
			a.logger.Warn("annotation service busy, backing off",
				zap.Int("attempt", attempt),
				zap.Duration("wait", wait),
				zap.String("request_id", requestID),
			)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, &service.FatalError{Err: ctx.Err()}
			}
		}

		resp, err := a.client.Annotate(ctx, text, requestID)
		if err != nil {
			var statusErr *StatusError
			if errors.As(err, &statusErr) && isRetryableStatus(statusErr.StatusCode) {
				lastErr = &service.RetryableError{StatusCode: statusErr.StatusCode, Err: err}
				continue
			}
			return nil, &service.FatalError{Err: err}
		}

		return a.toResult(text, resp), nil
	}

	return nil, &service.FatalError{
		Err: fmt.Errorf("retries exhausted after %d attempts: %w", a.policy.MaxAttempts, lastErr),
	}
}

func (a *GrammarAnnotator) backoff(retry int) time.Duration {
	wait := a.policy.BackoffBase * (1 << retry)
	if a.policy.JitterMax > 0 {
		wait += time.Duration(rand.Int63n(int64(a.policy.JitterMax)))
	}
	return wait
}

func (a *GrammarAnnotator) toResult(text string, resp *AnnotateResponse) *entity.AnalysisResult {
	annotations := make([]entity.AnnotationSpan, len(resp.Annotations))
	for i, p := range resp.Annotations {
		annotations[i] = entity.AnnotationSpan{
			OriginalSpan:  p.OriginalSpan,
			CorrectedSpan: p.CorrectedSpan,
			StartIndex:    p.StartIndex,
			EndIndex:      p.EndIndex,
			ErrorCode:     p.ErrorCode,
			MacroCode:     p.MacroCode,
			Explanation:   p.Explanation,
		}
	}

	result := &entity.AnalysisResult{
		OriginalText:  text,
		CorrectedText: resp.CorrectedText,
		Annotations:   annotations,
	}

	if dropped := result.NormalizeAnnotations(); dropped > 0 {
		a.logger.Warn("dropped out-of-bounds annotation spans",
			zap.Int("dropped", dropped),
			zap.Int("kept", len(result.Annotations)),
		)
	}

	return result
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
}
