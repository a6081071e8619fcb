package service

import (
	"context"
	"html"
	"math"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/noah-isme/hire-go-api/internal/observability"
)

// EventPublisher emits domain events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, data interface{}) error
}

// ResultsInvalidator drops cached result views derived from a job's applications.
type ResultsInvalidator interface {
	Invalidate(ctx context.Context, jobID uint)
}

// ScoreWeights blends automatic and manual scores into a total score.
type ScoreWeights struct {
	Auto   float64
	Manual float64
}

// DefaultScoreWeights favours the recruiter's judgement over the automatic score.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{Auto: 0.4, Manual: 0.6}
}

// Normalized rescales the weights so they sum to one.
func (w ScoreWeights) Normalized() ScoreWeights {
	if w.Auto < 0 || w.Manual < 0 || w.Auto+w.Manual <= 0 {
		return DefaultScoreWeights()
	}
	sum := w.Auto + w.Manual
	return ScoreWeights{Auto: w.Auto / sum, Manual: w.Manual / sum}
}

// Blend returns the total score rounded to one decimal. Without a manual score the automatic
// score stands alone.
func (w ScoreWeights) Blend(autoScore int, manualScore *int) float64 {
	if manualScore == nil {
		return float64(autoScore)
	}
	n := w.Normalized()
	total := n.Auto*float64(autoScore) + n.Manual*float64(*manualScore)
	return math.Round(total*10) / 10
}

func publishEvent(ctx context.Context, publisher EventPublisher, logger zerolog.Logger, eventType string, data interface{}) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, eventType, data); err != nil {
		observability.EventsPublished().WithLabelValues(eventType, "error").Inc()
		logger.Warn().Err(err).Str("event", eventType).Msg("failed to publish event")
		return
	}
	observability.EventsPublished().WithLabelValues(eventType, "published").Inc()
}

func invalidateJobs(ctx context.Context, results ResultsInvalidator, jobIDs ...uint) {
	if results == nil {
		return
	}
	for _, jobID := range uniqueIDs(jobIDs) {
		results.Invalidate(ctx, jobID)
	}
}

// sanitizeText strips markup from free text while keeping plain punctuation readable.
func sanitizeText(policy *bluemonday.Policy, input string) string {
	return strings.TrimSpace(html.UnescapeString(policy.Sanitize(input)))
}

// uniqueIDs returns the non-zero ids in ascending order without duplicates.
func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	result := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}
