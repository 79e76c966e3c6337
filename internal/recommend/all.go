package recommend

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/the-spice-must-advise/internal/model"
)

// ProgressCallback is called once per finished recommendation type.
type ProgressCallback func(recType model.RecommendationType, resp Response)

type allOptions struct {
	progress    ProgressCallback
	concurrency int
}

// AllOption configures All.
type AllOption func(*allOptions)

// WithProgress reports each type as it completes. Calls are serialized.
func WithProgress(cb ProgressCallback) AllOption {
	return func(o *allOptions) {
		o.progress = cb
	}
}

// WithConcurrency caps the number of concurrent model requests. Zero means unbounded.
func WithConcurrency(n int) AllOption {
	return func(o *allOptions) {
		o.concurrency = n
	}
}

// All aggregates once and requests every recommendation type concurrently.
// A failing type never fails its siblings.
func (s *Service) All(ctx context.Context, scope model.Scope, opts ...AllOption) AllResponse {
	var o allOptions
	for _, opt := range opts {
		opt(&o)
	}

	types := model.AllRecommendationTypes()
	log := s.requestLogger(scope).With("fan_out", len(types))

	result := AllResponse{
		Results: make(map[model.RecommendationType]Response, len(types)),
	}

	var mu sync.Mutex
	record := func(t model.RecommendationType, resp Response) {
		mu.Lock()
		defer mu.Unlock()
		result.Results[t] = resp
		if resp.Success {
			result.Succeeded++
		} else {
			result.Failed++
		}
		if o.progress != nil {
			o.progress(t, resp)
		}
	}

	snap, err := s.aggregate(ctx, scope)
	if err != nil {
		for _, t := range types {
			record(t, s.fail(log.With("type", t), t, err))
		}
		result.GeneratedAt = s.now()
		return result
	}

	// Branches report failures in their Response, so the group never sees an error.
	var g errgroup.Group
	if o.concurrency > 0 {
		g.SetLimit(o.concurrency)
	}
	for _, t := range types {
		g.Go(func() error {
			record(t, s.fromSnapshot(ctx, log.With("type", t), t, snap))
			return nil
		})
	}
	_ = g.Wait()

	result.Success = result.Failed == 0
	result.GeneratedAt = s.now()
	log.Info("all recommendations finished", "succeeded", result.Succeeded, "failed", result.Failed)
	return result
}
