// Package recommend orchestrates snapshot aggregation, prompt building, the
// advice cache and the external model into typed recommendation responses.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/the-spice-must-advise/internal/advice"
	"github.com/Veraticus/the-spice-must-advise/internal/aggregate"
	"github.com/Veraticus/the-spice-must-advise/internal/common"
	"github.com/Veraticus/the-spice-must-advise/internal/llm"
	"github.com/Veraticus/the-spice-must-advise/internal/model"
	"github.com/Veraticus/the-spice-must-advise/internal/observability/metrics"
	"github.com/Veraticus/the-spice-must-advise/internal/prompt"
)

// DefaultModelTimeout bounds a single model call.
const DefaultModelTimeout = 60 * time.Second

// Aggregator produces financial snapshots.
type Aggregator interface {
	Aggregate(ctx context.Context, scope model.Scope) (*aggregate.Snapshot, error)
}

// PromptBuilder renders snapshots into prompts.
type PromptBuilder interface {
	Build(recType model.RecommendationType, snap *aggregate.Snapshot, opts prompt.Options) (*prompt.Prompt, error)
	BuildCustom(snap *aggregate.Snapshot, opts prompt.CustomOptions) (*prompt.Prompt, error)
}

// AdviceCache stores generated advice.
type AdviceCache interface {
	GetOrCompute(ctx context.Context, recType model.RecommendationType, snap *aggregate.Snapshot, compute advice.ComputeFunc) (advice.Advice, bool, error)
	Invalidate(recType model.RecommendationType) int
	Clear()
	Stats() advice.Stats
}

// Deps contains all dependencies required by the service.
type Deps struct {
	// Aggregator builds snapshots from the record store.
	Aggregator Aggregator
	// Prompts renders snapshots into prompts.
	Prompts PromptBuilder
	// Model is the external advice model.
	Model llm.Client
	// Cache stores generated advice.
	Cache AdviceCache
	// Metrics is optional.
	Metrics *metrics.Recorder
	// Logger is optional; slog.Default is used when nil.
	Logger *slog.Logger
}

// Validate ensures all required dependencies are provided.
func (d *Deps) Validate() error {
	if d.Aggregator == nil {
		return fmt.Errorf("aggregator dependency is required")
	}
	if d.Prompts == nil {
		return fmt.Errorf("prompt builder dependency is required")
	}
	if d.Model == nil {
		return fmt.Errorf("model dependency is required")
	}
	if d.Cache == nil {
		return fmt.Errorf("advice cache dependency is required")
	}
	return nil
}

// Config holds tunables for the service.
type Config struct {
	Params       llm.Params
	Prompt       prompt.Options
	ModelTimeout time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Params:       llm.DefaultParams(),
		Prompt:       prompt.DefaultOptions(),
		ModelTimeout: DefaultModelTimeout,
	}
}

// Service produces recommendations. It never returns Go errors from its
// request methods; failures are reported in the response.
type Service struct {
	deps   Deps
	logger *slog.Logger
	now    func() time.Time
	cfg    Config
}

// NewService creates a service with the provided dependencies.
func NewService(deps Deps, cfg Config) (*Service, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dependencies: %w", err)
	}
	if cfg.ModelTimeout <= 0 {
		cfg.ModelTimeout = DefaultModelTimeout
	}
	if cfg.Params == (llm.Params{}) {
		cfg.Params = llm.DefaultParams()
	}
	return &Service{
		deps:   deps,
		cfg:    cfg,
		logger: common.LoggerOrDefault(deps.Logger),
		now:    time.Now,
	}, nil
}

// General returns overall financial advice.
func (s *Service) General(ctx context.Context, scope model.Scope) Response {
	return s.Recommend(ctx, scope, model.RecommendationGeneral)
}

// Budget returns budgeting advice.
func (s *Service) Budget(ctx context.Context, scope model.Scope) Response {
	return s.Recommend(ctx, scope, model.RecommendationBudget)
}

// Investment returns investment advice.
func (s *Service) Investment(ctx context.Context, scope model.Scope) Response {
	return s.Recommend(ctx, scope, model.RecommendationInvestment)
}

// Debt returns debt reduction advice.
func (s *Service) Debt(ctx context.Context, scope model.Scope) Response {
	return s.Recommend(ctx, scope, model.RecommendationDebt)
}

// Credit returns credit health advice.
func (s *Service) Credit(ctx context.Context, scope model.Scope) Response {
	return s.Recommend(ctx, scope, model.RecommendationCredit)
}

// Recommend aggregates the scope's records and returns advice of one type,
// served from the cache when the snapshot is unchanged.
func (s *Service) Recommend(ctx context.Context, scope model.Scope, recType model.RecommendationType) Response {
	log := s.requestLogger(scope).With("type", recType)

	if !recType.Valid() {
		log.Warn("unknown recommendation type")
		return Response{
			Error:   ErrorInvalidType,
			Message: fmt.Sprintf("Unknown recommendation type %q", recType),
		}
	}

	snap, err := s.aggregate(ctx, scope)
	if err != nil {
		return s.fail(log, recType, err)
	}

	return s.fromSnapshot(ctx, log, recType, snap)
}

// Custom builds an ad hoc prompt from caller-supplied focus areas. Custom
// advice bypasses the cache because its key would not include the focus areas.
func (s *Service) Custom(ctx context.Context, scope model.Scope, opts prompt.CustomOptions) Response {
	const recType = model.RecommendationType("custom")
	log := s.requestLogger(scope).With("type", recType)

	snap, err := s.aggregate(ctx, scope)
	if err != nil {
		return s.fail(log, recType, err)
	}

	if opts.Options == (prompt.Options{}) {
		opts.Options = s.cfg.Prompt
	}
	p, err := s.deps.Prompts.BuildCustom(snap, opts)
	if err != nil {
		return s.fail(log, recType, err)
	}

	adv, err := s.invoke(ctx, recType, p)
	if err != nil {
		return s.fail(log, recType, err)
	}

	s.deps.Metrics.ObserveRecommendation(string(recType), nil)
	return s.success(recType, snap, adv, false)
}

// Summary returns the snapshot alone. It never touches the prompt builder,
// the model or the cache.
func (s *Service) Summary(ctx context.Context, scope model.Scope) SummaryResponse {
	log := s.requestLogger(scope)

	snap, err := s.aggregate(ctx, scope)
	if err != nil {
		code, msg := classify(err)
		log.Error("summary failed", "error", err, "code", code)
		return SummaryResponse{Error: code, Message: msg}
	}

	return SummaryResponse{Success: true, Data: snap}
}

// CacheStats reports advice cache statistics.
func (s *Service) CacheStats() advice.Stats {
	return s.deps.Cache.Stats()
}

// ClearCache removes every cached recommendation.
func (s *Service) ClearCache() {
	s.deps.Cache.Clear()
	s.logger.Info("advice cache cleared")
}

// ClearCacheByType removes the cached recommendations of one type.
func (s *Service) ClearCacheByType(recType model.RecommendationType) (int, error) {
	if !recType.Valid() {
		return 0, fmt.Errorf("unknown recommendation type %q", recType)
	}
	removed := s.deps.Cache.Invalidate(recType)
	s.logger.Info("advice cache cleared", "type", recType, "removed", removed)
	return removed, nil
}

func (s *Service) requestLogger(scope model.Scope) *slog.Logger {
	return s.logger.With("request_id", uuid.NewString(), "scope", scope.String())
}

func (s *Service) aggregate(ctx context.Context, scope model.Scope) (*aggregate.Snapshot, error) {
	start := time.Now()
	snap, err := s.deps.Aggregator.Aggregate(ctx, scope)
	s.deps.Metrics.ObserveAggregation(time.Since(start), err)
	return snap, err
}

func (s *Service) fromSnapshot(ctx context.Context, log *slog.Logger, recType model.RecommendationType, snap *aggregate.Snapshot) Response {
	adv, fromCache, err := s.deps.Cache.GetOrCompute(ctx, recType, snap, func(ctx context.Context) (advice.Advice, error) {
		p, err := s.deps.Prompts.Build(recType, snap, s.cfg.Prompt)
		if err != nil {
			return advice.Advice{}, err
		}
		return s.invoke(ctx, recType, p)
	})
	s.deps.Metrics.ObserveCacheLookup(string(recType), fromCache)
	if err != nil {
		return s.fail(log, recType, err)
	}

	log.Info("recommendation ready", "from_cache", fromCache, "model", adv.ModelID)
	s.deps.Metrics.ObserveRecommendation(string(recType), nil)
	return s.success(recType, snap, adv, fromCache)
}

func (s *Service) invoke(ctx context.Context, recType model.RecommendationType, p *prompt.Prompt) (advice.Advice, error) {
	s.deps.Metrics.ObservePrompt(string(recType), p.Stats.EstimatedTokens)

	ctx, cancel := context.WithTimeout(ctx, s.cfg.ModelTimeout)
	defer cancel()

	start := time.Now()
	completion, err := s.deps.Model.Invoke(ctx, p.Text, s.cfg.Params)
	s.deps.Metrics.ObserveModelCall(string(recType), time.Since(start), err)
	if err != nil {
		var modelErr *common.ModelError
		if !errors.As(err, &modelErr) {
			err = &common.ModelError{Provider: "model", Err: err}
		}
		return advice.Advice{}, err
	}

	return advice.Advice{
		Content:     completion.Content,
		ModelID:     completion.ModelID,
		GeneratedAt: s.now(),
	}, nil
}

func (s *Service) success(recType model.RecommendationType, snap *aggregate.Snapshot, adv advice.Advice, fromCache bool) Response {
	return Response{
		Success: true,
		Data: &RecommendationData{
			Type:             recType,
			Recommendations:  adv.Content,
			Metrics:          metricsFor(recType, snap),
			FinancialSummary: summarize(snap),
			Insights:         snap.Insights,
			GeneratedAt:      adv.GeneratedAt,
			Model:            adv.ModelID,
			FromCache:        fromCache,
		},
	}
}

func (s *Service) fail(log *slog.Logger, recType model.RecommendationType, err error) Response {
	code, msg := classify(err)
	log.Error("recommendation failed", "error", err, "code", code)
	s.deps.Metrics.ObserveRecommendation(string(recType), err)
	return Response{Error: code, Message: msg}
}

// classify maps an internal error to a code and a non-technical message.
func classify(err error) (ErrorCode, string) {
	var (
		dataErr       *common.DataError
		validationErr *common.ValidationError
		modelErr      *common.ModelError
	)

	switch {
	case errors.As(err, &dataErr):
		return ErrorDataUnavailable, UnavailableMessage
	case errors.As(err, &validationErr):
		return ErrorInvalidPrompt, "The financial data could not be turned into a valid request"
	case errors.Is(err, context.DeadlineExceeded):
		return ErrorTimeout, "The advice service took too long to respond"
	case errors.Is(err, context.Canceled):
		return ErrorCanceled, "The request was canceled"
	case errors.As(err, &modelErr):
		return ErrorModelUnavailable, UnavailableMessage
	default:
		return ErrorInternal, UnavailableMessage
	}
}
