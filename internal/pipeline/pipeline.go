package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/planforge/planforge/internal/llm"
	"github.com/planforge/planforge/internal/logger"
	"github.com/planforge/planforge/internal/plan"
	"github.com/planforge/planforge/internal/resources"
)

// Config bounds the pipeline's latency and retry budget.
type Config struct {
	// GenerateTimeout caps one generation attempt, including the client's
	// own transient-error retries. Default: 30s.
	GenerateTimeout time.Duration

	// MaxRegenerations is how many times a fatal parse failure re-enters
	// generation with the same prompt. Default: 1.
	MaxRegenerations int

	// Temperature for generation.
	Temperature float64
}

// DefaultConfig returns the standard pipeline bounds.
func DefaultConfig() Config {
	return Config{
		GenerateTimeout:  30 * time.Second,
		MaxRegenerations: 1,
		Temperature:      0.7,
	}
}

// state is the orchestrator's position in the pipeline. Transitions only
// move forward, except for the single bounded Parsing→Generating re-entry.
type state int

const (
	stateValidating state = iota
	stateComposing
	stateGenerating
	stateParsing
	stateEnriching
	stateDone
)

// Pipeline turns a raw teaching request into a lesson plan. It holds no
// per-request state, so one shared instance serves concurrent requests.
type Pipeline struct {
	provider llm.Provider
	enricher *resources.Enricher
	cfg      Config
	log      *logger.Logger
}

// New creates a Pipeline. A nil lookup disables enrichment.
func New(provider llm.Provider, lookup resources.Lookup, cfg Config, log *logger.Logger) *Pipeline {
	if cfg.GenerateTimeout <= 0 {
		cfg.GenerateTimeout = 30 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Pipeline{
		provider: provider,
		enricher: resources.NewEnricher(lookup, resources.DefaultMaxResources, log),
		cfg:      cfg,
		log:      log,
	}
}

// Generate runs the full pipeline. On success it returns a complete,
// enriched plan; on failure it returns a *pipeline.Error and never a
// partial plan. Enrichment failures never demote a success.
func (p *Pipeline) Generate(ctx context.Context, raw plan.RawRequest) (*plan.Plan, error) {
	var (
		req     plan.Request
		prompt  plan.PromptSpec
		output  *llm.Response
		result  *plan.Plan
		regens  int
		current = stateValidating
	)

	for current != stateDone {
		select {
		case <-ctx.Done():
			return nil, &Error{Kind: KindInternal, Message: "request canceled", Err: ctx.Err()}
		default:
		}

		switch current {
		case stateValidating:
			validated, err := plan.ValidateRequest(raw)
			if err != nil {
				return nil, &Error{Kind: KindInvalidRequest, Message: "request rejected", Err: err}
			}
			req = validated
			current = stateComposing

		case stateComposing:
			prompt = plan.ComposePrompt(req)
			current = stateGenerating

		case stateGenerating:
			resp, err := p.generate(ctx, prompt)
			if err != nil {
				return nil, p.classifyGenerateError(err)
			}
			output = resp
			current = stateParsing

		case stateParsing:
			parsed, err := plan.ParsePlan(output.Content, req)
			if err != nil {
				var perr *plan.ParseError
				if errors.As(err, &perr) && regens < p.cfg.MaxRegenerations {
					regens++
					p.log.Warn("plan parse failed, regenerating",
						"kind", string(perr.Kind), "attempt", regens)
					current = stateGenerating
					continue
				}
				return nil, &Error{Kind: KindUnprocessableOutput, Message: "could not extract a valid plan from model output", Err: err}
			}
			result = parsed
			current = stateEnriching

		case stateEnriching:
			p.enricher.Enrich(ctx, result)
			current = stateDone
		}
	}

	return result, nil
}

func (p *Pipeline) generate(ctx context.Context, prompt plan.PromptSpec) (*llm.Response, error) {
	ctx = llm.WithPurpose(ctx, "lesson-plan")
	ctx, cancel := context.WithTimeout(ctx, p.cfg.GenerateTimeout)
	defer cancel()

	return p.provider.Generate(ctx, llm.Request{
		System: prompt.System,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: prompt.User},
		},
		Schema:      prompt.Schema,
		MaxTokens:   prompt.MaxTokens,
		Temperature: p.cfg.Temperature,
	})
}

// classifyGenerateError folds the client's error taxonomy into the
// caller-facing kinds. Schema-invalid and empty completions count as
// unprocessable output rather than transport failure.
func (p *Pipeline) classifyGenerateError(err error) *Error {
	var invalid *llm.ErrInvalidResponse
	if errors.As(err, &invalid) {
		return &Error{Kind: KindUnprocessableOutput, Message: "model output did not match the plan schema", Err: err}
	}
	var empty *llm.ErrEmptyResponse
	if errors.As(err, &empty) {
		return &Error{Kind: KindUnprocessableOutput, Message: "model returned no content", Err: err}
	}

	var auth *llm.ErrAuthFailed
	var unavail *llm.ErrProviderUnavailable
	var rate *llm.ErrRateLimit
	var maxTok *llm.ErrMaxTokensExceeded
	if errors.As(err, &auth) || errors.As(err, &unavail) || errors.As(err, &rate) || errors.As(err, &maxTok) ||
		errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindGenerationFailed, Message: "generation client failed", Err: err}
	}

	if errors.Is(err, context.Canceled) {
		return &Error{Kind: KindInternal, Message: "request canceled", Err: err}
	}

	return &Error{Kind: KindGenerationFailed, Message: "generation client failed", Err: err}
}
