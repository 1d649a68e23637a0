package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/planforge/planforge/internal/llm"
	"github.com/planforge/planforge/internal/logger"
	"github.com/planforge/planforge/internal/plan"
	"github.com/planforge/planforge/internal/resources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var goodPlanJSON = json.RawMessage(`{
	"title": "Understanding Fractions",
	"objectives": ["Students will compare fractions.", "Students will add fractions."],
	"activities": ["Warm-up", "Main activity", "Practice", "Closure"],
	"assessments": ["Exit ticket"],
	"materials": ["Fraction strips"],
	"differentiation": "Tiered worksheets."
}`)

func rawRequest() plan.RawRequest {
	return plan.RawRequest{
		Subject:         "Mathematics",
		GradeLevel:      "5th Grade",
		Topic:           "Fractions",
		DurationMinutes: 45,
		TeachingStyle:   "mixed",
	}
}

func newPipeline(provider llm.Provider, lookup resources.Lookup) *Pipeline {
	return New(provider, lookup, DefaultConfig(), logger.Nop())
}

func TestGenerate(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		mock := llm.NewMockProvider(llm.MockResponse{Content: goodPlanJSON})
		p := newPipeline(mock, nil)

		result, err := p.Generate(context.Background(), rawRequest())
		require.NoError(t, err)
		assert.Equal(t, "Understanding Fractions", result.Title)
		assert.Len(t, result.Activities, 4)
		assert.Len(t, mock.Calls, 1)
	})

	t.Run("request fields carried onto the plan", func(t *testing.T) {
		mock := llm.NewMockProvider(llm.MockResponse{Content: goodPlanJSON})
		p := newPipeline(mock, nil)

		result, err := p.Generate(context.Background(), rawRequest())
		require.NoError(t, err)
		assert.Equal(t, "Mathematics", result.Subject)
		assert.Equal(t, "5th Grade", result.GradeLevel)
		assert.Equal(t, "Fractions", result.Topic)
		assert.Equal(t, 45, result.DurationMinutes)
		assert.Equal(t, "mixed", result.TeachingStyle)
		assert.NotNil(t, result.ExternalResources)
	})

	t.Run("invalid request short-circuits without a model call", func(t *testing.T) {
		mock := llm.NewMockProvider(llm.MockResponse{Content: goodPlanJSON})
		p := newPipeline(mock, nil)

		raw := rawRequest()
		raw.Subject = "Alchemy"
		_, err := p.Generate(context.Background(), raw)

		var perr *Error
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, KindInvalidRequest, perr.Kind)
		assert.Empty(t, mock.Calls)
	})

	t.Run("unparsable output regenerates once then succeeds", func(t *testing.T) {
		mock := llm.NewMockProvider(
			llm.MockResponse{Content: json.RawMessage("no JSON here at all")},
			llm.MockResponse{Content: goodPlanJSON},
		)
		p := newPipeline(mock, nil)

		result, err := p.Generate(context.Background(), rawRequest())
		require.NoError(t, err)
		assert.Equal(t, "Understanding Fractions", result.Title)
		assert.Len(t, mock.Calls, 2)
	})

	t.Run("unparsable output twice is terminal", func(t *testing.T) {
		mock := llm.NewMockProvider(
			llm.MockResponse{Content: json.RawMessage("still not JSON")},
			llm.MockResponse{Content: json.RawMessage(`{"objectives": [], "activities": []}`)},
			llm.MockResponse{Content: goodPlanJSON},
		)
		p := newPipeline(mock, nil)

		_, err := p.Generate(context.Background(), rawRequest())

		var perr *Error
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, KindUnprocessableOutput, perr.Kind)
		assert.Len(t, mock.Calls, 2)
	})

	t.Run("auth failure maps to generation failed", func(t *testing.T) {
		mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrAuthFailed{Err: errors.New("401")}})
		p := newPipeline(mock, nil)

		_, err := p.Generate(context.Background(), rawRequest())

		var perr *Error
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, KindGenerationFailed, perr.Kind)

		var auth *llm.ErrAuthFailed
		assert.ErrorAs(t, err, &auth)
	})

	t.Run("provider unavailable maps to generation failed", func(t *testing.T) {
		mock := llm.NewMockProvider()
		p := newPipeline(mock, nil)

		_, err := p.Generate(context.Background(), rawRequest())

		var perr *Error
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, KindGenerationFailed, perr.Kind)
	})

	t.Run("empty completion counts as unprocessable output", func(t *testing.T) {
		mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrEmptyResponse{}})
		p := newPipeline(mock, nil)

		_, err := p.Generate(context.Background(), rawRequest())

		var perr *Error
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, KindUnprocessableOutput, perr.Kind)
	})

	t.Run("canceled context maps to internal", func(t *testing.T) {
		mock := llm.NewMockProvider(llm.MockResponse{Content: goodPlanJSON})
		p := newPipeline(mock, nil)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := p.Generate(ctx, rawRequest())

		var perr *Error
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, KindInternal, perr.Kind)
	})
}

// stubLookup returns fixed resources or an error for every topic.
type stubLookup struct {
	resources []plan.Resource
	err       error
	delay     time.Duration
}

func (s *stubLookup) Lookup(ctx context.Context, subject, topic string) ([]plan.Resource, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.resources, s.err
}

func TestGenerateEnrichment(t *testing.T) {
	t.Run("resources attached on success", func(t *testing.T) {
		lookup := &stubLookup{resources: []plan.Resource{
			{Title: "Fraction", Description: "Numeric quantity that is not a whole number", Source: "Wikipedia", URL: "https://en.wikipedia.org/wiki/Fraction"},
		}}
		mock := llm.NewMockProvider(llm.MockResponse{Content: goodPlanJSON})
		p := newPipeline(mock, lookup)

		result, err := p.Generate(context.Background(), rawRequest())
		require.NoError(t, err)
		require.Len(t, result.ExternalResources, 1)
		assert.Equal(t, "Wikipedia", result.ExternalResources[0].Source)
	})

	t.Run("lookup failure never demotes a success", func(t *testing.T) {
		lookup := &stubLookup{err: errors.New("network down")}
		mock := llm.NewMockProvider(llm.MockResponse{Content: goodPlanJSON})
		p := newPipeline(mock, lookup)

		result, err := p.Generate(context.Background(), rawRequest())
		require.NoError(t, err)
		assert.NotNil(t, result.ExternalResources)
		assert.Empty(t, result.ExternalResources)
	})
}
