package resources

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/planforge/planforge/internal/logger"
	"github.com/planforge/planforge/internal/plan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLookup struct {
	resources []plan.Resource
	err       error
}

func (f *fakeLookup) Lookup(ctx context.Context, subject, topic string) ([]plan.Resource, error) {
	return f.resources, f.err
}

func testPlan() *plan.Plan {
	return &plan.Plan{
		Subject: "Science",
		Topic:   "Photosynthesis",
	}
}

func TestEnrich(t *testing.T) {
	t.Run("attaches resources", func(t *testing.T) {
		lookup := &fakeLookup{resources: []plan.Resource{
			{Title: "Photosynthesis", Source: "Wikipedia", URL: "https://en.wikipedia.org/wiki/Photosynthesis"},
		}}
		e := NewEnricher(lookup, DefaultMaxResources, logger.Nop())

		p := testPlan()
		e.Enrich(context.Background(), p)
		require.Len(t, p.ExternalResources, 1)
		assert.Equal(t, "Photosynthesis", p.ExternalResources[0].Title)
	})

	t.Run("nil lookup leaves an empty slice", func(t *testing.T) {
		e := NewEnricher(nil, DefaultMaxResources, logger.Nop())

		p := testPlan()
		e.Enrich(context.Background(), p)
		assert.NotNil(t, p.ExternalResources)
		assert.Empty(t, p.ExternalResources)
	})

	t.Run("lookup error swallowed", func(t *testing.T) {
		lookup := &fakeLookup{err: errors.New("boom")}
		e := NewEnricher(lookup, DefaultMaxResources, logger.Nop())

		p := testPlan()
		e.Enrich(context.Background(), p)
		assert.NotNil(t, p.ExternalResources)
		assert.Empty(t, p.ExternalResources)
	})

	t.Run("caps at max", func(t *testing.T) {
		var many []plan.Resource
		for i := 0; i < 10; i++ {
			many = append(many, plan.Resource{
				Title: fmt.Sprintf("Resource %d", i),
				URL:   fmt.Sprintf("https://example.com/%d", i),
			})
		}
		e := NewEnricher(&fakeLookup{resources: many}, 5, logger.Nop())

		p := testPlan()
		e.Enrich(context.Background(), p)
		assert.Len(t, p.ExternalResources, 5)
		assert.Equal(t, "Resource 0", p.ExternalResources[0].Title)
	})

	t.Run("duplicate URLs dropped", func(t *testing.T) {
		lookup := &fakeLookup{resources: []plan.Resource{
			{Title: "First", URL: "https://example.com/page"},
			{Title: "Same page", URL: "https://EXAMPLE.com/page/"},
			{Title: "No URL", URL: ""},
			{Title: "Second", URL: "https://example.com/other"},
		}}
		e := NewEnricher(lookup, DefaultMaxResources, logger.Nop())

		p := testPlan()
		e.Enrich(context.Background(), p)
		require.Len(t, p.ExternalResources, 2)
		assert.Equal(t, "First", p.ExternalResources[0].Title)
		assert.Equal(t, "Second", p.ExternalResources[1].Title)
	})
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		same bool
	}{
		{"case-insensitive host", "https://Example.com/A", "https://example.com/A", true},
		{"trailing slash ignored", "https://example.com/a/", "https://example.com/a", true},
		{"path is case-sensitive", "https://example.com/a", "https://example.com/A", false},
		{"different paths differ", "https://example.com/a", "https://example.com/b", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeURL(tt.a) == normalizeURL(tt.b)
			assert.Equal(t, tt.same, got)
		})
	}
}
