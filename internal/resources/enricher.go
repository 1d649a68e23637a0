package resources

import (
	"context"
	"net/url"
	"strings"

	"github.com/planforge/planforge/internal/logger"
	"github.com/planforge/planforge/internal/plan"
)

// DefaultMaxResources caps how many external resources a plan carries.
const DefaultMaxResources = 5

// Lookup fetches reference links for a subject and topic. Implementations
// must honor ctx cancellation and bound their own timeouts.
type Lookup interface {
	Lookup(ctx context.Context, subject, topic string) ([]plan.Resource, error)
}

// Enricher augments plans with external reference links. It is strictly
// best-effort: lookup failures are logged and the plan proceeds with
// whatever resources were gathered, possibly none.
type Enricher struct {
	lookup Lookup
	max    int
	log    *logger.Logger
}

// NewEnricher creates an Enricher over the given lookup. A nil lookup
// disables enrichment entirely.
func NewEnricher(lookup Lookup, max int, log *logger.Logger) *Enricher {
	if max <= 0 {
		max = DefaultMaxResources
	}
	return &Enricher{lookup: lookup, max: max, log: log}
}

// Enrich appends deduplicated, capped resources to p. It never returns an
// error and never leaves p.ExternalResources nil.
func (e *Enricher) Enrich(ctx context.Context, p *plan.Plan) {
	if p.ExternalResources == nil {
		p.ExternalResources = []plan.Resource{}
	}
	if e.lookup == nil {
		return
	}

	found, err := e.lookup.Lookup(ctx, p.Subject, p.Topic)
	if err != nil {
		if e.log != nil {
			e.log.Warn("resource lookup failed, continuing without resources",
				"subject", p.Subject, "topic", p.Topic, "error", err)
		}
		return
	}

	p.ExternalResources = dedupeResources(append(p.ExternalResources, found...), e.max)
}

// dedupeResources drops entries with duplicate normalized URLs or empty
// URLs, preserving order, and caps the result at max.
func dedupeResources(in []plan.Resource, max int) []plan.Resource {
	seen := make(map[string]bool, len(in))
	out := make([]plan.Resource, 0, len(in))
	for _, r := range in {
		key := normalizeURL(r.URL)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
		if len(out) == max {
			break
		}
	}
	return out
}

// normalizeURL lowercases the scheme and host and strips a trailing slash,
// so http://Example.com/a and http://example.com/a/ compare equal.
func normalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return strings.TrimRight(strings.ToLower(raw), "/")
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Path = strings.TrimRight(u.Path, "/")
	return u.String()
}
