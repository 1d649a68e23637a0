package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/planforge/planforge/internal/logger"
	"github.com/planforge/planforge/internal/store"
)

// AuditProvider is a decorator that records every LLM request in the
// audit log and emits a structured log line.
type AuditProvider struct {
	inner Provider
	audit store.AuditLog
	log   *logger.Logger
}

// WithAudit wraps a Provider with audit logging. Either audit or log may be
// nil to disable that sink.
func WithAudit(p Provider, audit store.AuditLog, log *logger.Logger) Provider {
	return &AuditProvider{inner: p, audit: audit, log: log}
}

func (a *AuditProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := a.inner.Generate(ctx, req)

	latencyMs := time.Since(start).Milliseconds()

	data := store.LLMRequestEventData{
		Provider:    a.inner.ModelID(),
		Model:       a.inner.ModelID(),
		Purpose:     purpose,
		LatencyMs:   latencyMs,
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}

	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		data.Model = resp.Model
		data.ResponseBody = string(resp.Content)
	}

	if err != nil {
		data.ErrorMessage = err.Error()
	}

	if a.log != nil {
		if err != nil {
			a.log.Warn("llm request failed",
				"purpose", purpose, "model", data.Model, "latency_ms", latencyMs, "error", err)
		} else {
			a.log.Debug("llm request",
				"purpose", purpose, "model", data.Model, "latency_ms", latencyMs,
				"input_tokens", data.InputTokens, "output_tokens", data.OutputTokens)
		}
	}

	// Record the event but don't fail the request if the write fails.
	if a.audit != nil {
		if logErr := a.audit.AppendLLMRequest(ctx, data); logErr != nil && a.log != nil {
			a.log.Warn("failed to record LLM request event", "error", logErr)
		}
	}

	return resp, err
}

func (a *AuditProvider) ModelID() string {
	return a.inner.ModelID()
}

// serializeRequest builds a readable representation of the LLM request.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	for _, m := range req.Messages {
		b.WriteString(fmt.Sprintf("[%s]\n", m.Role))
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}

	if req.Schema != nil {
		schemaDef, err := json.Marshal(req.Schema.Definition)
		if err == nil {
			b.WriteString(fmt.Sprintf("[schema: %s]\n", req.Schema.Name))
			b.WriteString(string(schemaDef))
			b.WriteString("\n")
		}
	}

	return b.String()
}
