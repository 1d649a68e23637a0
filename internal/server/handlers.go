package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/planforge/planforge/internal/logger"
	"github.com/planforge/planforge/internal/pipeline"
	"github.com/planforge/planforge/internal/plan"
	"github.com/planforge/planforge/internal/resources"
)

type handlers struct {
	pipeline *pipeline.Pipeline
	lookup   resources.Lookup
	log      *logger.Logger
}

func newHandlers(pl *pipeline.Pipeline, lookup resources.Lookup, log *logger.Logger) *handlers {
	return &handlers{pipeline: pl, lookup: lookup, log: log}
}

// errorBody is the stable error envelope for all API failures.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (h *handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "planforge",
	})
}

// GenerateLessonPlan is the single inbound pipeline operation:
// POST /api/generate-lesson-plan.
func (h *handlers) GenerateLessonPlan(c *gin.Context) {
	var raw plan.RawRequest
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: errorDetail{
			Kind:    string(pipeline.KindInvalidRequest),
			Message: "request body is not valid JSON",
		}})
		return
	}

	result, err := h.pipeline.Generate(c.Request.Context(), raw)
	if err != nil {
		h.writePipelineError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

type fetchResourcesRequest struct {
	Subject string `json:"subject"`
	Topic   string `json:"topic"`
}

// FetchExternalResources exposes the enrichment lookup on its own:
// POST /api/fetch-external-resources.
func (h *handlers) FetchExternalResources(c *gin.Context) {
	var req fetchResourcesRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Topic == "" {
		c.JSON(http.StatusBadRequest, errorBody{Error: errorDetail{
			Kind:    string(pipeline.KindInvalidRequest),
			Message: "subject and topic are required",
		}})
		return
	}

	found := []plan.Resource{}
	if h.lookup != nil {
		results, err := h.lookup.Lookup(c.Request.Context(), req.Subject, req.Topic)
		if err != nil {
			h.log.Warn("standalone resource lookup failed", "topic", req.Topic, "error", err)
		} else {
			found = results
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"resources": found,
		"count":     len(found),
	})
}

// writePipelineError maps the pipeline's finite error taxonomy onto
// status codes. Anything not a *pipeline.Error is an internal error.
func (h *handlers) writePipelineError(c *gin.Context, err error) {
	var perr *pipeline.Error
	if !errors.As(err, &perr) {
		h.log.Error("unexpected pipeline error", "error", err)
		c.JSON(http.StatusInternalServerError, errorBody{Error: errorDetail{
			Kind:    string(pipeline.KindInternal),
			Message: "internal error",
		}})
		return
	}

	status := http.StatusInternalServerError
	switch perr.Kind {
	case pipeline.KindInvalidRequest:
		status = http.StatusBadRequest
	case pipeline.KindGenerationFailed, pipeline.KindUnprocessableOutput:
		status = http.StatusBadGateway
	}

	if status >= http.StatusInternalServerError {
		h.log.Error("lesson plan generation failed", "kind", string(perr.Kind), "error", perr)
	} else {
		h.log.Debug("lesson plan request failed", "kind", string(perr.Kind), "error", perr)
	}

	c.JSON(status, errorBody{Error: errorDetail{
		Kind:    string(perr.Kind),
		Message: perr.Message,
	}})
}
