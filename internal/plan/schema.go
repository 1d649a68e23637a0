package plan

import "github.com/planforge/planforge/internal/llm"

// PlanSchema defines the JSON schema for lesson plan generation.
// Subject, grade, and duration are deliberately absent: those are copied
// from the request, and anything the model says about them is ignored.
var PlanSchema = &llm.Schema{
	Name:        "lesson-plan",
	Description: "A classroom lesson plan with objectives, activities, assessments, materials, and differentiation strategies",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "Short descriptive title for the lesson",
			},
			"objectives": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"minItems":    1,
				"maxItems":    ObjectivesMax,
				"description": "Specific, measurable learning objectives, each a complete sentence starting with \"Students will\"",
			},
			"activities": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"minItems":    1,
				"description": "Ordered classroom activities: warm-up, main instruction, practice, closure. Each entry names the activity, its duration, and step-by-step instructions",
			},
			"assessments": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Formative and summative assessment strategies aligned with the objectives",
			},
			"materials": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Materials and supplies needed across all activities",
			},
			"differentiation": map[string]any{
				"type":        "string",
				"description": "One free-text block of differentiation and accommodation strategies for this student group",
			},
		},
		"required":             []any{"title", "objectives", "activities", "assessments", "materials", "differentiation"},
		"additionalProperties": false,
	},
}
