package plan

import (
	"fmt"
	"strings"

	"github.com/planforge/planforge/internal/llm"
)

// PromptSpec is the fully composed generation instruction: the system
// prompt, one user message, the response schema, and the token budget.
// ComposePrompt is deterministic, so a PromptSpec is cacheable by request.
type PromptSpec struct {
	System    string
	User      string
	Schema    *llm.Schema
	MaxTokens int
}

const planSystemPrompt = `You are an experienced curriculum designer who writes practical, classroom-ready lesson plans for K-12 teachers. You respond only with the requested structured data, never with commentary.`

// ComposePrompt builds the generation instruction for a validated request.
// Same request, byte-identical prompt: no timestamps, no randomness.
func ComposePrompt(req Request) PromptSpec {
	return PromptSpec{
		System:    planSystemPrompt,
		User:      buildPlanUserMessage(req),
		Schema:    PlanSchema,
		MaxTokens: maxTokensFor(req.DurationMinutes),
	}
}

func buildPlanUserMessage(req Request) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Subject: %s\n", req.Subject))
	b.WriteString(fmt.Sprintf("Grade Level: %s\n", req.GradeLevel))
	b.WriteString(fmt.Sprintf("Topic: %s\n", req.Topic))
	b.WriteString(fmt.Sprintf("Duration: %d minutes\n", req.DurationMinutes))
	b.WriteString(fmt.Sprintf("Teaching Style: %s\n", req.TeachingStyle))

	if req.StudentGroupInfo != "" {
		b.WriteString("\nStudent Group Information:\n")
		b.WriteString(req.StudentGroupInfo)
		b.WriteString(`

When creating objectives, activities, and assessments, address the specific needs above: include appropriate accommodations, use clear simple language where English learners are present, provide multiple ways to engage and to demonstrate learning, and differentiate for different ability levels.`)
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf(`
Instructions:
Create a complete lesson plan that:
1. Defines 3-5 distinct, measurable learning objectives with varied action verbs, each a complete sentence starting with "Students will".
2. Sequences exactly 4 activities in this order: a warm-up (5-10 minutes), a main instructional activity, a practice/application activity, and a closure activity (5 minutes). For each activity give a title, its duration, and numbered step-by-step instructions. Durations must sum to the %d-minute lesson.
3. Designs a formative assessment for use during the lesson and a summative assessment for the end of the lesson, each with clear evaluation criteria.
4. Lists every material the activities need.
5. Describes differentiation strategies as one free-text block suited to the grade level and the student group.
Match the activities to the %s teaching style. Use plain text only: no HTML, no markdown formatting.`,
		req.DurationMinutes, req.TeachingStyle))

	return b.String()
}

// maxTokensFor scales the response token budget with lesson length: longer
// lessons carry more activity detail.
func maxTokensFor(durationMinutes int) int {
	switch {
	case durationMinutes <= 45:
		return 2048
	case durationMinutes <= 90:
		return 3072
	default:
		return 4096
	}
}
