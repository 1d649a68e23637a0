package plan

// RawRequest is the unvalidated inbound teaching request as decoded from
// the wire. DurationMinutes stays loosely typed because clients send it as
// either a JSON number or a numeric string.
type RawRequest struct {
	Subject          string `json:"subject"`
	GradeLevel       string `json:"grade_level"`
	Topic            string `json:"topic"`
	DurationMinutes  any    `json:"duration_minutes"`
	TeachingStyle    string `json:"teaching_style"`
	StudentGroupInfo string `json:"student_group_info"`
}

// Request is a validated teaching request. Constructed once per call by
// ValidateRequest and never mutated afterwards.
type Request struct {
	Subject          string `json:"subject"`
	GradeLevel       string `json:"grade_level"`
	Topic            string `json:"topic"`
	DurationMinutes  int    `json:"duration_minutes"`
	TeachingStyle    string `json:"teaching_style"`
	StudentGroupInfo string `json:"student_group_info,omitempty"`
}

// Plan is the structured lesson plan handed back to the caller.
// Subject, GradeLevel, and DurationMinutes always mirror the request —
// the model is never allowed to override them. Sequence fields are never
// nil, so consumers don't branch on presence.
type Plan struct {
	Title             string     `json:"title"`
	Subject           string     `json:"subject"`
	GradeLevel        string     `json:"grade_level"`
	Topic             string     `json:"topic"`
	DurationMinutes   int        `json:"duration_minutes"`
	TeachingStyle     string     `json:"teaching_style"`
	Objectives        []string   `json:"objectives"`
	Activities        []string   `json:"activities"`
	Assessments       []string   `json:"assessments"`
	Materials         []string   `json:"materials"`
	Differentiation   string     `json:"differentiation"`
	ExternalResources []Resource `json:"external_resources"`
}

// Resource is an externally sourced reference link attached to a plan.
type Resource struct {
	Title       string `json:"resource_title"`
	Description string `json:"description"`
	Source      string `json:"source"`
	URL         string `json:"resource_url"`
}

// ObjectivesDisplayCap is the number of objectives the UI shows. The
// pipeline keeps everything up to the schema cap; truncation is a render
// concern.
const ObjectivesDisplayCap = 3

// ObjectivesMax is the most objectives the pipeline accepts from the model.
const ObjectivesMax = 5
