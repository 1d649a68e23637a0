package plan

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ParseKind classifies fatal parse failures.
type ParseKind string

const (
	// ParseEmpty: the model returned no content at all.
	ParseEmpty ParseKind = "empty"
	// ParseMalformed: no decodable JSON object found in the output.
	ParseMalformed ParseKind = "malformed_structure"
	// ParseMissingField: decoding succeeded but a required field coerced
	// to nothing.
	ParseMissingField ParseKind = "missing_required_field"
)

// ParseError is a fatal parse failure. The orchestrator decides whether to
// regenerate; the parser never re-invokes the client.
type ParseError struct {
	Kind    ParseKind
	Field   string
	Message string
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("parse lesson plan (%s): %s: %s", e.Kind, e.Field, e.Message)
	}
	return fmt.Sprintf("parse lesson plan (%s): %s", e.Kind, e.Message)
}

// ParsePlan extracts a Plan from raw model output for the given request.
// It tries direct decoding first, then falls back to the largest decodable
// JSON object embedded in the text (models sometimes wrap their output in
// prose or markdown fencing). Field coercion is applied per field, so one
// oddly shaped field never fails the whole plan; only missing objectives
// or activities are fatal.
//
// Subject, grade level, and duration in the output are ignored even when
// present: the plan always carries the request's values.
func ParsePlan(raw json.RawMessage, req Request) (*Plan, error) {
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return nil, &ParseError{Kind: ParseEmpty, Message: "model returned no content"}
	}

	fields, err := decodeObject(text)
	if err != nil {
		return nil, err
	}

	p := &Plan{
		Subject:           req.Subject,
		GradeLevel:        req.GradeLevel,
		Topic:             req.Topic,
		DurationMinutes:   req.DurationMinutes,
		TeachingStyle:     req.TeachingStyle,
		Objectives:        coerceStringList(fields["objectives"]),
		Activities:        coerceStringList(fields["activities"]),
		Assessments:       coerceStringList(fields["assessments"]),
		Materials:         coerceStringList(fields["materials"]),
		Differentiation:   coerceText(fields["differentiation"]),
		ExternalResources: []Resource{},
	}

	p.Title = coerceText(fields["title"])
	if p.Title == "" {
		p.Title = fmt.Sprintf("%s - %s", req.Subject, req.Topic)
	}

	if len(p.Objectives) == 0 {
		return nil, &ParseError{Kind: ParseMissingField, Field: "objectives", Message: "no objectives after coercion"}
	}
	if len(p.Activities) == 0 {
		return nil, &ParseError{Kind: ParseMissingField, Field: "activities", Message: "no activities after coercion"}
	}

	if len(p.Materials) == 0 {
		p.Materials = []string{"Standard classroom materials"}
	}

	return p, nil
}

// decodeObject decodes text as a JSON object, recovering the largest
// balanced object substring when the text is not bare JSON.
func decodeObject(text string) (map[string]any, error) {
	var fields map[string]any
	if err := json.Unmarshal([]byte(text), &fields); err == nil {
		return fields, nil
	}

	candidate := largestJSONObject(text)
	if candidate == "" {
		return nil, &ParseError{Kind: ParseMalformed, Message: "no JSON object found in model output"}
	}
	if err := json.Unmarshal([]byte(candidate), &fields); err != nil {
		return nil, &ParseError{Kind: ParseMalformed, Message: err.Error()}
	}
	return fields, nil
}

// largestJSONObject returns the longest well-formed JSON object substring
// of s, or "" if none exists. Brace matching skips braces inside JSON
// strings.
func largestJSONObject(s string) string {
	best := ""
	for start := 0; start < len(s); start++ {
		if s[start] != '{' {
			continue
		}
		end := matchBrace(s, start)
		if end < 0 {
			continue
		}
		candidate := s[start : end+1]
		if len(candidate) > len(best) && json.Valid([]byte(candidate)) {
			best = candidate
		}
	}
	return best
}

// matchBrace returns the index of the brace closing the object opened at
// s[open], or -1 if the object never closes.
func matchBrace(s string, open int) int {
	depth := 0
	inString := false
	escaped := false
	for i := open; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// coerceStringList reduces a loosely shaped value to a list of strings:
// a bare string becomes a single-element list (never re-split on
// punctuation; bullet-splitting is a display concern), a list is reduced
// element by element, anything else is dropped.
func coerceStringList(v any) []string {
	switch val := v.(type) {
	case nil:
		return []string{}
	case string:
		if s := sanitizeText(val); s != "" {
			return []string{s}
		}
		return []string{}
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s := coerceText(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		if s := coerceText(v); s != "" {
			return []string{s}
		}
		return []string{}
	}
}

// coerceText reduces any value to its most human-readable string form.
// For objects, a "description" key wins over "title"; with neither, the
// object is compacted to JSON. The description-over-title precedence
// matches long-standing output behavior.
func coerceText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return sanitizeText(val)
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	case bool:
		return fmt.Sprintf("%t", val)
	case map[string]any:
		if desc, ok := val["description"].(string); ok && strings.TrimSpace(desc) != "" {
			return sanitizeText(desc)
		}
		if title, ok := val["title"].(string); ok && strings.TrimSpace(title) != "" {
			return sanitizeText(title)
		}
		return compactJSON(val)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := coerceText(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "\n")
	default:
		return compactJSON(v)
	}
}

func compactJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

var htmlTagRe = regexp.MustCompile(`<[a-zA-Z/][^>]*>`)

// sanitizeText trims whitespace and strips HTML tags. Plans are plain
// text; comparison operators like "5 < 7" survive because the pattern
// only matches tag-shaped sequences.
func sanitizeText(s string) string {
	return strings.TrimSpace(htmlTagRe.ReplaceAllString(s, ""))
}
