package plan

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ValidationError describes why a raw request was rejected.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request: %s: %s", e.Field, e.Message)
}

// ValidateRequest normalizes a raw request into a Request.
// Policy: strict on category and type (unknown subject or grade, non-numeric
// duration are rejected), permissive on range (duration is clamped into
// bounds) and on teaching style (unknown degrades to the default).
// Pure function, no side effects.
func ValidateRequest(raw RawRequest) (Request, error) {
	subject := strings.TrimSpace(raw.Subject)
	if !ValidSubject(subject) {
		return Request{}, &ValidationError{
			Field:   "subject",
			Message: fmt.Sprintf("%q is not a recognized subject", raw.Subject),
		}
	}

	grade := strings.TrimSpace(raw.GradeLevel)
	if !ValidGradeLevel(grade) {
		return Request{}, &ValidationError{
			Field:   "grade_level",
			Message: fmt.Sprintf("%q is not a recognized grade level", raw.GradeLevel),
		}
	}

	topic := strings.TrimSpace(raw.Topic)
	if topic == "" {
		return Request{}, &ValidationError{
			Field:   "topic",
			Message: "topic must not be blank",
		}
	}

	duration, err := coerceDuration(raw.DurationMinutes)
	if err != nil {
		return Request{}, &ValidationError{
			Field:   "duration_minutes",
			Message: err.Error(),
		}
	}
	if duration < MinDurationMinutes {
		duration = MinDurationMinutes
	}
	if duration > MaxDurationMinutes {
		duration = MaxDurationMinutes
	}

	style := strings.TrimSpace(raw.TeachingStyle)
	if !ValidTeachingStyle(style) {
		style = DefaultTeachingStyle
	}

	return Request{
		Subject:          subject,
		GradeLevel:       grade,
		Topic:            topic,
		DurationMinutes:  duration,
		TeachingStyle:    style,
		StudentGroupInfo: strings.TrimSpace(raw.StudentGroupInfo),
	}, nil
}

// coerceDuration accepts the duration as a JSON number, a numeric string,
// or absent (nil, which takes the default).
func coerceDuration(v any) (int, error) {
	switch d := v.(type) {
	case nil:
		return DefaultDurationMinutes, nil
	case int:
		return d, nil
	case float64:
		if d != float64(int(d)) {
			return 0, fmt.Errorf("%v is not a whole number of minutes", d)
		}
		return int(d), nil
	case json.Number:
		n, err := d.Int64()
		if err != nil {
			return 0, fmt.Errorf("%q cannot be read as an integer", d.String())
		}
		return int(n), nil
	case string:
		s := strings.TrimSpace(d)
		if s == "" {
			return DefaultDurationMinutes, nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("%q cannot be read as an integer", d)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("unsupported duration type %T", v)
	}
}
