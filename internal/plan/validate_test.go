package plan

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRaw() RawRequest {
	return RawRequest{
		Subject:         "Mathematics",
		GradeLevel:      "5th Grade",
		Topic:           "Fractions",
		DurationMinutes: 45,
		TeachingStyle:   "hands-on",
	}
}

func TestValidateRequest(t *testing.T) {
	t.Run("valid request passes through", func(t *testing.T) {
		req, err := ValidateRequest(validRaw())
		require.NoError(t, err)
		assert.Equal(t, "Mathematics", req.Subject)
		assert.Equal(t, "5th Grade", req.GradeLevel)
		assert.Equal(t, "Fractions", req.Topic)
		assert.Equal(t, 45, req.DurationMinutes)
		assert.Equal(t, "hands-on", req.TeachingStyle)
	})

	t.Run("unknown subject rejected", func(t *testing.T) {
		raw := validRaw()
		raw.Subject = "Underwater Basket Weaving"
		_, err := ValidateRequest(raw)
		require.Error(t, err)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "subject", verr.Field)
	})

	t.Run("unknown grade rejected", func(t *testing.T) {
		raw := validRaw()
		raw.GradeLevel = "13th Grade"
		_, err := ValidateRequest(raw)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "grade_level", verr.Field)
	})

	t.Run("blank topic rejected", func(t *testing.T) {
		raw := validRaw()
		raw.Topic = "   "
		_, err := ValidateRequest(raw)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "topic", verr.Field)
	})

	t.Run("unknown teaching style degrades to default", func(t *testing.T) {
		raw := validRaw()
		raw.TeachingStyle = "socratic-immersion"
		req, err := ValidateRequest(raw)
		require.NoError(t, err)
		assert.Equal(t, DefaultTeachingStyle, req.TeachingStyle)
	})

	t.Run("fields are trimmed", func(t *testing.T) {
		raw := validRaw()
		raw.Subject = "  Mathematics  "
		raw.Topic = " Fractions "
		req, err := ValidateRequest(raw)
		require.NoError(t, err)
		assert.Equal(t, "Mathematics", req.Subject)
		assert.Equal(t, "Fractions", req.Topic)
	})

	t.Run("validation is idempotent", func(t *testing.T) {
		raw := validRaw()
		raw.DurationMinutes = 300
		raw.TeachingStyle = "unknown"

		first, err := ValidateRequest(raw)
		require.NoError(t, err)

		second, err := ValidateRequest(RawRequest{
			Subject:         first.Subject,
			GradeLevel:      first.GradeLevel,
			Topic:           first.Topic,
			DurationMinutes: first.DurationMinutes,
			TeachingStyle:   first.TeachingStyle,
		})
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestValidateRequestDuration(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		want    int
		wantErr bool
	}{
		{"int in range", 60, 60, false},
		{"absent takes default", nil, DefaultDurationMinutes, false},
		{"empty string takes default", "  ", DefaultDurationMinutes, false},
		{"numeric string", "90", 90, false},
		{"whole float from JSON", float64(30), 30, false},
		{"json.Number", json.Number("75"), 75, false},
		{"below minimum clamps up", 5, MinDurationMinutes, false},
		{"above maximum clamps down", 300, MaxDurationMinutes, false},
		{"string clamps too", "7", MinDurationMinutes, false},
		{"fractional float rejected", 45.5, 0, true},
		{"non-numeric string rejected", "about an hour", 0, true},
		{"bool rejected", true, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := validRaw()
			raw.DurationMinutes = tt.input
			req, err := ValidateRequest(raw)
			if tt.wantErr {
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, "duration_minutes", verr.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, req.DurationMinutes)
		})
	}
}
