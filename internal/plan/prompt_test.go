package plan

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposePrompt(t *testing.T) {
	req := Request{
		Subject:         "Science",
		GradeLevel:      "7th Grade",
		Topic:           "Photosynthesis",
		DurationMinutes: 45,
		TeachingStyle:   "interactive",
	}

	t.Run("contains every request field", func(t *testing.T) {
		spec := ComposePrompt(req)
		assert.Contains(t, spec.User, "Subject: Science")
		assert.Contains(t, spec.User, "Grade Level: 7th Grade")
		assert.Contains(t, spec.User, "Topic: Photosynthesis")
		assert.Contains(t, spec.User, "Duration: 45 minutes")
		assert.Contains(t, spec.User, "Teaching Style: interactive")
		assert.NotEmpty(t, spec.System)
		require.NotNil(t, spec.Schema)
		assert.Equal(t, "lesson-plan", spec.Schema.Name)
	})

	t.Run("deterministic", func(t *testing.T) {
		a := ComposePrompt(req)
		b := ComposePrompt(req)
		assert.Equal(t, a.System, b.System)
		assert.Equal(t, a.User, b.User)
		assert.Equal(t, a.MaxTokens, b.MaxTokens)
	})

	t.Run("group info adds accommodation block", func(t *testing.T) {
		withGroup := req
		withGroup.StudentGroupInfo = "Three English learners, one student with dyslexia"
		spec := ComposePrompt(withGroup)
		assert.Contains(t, spec.User, "Student Group Information:")
		assert.Contains(t, spec.User, "Three English learners, one student with dyslexia")
		assert.Contains(t, spec.User, "accommodations")

		without := ComposePrompt(req)
		assert.NotContains(t, without.User, "Student Group Information:")
	})

	t.Run("token budget scales with duration", func(t *testing.T) {
		short := req
		short.DurationMinutes = 30
		medium := req
		medium.DurationMinutes = 60
		long := req
		long.DurationMinutes = 120

		assert.Equal(t, 2048, ComposePrompt(short).MaxTokens)
		assert.Equal(t, 3072, ComposePrompt(medium).MaxTokens)
		assert.Equal(t, 4096, ComposePrompt(long).MaxTokens)
	})

	t.Run("every catalog combination composes", func(t *testing.T) {
		for _, subject := range Subjects {
			for _, grade := range GradeLevels {
				spec := ComposePrompt(Request{
					Subject:         subject,
					GradeLevel:      grade,
					Topic:           "Review",
					DurationMinutes: DefaultDurationMinutes,
					TeachingStyle:   DefaultTeachingStyle,
				})
				require.True(t, strings.Contains(spec.User, subject),
					fmt.Sprintf("prompt missing subject %q for grade %q", subject, grade))
			}
		}
	})
}
