package plan

// Subjects is the fixed subject catalog. Requests outside it are rejected.
var Subjects = []string{
	"Mathematics",
	"Science",
	"English Language Arts",
	"Social Studies",
	"History",
	"Geography",
	"Art",
	"Music",
	"Physical Education",
	"Computer Science",
}

// GradeLevels is the ordered grade catalog.
var GradeLevels = []string{
	"3rd Grade",
	"4th Grade",
	"5th Grade",
	"6th Grade",
	"7th Grade",
	"8th Grade",
	"9th Grade",
	"10th Grade",
	"11th Grade",
	"12th Grade",
}

// TeachingStyles are the recognized styles. Unrecognized input degrades to
// DefaultTeachingStyle rather than failing the request.
var TeachingStyles = []string{
	"mixed",
	"hands-on",
	"interactive",
	"traditional",
	"project-based",
}

const DefaultTeachingStyle = "mixed"

// Duration bounds in minutes. Out-of-range numeric input is clamped, not
// rejected.
const (
	MinDurationMinutes     = 15
	MaxDurationMinutes     = 120
	DefaultDurationMinutes = 45
)

// ValidSubject reports whether s is in the subject catalog.
func ValidSubject(s string) bool {
	return contains(Subjects, s)
}

// ValidGradeLevel reports whether g is in the grade catalog.
func ValidGradeLevel(g string) bool {
	return contains(GradeLevels, g)
}

// ValidTeachingStyle reports whether t is a recognized style.
func ValidTeachingStyle(t string) bool {
	return contains(TeachingStyles, t)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
