package domain

// Subject categories, matching the three checkbox groups on the signup and
// edit forms.
const (
	CategoryScience = "science"
	CategoryMath    = "math"
	CategoryCSAS    = "cs_as"
)

// Categories lists the categories in form order.
var Categories = []string{CategoryScience, CategoryMath, CategoryCSAS}

type Subject struct {
	ID       string
	Name     string // machine key, e.g. "ap_bio"
	Title    string // display key, e.g. "AP Biology"
	Category string
}

// InterestKind says which way a user relates to a subject.
type InterestKind string

const (
	InterestTutor InterestKind = "tutor"
	InterestLearn InterestKind = "learn"
)

func (k InterestKind) Valid() bool {
	return k == InterestTutor || k == InterestLearn
}

// Interest is one edge between a user and a subject.
type Interest struct {
	UserID    string
	SubjectID string
	Kind      InterestKind
}

// SubjectSummary is the reverse lookup of interests for one subject.
type SubjectSummary struct {
	Subject  Subject
	Tutors   int
	Learners int
	Requests int
}
