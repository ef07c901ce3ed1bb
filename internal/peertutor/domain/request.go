package domain

import (
	"strings"
	"time"
)

// IssueOther is the issue code that takes a free text elaboration.
const IssueOther = "other"

// IssueLabels maps the fixed issue codes of the learn form to their labels.
var IssueLabels = map[string]string{
	"hw":   "Homework",
	"proj": "Project",
	"test": "Test",
}

// ResolveIssue turns an issue code into the label stored on a request. For
// IssueOther the trimmed elaboration is the label. ok is false for unknown
// codes and for IssueOther without an elaboration.
func ResolveIssue(code, elaboration string) (label string, ok bool) {
	if code == IssueOther {
		label = strings.TrimSpace(elaboration)
		return label, label != ""
	}
	label, ok = IssueLabels[code]
	return label, ok
}

// Request is a help request. It is immutable once created.
type Request struct {
	ID            string
	SubjectID     string
	AuthorID      string
	Title         string
	Issue         string
	Body          string
	ExtraRequests string
	Availability  string
	Additional    string
	CreatedAt     time.Time

	// Read model fields, filled by listing queries.
	SubjectTitle string
	AuthorName   string
}
