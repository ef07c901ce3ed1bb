package http

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/aussiebroadwan/peertutor/internal/peertutor/domain"
)

// subjectChoice is one row of the tutor/learn checkbox table.
type subjectChoice struct {
	Name  string
	Title string
	Tutor bool
	Learn bool
}

type subjectGroup struct {
	Category string
	Subjects []subjectChoice
}

// subjectGroups lays the catalogue out in form order, ticking the subjects
// the profile already lists. A nil profile gives an empty form.
func subjectGroups(byCategory map[string][]domain.Subject, profile *domain.Profile) []subjectGroup {
	groups := make([]subjectGroup, 0, len(domain.Categories))
	for _, cat := range domain.Categories {
		subjects := byCategory[cat]
		if len(subjects) == 0 {
			continue
		}

		g := subjectGroup{Category: cat, Subjects: make([]subjectChoice, 0, len(subjects))}
		for _, s := range subjects {
			c := subjectChoice{Name: s.Name, Title: s.Title}
			if profile != nil {
				c.Tutor = profile.Tutors(s.ID)
				c.Learn = profile.Learns(s.ID)
			}
			g.Subjects = append(g.Subjects, c)
		}
		groups = append(groups, g)
	}
	return groups
}

// interestsFromForm merges the per-category checkbox lists, tutor_* and
// learn_*, into two lists of subject names.
func interestsFromForm(form url.Values) (tutor, learn []string) {
	for _, cat := range domain.Categories {
		tutor = append(tutor, form["tutor_"+cat]...)
		learn = append(learn, form["learn_"+cat]...)
	}
	return tutor, learn
}

// checked reports whether a checkbox value means yes.
func checked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// formGrade parses the grade field. Anything unparsable becomes 0, which
// the services reject as out of range.
func formGrade(v string) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0
	}
	return n
}

// maxFlashDetail caps free text copied into a flash, such as a mail server
// error, so the flash cookie stays under the 4096 byte cookie limit.
const maxFlashDetail = 200

// shorten cuts s to at most n runes, marking the cut with an ellipsis.
func shorten(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
