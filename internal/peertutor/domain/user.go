package domain

import "time"

type User struct {
	ID           string
	Email        string
	PasswordHash string // argon2id PHC, or a legacy bcrypt hash until the next login
	FirstName    string
	LastName     string
	Grade        int
	Role         Role
	CreatedAt    time.Time
	LastLoggedIn time.Time
}

func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Profile is a user together with the subjects they tutor or want to learn
// and the requests they have filed, newest first.
type Profile struct {
	User     User
	Tutoring []Subject
	Learning []Subject
	Requests []Request
}

// Tutors reports whether the profile lists subjectID as a tutored subject.
func (p Profile) Tutors(subjectID string) bool {
	for _, s := range p.Tutoring {
		if s.ID == subjectID {
			return true
		}
	}
	return false
}

// Learns reports whether the profile lists subjectID as a subject to learn.
func (p Profile) Learns(subjectID string) bool {
	for _, s := range p.Learning {
		if s.ID == subjectID {
			return true
		}
	}
	return false
}
