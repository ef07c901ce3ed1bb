package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/peertutor/internal/peertutor/domain"
	"github.com/aussiebroadwan/peertutor/internal/peertutor/store"
	"github.com/aussiebroadwan/peertutor/pkg/idx"
	"github.com/aussiebroadwan/peertutor/pkg/slogx"
)

// NewRequest is the learn form after parsing.
type NewRequest struct {
	SubjectTitle  string
	IssueCode     string
	Elaboration   string
	Title         string
	Body          string
	ExtraRequests string
	Availability  string
	Additional    string
}

type RequestService struct {
	Store store.Store
	Clock Clock
}

// Create files a help request for author. The subject is looked up by its
// title inside the same transaction that inserts the request.
func (s *RequestService) Create(ctx context.Context, author domain.User, in NewRequest) (domain.Request, error) {
	now := s.Clock.now()

	var created domain.Request
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		subject, err := tx.Subjects().GetSubjectByTitle(ctx, strings.TrimSpace(in.SubjectTitle))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fail(ErrInvalidSubject, "subject_title", in.SubjectTitle)
			}
			return err
		}

		issue, ok := domain.ResolveIssue(in.IssueCode, in.Elaboration)
		if !ok {
			if in.IssueCode == domain.IssueOther {
				return fail(ErrElaborationRequired)
			}
			return fail(ErrInvalidIssue, "issue", in.IssueCode)
		}

		title := strings.TrimSpace(in.Title)
		if title == "" {
			return fail(ErrTitleRequired)
		}
		body := strings.TrimSpace(in.Body)
		if body == "" {
			return fail(ErrBodyRequired)
		}

		created = domain.Request{
			ID:            idx.NewAt(now).String(),
			SubjectID:     subject.ID,
			AuthorID:      author.ID,
			Title:         title,
			Issue:         issue,
			Body:          body,
			ExtraRequests: strings.TrimSpace(in.ExtraRequests),
			Availability:  strings.TrimSpace(in.Availability),
			Additional:    strings.TrimSpace(in.Additional),
			CreatedAt:     now,
			SubjectTitle:  subject.Title,
			AuthorName:    author.FullName(),
		}
		return tx.Requests().CreateRequest(ctx, created)
	})
	if err != nil {
		return domain.Request{}, storageFault(err, "create request")
	}

	slogx.FromContext(ctx).Info("help request filed",
		slog.String("request_id", created.ID),
		slog.String("user_id", author.ID),
		slog.String("subject_id", created.SubjectID),
	)
	return created, nil
}

// ListForTutor returns the requests filed against subjects the user tutors,
// newest first.
func (s *RequestService) ListForTutor(ctx context.Context, userID string) ([]domain.Request, error) {
	requests, err := s.Store.Requests().ListRequestsForTutor(ctx, userID)
	if err != nil {
		return nil, storageFault(err, "list requests for tutor")
	}
	return requests, nil
}

func (s *RequestService) ListAll(ctx context.Context) ([]domain.Request, error) {
	requests, err := s.Store.Requests().ListRequests(ctx)
	if err != nil {
		return nil, storageFault(err, "list requests")
	}
	return requests, nil
}
