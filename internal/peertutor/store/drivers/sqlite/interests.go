package sqlite

import (
	"context"

	"github.com/aussiebroadwan/peertutor/internal/peertutor/domain"
	"github.com/aussiebroadwan/peertutor/internal/peertutor/store/drivers/sqlite/gen"
)

type interestsRepo struct {
	q *gen.Queries
}

func (r *interestsRepo) AddInterest(ctx context.Context, in domain.Interest) error {
	return r.q.AddInterest(ctx, gen.AddInterestParams{
		UserID:    in.UserID,
		SubjectID: in.SubjectID,
		Relation:  string(in.Kind),
	})
}

func (r *interestsRepo) ClearInterests(ctx context.Context, userID string) error {
	return r.q.ClearInterests(ctx, userID)
}

func (r *interestsRepo) ListSubjectsForUser(
	ctx context.Context,
	userID string,
	kind domain.InterestKind,
) ([]domain.Subject, error) {
	rows, err := r.q.ListSubjectsForUser(ctx, gen.ListSubjectsForUserParams{
		UserID:   userID,
		Relation: string(kind),
	})
	if err != nil {
		return nil, err
	}

	subjects := make([]domain.Subject, len(rows))
	for i, row := range rows {
		subjects[i] = mapSubject(row)
	}
	return subjects, nil
}
