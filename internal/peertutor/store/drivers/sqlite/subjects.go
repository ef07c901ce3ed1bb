package sqlite

import (
	"context"

	"github.com/aussiebroadwan/peertutor/internal/peertutor/domain"
	"github.com/aussiebroadwan/peertutor/internal/peertutor/store/drivers/sqlite/gen"
)

type subjectsRepo struct {
	q *gen.Queries
}

func (r *subjectsRepo) GetSubjectByName(ctx context.Context, name string) (domain.Subject, error) {
	row, err := r.q.GetSubjectByName(ctx, name)
	if err != nil {
		return domain.Subject{}, mapNotFound(err)
	}
	return mapSubject(row), nil
}

func (r *subjectsRepo) GetSubjectByTitle(ctx context.Context, title string) (domain.Subject, error) {
	row, err := r.q.GetSubjectByTitle(ctx, title)
	if err != nil {
		return domain.Subject{}, mapNotFound(err)
	}
	return mapSubject(row), nil
}

func (r *subjectsRepo) ListSubjects(ctx context.Context) ([]domain.Subject, error) {
	rows, err := r.q.ListSubjects(ctx)
	if err != nil {
		return nil, err
	}

	subjects := make([]domain.Subject, len(rows))
	for i, row := range rows {
		subjects[i] = mapSubject(row)
	}
	return subjects, nil
}

func (r *subjectsRepo) UpsertSubject(ctx context.Context, s domain.Subject) error {
	return mapConstraint(r.q.UpsertSubject(ctx, gen.UpsertSubjectParams{
		ID:       s.ID,
		Name:     s.Name,
		Title:    s.Title,
		Category: s.Category,
	}))
}

func (r *subjectsRepo) ListSubjectSummaries(ctx context.Context) ([]domain.SubjectSummary, error) {
	rows, err := r.q.ListSubjectSummaries(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.SubjectSummary, len(rows))
	for i, row := range rows {
		out[i] = domain.SubjectSummary{
			Subject: domain.Subject{
				ID:       row.ID,
				Name:     row.Name,
				Title:    row.Title,
				Category: row.Category,
			},
			Tutors:   int(row.Tutors),
			Learners: int(row.Learners),
			Requests: int(row.Requests),
		}
	}
	return out, nil
}
