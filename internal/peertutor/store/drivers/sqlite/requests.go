package sqlite

import (
	"context"

	"github.com/aussiebroadwan/peertutor/internal/peertutor/domain"
	"github.com/aussiebroadwan/peertutor/internal/peertutor/store/drivers/sqlite/gen"
)

type requestsRepo struct {
	q *gen.Queries
}

func (r *requestsRepo) CreateRequest(ctx context.Context, req domain.Request) error {
	return mapConstraint(r.q.CreateRequest(ctx, gen.CreateRequestParams{
		ID:            req.ID,
		SubjectID:     req.SubjectID,
		AuthorID:      req.AuthorID,
		Title:         req.Title,
		Issue:         req.Issue,
		Body:          req.Body,
		ExtraRequests: req.ExtraRequests,
		Availability:  req.Availability,
		Additional:    req.Additional,
		CreatedAt:     req.CreatedAt.UTC(),
	}))
}

func (r *requestsRepo) GetRequestByID(ctx context.Context, id string) (domain.Request, error) {
	row, err := r.q.GetRequestByID(ctx, id)
	if err != nil {
		return domain.Request{}, mapNotFound(err)
	}
	return mapRequest(row), nil
}

func (r *requestsRepo) ListRequests(ctx context.Context) ([]domain.Request, error) {
	rows, err := r.q.ListRequests(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Request, len(rows))
	for i, row := range rows {
		out[i] = mapRequestRow(row)
	}
	return out, nil
}

func (r *requestsRepo) ListRequestsByAuthor(ctx context.Context, authorID string) ([]domain.Request, error) {
	rows, err := r.q.ListRequestsByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Request, len(rows))
	for i, row := range rows {
		out[i] = mapRequestRow(gen.ListRequestsRow(row))
	}
	return out, nil
}

func (r *requestsRepo) ListRequestsForTutor(ctx context.Context, tutorID string) ([]domain.Request, error) {
	rows, err := r.q.ListRequestsForTutor(ctx, tutorID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Request, len(rows))
	for i, row := range rows {
		out[i] = mapRequestRow(gen.ListRequestsRow(row))
	}
	return out, nil
}
