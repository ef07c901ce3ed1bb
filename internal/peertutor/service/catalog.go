package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/aussiebroadwan/peertutor/internal/peertutor/domain"
	"github.com/aussiebroadwan/peertutor/internal/peertutor/store"
	"github.com/aussiebroadwan/peertutor/pkg/idx"
	"github.com/aussiebroadwan/peertutor/pkg/slogx"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

// CatalogueEntry is one subject in a catalogue file.
type CatalogueEntry struct {
	Name     string `yaml:"name"`
	Title    string `yaml:"title"`
	Category string `yaml:"category"`
}

type catalogueFile struct {
	Subjects []CatalogueEntry `yaml:"subjects"`
}

// LoadCatalogue parses and validates a YAML subject catalogue.
func LoadCatalogue(r io.Reader) ([]CatalogueEntry, error) {
	var file catalogueFile

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, oops.Code(CodeValidation).Wrapf(err, "decode subject catalogue")
	}

	names := make(map[string]struct{}, len(file.Subjects))
	titles := make(map[string]struct{}, len(file.Subjects))
	for i, e := range file.Subjects {
		e.Name = strings.TrimSpace(e.Name)
		e.Title = strings.TrimSpace(e.Title)
		e.Category = strings.TrimSpace(e.Category)

		switch {
		case e.Name == "" || e.Title == "":
			return nil, oops.Code(CodeValidation).With("index", i).Errorf("subject %d needs a name and a title", i)
		case !slices.Contains(domain.Categories, e.Category):
			return nil, oops.Code(CodeValidation).With("subject", e.Name).Errorf("subject %q has unknown category %q", e.Name, e.Category)
		}
		if _, dup := names[e.Name]; dup {
			return nil, oops.Code(CodeValidation).With("subject", e.Name).Errorf("duplicate subject name %q", e.Name)
		}
		if _, dup := titles[e.Title]; dup {
			return nil, oops.Code(CodeValidation).With("subject", e.Name).Errorf("duplicate subject title %q", e.Title)
		}
		names[e.Name] = struct{}{}
		titles[e.Title] = struct{}{}

		file.Subjects[i] = e
	}

	return file.Subjects, nil
}

// DefaultCatalogue returns the catalogue compiled into the binary.
func DefaultCatalogue() ([]CatalogueEntry, error) {
	raw, err := assets.ReadFile("templates/subjects.yaml")
	if err != nil {
		return nil, err
	}
	return LoadCatalogue(bytes.NewReader(raw))
}

// CatalogService owns the subject list.
type CatalogService struct {
	Store store.Store
}

// ListSubjects returns every subject ordered by category then title.
func (s *CatalogService) ListSubjects(ctx context.Context) ([]domain.Subject, error) {
	subjects, err := s.Store.Subjects().ListSubjects(ctx)
	if err != nil {
		return nil, storageFault(err, "list subjects")
	}
	return subjects, nil
}

// SubjectsByCategory groups the subjects the way the signup and edit forms
// lay out their checkboxes.
func (s *CatalogService) SubjectsByCategory(ctx context.Context) (map[string][]domain.Subject, error) {
	subjects, err := s.ListSubjects(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]domain.Subject, len(domain.Categories))
	for _, subj := range subjects {
		out[subj.Category] = append(out[subj.Category], subj)
	}
	return out, nil
}

// Summaries returns per subject tutor, learner and request counts.
func (s *CatalogService) Summaries(ctx context.Context) ([]domain.SubjectSummary, error) {
	summaries, err := s.Store.Subjects().ListSubjectSummaries(ctx)
	if err != nil {
		return nil, storageFault(err, "list subject summaries")
	}
	return summaries, nil
}

// Seed upserts entries by name in one transaction. Existing subjects keep
// their id and interests.
func (s *CatalogService) Seed(ctx context.Context, entries []CatalogueEntry) (int, error) {
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		for _, e := range entries {
			err := tx.Subjects().UpsertSubject(ctx, domain.Subject{
				ID:       idx.New().String(),
				Name:     e.Name,
				Title:    e.Title,
				Category: e.Category,
			})
			if err != nil {
				return fmt.Errorf("upsert subject %q: %w", e.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, storageFault(err, "seed subjects")
	}

	slogx.FromContext(ctx).Info("subject catalogue seeded", slog.Int("subjects", len(entries)))
	return len(entries), nil
}
