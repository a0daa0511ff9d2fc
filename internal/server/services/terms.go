package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/artfolio/internal/common"
	api "github.com/dmitrijs2005/artfolio/internal/models"
	"github.com/dmitrijs2005/artfolio/internal/server/models"
	"github.com/dmitrijs2005/artfolio/internal/server/repositories/repomanager"
)

const maxTermName = 100

// TermService manages categories or tags; kind picks which.
type TermService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	kind        string
}

func NewTermService(db *sql.DB, m repomanager.RepositoryManager, kind string) *TermService {
	return &TermService{db: db, repomanager: m, kind: kind}
}

func (s *TermService) List(ctx context.Context) ([]api.Term, error) {
	list, err := s.repomanager.Terms(s.db).List(ctx, s.kind)
	if err != nil {
		return nil, err
	}
	out := make([]api.Term, 0, len(list))
	for i := range list {
		out = append(out, presentTerm(&list[i]))
	}
	return out, nil
}

// Get finds a term by id or slug.
func (s *TermService) Get(ctx context.Context, idOrSlug string) (*api.Term, error) {
	t, err := s.repomanager.Terms(s.db).Get(ctx, s.kind, idOrSlug)
	if err != nil {
		return nil, err
	}
	out := presentTerm(t)
	return &out, nil
}

func (s *TermService) Create(ctx context.Context, in api.TermInput) (*api.Term, error) {
	name := strings.TrimSpace(in.Name)
	if err := validateTermName(name); err != nil {
		return nil, err
	}

	t := &models.Term{Kind: s.kind, Name: name, Slug: slugify(name), Description: in.Description}
	if _, err := s.repomanager.Terms(s.db).Create(ctx, t); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, s.duplicate()
		}
		return nil, err
	}
	return s.Get(ctx, t.ID)
}

// Update renames a term and rewrites its description. The slug follows
// the name.
func (s *TermService) Update(ctx context.Context, idOrSlug string, in api.TermInput) (*api.Term, error) {
	repo := s.repomanager.Terms(s.db)
	t, err := repo.Get(ctx, s.kind, idOrSlug)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		if err := validateTermName(name); err != nil {
			return nil, err
		}
		t.Name = name
		t.Slug = slugify(name)
	}
	t.Description = in.Description

	if err := repo.Update(ctx, t); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, s.duplicate()
		}
		return nil, err
	}
	return s.Get(ctx, t.ID)
}

func (s *TermService) Delete(ctx context.Context, idOrSlug string) error {
	repo := s.repomanager.Terms(s.db)
	t, err := repo.Get(ctx, s.kind, idOrSlug)
	if err != nil {
		return err
	}
	return repo.Delete(ctx, s.kind, t.ID)
}

func (s *TermService) duplicate() error {
	return FieldErrors{"name": {fmt.Sprintf("%s with this name already exists.", s.kind)}}
}

func validateTermName(name string) error {
	switch {
	case name == "":
		return FieldErrors{"name": {msgRequired}}
	case len([]rune(name)) > maxTermName:
		return FieldErrors{"name": {fmt.Sprintf("Ensure this field has no more than %d characters.", maxTermName)}}
	}
	return nil
}
