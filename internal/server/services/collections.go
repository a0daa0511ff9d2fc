package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/artfolio/internal/common"
	"github.com/dmitrijs2005/artfolio/internal/dbx"
	api "github.com/dmitrijs2005/artfolio/internal/models"
	"github.com/dmitrijs2005/artfolio/internal/server/media"
	"github.com/dmitrijs2005/artfolio/internal/server/models"
	"github.com/dmitrijs2005/artfolio/internal/server/repositories/repomanager"
)

const maxCollectionName = 100

// CollectionService manages curated photo sets.
type CollectionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	present     *presenter
}

func NewCollectionService(db *sql.DB, m repomanager.RepositoryManager, storage media.Storage) *CollectionService {
	return &CollectionService{
		db:          db,
		repomanager: m,
		present:     &presenter{repomanager: m, storage: storage},
	}
}

func (s *CollectionService) List(ctx context.Context, viewerID string, p api.ListParams, page Paging) ([]api.Collection, int, error) {
	list, total, err := s.repomanager.Collections(s.db).List(ctx, models.CollectionFilter{
		ViewerID: viewerID,
		Search:   p.Search,
		User:     p.User,
		Ordering: p.Ordering,
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
	if err != nil {
		return nil, 0, err
	}
	out, err := s.present.collections(ctx, s.db, viewerID, list, false)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Get returns collection id with its photos and counts the view.
func (s *CollectionService) Get(ctx context.Context, viewerID, id string) (*api.Collection, error) {
	if _, err := s.visible(ctx, viewerID, id); err != nil {
		return nil, err
	}
	if err := s.repomanager.Collections(s.db).IncrementViews(ctx, id); err != nil {
		return nil, err
	}
	return s.detail(ctx, viewerID, id)
}

// Create makes a collection owned by userID, seeded with in.PhotoIDs.
func (s *CollectionService) Create(ctx context.Context, userID string, in api.CollectionInput) (*api.Collection, error) {
	in.PhotoIDs = unique(in.PhotoIDs)

	fe := FieldErrors{}
	name := strings.TrimSpace(in.Name)
	validateName(fe, name)
	if err := s.checkPhotos(ctx, fe, userID, in.PhotoIDs); err != nil {
		return nil, err
	}
	if err := fe.orNil(); err != nil {
		return nil, err
	}

	c := &models.Collection{
		ID:          newID(),
		UserID:      userID,
		Name:        name,
		Description: in.Description,
	}
	if in.IsPrivate != nil {
		c.IsPrivate = *in.IsPrivate
	}

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Collections(tx)
		if err := s.insertWithSlug(ctx, repo.Create, c); err != nil {
			return err
		}
		for _, pid := range in.PhotoIDs {
			if err := repo.AddPhoto(ctx, c.ID, pid); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return s.detail(ctx, userID, c.ID)
}

// Update applies in to collection id, which userID must own. A non-nil
// PhotoIDs replaces the membership, keeping the order of photos that stay.
func (s *CollectionService) Update(ctx context.Context, userID, id string, in api.CollectionInput) (*api.Collection, error) {
	c, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	in.PhotoIDs = unique(in.PhotoIDs)

	fe := FieldErrors{}
	name := strings.TrimSpace(in.Name)
	if name != "" {
		validateName(fe, name)
	}
	if err := s.checkPhotos(ctx, fe, userID, in.PhotoIDs); err != nil {
		return nil, err
	}
	if err := fe.orNil(); err != nil {
		return nil, err
	}

	renamed := name != "" && name != c.Name
	if renamed {
		c.Name = name
	}
	if in.Description != "" {
		c.Description = in.Description
	}
	if in.IsPrivate != nil {
		c.IsPrivate = *in.IsPrivate
	}

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Collections(tx)
		if renamed {
			if err := s.insertWithSlug(ctx, repo.Update, c); err != nil {
				return err
			}
		} else if err := repo.Update(ctx, c); err != nil {
			return err
		}
		if in.PhotoIDs == nil {
			return nil
		}
		return s.replacePhotos(ctx, tx, id, in.PhotoIDs)
	}); err != nil {
		return nil, err
	}
	return s.detail(ctx, userID, id)
}

func (s *CollectionService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	return s.repomanager.Collections(s.db).Delete(ctx, id)
}

// AddPhoto appends photoID to collection id. Adding a member again is a
// no-op.
func (s *CollectionService) AddPhoto(ctx context.Context, userID, id, photoID string) (*api.Collection, error) {
	if photoID == "" {
		return nil, badRequest("Photo ID is required")
	}
	if _, err := s.owned(ctx, userID, id); err != nil {
		return nil, err
	}
	ph, err := s.repomanager.Photos(s.db).Get(ctx, photoID)
	if err != nil {
		return nil, err
	}
	if !canSee(ph, userID) {
		return nil, common.ErrorNotFound
	}

	err = s.repomanager.Collections(s.db).AddPhoto(ctx, id, photoID)
	if err != nil && !errors.Is(err, common.ErrorAlreadyExists) {
		return nil, err
	}
	return s.detail(ctx, userID, id)
}

func (s *CollectionService) RemovePhoto(ctx context.Context, userID, id, photoID string) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	return s.repomanager.Collections(s.db).RemovePhoto(ctx, id, photoID)
}

// Like records userID's like. Liking twice is not an error.
func (s *CollectionService) Like(ctx context.Context, userID, id string) (*api.LikeResponse, error) {
	if _, err := s.visible(ctx, userID, id); err != nil {
		return nil, err
	}
	err := s.repomanager.Collections(s.db).Like(ctx, id, userID)
	if err != nil && !errors.Is(err, common.ErrorAlreadyExists) {
		return nil, err
	}
	return s.likeState(ctx, id, true)
}

func (s *CollectionService) Unlike(ctx context.Context, userID, id string) (*api.LikeResponse, error) {
	if _, err := s.visible(ctx, userID, id); err != nil {
		return nil, err
	}
	if err := s.repomanager.Collections(s.db).Unlike(ctx, id, userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, badRequest("You have not liked this collection")
		}
		return nil, err
	}
	return s.likeState(ctx, id, false)
}

// --- helpers below ---

func (s *CollectionService) detail(ctx context.Context, viewerID, id string) (*api.Collection, error) {
	c, err := s.repomanager.Collections(s.db).Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.present.collection(ctx, s.db, viewerID, c)
}

func (s *CollectionService) visible(ctx context.Context, viewerID, id string) (*models.Collection, error) {
	c, err := s.repomanager.Collections(s.db).Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.IsPrivate && c.UserID != viewerID {
		return nil, common.ErrorNotFound
	}
	return c, nil
}

func (s *CollectionService) owned(ctx context.Context, userID, id string) (*models.Collection, error) {
	c, err := s.visible(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if c.UserID != userID {
		return nil, common.ErrorForbidden
	}
	return c, nil
}

func (s *CollectionService) likeState(ctx context.Context, id string, liked bool) (*api.LikeResponse, error) {
	c, err := s.repomanager.Collections(s.db).Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &api.LikeResponse{Liked: liked, LikesCount: c.LikesCount}, nil
}

// insertWithSlug derives the slug of c from its name and runs write,
// suffixing a counter while the owner already uses the slug.
func (s *CollectionService) insertWithSlug(ctx context.Context, write func(context.Context, *models.Collection) error, c *models.Collection) error {
	base := slugify(c.Name)
	c.Slug = base
	for i := 2; ; i++ {
		err := write(ctx, c)
		if !errors.Is(err, common.ErrorAlreadyExists) {
			return err
		}
		c.Slug = base + "-" + strconv.Itoa(i)
	}
}

func (s *CollectionService) replacePhotos(ctx context.Context, tx dbx.DBTX, id string, photoIDs []string) error {
	repo := s.repomanager.Collections(tx)
	current, err := repo.Photos(ctx, id)
	if err != nil {
		return err
	}
	want := make(map[string]bool, len(photoIDs))
	for _, pid := range photoIDs {
		want[pid] = true
	}
	have := make(map[string]bool, len(current))
	for _, e := range current {
		have[e.PhotoID] = true
		if !want[e.PhotoID] {
			if err := repo.RemovePhoto(ctx, id, e.PhotoID); err != nil {
				return err
			}
		}
	}
	for _, pid := range photoIDs {
		if have[pid] {
			continue
		}
		if err := repo.AddPhoto(ctx, id, pid); err != nil {
			return err
		}
	}
	return nil
}

// checkPhotos reports photo ids that do not exist or are hidden from userID.
func (s *CollectionService) checkPhotos(ctx context.Context, fe FieldErrors, userID string, ids []string) error {
	repo := s.repomanager.Photos(s.db)
	for _, id := range ids {
		ph, err := repo.Get(ctx, id)
		if err != nil && !errors.Is(err, common.ErrorNotFound) {
			return err
		}
		if err != nil || !canSee(ph, userID) {
			fe.add("photo_ids", fmt.Sprintf("Invalid pk %q - object does not exist.", id))
		}
	}
	return nil
}

func validateName(fe FieldErrors, name string) {
	switch {
	case name == "":
		fe.add("name", msgRequired)
	case len([]rune(name)) > maxCollectionName:
		fe.add("name", fmt.Sprintf("Ensure this field has no more than %d characters.", maxCollectionName))
	}
}
