package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/artfolio/internal/common"
	"github.com/dmitrijs2005/artfolio/internal/dbx"
	"github.com/dmitrijs2005/artfolio/internal/logging"
	api "github.com/dmitrijs2005/artfolio/internal/models"
	"github.com/dmitrijs2005/artfolio/internal/server/media"
	"github.com/dmitrijs2005/artfolio/internal/server/models"
	"github.com/dmitrijs2005/artfolio/internal/server/repositories/repomanager"
)

// Upload is a decoded image upload with its metadata.
type Upload struct {
	Input    api.PhotoInput
	Filename string
	Data     []byte
}

// PhotoService manages artworks, their image files and likes.
type PhotoService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	storage     media.Storage
	present     *presenter
	log         logging.Logger
}

func NewPhotoService(db *sql.DB, m repomanager.RepositoryManager, storage media.Storage, log logging.Logger) *PhotoService {
	return &PhotoService{
		db:          db,
		repomanager: m,
		storage:     storage,
		present:     &presenter{repomanager: m, storage: storage},
		log:         log,
	}
}

// List returns one page of photos visible to viewerID.
func (s *PhotoService) List(ctx context.Context, viewerID string, p api.ListParams, page Paging) ([]api.Photo, int, error) {
	list, total, err := s.repomanager.Photos(s.db).List(ctx, models.PhotoFilter{
		ViewerID: viewerID,
		Search:   p.Search,
		Category: p.Category,
		Tag:      p.Tag,
		User:     p.User,
		Ordering: p.Ordering,
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
	if err != nil {
		return nil, 0, err
	}
	out, err := s.present.photos(ctx, s.db, viewerID, list)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Get returns photo id and counts the view. Private photos of other users
// are reported as missing.
func (s *PhotoService) Get(ctx context.Context, viewerID, id string) (*api.Photo, error) {
	repo := s.repomanager.Photos(s.db)
	if _, err := s.visible(ctx, viewerID, id); err != nil {
		return nil, err
	}
	if err := repo.IncrementViews(ctx, id); err != nil {
		return nil, err
	}
	ph, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.present.photo(ctx, s.db, viewerID, ph)
}

// Upload validates the image, stores it with its derived sizes and creates
// the photo owned by userID.
func (s *PhotoService) Upload(ctx context.Context, userID string, up Upload) (*api.Photo, error) {
	up.Input.CategoryIDs = unique(up.Input.CategoryIDs)
	up.Input.TagIDs = unique(up.Input.TagIDs)

	fe := FieldErrors{}
	title := strings.TrimSpace(up.Input.Title)
	if title == "" {
		fe.add("title", msgRequired)
	} else if len([]rune(title)) > 200 {
		fe.add("title", "Ensure this field has no more than 200 characters.")
	}

	var info *media.Info
	if len(up.Data) == 0 {
		fe.add("image", "No file was submitted.")
	} else {
		var err error
		if info, err = media.Inspect(up.Data); err != nil {
			fe.add("image", err.Error())
		}
	}
	if err := s.checkTerms(ctx, fe, up.Input.CategoryIDs, up.Input.TagIDs); err != nil {
		return nil, err
	}
	if err := fe.orNil(); err != nil {
		return nil, err
	}

	variants, err := media.Variants(up.Data, info)
	if err != nil {
		return nil, FieldErrors{"image": {err.Error()}}
	}

	ph := &models.Photo{
		ID:          newID(),
		UserID:      userID,
		Title:       title,
		Description: up.Input.Description,
		Width:       info.Width,
		Height:      info.Height,
		Format:      info.Format,
		FileSize:    info.Size,
		IsPublic:    true,
		Medium:      up.Input.Medium,
		Year:        up.Input.Year,
		Location:    up.Input.Location,
		CategoryIDs: up.Input.CategoryIDs,
		TagIDs:      up.Input.TagIDs,
	}
	if up.Input.IsPublic != nil {
		ph.IsPublic = *up.Input.IsPublic
	}
	ph.ImageKey = media.OriginalKey(ph.ID, info.Ext)

	stored := []string{}
	put := func(key, ct string, data []byte) error {
		if err := s.storage.Put(ctx, key, ct, data); err != nil {
			return fmt.Errorf("error storing %s: %w", key, err)
		}
		stored = append(stored, key)
		return nil
	}
	err = put(ph.ImageKey, info.ContentType, up.Data)
	for _, size := range media.VariantSizes {
		if err != nil {
			break
		}
		err = put(media.VariantKey(ph.ID, size), "image/jpeg", variants[size])
	}
	if err == nil {
		err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			return s.repomanager.Photos(tx).Create(ctx, ph)
		})
	}
	if err != nil {
		s.removeKeys(ctx, stored)
		return nil, err
	}

	s.log.Info(ctx, "photo uploaded", "photo_id", ph.ID, "user_id", userID, "format", info.Format, "bytes", info.Size)
	created, err := s.repomanager.Photos(s.db).Get(ctx, ph.ID)
	if err != nil {
		return nil, err
	}
	return s.present.photo(ctx, s.db, userID, created)
}

// Update applies in to photo id, which userID must own. Empty strings and
// nil slices leave fields unchanged.
func (s *PhotoService) Update(ctx context.Context, userID, id string, in api.PhotoInput) (*api.Photo, error) {
	repo := s.repomanager.Photos(s.db)
	ph, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	in.CategoryIDs = unique(in.CategoryIDs)
	in.TagIDs = unique(in.TagIDs)

	fe := FieldErrors{}
	if title := strings.TrimSpace(in.Title); title != "" {
		if len([]rune(title)) > 200 {
			fe.add("title", "Ensure this field has no more than 200 characters.")
		}
		ph.Title = title
	}
	if err := s.checkTerms(ctx, fe, in.CategoryIDs, in.TagIDs); err != nil {
		return nil, err
	}
	if err := fe.orNil(); err != nil {
		return nil, err
	}

	if in.Description != "" {
		ph.Description = in.Description
	}
	if in.Medium != "" {
		ph.Medium = in.Medium
	}
	if in.Year != "" {
		ph.Year = in.Year
	}
	if in.Location != "" {
		ph.Location = in.Location
	}
	if in.IsPublic != nil {
		ph.IsPublic = *in.IsPublic
	}
	if in.CategoryIDs != nil {
		ph.CategoryIDs = in.CategoryIDs
	}
	if in.TagIDs != nil {
		ph.TagIDs = in.TagIDs
	}

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.Photos(tx).Update(ctx, ph)
	}); err != nil {
		return nil, err
	}

	updated, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.present.photo(ctx, s.db, userID, updated)
}

// Delete removes photo id and its stored files. userID must own it.
func (s *PhotoService) Delete(ctx context.Context, userID, id string) error {
	ph, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.repomanager.Photos(s.db).Delete(ctx, id); err != nil {
		return err
	}

	keys := []string{}
	if ph.ImageKey != "" {
		keys = append(keys, ph.ImageKey)
		for _, size := range media.VariantSizes {
			keys = append(keys, media.VariantKey(id, size))
		}
	}
	s.removeKeys(ctx, keys)
	return nil
}

// Like records userID's like. Liking twice is not an error.
func (s *PhotoService) Like(ctx context.Context, userID, id string) (*api.LikeResponse, error) {
	if _, err := s.visible(ctx, userID, id); err != nil {
		return nil, err
	}
	repo := s.repomanager.Photos(s.db)
	if err := repo.Like(ctx, id, userID); err != nil && !errors.Is(err, common.ErrorAlreadyExists) {
		return nil, err
	}
	return s.likeState(ctx, id, true)
}

func (s *PhotoService) Unlike(ctx context.Context, userID, id string) (*api.LikeResponse, error) {
	if _, err := s.visible(ctx, userID, id); err != nil {
		return nil, err
	}
	if err := s.repomanager.Photos(s.db).Unlike(ctx, id, userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, badRequest("You have not liked this photo")
		}
		return nil, err
	}
	return s.likeState(ctx, id, false)
}

// Download returns a link to the requested size of photo id and counts the
// download. An empty size means the original.
func (s *PhotoService) Download(ctx context.Context, viewerID, id, size string) (*api.DownloadLink, error) {
	if size == "" {
		size = media.SizeOriginal
	}
	if !media.IsSize(size) {
		return nil, badRequest("Invalid size. Choose from: original, large, medium, small")
	}

	ph, err := s.visible(ctx, viewerID, id)
	if err != nil {
		return nil, err
	}
	if ph.ImageKey == "" {
		return nil, badRequest("Download URL not available")
	}

	key := media.VariantKey(id, size)
	ext := ".jpg"
	if size == media.SizeOriginal {
		key = ph.ImageKey
		ext = ph.ImageKey[strings.LastIndex(ph.ImageKey, "."):]
	}
	filename := slugify(ph.Title) + "_" + size + ext

	link, err := s.storage.URL(ctx, key, filename)
	if err != nil {
		return nil, fmt.Errorf("error building download link: %w", err)
	}
	if err := s.repomanager.Photos(s.db).IncrementDownloads(ctx, id); err != nil {
		return nil, err
	}
	return &api.DownloadLink{URL: link, Size: size, Filename: filename}, nil
}

// --- helpers below ---

func (s *PhotoService) visible(ctx context.Context, viewerID, id string) (*models.Photo, error) {
	ph, err := s.repomanager.Photos(s.db).Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canSee(ph, viewerID) {
		return nil, common.ErrorNotFound
	}
	return ph, nil
}

func (s *PhotoService) owned(ctx context.Context, userID, id string) (*models.Photo, error) {
	ph, err := s.visible(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if ph.UserID != userID {
		return nil, common.ErrorForbidden
	}
	return ph, nil
}

func (s *PhotoService) likeState(ctx context.Context, id string, liked bool) (*api.LikeResponse, error) {
	ph, err := s.repomanager.Photos(s.db).Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &api.LikeResponse{Liked: liked, LikesCount: ph.LikesCount}, nil
}

func (s *PhotoService) checkTerms(ctx context.Context, fe FieldErrors, categoryIDs, tagIDs []string) error {
	repo := s.repomanager.Terms(s.db)
	for field, c := range map[string]struct {
		kind string
		ids  []string
	}{
		"category_ids": {models.KindCategory, categoryIDs},
		"tag_ids":      {models.KindTag, tagIDs},
	} {
		if len(c.ids) == 0 {
			continue
		}
		missing, err := repo.Missing(ctx, c.kind, c.ids)
		if err != nil {
			return err
		}
		for _, id := range missing {
			fe.add(field, fmt.Sprintf("Invalid pk %q - object does not exist.", id))
		}
	}
	return nil
}

func (s *PhotoService) removeKeys(ctx context.Context, keys []string) {
	for _, k := range keys {
		if err := s.storage.Delete(ctx, k); err != nil {
			s.log.Warn(ctx, "media object not removed", "key", k, "error", err)
		}
	}
}
