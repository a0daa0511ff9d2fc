package services

import (
	"context"
	"fmt"

	api "github.com/dmitrijs2005/artfolio/internal/models"
	"github.com/dmitrijs2005/artfolio/internal/dbx"
	"github.com/dmitrijs2005/artfolio/internal/server/media"
	"github.com/dmitrijs2005/artfolio/internal/server/models"
	"github.com/dmitrijs2005/artfolio/internal/server/repositories/repomanager"
)

// presenter turns stored records into wire objects. It resolves media keys
// to links and embeds owners, term names and the viewer's likes.
type presenter struct {
	repomanager repomanager.RepositoryManager
	storage     media.Storage
}

func (p *presenter) mediaURL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}
	u, err := p.storage.URL(ctx, key, "")
	if err != nil {
		return "", fmt.Errorf("media url for %s: %w", key, err)
	}
	return u, nil
}

// user renders u. Role is only disclosed to the user themselves.
func (p *presenter) user(ctx context.Context, u *models.User, self bool) (*api.UserProfile, error) {
	out := &api.UserProfile{
		ID:             u.ID,
		Username:       u.UserName,
		Email:          u.Email,
		FullName:       u.FullName,
		Bio:            u.Bio,
		About:          u.About,
		Phone:          u.Phone,
		Website:        u.Website,
		Location:       u.Location,
		FollowersCount: u.FollowersCount,
		FollowingCount: u.FollowingCount,
		DateJoined:     u.DateJoined,
	}
	if u.ProfilePicture != "" {
		pic, err := p.mediaURL(ctx, u.ProfilePicture)
		if err != nil {
			return nil, err
		}
		out.ProfilePicture = &pic
	}
	if self {
		role := u.Role
		out.Role = &role
	}
	return out, nil
}

func (p *presenter) users(ctx context.Context, list []models.User) ([]api.UserProfile, error) {
	out := make([]api.UserProfile, 0, len(list))
	for i := range list {
		u, err := p.user(ctx, &list[i], false)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, nil
}

// owners caches embedded profiles while one response is built.
type owners struct {
	p    *presenter
	db   dbx.DBTX
	seen map[string]*api.UserProfile
}

func (p *presenter) owners(db dbx.DBTX) *owners {
	return &owners{p: p, db: db, seen: map[string]*api.UserProfile{}}
}

func (o *owners) get(ctx context.Context, id string) (*api.UserProfile, error) {
	if u, ok := o.seen[id]; ok {
		return u, nil
	}
	rec, err := o.p.repomanager.Users(o.db).GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("owner %s: %w", id, err)
	}
	u, err := o.p.user(ctx, rec, false)
	if err != nil {
		return nil, err
	}
	o.seen[id] = u
	return u, nil
}

func (p *presenter) termNames(ctx context.Context, db dbx.DBTX) (map[string]string, error) {
	names := map[string]string{}
	for _, kind := range []string{models.KindCategory, models.KindTag} {
		list, err := p.repomanager.Terms(db).List(ctx, kind)
		if err != nil {
			return nil, err
		}
		for _, t := range list {
			names[t.ID] = t.Name
		}
	}
	return names, nil
}

func pick(names map[string]string, ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if n, ok := names[id]; ok {
			out = append(out, n)
		}
	}
	return out
}

func (p *presenter) photos(ctx context.Context, db dbx.DBTX, viewerID string, list []models.Photo) ([]api.Photo, error) {
	ids := make([]string, 0, len(list))
	for _, ph := range list {
		ids = append(ids, ph.ID)
	}
	liked, err := p.repomanager.Photos(db).LikedBy(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}
	names, err := p.termNames(ctx, db)
	if err != nil {
		return nil, err
	}
	own := p.owners(db)

	out := make([]api.Photo, 0, len(list))
	for i := range list {
		ph := &list[i]
		owner, err := own.get(ctx, ph.UserID)
		if err != nil {
			return nil, err
		}
		item := api.Photo{
			ID:            ph.ID,
			User:          owner,
			Title:         ph.Title,
			Description:   ph.Description,
			Width:         ph.Width,
			Height:        ph.Height,
			Format:        ph.Format,
			FileSize:      ph.FileSize,
			Categories:    pick(names, ph.CategoryIDs),
			Tags:          pick(names, ph.TagIDs),
			LikesCount:    ph.LikesCount,
			ViewsCount:    ph.ViewsCount,
			DownloadCount: ph.DownloadCount,
			IsLiked:       liked[ph.ID],
			IsPublic:      ph.IsPublic,
			IsFeatured:    ph.IsFeatured,
			Medium:        ph.Medium,
			Year:          ph.Year,
			Location:      ph.Location,
			CreatedAt:     ph.CreatedAt,
			UpdatedAt:     ph.UpdatedAt,
		}
		if ph.ImageKey != "" {
			if item.Image, err = p.mediaURL(ctx, ph.ImageKey); err != nil {
				return nil, err
			}
			if item.ThumbnailURL, err = p.mediaURL(ctx, media.VariantKey(ph.ID, media.SizeSmall)); err != nil {
				return nil, err
			}
		}
		out = append(out, item)
	}
	return out, nil
}

func (p *presenter) photo(ctx context.Context, db dbx.DBTX, viewerID string, ph *models.Photo) (*api.Photo, error) {
	out, err := p.photos(ctx, db, viewerID, []models.Photo{*ph})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// visiblePhotos loads the entries of collection id that viewerID may see,
// in display order.
func (p *presenter) visiblePhotos(ctx context.Context, db dbx.DBTX, viewerID, id string) ([]models.CollectionPhoto, []models.Photo, error) {
	entries, err := p.repomanager.Collections(db).Photos(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	keep := entries[:0]
	var list []models.Photo
	for _, e := range entries {
		ph, err := p.repomanager.Photos(db).Get(ctx, e.PhotoID)
		if err != nil {
			return nil, nil, err
		}
		if !canSee(ph, viewerID) {
			continue
		}
		keep = append(keep, e)
		list = append(list, *ph)
	}
	return keep, list, nil
}

// collections renders list. With detail set each collection carries its
// photos; otherwise only the cover link is resolved.
func (p *presenter) collections(ctx context.Context, db dbx.DBTX, viewerID string, list []models.Collection, detail bool) ([]api.Collection, error) {
	ids := make([]string, 0, len(list))
	for _, c := range list {
		ids = append(ids, c.ID)
	}
	liked, err := p.repomanager.Collections(db).LikedBy(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}
	own := p.owners(db)

	out := make([]api.Collection, 0, len(list))
	for i := range list {
		c := &list[i]
		owner, err := own.get(ctx, c.UserID)
		if err != nil {
			return nil, err
		}
		entries, photos, err := p.visiblePhotos(ctx, db, viewerID, c.ID)
		if err != nil {
			return nil, err
		}

		item := api.Collection{
			ID:           c.ID,
			User:         owner,
			Name:         c.Name,
			Slug:         c.Slug,
			Description:  c.Description,
			IsPrivate:    c.IsPrivate,
			Photos:       []api.CollectionPhoto{},
			ArtworkCount: len(entries),
			ViewsCount:   c.ViewsCount,
			LikesCount:   c.LikesCount,
			IsLiked:      liked[c.ID],
			CreatedAt:    c.CreatedAt,
			UpdatedAt:    c.UpdatedAt,
		}
		if len(photos) > 0 && photos[0].ImageKey != "" {
			cover, err := p.mediaURL(ctx, media.VariantKey(photos[0].ID, media.SizeMedium))
			if err != nil {
				return nil, err
			}
			item.CoverPhotoURL = &cover
		}
		if detail {
			rendered, err := p.photos(ctx, db, viewerID, photos)
			if err != nil {
				return nil, err
			}
			for j, e := range entries {
				item.Photos = append(item.Photos, api.CollectionPhoto{
					ID:      e.PhotoID,
					Photo:   rendered[j],
					Order:   e.Position,
					AddedAt: e.AddedAt,
				})
			}
		}
		out = append(out, item)
	}
	return out, nil
}

func (p *presenter) collection(ctx context.Context, db dbx.DBTX, viewerID string, c *models.Collection) (*api.Collection, error) {
	out, err := p.collections(ctx, db, viewerID, []models.Collection{*c}, true)
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func presentTerm(t *models.Term) api.Term {
	return api.Term{
		ID:          t.ID,
		Name:        t.Name,
		Slug:        t.Slug,
		Description: t.Description,
		PhotosCount: t.PhotosCount,
		CreatedAt:   t.CreatedAt,
	}
}

func canSee(ph *models.Photo, viewerID string) bool {
	return ph.IsPublic || (viewerID != "" && ph.UserID == viewerID)
}
