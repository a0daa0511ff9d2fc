package services

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/artfolio/internal/client/client"
	"github.com/dmitrijs2005/artfolio/internal/filex"
	"github.com/dmitrijs2005/artfolio/internal/logging"
	"github.com/dmitrijs2005/artfolio/internal/models"
	"github.com/dmitrijs2005/artfolio/internal/netx"
)

// GalleryService is the browsing and curation surface used by the CLI.
type GalleryService interface {
	Photos(ctx context.Context, p models.ListParams) (*models.Page[models.Photo], error)
	Photo(ctx context.Context, id string) (*models.Photo, error)
	Like(ctx context.Context, id string) (*models.LikeResponse, error)
	Unlike(ctx context.Context, id string) (*models.LikeResponse, error)
	Upload(ctx context.Context, filePath string, in models.PhotoInput) (*models.Photo, error)
	Download(ctx context.Context, id, size, dir string) (string, error)

	Collections(ctx context.Context, p models.ListParams) (*models.Page[models.Collection], error)
	Collection(ctx context.Context, id string) (*models.Collection, error)
	CreateCollection(ctx context.Context, in models.CollectionInput) (*models.Collection, error)
	AddToCollection(ctx context.Context, collectionID, photoID string) (*models.Collection, error)

	Categories(ctx context.Context) ([]models.Category, error)
	Tags(ctx context.Context) ([]models.Tag, error)

	Follow(ctx context.Context, userID string) error
	Unfollow(ctx context.Context, userID string) error
}

type galleryService struct {
	client   client.Client
	baseURL  string
	logger   logging.Logger
	download func(ctx context.Context, url, dst string) (int64, error)
}

// NewGalleryService returns a GalleryService over c. Relative download
// links are resolved against baseURL.
func NewGalleryService(c client.Client, baseURL string, logger logging.Logger) GalleryService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &galleryService{client: c, baseURL: baseURL, logger: logger, download: netx.DownloadToFile}
}

func (s *galleryService) Photos(ctx context.Context, p models.ListParams) (*models.Page[models.Photo], error) {
	return s.client.ListPhotos(ctx, p)
}

func (s *galleryService) Photo(ctx context.Context, id string) (*models.Photo, error) {
	return s.client.GetPhoto(ctx, id)
}

func (s *galleryService) Like(ctx context.Context, id string) (*models.LikeResponse, error) {
	return s.client.LikePhoto(ctx, id)
}

func (s *galleryService) Unlike(ctx context.Context, id string) (*models.LikeResponse, error) {
	return s.client.UnlikePhoto(ctx, id)
}

func (s *galleryService) Upload(ctx context.Context, filePath string, in models.PhotoInput) (*models.Photo, error) {
	data, name, err := filex.ReadUpload(filePath, filex.MaxUploadSize)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	if in.Title == "" {
		in.Title = strings.TrimSuffix(name, filepath.Ext(name))
	}

	photo, err := s.client.UploadPhoto(ctx, in, name, data)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "photo uploaded", "id", photo.ID, "bytes", len(data))
	return photo, nil
}

// Download asks the API for a download link and saves the image under dir.
// It returns the path of the written file.
func (s *galleryService) Download(ctx context.Context, id, size, dir string) (string, error) {
	link, err := s.client.DownloadPhoto(ctx, id, size)
	if err != nil {
		return "", err
	}

	src, err := s.resolve(link.URL)
	if err != nil {
		return "", err
	}

	dir, err = filex.EnsureDir(dir)
	if err != nil {
		return "", err
	}

	dst := filepath.Join(dir, downloadName(id, link))
	n, err := s.download(ctx, src, dst)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", id, err)
	}

	s.logger.Info(ctx, "photo downloaded", "id", id, "size", link.Size, "bytes", n, "path", dst)
	return dst, nil
}

func (s *galleryService) resolve(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid download url %q: %w", raw, err)
	}
	if u.IsAbs() {
		return u.String(), nil
	}

	base, err := url.Parse(s.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base url %q: %w", s.baseURL, err)
	}
	return base.ResolveReference(u).String(), nil
}

func downloadName(id string, link *models.DownloadLink) string {
	if link.Filename != "" {
		return filepath.Base(link.Filename)
	}

	ext := ".jpg"
	if u, err := url.Parse(link.URL); err == nil {
		if e := path.Ext(u.Path); e != "" {
			ext = e
		}
	}

	size := link.Size
	if size == "" {
		size = models.SizeOriginal
	}
	return id + "_" + size + ext
}

func (s *galleryService) Collections(ctx context.Context, p models.ListParams) (*models.Page[models.Collection], error) {
	return s.client.ListCollections(ctx, p)
}

func (s *galleryService) Collection(ctx context.Context, id string) (*models.Collection, error) {
	return s.client.GetCollection(ctx, id)
}

func (s *galleryService) CreateCollection(ctx context.Context, in models.CollectionInput) (*models.Collection, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("collection name is required")
	}
	return s.client.CreateCollection(ctx, in)
}

func (s *galleryService) AddToCollection(ctx context.Context, collectionID, photoID string) (*models.Collection, error) {
	return s.client.AddCollectionPhoto(ctx, collectionID, photoID)
}

func (s *galleryService) Categories(ctx context.Context) ([]models.Category, error) {
	return s.client.ListCategories(ctx)
}

func (s *galleryService) Tags(ctx context.Context) ([]models.Tag, error) {
	return s.client.ListTags(ctx)
}

func (s *galleryService) Follow(ctx context.Context, userID string) error {
	return s.client.Follow(ctx, userID)
}

func (s *galleryService) Unfollow(ctx context.Context, userID string) error {
	return s.client.Unfollow(ctx, userID)
}
