package client

import (
	"context"

	"github.com/dmitrijs2005/artfolio/internal/models"
)

// AuthAPI is the slice of the API the session controller depends on.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*models.AuthResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	RefreshToken(ctx context.Context, refresh string) (*models.TokenResponse, error)
	Logout(ctx context.Context, refresh string) error
	Profile(ctx context.Context) (*models.UserProfile, error)
}

// Client is the full gallery API.
type Client interface {
	AuthAPI

	ForgotPassword(ctx context.Context, email string) (*models.MessageResponse, error)
	ResetPassword(ctx context.Context, token, password string) (*models.MessageResponse, error)

	UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.UserProfile, error)
	UploadAvatar(ctx context.Context, filename string, content []byte) (*models.UserProfile, error)
	Follow(ctx context.Context, userID string) error
	Unfollow(ctx context.Context, userID string) error
	Followers(ctx context.Context, userID string) ([]models.UserProfile, error)
	Following(ctx context.Context, userID string) ([]models.UserProfile, error)

	ListPhotos(ctx context.Context, p models.ListParams) (*models.Page[models.Photo], error)
	GetPhoto(ctx context.Context, id string) (*models.Photo, error)
	CreatePhoto(ctx context.Context, in models.PhotoInput) (*models.Photo, error)
	UpdatePhoto(ctx context.Context, id string, in models.PhotoInput) (*models.Photo, error)
	DeletePhoto(ctx context.Context, id string) error
	UploadPhoto(ctx context.Context, in models.PhotoInput, filename string, content []byte) (*models.Photo, error)
	LikePhoto(ctx context.Context, id string) (*models.LikeResponse, error)
	UnlikePhoto(ctx context.Context, id string) (*models.LikeResponse, error)
	DownloadPhoto(ctx context.Context, id, size string) (*models.DownloadLink, error)

	ListCollections(ctx context.Context, p models.ListParams) (*models.Page[models.Collection], error)
	GetCollection(ctx context.Context, id string) (*models.Collection, error)
	CreateCollection(ctx context.Context, in models.CollectionInput) (*models.Collection, error)
	UpdateCollection(ctx context.Context, id string, in models.CollectionInput) (*models.Collection, error)
	DeleteCollection(ctx context.Context, id string) error
	LikeCollection(ctx context.Context, id string) (*models.LikeResponse, error)
	UnlikeCollection(ctx context.Context, id string) (*models.LikeResponse, error)
	AddCollectionPhoto(ctx context.Context, id, photoID string) (*models.Collection, error)
	RemoveCollectionPhoto(ctx context.Context, id, photoID string) error

	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id string) (*models.Category, error)
	CreateCategory(ctx context.Context, in models.TermInput) (*models.Category, error)
	UpdateCategory(ctx context.Context, id string, in models.TermInput) (*models.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	ListTags(ctx context.Context) ([]models.Tag, error)
	GetTag(ctx context.Context, id string) (*models.Tag, error)
	CreateTag(ctx context.Context, in models.TermInput) (*models.Tag, error)
	UpdateTag(ctx context.Context, id string, in models.TermInput) (*models.Tag, error)
	DeleteTag(ctx context.Context, id string) error
}

var _ Client = (*HTTPClient)(nil)
