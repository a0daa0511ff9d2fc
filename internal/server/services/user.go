// Package services contains server-side business logic. This file implements
// UserService, which handles accounts, issuing/refreshing JWTs plus
// server-stored refresh tokens, profiles and the follow graph.
package services

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/artfolio/internal/common"
	"github.com/dmitrijs2005/artfolio/internal/cryptox"
	"github.com/dmitrijs2005/artfolio/internal/dbx"
	"github.com/dmitrijs2005/artfolio/internal/logging"
	api "github.com/dmitrijs2005/artfolio/internal/models"
	"github.com/dmitrijs2005/artfolio/internal/server/auth"
	"github.com/dmitrijs2005/artfolio/internal/server/config"
	"github.com/dmitrijs2005/artfolio/internal/server/media"
	"github.com/dmitrijs2005/artfolio/internal/server/models"
	"github.com/dmitrijs2005/artfolio/internal/server/repositories/repomanager"
)

// Account roles accepted at registration.
var roles = map[string]bool{"user": true, "artist": true, "curator": true, "collector": true}

const (
	defaultRole     = "user"
	minPasswordLen  = 8
	resetValidity   = 24 * time.Hour
	maxUserNameLen  = 50
	minUserNameLen  = 3
	resetTokenBytes = 32
)

var (
	userNameRe = regexp.MustCompile(`^[\w.@+-]+$`)
	phoneRe    = regexp.MustCompile(`^\+?1?\d{9,15}$`)
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// ResetNotifier delivers a password reset token to its owner.
type ResetNotifier func(ctx context.Context, user *models.User, token string)

// UserService provides account operations:
// - Register, Login: create users, verify credentials and mint tokens
// - RefreshToken, Logout: rotate and revoke refresh tokens
// - Profile, UpdateProfile, SetAvatar: the caller's own profile
// - Follow, Unfollow, Followers, Following: the follow graph
// - ForgotPassword, ResetPassword: single-use reset tokens
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	storage                      media.Storage
	present                      *presenter
	log                          logging.Logger
	attempts                     *loginAttempts
	maxLoginAttempts             int
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration

	// NotifyReset is called with every issued reset token. The default
	// only logs it, as the server sends no mail.
	NotifyReset ResetNotifier
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, storage media.Storage, cfg *config.Config, log logging.Logger) *UserService {
	s := &UserService{
		db:                           db,
		repomanager:                  m,
		storage:                      storage,
		present:                      &presenter{repomanager: m, storage: storage},
		log:                          log,
		attempts:                     newLoginAttempts(cfg.LoginLockout),
		maxLoginAttempts:             cfg.MaxLoginAttempts,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
	s.NotifyReset = func(ctx context.Context, user *models.User, token string) {
		s.log.Info(ctx, "password reset requested", "user_id", user.ID, "email", user.Email, "token", token)
	}
	return s
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. Expired tokens yield ErrRefreshTokenExpired,
// unknown ones ErrInvalidToken.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	repo := s.repomanager.RefreshTokens(s.db)

	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expired(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repomanager.RefreshTokens(tx)
		if err := repoTx.Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, token.UserID, tx)
		return genErr
	}); err != nil {
		return nil, err
	}
	return pair, nil
}

// Register creates an account and signs it in. The username is derived
// from the email address.
func (s *UserService) Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	role := req.Role
	if role == "" {
		role = defaultRole
	}

	fe := FieldErrors{}
	validateEmail(fe, email)
	validatePassword(fe, req.Password)
	if strings.TrimSpace(req.FullName) == "" {
		fe.add("fullName", msgRequired)
	}
	if !roles[role] {
		fe.add("role", fmt.Sprintf("%q is not a valid choice.", role))
	}
	if err := fe.orNil(); err != nil {
		return nil, err
	}

	users := s.repomanager.Users(s.db)
	if _, err := users.GetUserByLogin(ctx, email); err == nil {
		return nil, FieldErrors{"email": {"user with this email already exists."}}
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	userName, err := s.freeUserName(ctx, email)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		UserName:     userName,
		FullName:     strings.TrimSpace(req.FullName),
		PasswordHash: cryptox.HashPassword(req.Password),
		Role:         role,
		IsActive:     true,
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Users(tx).Create(ctx, user); err != nil {
			if errors.Is(err, common.ErrorAlreadyExists) {
				return FieldErrors{"email": {"user with this email already exists."}}
			}
			return fmt.Errorf("error creating user: %w", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, user.ID, tx)
		return genErr
	}); err != nil {
		return nil, err
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID, "username", user.UserName)
	return s.authResponse(ctx, user.ID, pair)
}

// Login verifies email and password and, on success, returns a new
// TokenPair with the user's profile. Repeated failures lock the email out.
func (s *UserService) Login(ctx context.Context, email, password string) (*api.AuthResponse, error) {
	fe := FieldErrors{}
	if strings.TrimSpace(email) == "" {
		fe.add("email", msgRequired)
	}
	if password == "" {
		fe.add("password", msgRequired)
	}
	if err := fe.orNil(); err != nil {
		return nil, err
	}

	if s.attempts.Count(email) >= s.maxLoginAttempts {
		return nil, common.ErrorTooManyAttempts
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetUserByLogin(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.attempts.Fail(email)
			return nil, common.ErrorInvalidCredential
		}
		return nil, common.ErrorInternal
	}

	ok, err := cryptox.VerifyPassword(user.PasswordHash, password)
	if err != nil {
		s.log.Error(ctx, "stored password hash unreadable", "user_id", user.ID, "error", err)
		return nil, common.ErrorInternal
	}
	if !ok {
		s.attempts.Fail(email)
		return nil, common.ErrorInvalidCredential
	}
	if !user.IsActive {
		return nil, common.ErrorInactiveAccount
	}
	s.attempts.Reset(email)

	pair, err := s.generateTokenPair(ctx, user.ID, s.db)
	if err != nil {
		return nil, err
	}
	return s.authResponse(ctx, user.ID, pair)
}

// Logout revokes refreshToken. An authenticated caller (non-empty userID)
// may only revoke their own tokens.
func (s *UserService) Logout(ctx context.Context, userID, refreshToken string) error {
	if refreshToken == "" {
		return badRequest("Refresh token is required")
	}

	repo := s.repomanager.RefreshTokens(s.db)
	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return badRequest("Invalid token")
		}
		return fmt.Errorf("error searching refresh token: %w", err)
	}
	if userID != "" && token.UserID != userID {
		return badRequest("Invalid token")
	}
	if err := repo.Delete(ctx, refreshToken); err != nil {
		return fmt.Errorf("error deleting refresh token: %w", err)
	}
	return nil
}

func (s *UserService) Profile(ctx context.Context, userID string) (*api.UserProfile, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.present.user(ctx, user, true)
}

// UpdateProfile applies the non-nil fields of upd.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, upd api.ProfileUpdate) (*api.UserProfile, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	fe := FieldErrors{}
	if upd.Username != nil {
		name := strings.TrimSpace(*upd.Username)
		switch {
		case utf8.RuneCountInString(name) < minUserNameLen:
			fe.add("username", fmt.Sprintf("Ensure this field has at least %d characters.", minUserNameLen))
		case utf8.RuneCountInString(name) > maxUserNameLen:
			fe.add("username", fmt.Sprintf("Ensure this field has no more than %d characters.", maxUserNameLen))
		case !userNameRe.MatchString(name):
			fe.add("username", "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
		}
		user.UserName = name
	}
	setText(fe, "full_name", upd.FullName, 100, &user.FullName)
	setText(fe, "bio", upd.Bio, 500, &user.Bio)
	setText(fe, "about", upd.About, 1000, &user.About)
	setText(fe, "location", upd.Location, 100, &user.Location)
	if upd.Phone != nil {
		if *upd.Phone != "" && !phoneRe.MatchString(*upd.Phone) {
			fe.add("phone", "Phone number must be entered in the format: '+999999999'")
		}
		user.Phone = *upd.Phone
	}
	if upd.Website != nil {
		if *upd.Website != "" && !validURL(*upd.Website) {
			fe.add("website", "Enter a valid URL.")
		}
		user.Website = *upd.Website
	}
	if err := fe.orNil(); err != nil {
		return nil, err
	}

	if err := repo.Update(ctx, user); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, FieldErrors{"username": {"A user with that username already exists."}}
		}
		return nil, fmt.Errorf("error updating user: %w", err)
	}
	return s.Profile(ctx, userID)
}

// SetAvatar validates data as an image, stores a square-bounded JPEG of it
// and points the profile at it. The previous picture is removed.
func (s *UserService) SetAvatar(ctx context.Context, userID string, data []byte) (*api.UserProfile, error) {
	if len(data) == 0 {
		return nil, FieldErrors{"profile_picture": {"No file was submitted."}}
	}
	info, err := media.Inspect(data)
	if err != nil {
		return nil, FieldErrors{"profile_picture": {err.Error()}}
	}
	variants, err := media.Variants(data, info, media.SizeSmall)
	if err != nil {
		return nil, FieldErrors{"profile_picture": {err.Error()}}
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	nonce, err := common.MakeRandHexString(8)
	if err != nil {
		return nil, common.ErrorInternal
	}
	key := media.AvatarKey(userID, nonce, ".jpg")
	if err := s.storage.Put(ctx, key, "image/jpeg", variants[media.SizeSmall]); err != nil {
		return nil, fmt.Errorf("error storing avatar: %w", err)
	}

	old := user.ProfilePicture
	user.ProfilePicture = key
	if err := repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("error updating user: %w", err)
	}
	if old != "" {
		if err := s.storage.Delete(ctx, old); err != nil {
			s.log.Warn(ctx, "stale avatar not removed", "key", old, "error", err)
		}
	}
	return s.Profile(ctx, userID)
}

// Follow makes followerID follow the user identified by target (id or
// username).
func (s *UserService) Follow(ctx context.Context, followerID, target string) error {
	repo := s.repomanager.Users(s.db)
	user, err := repo.Resolve(ctx, target)
	if err != nil {
		return err
	}
	if user.ID == followerID {
		return badRequest("You cannot follow yourself.")
	}
	if err := repo.Follow(ctx, followerID, user.ID); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return badRequest("You are already following this user.")
		}
		return fmt.Errorf("error following user: %w", err)
	}
	return nil
}

func (s *UserService) Unfollow(ctx context.Context, followerID, target string) error {
	repo := s.repomanager.Users(s.db)
	user, err := repo.Resolve(ctx, target)
	if err != nil {
		return err
	}
	if err := repo.Unfollow(ctx, followerID, user.ID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return badRequest("You are not following this user.")
		}
		return fmt.Errorf("error unfollowing user: %w", err)
	}
	return nil
}

func (s *UserService) Followers(ctx context.Context, target string) ([]api.UserProfile, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.Resolve(ctx, target)
	if err != nil {
		return nil, err
	}
	list, err := repo.Followers(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return s.present.users(ctx, list)
}

func (s *UserService) Following(ctx context.Context, target string) ([]api.UserProfile, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.Resolve(ctx, target)
	if err != nil {
		return nil, err
	}
	list, err := repo.Following(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return s.present.users(ctx, list)
}

// ForgotPassword issues a reset token for email. Unknown addresses succeed
// silently so the endpoint does not reveal which accounts exist.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	fe := FieldErrors{}
	validateEmail(fe, strings.TrimSpace(email))
	if err := fe.orNil(); err != nil {
		return err
	}

	user, err := s.repomanager.Users(s.db).GetUserByLogin(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.log.Debug(ctx, "password reset for unknown email")
			return nil
		}
		return fmt.Errorf("error searching user: %w", err)
	}

	token, err := common.MakeRandHexString(resetTokenBytes)
	if err != nil {
		return common.ErrorInternal
	}
	if err := s.repomanager.PasswordResets(s.db).Create(ctx, resetVerifier(token), user.ID, resetValidity); err != nil {
		return fmt.Errorf("error storing reset: %w", err)
	}
	s.NotifyReset(ctx, user, token)
	return nil
}

// ResetPassword consumes token and sets a new password. Every refresh
// token of the user is revoked.
func (s *UserService) ResetPassword(ctx context.Context, token, password string) error {
	fe := FieldErrors{}
	if token == "" {
		fe.add("token", msgRequired)
	}
	validatePassword(fe, password)
	if err := fe.orNil(); err != nil {
		return err
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		reset, err := s.repomanager.PasswordResets(tx).Take(ctx, resetVerifier(token))
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return badRequest("Invalid or expired token")
			}
			return fmt.Errorf("error searching reset: %w", err)
		}
		if reset.Expired(time.Now()) {
			return badRequest("Invalid or expired token")
		}

		users := s.repomanager.Users(tx)
		user, err := users.GetByID(ctx, reset.UserID)
		if err != nil {
			return err
		}
		user.PasswordHash = cryptox.HashPassword(password)
		if err := users.Update(ctx, user); err != nil {
			return fmt.Errorf("error updating user: %w", err)
		}
		return s.repomanager.RefreshTokens(tx).DeleteForUser(ctx, user.ID)
	})
}

// --- helpers below ---

func (s *UserService) authResponse(ctx context.Context, userID string, pair *TokenPair) (*api.AuthResponse, error) {
	profile, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &api.AuthResponse{Token: pair.AccessToken, Refresh: pair.RefreshToken, User: *profile}, nil
}

// freeUserName derives a username from the local part of email, suffixing
// a counter while it is taken.
func (s *UserService) freeUserName(ctx context.Context, email string) (string, error) {
	base, _, _ := strings.Cut(email, "@")
	base = strings.Map(func(r rune) rune {
		if userNameRe.MatchString(string(r)) {
			return r
		}
		return -1
	}, base)
	for utf8.RuneCountInString(base) < minUserNameLen {
		base += "_"
	}
	if len(base) > maxUserNameLen-4 {
		base = base[:maxUserNameLen-4]
	}

	repo := s.repomanager.Users(s.db)
	name := base
	for i := 2; ; i++ {
		taken, err := repo.UserNameTaken(ctx, name)
		if err != nil {
			return "", err
		}
		if !taken {
			return name, nil
		}
		name = base + strconv.Itoa(i)
	}
}

func (s *UserService) generateAccessToken(userID string) (string, error) {
	return auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
}

func (s *UserService) generateRefreshToken() (string, error) {
	return common.MakeRandHexString(32)
}

func (s *UserService) generateTokenPair(ctx context.Context, userID string, tx dbx.DBTX) (*TokenPair, error) {
	access, err := s.generateAccessToken(userID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := s.generateRefreshToken()
	if err != nil {
		return nil, common.ErrorInternal
	}
	refreshRepo := s.repomanager.RefreshTokens(tx)
	if err := refreshRepo.Create(ctx, userID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func resetVerifier(token string) string {
	return hex.EncodeToString(cryptox.MakeVerifier([]byte(token)))
}

func validateEmail(fe FieldErrors, email string) {
	if email == "" {
		fe.add("email", msgRequired)
		return
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || !strings.EqualFold(addr.Address, email) {
		fe.add("email", "Enter a valid email address.")
	}
}

func validatePassword(fe FieldErrors, password string) {
	switch {
	case password == "":
		fe.add("password", msgRequired)
	case utf8.RuneCountInString(password) < minPasswordLen:
		fe.add("password", fmt.Sprintf("Ensure this field has at least %d characters.", minPasswordLen))
	}
}

func setText(fe FieldErrors, field string, v *string, limit int, dst *string) {
	if v == nil {
		return
	}
	if utf8.RuneCountInString(*v) > limit {
		fe.add(field, fmt.Sprintf("Ensure this field has no more than %d characters.", limit))
	}
	*dst = *v
}

func validURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
