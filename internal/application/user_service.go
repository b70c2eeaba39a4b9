package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/photo-gallery/internal/domain/entity"
	repo "github.com/oksasatya/photo-gallery/internal/domain/repository"
	"github.com/oksasatya/photo-gallery/pkg/helpers"
)

// Service is the account service: registration, sessions and self-service profile.
type Service struct {
	Repo   repo.UserRepository
	Photos repo.PhotoRepository
	Blobs  repo.BlobStore
	JWT    *helpers.JWTManager
	Redis  *redis.Client
	Notify Notifier
	Logger *logrus.Logger
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

const sessionTTL = 24 * time.Hour

// SessionKey is the Redis hash holding the live session of a user.
func SessionKey(userID string) string {
	return "user:session:" + userID
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func NewService(users repo.UserRepository, photos repo.PhotoRepository, blobs repo.BlobStore, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{
		Repo:   users,
		Photos: photos,
		Blobs:  blobs,
		JWT:    jwt,
		Redis:  rdb,
		Logger: logger,
	}
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required,title"`
	Email    string `json:"email" validate:"required,email,title"`
	Password string `json:"password" validate:"required,pwd"`
}

// ProfileInput edits the caller's own account. An empty password keeps the current one.
type ProfileInput struct {
	Name     string `json:"name" validate:"required,title"`
	Email    string `json:"email" validate:"required,email,title"`
	Password string `json:"password" validate:"omitempty,pwd"`
}

type LoginResponse struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"is_admin"`
}

// Register creates a regular (non admin) account and queues a welcome email.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if verr := validate(in); verr != nil {
		return nil, verr
	}
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{Name: in.Name, Email: in.Email, Password: hash}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, mapUserWriteErr(err)
	}
	if s.Notify != nil {
		if err := s.Notify.Welcome(ctx, u); err != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("welcome email enqueue failed")
		}
	}
	return u, nil
}

// Authenticate validates email/password and returns the user without issuing tokens.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// IssueTokens generates access/refresh tokens and records a session in Redis.
func (s *Service) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	pair, err := s.pair(u.ID, sid)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate tokens failed")
		return TokenPair{}, err
	}

	if s.Redis != nil {
		fields := map[string]any{
			"user_id":    u.ID,
			"email":      u.Email,
			"name":       u.Name,
			"is_admin":   u.IsAdmin,
			"sid":        sid,
			"logged_in":  true,
			"created_at": nowRFC3339(),
		}
		key := SessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, sessionTTL)
		// a token whose session was never stored would never authenticate
		if _, rErr := pipe.Exec(ctx); rErr != nil {
			s.Logger.WithError(rErr).WithField("key", key).Error("session store failed")
			return TokenPair{}, fmt.Errorf("%w: %v", ErrSessionUnavailable, rErr)
		}
	}
	return pair, nil
}

func (s *Service) pair(userID, sid string) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(userID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(userID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*LoginResponse, TokenPair, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return &LoginResponse{UserID: u.ID, Email: u.Email, Name: u.Name, IsAdmin: u.IsAdmin}, pair, nil
}

// Refresh validates the refresh token against the live session and rotates both tokens.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, string, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	u, err := s.Repo.GetByID(ctx, claims.UserID)
	if err != nil || u == nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	if !s.SessionValid(ctx, u.ID, claims.SessionID) {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	sid := uuid.NewString()
	pair, err := s.pair(u.ID, sid)
	if err != nil {
		return TokenPair{}, "", err
	}
	if s.Redis != nil {
		key := SessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"sid":        sid,
			"updated_at": nowRFC3339(),
		})
		pipe.Expire(ctx, key, sessionTTL)
		if _, rErr := pipe.Exec(ctx); rErr != nil {
			s.Logger.WithError(rErr).WithField("key", key).Error("session rotate failed")
			return TokenPair{}, "", fmt.Errorf("%w: %v", ErrSessionUnavailable, rErr)
		}
	}
	return pair, u.ID, nil
}

// SessionValid reports whether sid is the user's current session. Without Redis every
// signed token is accepted.
func (s *Service) SessionValid(ctx context.Context, userID, sid string) bool {
	if s.Redis == nil {
		return true
	}
	data, err := s.Redis.HGetAll(ctx, SessionKey(userID)).Result()
	return err == nil && len(data) > 0 && data["sid"] == sid
}

func (s *Service) Logout(ctx context.Context, userID string) {
	if s.Redis == nil || userID == "" {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, SessionKey(userID)); err != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("session delete failed")
	}
}

func (s *Service) GetProfile(ctx context.Context, actor entity.Actor) (*entity.User, error) {
	if !actor.IsAuthenticated() {
		return nil, ErrPolicyDenied
	}
	u, err := s.Repo.GetByID(ctx, actor.UserID)
	if err != nil || u == nil {
		return nil, ErrNotFound
	}
	return u, nil
}

// UpdateProfile with ctx, RFC3339 timestamps, and TTL preservation
func (s *Service) UpdateProfile(ctx context.Context, actor entity.Actor, in ProfileInput) (*entity.User, error) {
	u, err := s.GetProfile(ctx, actor)
	if err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if verr := validate(in); verr != nil {
		return nil, verr
	}
	u.Name = in.Name
	u.Email = in.Email
	if in.Password != "" {
		hash, err := helpers.HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		u.Password = hash
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, mapUserWriteErr(err)
	}

	if s.Redis != nil {
		key := SessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"name":       u.Name,
			"email":      u.Email,
			"updated_at": nowRFC3339(),
		})
		if ttl, tErr := s.Redis.TTL(ctx, key).Result(); tErr == nil && ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		if _, pErr := pipe.Exec(ctx); pErr != nil {
			s.Logger.WithError(pErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}
	return u, nil
}

// DeleteAccount removes the caller and everything they uploaded. The password must be confirmed.
func (s *Service) DeleteAccount(ctx context.Context, actor entity.Actor, password string) error {
	u, err := s.GetProfile(ctx, actor)
	if err != nil {
		return err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return invalid("password", "is incorrect")
	}
	if err := deleteUserCascade(ctx, s.Repo, s.Photos, s.Blobs, s.Logger, u.ID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	s.Logout(ctx, u.ID)
	return nil
}
