package application

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/photo-gallery/internal/domain/entity"
	repo "github.com/oksasatya/photo-gallery/internal/domain/repository"
)

func TestRegister(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	u, err := e.account.Register(ctx, RegisterInput{Name: "Alice", Email: "Alice@Example.com", Password: "password"})
	require.NoError(t, err)
	require.False(t, u.IsAdmin)
	require.Equal(t, "alice@example.com", u.Email)
	require.NotEqual(t, "password", u.Password)
	require.Equal(t, []string{"alice@example.com"}, e.notify.welcomed)

	_, err = e.account.Register(ctx, RegisterInput{Name: "Other", Email: "alice@example.com", Password: "password"})
	require.ErrorIs(t, err, ErrEmailTaken)

	_, err = e.account.Register(ctx, RegisterInput{Name: "", Email: "x", Password: "1"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 3)
}

func TestLoginAndRefresh(t *testing.T) {
	e := newEnv(t)
	e.seedUser(t, "Alice", "alice@example.com", false)
	ctx := context.Background()

	_, _, err := e.account.Login(ctx, "alice@example.com", "wrong-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = e.account.Login(ctx, "nobody@example.com", "password")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	res, pair, err := e.account.Login(ctx, "ALICE@example.com", "password")
	require.NoError(t, err)
	require.Equal(t, "Alice", res.Name)
	require.NotEmpty(t, pair.AccessToken)

	claims, err := e.account.JWT.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, res.UserID, claims.UserID)

	next, uid, err := e.account.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, res.UserID, uid)
	require.NotEmpty(t, next.RefreshToken)

	_, _, err = e.account.Refresh(ctx, pair.AccessToken)
	require.ErrorIs(t, err, ErrInvalidCredentials, "an access token is not a refresh token")
}

func TestLogin_SessionStoreDown(t *testing.T) {
	e := newEnv(t)
	e.seedUser(t, "Alice", "alice@example.com", false)
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	e.account.Redis = rdb

	_, pair, err := e.account.Login(context.Background(), "alice@example.com", "password")
	require.ErrorIs(t, err, ErrSessionUnavailable)
	require.Empty(t, pair.AccessToken, "no cookies for a session that was never stored")
}

func TestProfile(t *testing.T) {
	e := newEnv(t)
	alice := e.seedUser(t, "Alice", "alice@example.com", false)
	e.seedUser(t, "Bob", "bob@example.com", false)
	ctx := context.Background()

	_, err := e.account.GetProfile(ctx, entity.Guest())
	require.ErrorIs(t, err, ErrPolicyDenied)

	u, err := e.account.UpdateProfile(ctx, alice, ProfileInput{Name: "Alicia", Email: "alice@example.com"})
	require.NoError(t, err)
	require.Equal(t, "Alicia", u.Name)

	_, err = e.account.UpdateProfile(ctx, alice, ProfileInput{Name: "Alicia", Email: "bob@example.com"})
	require.ErrorIs(t, err, ErrEmailTaken)

	_, err = e.account.UpdateProfile(ctx, alice, ProfileInput{Name: "Alicia", Email: "alice@example.com", Password: "short"})
	require.ErrorIs(t, err, ErrValidation)
}

func TestDeleteAccountCascades(t *testing.T) {
	e := newEnv(t)
	alice := e.seedUser(t, "Alice", "alice@example.com", false)
	p := e.upload(t, alice, "Sunset")
	ctx := context.Background()

	err := e.account.DeleteAccount(ctx, alice, "wrong")
	require.ErrorIs(t, err, ErrValidation)
	require.True(t, e.blobs.has(p.ImagePath))

	require.NoError(t, e.account.DeleteAccount(ctx, alice, "password"))
	require.False(t, e.blobs.has(p.ImagePath))
	_, err = e.photos.GetByID(ctx, p.ID)
	require.ErrorIs(t, err, repo.ErrNotFound)
	_, err = e.users.GetByID(ctx, alice.UserID)
	require.ErrorIs(t, err, repo.ErrNotFound)
}
