package application

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/photo-gallery/internal/domain/entity"
	repo "github.com/oksasatya/photo-gallery/internal/domain/repository"
	"github.com/oksasatya/photo-gallery/pkg/helpers"
)

func TestAdmin_RequiresAdministrator(t *testing.T) {
	e := newEnv(t)
	alice := e.seedUser(t, "Alice", "alice@example.com", false)
	ctx := context.Background()

	for _, actor := range []entity.Actor{entity.Guest(), alice} {
		_, err := e.admin.Stats(ctx, actor)
		require.ErrorIs(t, err, ErrPolicyDenied)
		_, err = e.admin.ListUsers(ctx, actor, 1)
		require.ErrorIs(t, err, ErrPolicyDenied)
		_, err = e.admin.CreateUser(ctx, actor, UserInput{})
		require.ErrorIs(t, err, ErrPolicyDenied, "policy is checked before validation")
		require.ErrorIs(t, e.admin.DeleteUser(ctx, actor, alice.UserID), ErrPolicyDenied)
		_, err = e.admin.ListPhotos(ctx, actor, 1)
		require.ErrorIs(t, err, ErrPolicyDenied)
		require.ErrorIs(t, e.admin.DeletePhoto(ctx, actor, "any"), ErrPolicyDenied)
	}
}

// Scenario: an administrator cannot delete their own account.
func TestAdmin_SelfDeleteRefused(t *testing.T) {
	e := newEnv(t)
	admin := e.seedUser(t, "Admin", "admin@example.com", true)
	p := e.upload(t, admin, "Mine")
	ctx := context.Background()

	require.ErrorIs(t, e.admin.DeleteUser(ctx, admin, admin.UserID), ErrSelfDelete)

	_, err := e.users.GetByID(ctx, admin.UserID)
	require.NoError(t, err)
	_, err = e.photos.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.True(t, e.blobs.has(p.ImagePath))
}

func TestAdmin_DeleteUserCascades(t *testing.T) {
	e := newEnv(t)
	admin := e.seedUser(t, "Admin", "admin@example.com", true)
	alice := e.seedUser(t, "Alice", "alice@example.com", false)
	bob := e.seedUser(t, "Bob", "bob@example.com", false)
	var paths []string
	for i := 0; i < 3; i++ {
		paths = append(paths, e.upload(t, alice, fmt.Sprint("a", i)).ImagePath)
	}
	keep := e.upload(t, bob, "b")
	ctx := context.Background()

	require.NoError(t, e.admin.DeleteUser(ctx, admin, alice.UserID))

	_, err := e.users.GetByID(ctx, alice.UserID)
	require.ErrorIs(t, err, repo.ErrNotFound)
	for _, p := range paths {
		require.False(t, e.blobs.has(p))
	}
	n, err := e.photos.Count(ctx, repo.PhotoFilter{OwnerID: alice.UserID})
	require.NoError(t, err)
	require.Zero(t, n)
	require.True(t, e.blobs.has(keep.ImagePath))

	require.ErrorIs(t, e.admin.DeleteUser(ctx, admin, alice.UserID), ErrNotFound)
}

func TestAdmin_CreateAndUpdateUser(t *testing.T) {
	e := newEnv(t)
	admin := e.seedUser(t, "Admin", "admin@example.com", true)
	ctx := context.Background()

	_, err := e.admin.CreateUser(ctx, admin, UserInput{Name: "Carol", Email: "carol@example.com"})
	require.ErrorIs(t, err, ErrValidation)

	_, err = e.admin.CreateUser(ctx, admin, UserInput{Name: "Carol", Email: "not-an-email", Password: "password"})
	require.ErrorIs(t, err, ErrValidation)

	_, err = e.admin.CreateUser(ctx, admin, UserInput{Name: "Carol", Email: "carol@example.com", Password: "short"})
	require.ErrorIs(t, err, ErrValidation)

	u, err := e.admin.CreateUser(ctx, admin, UserInput{Name: "Carol", Email: " Carol@Example.com ", Password: "password", IsAdmin: true})
	require.NoError(t, err)
	require.Equal(t, "carol@example.com", u.Email)
	require.True(t, u.IsAdmin)
	require.True(t, helpers.CompareHashAndPassword(u.Password, "password"))

	_, err = e.admin.CreateUser(ctx, admin, UserInput{Name: "Dup", Email: "carol@example.com", Password: "password"})
	require.ErrorIs(t, err, ErrEmailTaken)

	hashBefore := u.Password
	upd, err := e.admin.UpdateUser(ctx, admin, u.ID, UserInput{Name: "Caroline", Email: "carol@example.com"})
	require.NoError(t, err)
	require.Equal(t, "Caroline", upd.Name)
	require.False(t, upd.IsAdmin)
	require.Equal(t, hashBefore, upd.Password, "empty password keeps the hash")

	upd, err = e.admin.UpdateUser(ctx, admin, u.ID, UserInput{Name: "Caroline", Email: "carol@example.com", Password: "newpassword"})
	require.NoError(t, err)
	require.True(t, helpers.CompareHashAndPassword(upd.Password, "newpassword"))

	_, err = e.admin.UpdateUser(ctx, admin, u.ID, UserInput{Name: "Caroline", Email: "admin@example.com"})
	require.ErrorIs(t, err, ErrEmailTaken)

	_, err = e.admin.UpdateUser(ctx, admin, "missing", UserInput{Name: "x", Email: "x@example.com"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAdmin_ListUsersWithPhotoCounts(t *testing.T) {
	e := newEnv(t)
	admin := e.seedUser(t, "Admin", "admin@example.com", true)
	for i := 0; i < 16; i++ {
		e.seedUser(t, fmt.Sprint("U", i), fmt.Sprintf("u%d@example.com", i), false)
	}
	e.upload(t, admin, "x")
	ctx := context.Background()

	page, err := e.admin.ListUsers(ctx, admin, 1)
	require.NoError(t, err)
	require.Len(t, page.Items, AdminUsersPerPage)
	require.EqualValues(t, 17, page.Total)
	require.Equal(t, 2, page.LastPage)
	require.Equal(t, "U15", page.Items[0].Name)

	page, err = e.admin.ListUsers(ctx, admin, 2)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	last := page.Items[1]
	require.Equal(t, "Admin", last.Name)
	require.EqualValues(t, 1, last.PhotoCount)
}

// Admins edit any photo through the admin service even though the gallery refuses them.
func TestAdmin_PhotoModeration(t *testing.T) {
	e := newEnv(t)
	admin := e.seedUser(t, "Admin", "admin@example.com", true)
	alice := e.seedUser(t, "Alice", "alice@example.com", false)
	p := e.upload(t, alice, "Sunset")
	ctx := context.Background()

	upd, err := e.admin.UpdatePhoto(ctx, admin, p.ID, PhotoInput{Title: "Moderated"})
	require.NoError(t, err)
	require.Equal(t, "Moderated", upd.Title)

	_, err = e.admin.UpdatePhoto(ctx, admin, p.ID, PhotoInput{})
	require.ErrorIs(t, err, ErrValidation)

	list, err := e.admin.ListPhotos(ctx, admin, 1)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	require.Equal(t, "Alice", list.Items[0].OwnerName)
	require.Equal(t, AdminPhotosPerPage, list.PerPage)

	require.NoError(t, e.admin.DeletePhoto(ctx, admin, p.ID))
	require.False(t, e.blobs.has(p.ImagePath))
	_, err = e.admin.GetPhoto(ctx, admin, p.ID)
	require.ErrorIs(t, err, ErrNotFound)
	require.Len(t, e.notify.removed, 1)
}

func TestAdmin_Stats(t *testing.T) {
	e := newEnv(t)
	yesterday := time.Now().Add(-48 * time.Hour)
	old := &entity.User{Name: "Old", Email: "old@example.com", Password: "x", CreatedAt: yesterday}
	require.NoError(t, e.users.Create(context.Background(), old))

	admin := e.seedUser(t, "Admin", "admin@example.com", true)
	alice := e.seedUser(t, "Alice", "alice@example.com", false)
	e.upload(t, alice, "a1")
	e.upload(t, alice, "a2")
	e.upload(t, admin, "z")

	st, err := e.admin.Stats(context.Background(), admin)
	require.NoError(t, err)
	require.EqualValues(t, 3, st.TotalUsers)
	require.EqualValues(t, 1, st.TotalAdmins)
	require.EqualValues(t, 2, st.UsersToday)
	require.EqualValues(t, 3, st.TotalPhotos)
	require.EqualValues(t, 3, st.PhotosToday)
	require.Equal(t, "Alice", st.TopUploaders[0].Name)
	require.EqualValues(t, 2, st.TopUploaders[0].PhotoCount)
	require.Len(t, st.RecentPhotos, 3)
	require.Equal(t, "z", st.RecentPhotos[0].Title)
	require.Len(t, st.RecentUsers, 3)
	require.Equal(t, "Alice", st.RecentUsers[0].Name)
}
