package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/photo-gallery/config"
	repo "github.com/oksasatya/photo-gallery/internal/domain/repository"
)

func TestLocal_RoundTrip(t *testing.T) {
	ctx := context.Background()
	l, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	ok, err := l.Exists(ctx, "photos/a.jpg")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, l.Write(ctx, "photos/a.jpg", []byte("data")))

	ok, err = l.Exists(ctx, "photos/a.jpg")
	require.NoError(t, err)
	require.True(t, ok)

	b, err := l.Read(ctx, "photos/a.jpg")
	require.NoError(t, err)
	require.Equal(t, []byte("data"), b)

	require.FileExists(t, filepath.Join(l.Root, "photos", "a.jpg"))

	require.NoError(t, l.Delete(ctx, "photos/a.jpg"))
	_, err = l.Read(ctx, "photos/a.jpg")
	require.ErrorIs(t, err, repo.ErrBlobNotFound)
}

func TestLocal_DeleteMissingIsNoop(t *testing.T) {
	l, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, l.Delete(context.Background(), "photos/missing.png"))
}

func TestLocal_LeavesNoTempFiles(t *testing.T) {
	l, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, l.Write(context.Background(), "photos/b.png", []byte{1, 2, 3}))

	entries, err := os.ReadDir(filepath.Join(l.Root, "photos"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "b.png", entries[0].Name())
}

func TestLocal_RejectsEscapingPaths(t *testing.T) {
	ctx := context.Background()
	l, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	for _, p := range []string{"", "..", "../x", "photos/../../x", "/etc/passwd"} {
		require.ErrorIs(t, l.Write(ctx, p, []byte("x")), ErrInvalidPath, p)
		_, err := l.Read(ctx, p)
		require.ErrorIs(t, err, ErrInvalidPath, p)
	}
}

func TestLocal_HonoursCancelledContext(t *testing.T) {
	l, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, l.Write(ctx, "photos/c.jpg", []byte("x")), context.Canceled)
}

func TestOpen_SelectsDriver(t *testing.T) {
	ctx := context.Background()

	bs, err := Open(ctx, &config.Config{StorageDriver: DriverLocal, StorageRoot: t.TempDir()})
	require.NoError(t, err)
	require.IsType(t, &Local{}, bs)

	_, err = Open(ctx, &config.Config{StorageDriver: DriverGCS})
	require.Error(t, err)

	_, err = Open(ctx, &config.Config{StorageDriver: DriverS3})
	require.Error(t, err)

	_, err = Open(ctx, &config.Config{StorageDriver: "ftp"})
	require.Error(t, err)
}
