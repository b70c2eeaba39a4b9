package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	repo "github.com/oksasatya/photo-gallery/internal/domain/repository"
)

// deleteUserCascade removes every blob owned by userID, then the photo rows, then the user.
// A blob failure stops the cascade before any metadata is touched.
func deleteUserCascade(ctx context.Context, users repo.UserRepository, photos repo.PhotoRepository, blobs repo.BlobStore, logger *logrus.Logger, userID string) error {
	owned, err := photos.ListByOwner(ctx, userID, 0, 0)
	if err != nil {
		return err
	}
	for _, p := range owned {
		if err := blobs.Delete(ctx, p.ImagePath); err != nil {
			logger.WithError(err).WithFields(logrus.Fields{"user_id": userID, "path": p.ImagePath}).
				Error("cascade blob delete failed")
			return fmt.Errorf("delete photo file %s: %w", p.ImagePath, err)
		}
	}
	n, err := photos.DeleteByOwner(ctx, userID)
	if err != nil {
		return err
	}
	if err := users.Delete(ctx, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	logger.WithFields(logrus.Fields{"user_id": userID, "photos": n}).Info("user deleted")
	return nil
}
