package entity

import "time"

// Photo is the metadata record of an uploaded image.
// ImagePath is relative to the blob store root, e.g. "photos/1733400000_ab12.jpg".
type Photo struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	ImagePath   string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// OwnerName is filled by read queries that join users.
	OwnerName string
}
