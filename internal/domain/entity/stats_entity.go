package entity

// Stats is the admin dashboard aggregate.
type Stats struct {
	TotalUsers   int64
	TotalPhotos  int64
	TotalAdmins  int64
	PhotosToday  int64
	UsersToday   int64
	TopUploaders []UserSummary
	RecentPhotos []Photo
	RecentUsers  []User
}
