// Package policy decides who may do what with a photo.
package policy

import "github.com/oksasatya/photo-gallery/internal/domain/entity"

// Action is an operation on a photo.
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Allows reports whether actor may perform action on photo.
// photo may be nil for view and create. Unknown actions are denied.
//
// Administrators may delete any photo but only update their own: moderation
// removes content, it does not rewrite it.
func Allows(actor entity.Actor, action Action, photo *entity.Photo) bool {
	switch action {
	case ActionView:
		return true
	case ActionCreate:
		return actor.IsAuthenticated()
	case ActionUpdate:
		return isOwner(actor, photo)
	case ActionDelete:
		return actor.IsAdmin() || isOwner(actor, photo)
	default:
		return false
	}
}

// CanAdminister is the single capability check in front of every admin operation.
func CanAdminister(actor entity.Actor) bool {
	return actor.IsAdmin()
}

func isOwner(actor entity.Actor, photo *entity.Photo) bool {
	if photo == nil || !actor.IsAuthenticated() {
		return false
	}
	return actor.UserID == photo.OwnerID
}
