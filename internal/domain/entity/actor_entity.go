package entity

// Role is the closed set of requester kinds.
type Role int

const (
	RoleGuest Role = iota
	RoleRegular
	RoleAdministrator
)

func (r Role) String() string {
	switch r {
	case RoleRegular:
		return "user"
	case RoleAdministrator:
		return "admin"
	default:
		return "guest"
	}
}

// Actor is whoever issued the current request. The zero value is an anonymous guest.
type Actor struct {
	UserID string
	Name   string
	Role   Role
}

// Guest returns the anonymous actor.
func Guest() Actor { return Actor{} }

// ActorFor maps a stored user to its actor variant. A nil user is a guest.
func ActorFor(u *User) Actor {
	if u == nil {
		return Guest()
	}
	role := RoleRegular
	if u.IsAdmin {
		role = RoleAdministrator
	}
	return Actor{UserID: u.ID, Name: u.Name, Role: role}
}

func (a Actor) IsAuthenticated() bool { return a.Role != RoleGuest && a.UserID != "" }

func (a Actor) IsAdmin() bool { return a.Role == RoleAdministrator && a.UserID != "" }
