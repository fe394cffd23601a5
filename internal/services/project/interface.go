// File: internal/services/project/interface.go
package project

import "context"

// ProjectMember is one entry of a project's member list as served by the
// task service.
type ProjectMember struct {
	UserID int    `json:"userId"`
	Role   string `json:"role,omitempty"`
}

// ProjectSnapshot is the membership view of a project at one moment.
// Membership can change between calls, so snapshots must not be cached.
type ProjectSnapshot struct {
	ID      int             `json:"id"`
	Name    string          `json:"name"`
	OwnerID int             `json:"ownerId"`
	Members []ProjectMember `json:"members"`
}

// HasMember reports whether userID is the owner or appears in the member
// list.
func (p *ProjectSnapshot) HasMember(userID int) bool {
	if p.OwnerID == userID {
		return true
	}
	for _, m := range p.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// Oracle answers membership questions against the external task service.
// It is the single source of truth; every room-scoped operation asks again.
type Oracle interface {
	// IsMember never returns an error: unknown projects and transport
	// failures both read as "not a member".
	IsMember(ctx context.Context, userID, projectID int, token string) bool
	GetProject(ctx context.Context, projectID int, token string) (*ProjectSnapshot, error)
}

// Logger is the subset of logging this package needs.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}
