package domain

import "errors"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

func ToRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleAdmin:
		return Role(s), nil
	}
	return "", errors.New("invalid role")
}

// CallerIdentity is the authenticated principal, passed explicitly by the transport layer.
type CallerIdentity struct {
	ID   int64
	Role Role
}

func (c CallerIdentity) CanActFor(userID int64) bool {
	return c.Role == RoleAdmin || c.ID == userID
}
