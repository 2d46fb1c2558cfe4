/*
Package user contains the identity of a signed-in portal user.

An Identity is created from the remote service's login response, owned by the session
store, and also describes the rows returned by the remote user listing.
*/
package user

import (
	"encoding/json"
	"strings"
)

// Role is the portal role of an account.
type Role string

const (
	// RoleStudent browses events, registers and takes part in discussions.
	RoleStudent Role = "student"

	// RoleStaff manages events, announcements and discussions.
	RoleStaff Role = "staff"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleStaff
}

// ParseRole maps a form value to a Role, defaulting to RoleStudent.
func ParseRole(s string) Role {
	if Role(strings.ToLower(strings.TrimSpace(s))) == RoleStaff {
		return RoleStaff
	}
	return RoleStudent
}

// Identity represents the authenticated user's profile and role.
type Identity struct {

	// ID is the remote service's identifier for the account.
	ID string `json:"id"`

	// Name is the display name, e.g. "Ada Lovelace".
	Name string `json:"name"`

	// Email is the sign-in address.
	Email string `json:"email"`

	// Role selects which dashboard the account may open.
	Role Role `json:"role"`
}

// UnmarshalJSON accepts both "id" and the document-store style "_id" key.
func (i *Identity) UnmarshalJSON(data []byte) error {
	type alias Identity
	aux := struct {
		*alias
		DocID string `json:"_id"`
	}{alias: (*alias)(i)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if i.ID == "" {
		i.ID = aux.DocID
	}
	return nil
}

// Complete reports whether the identity carries everything the portal reads from it.
func (i Identity) Complete() bool {
	return i.ID != "" && i.Email != "" && i.Role.Valid()
}

// FirstName returns the first word of the display name, used in the dashboard greeting.
func (i Identity) FirstName() string {
	if fields := strings.Fields(i.Name); len(fields) > 0 {
		return fields[0]
	}
	return i.Name
}
