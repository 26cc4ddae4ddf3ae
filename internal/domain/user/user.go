// Package user defines the user record persisted by the CRUD endpoints.
package user

// User is a keyed record with no invariants beyond id uniqueness.
type User struct {
	ID   string
	Name string
}
