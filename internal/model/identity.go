package model

// Identity is the authenticated caller of a request.
type Identity struct {
	UserID string
	Name   string
	Admin  bool
}
