package model

// Principal is the authenticated caller for one request: identity from the
// verified bearer token, role and school from the stored profile. It is built
// once by the authentication middleware and never mutated afterwards.
type Principal struct {
	UserID   string
	Email    string
	Role     Role
	SchoolID *string // nil for platform-family principals
}
