package user

// Principal is the authenticated identity attached to a request.
// Identity records are owned by the account service; the ladder only
// keeps the opaque user id as a reference.
type Principal struct {
	UserID string
	Email  string
}
