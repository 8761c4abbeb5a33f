package model

// User is the identity attributed to a committed booking.  The ID is
// opaque to the booking code; the auth layer fills it from the users
// table primary key.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
