// Package identity supplies the current user to the booking code.  The
// booking aggregate only reads identity at commit time; signing in and out
// is owned by the auth handlers.
package identity

import (
	"context"

	"github.com/iliyamo/cinema-ticket-booking/internal/model"
)

// Identity returns the signed-in user, or nil when nobody is signed in.
type Identity interface {
	CurrentUser(ctx context.Context) (*model.User, error)
}

type ctxKey struct{}

// WithUser returns a copy of ctx carrying u.
func WithUser(ctx context.Context, u *model.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// UserFrom extracts the user stored by WithUser.
func UserFrom(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(ctxKey{}).(*model.User)
	return u, ok && u != nil
}

// Context reads the user from the request context, where the JWT
// middleware put it.
type Context struct{}

func (Context) CurrentUser(ctx context.Context) (*model.User, error) {
	if u, ok := UserFrom(ctx); ok {
		return u, nil
	}
	return nil, nil
}

// Static always reports the same user.  A nil User means signed out.
type Static struct {
	User *model.User
}

func (s Static) CurrentUser(context.Context) (*model.User, error) {
	return s.User, nil
}
