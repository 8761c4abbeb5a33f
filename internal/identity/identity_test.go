package identity

import (
	"context"
	"testing"

	"github.com/iliyamo/cinema-ticket-booking/internal/model"
)

func TestContext_CurrentUser(t *testing.T) {
	var id Context

	u, err := id.CurrentUser(context.Background())
	if err != nil || u != nil {
		t.Fatalf("expected no user, got %+v (%v)", u, err)
	}

	want := &model.User{ID: "42", Name: "Jane", Email: "jane@example.com"}
	u, err = id.CurrentUser(WithUser(context.Background(), want))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if u != want {
		t.Fatalf("expected %+v, got %+v", want, u)
	}
}

func TestStatic_CurrentUser(t *testing.T) {
	u, _ := Static{}.CurrentUser(context.Background())
	if u != nil {
		t.Fatalf("expected nil user, got %+v", u)
	}
	u, _ = Static{User: &model.User{ID: "1"}}.CurrentUser(context.Background())
	if u == nil || u.ID != "1" {
		t.Fatalf("expected user 1, got %+v", u)
	}
}
