package credentials_test

import (
	"testing"

	"github.com/vladislavdragonenkov/shopfront/internal/credentials"
	"github.com/vladislavdragonenkov/shopfront/internal/domain"
)

func TestStore_SetGet(t *testing.T) {
	store := credentials.NewStore()

	if store.Authenticated() {
		t.Fatal("new store must not be authenticated")
	}

	store.Set(domain.Credentials{AccessToken: "access", RefreshToken: "refresh"}, &domain.User{ID: "u-1", Email: "buyer@example.com"})

	if !store.Authenticated() {
		t.Fatal("expected authenticated state")
	}
	creds := store.Credentials()
	if creds.AccessToken != "access" || creds.RefreshToken != "refresh" {
		t.Fatalf("unexpected credentials: %+v", creds)
	}
	user := store.User()
	if user == nil || user.ID != "u-1" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestStore_Clear(t *testing.T) {
	store := credentials.NewStore()
	store.Set(domain.Credentials{AccessToken: "access", RefreshToken: "refresh"}, &domain.User{ID: "u-1"})

	store.Clear()

	if store.Authenticated() {
		t.Fatal("cleared store must not be authenticated")
	}
	if store.User() != nil {
		t.Fatal("cleared store must not keep the user")
	}
	if store.Credentials().RefreshToken != "" {
		t.Fatal("cleared store must not keep the refresh token")
	}
}

func TestStore_CorruptedSentinel(t *testing.T) {
	store := credentials.NewStore()
	// Повреждённая сессия из браузерного хранилища.
	store.Set(domain.Credentials{AccessToken: "undefined", RefreshToken: "undefined"}, nil)

	if store.Authenticated() {
		t.Fatal("sentinel access token must not authenticate")
	}
	if store.Credentials().CanRotate() {
		t.Fatal("sentinel refresh token must not rotate")
	}
}

func TestStore_UserCopy(t *testing.T) {
	store := credentials.NewStore()
	original := &domain.User{ID: "u-1", Name: "Иван"}
	store.Set(domain.Credentials{AccessToken: "access"}, original)

	original.Name = "mutated"
	if store.User().Name != "Иван" {
		t.Fatal("store must keep its own copy of the user")
	}

	got := store.User()
	got.Name = "mutated again"
	if store.User().Name != "Иван" {
		t.Fatal("accessor must return a copy")
	}
}
