package memory

import (
	"testing"

	"scrollkeeper-service/internal/app"
	"scrollkeeper-service/internal/domain"
	"scrollkeeper-service/internal/game"
)

func newTestSession(id string) *app.Session {
	bank := domain.Bank{ID: "b1", Halls: []domain.Hall{{Type: "names", Category: "Names"}}}
	return app.NewSession(id, domain.ModeQuest, bank, game.NewGrader(nil, nil), app.Options{})
}

func TestSessionStoreGetOrCreateReusesSession(t *testing.T) {
	store := NewSessionStore()

	created := 0
	first := store.GetOrCreate("s1", func() *app.Session {
		created++
		return newTestSession("s1")
	})
	second := store.GetOrCreate("s1", func() *app.Session {
		created++
		return newTestSession("s1")
	})
	if created != 1 {
		t.Fatalf("expected one creation, got %d", created)
	}
	if first != second {
		t.Fatal("expected the same session instance")
	}
}

func TestSessionStoreDeleteIfEmpty(t *testing.T) {
	store := NewSessionStore()
	store.GetOrCreate("s1", func() *app.Session { return newTestSession("s1") })

	if _, ok := store.Get("s1"); !ok {
		t.Fatal("expected the session to exist")
	}
	// Nobody ever attached, so the session is fair game.
	store.DeleteIfEmpty("s1")
	if _, ok := store.Get("s1"); ok {
		t.Fatal("expected the empty session to be dropped")
	}

	// Deleting an unknown id is a no-op.
	store.DeleteIfEmpty("ghost")
}
