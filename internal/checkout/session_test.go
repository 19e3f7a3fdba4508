package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	redisclient "github.com/campuscart/campuscart-backend/pkg/redis"
)

type fakeBackend struct {
	values map[string]string
	ttls   map[string]time.Duration
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeBackend) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	f.values[key] = value.(string)
	f.ttls[key] = ttl
	return nil
}

func (f *fakeBackend) Get(ctx context.Context, key string) (string, error) {
	value, ok := f.values[key]
	if !ok {
		return "", redisclient.ErrNotFound
	}
	return value, nil
}

func (f *fakeBackend) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

type fakeSessionKeyer struct{}

func (fakeSessionKeyer) CheckoutSessionKey(userID string) string {
	return "checkout:session:" + userID
}

func newTestSessionStore() (*SessionStore, *fakeBackend) {
	backend := newFakeBackend()
	return &SessionStore{backend: backend, keyer: fakeSessionKeyer{}, ttl: time.Hour}, backend
}

func TestSessionToggleAndDrop(t *testing.T) {
	t.Parallel()

	session := newSession()
	a, b := uuid.New(), uuid.New()

	session.Toggle(a)
	session.Toggle(b)
	if !session.IsSelected(a) || !session.IsSelected(b) {
		t.Fatal("expected both lines selected")
	}
	if len(session.Selected) != 2 || session.Selected[0] != a {
		t.Fatalf("expected selection order preserved, got %v", session.Selected)
	}

	session.Toggle(a)
	if session.IsSelected(a) {
		t.Fatal("expected toggle to deselect")
	}
	if _, ok := session.Lines[a]; ok {
		t.Fatal("expected payment state cleared on drop")
	}
}

func TestSessionStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store, backend := newTestSessionStore()
	userID := uuid.New()
	ctx := context.Background()

	session := newSession()
	lineID := uuid.New()
	session.Toggle(lineID)

	if err := store.Save(ctx, userID, session); err != nil {
		t.Fatalf("save: %v", err)
	}
	if ttl := backend.ttls["checkout:session:"+userID.String()]; ttl != time.Hour {
		t.Fatalf("expected ttl refresh, got %s", ttl)
	}

	loaded, err := store.Load(ctx, userID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !loaded.IsSelected(lineID) {
		t.Fatal("expected selection to survive the round trip")
	}
}

func TestSessionStoreLoadMissingReturnsEmpty(t *testing.T) {
	t.Parallel()

	store, _ := newTestSessionStore()
	session, err := store.Load(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(session.Selected) != 0 || session.Lines == nil {
		t.Fatalf("expected fresh session, got %+v", session)
	}
}

func TestSessionStoreLoadCorruptPayloadStartsOver(t *testing.T) {
	t.Parallel()

	store, backend := newTestSessionStore()
	userID := uuid.New()
	backend.values["checkout:session:"+userID.String()] = "{not json"

	session, err := store.Load(context.Background(), userID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(session.Selected) != 0 {
		t.Fatalf("expected fresh session, got %+v", session)
	}
}

func TestSessionStoreClear(t *testing.T) {
	t.Parallel()

	store, backend := newTestSessionStore()
	userID := uuid.New()
	ctx := context.Background()

	if err := store.Save(ctx, userID, newSession()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Clear(ctx, userID); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok := backend.values["checkout:session:"+userID.String()]; ok {
		t.Fatal("expected session removed")
	}
}
