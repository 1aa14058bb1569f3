package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/franzenjb/fourcolor/pkg/adjacency"
	"github.com/franzenjb/fourcolor/pkg/coloring"
	"github.com/franzenjb/fourcolor/pkg/engine"
)

func sampleEngine() *engine.Engine {
	e := engine.New()
	e.LoadGraph(adjacency.Graph{
		Nodes: []adjacency.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		Edges: []adjacency.Edge{{Source: "a", Target: "b"}, {Source: "b", Target: "c"}},
	})
	e.ComputeColoring(coloring.Options{Algorithm: "greedy"})
	e.AssignColor("c", 2)
	return e
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	e := sampleEngine()
	sess := New("path", e.State(), time.Hour)
	if err := store.Set(ctx, sess); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := store.Get(ctx, sess.ID)
	if err != nil || got == nil {
		t.Fatalf("Get = %v, %v", got, err)
	}
	if got.Name != "path" {
		t.Errorf("Name = %q", got.Name)
	}

	restored := got.Engine()
	if !restored.Current().Equal(e.Current()) {
		t.Errorf("restored current = %+v, want %+v", restored.Current(), e.Current())
	}
	undone, ok := restored.Undo()
	if !ok || undone.Colors["c"] != 0 {
		t.Errorf("Undo after restore = %+v, %v", undone, ok)
	}

	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatal(err)
	}
	if got, _ := store.Get(ctx, sess.ID); got != nil {
		t.Error("deleted session still found")
	}
	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Errorf("deleting twice: %v", err)
	}
}

func TestFileStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store, _ := NewFileStore(t.TempDir())

	sess := New("old", engine.State{}, time.Hour)
	sess.ExpiresAt = time.Now().Add(-time.Minute)
	if err := store.Set(ctx, sess); err != nil {
		t.Fatal(err)
	}
	if got, err := store.Get(ctx, sess.ID); got != nil || err != nil {
		t.Errorf("expired Get = %v, %v; want nil, nil", got, err)
	}

	stale := New("stale", engine.State{}, time.Hour)
	stale.ExpiresAt = time.Now().Add(-time.Minute)
	fresh := New("fresh", engine.State{}, time.Hour)
	store.Set(ctx, stale)
	store.Set(ctx, fresh)
	if n, err := store.Cleanup(ctx); err != nil || n != 1 {
		t.Fatalf("Cleanup = %d, %v; want 1 removed", n, err)
	}
	if _, err := os.Stat(filepath.Join(store.Path(), stale.ID+".json")); !os.IsNotExist(err) {
		t.Error("Cleanup kept an expired session")
	}
	if got, _ := store.Get(ctx, fresh.ID); got == nil {
		t.Error("Cleanup removed a live session")
	}
}

func TestFileStoreList(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }

	older := New("older", sampleEngine().State(), time.Hour)
	older.UpdatedAt, older.ExpiresAt = clock.Add(-time.Hour), clock.Add(time.Hour)
	newer := New("newer", engine.State{}, time.Hour)
	newer.UpdatedAt, newer.ExpiresAt = clock.Add(-time.Minute), clock.Add(time.Hour)
	gone := New("gone", engine.State{}, time.Hour)
	gone.ExpiresAt = clock.Add(-time.Second)
	for _, s := range []*Session{older, newer, gone} {
		if err := store.Set(ctx, s); err != nil {
			t.Fatal(err)
		}
	}
	os.WriteFile(filepath.Join(store.Path(), "junk.json"), []byte("{"), 0o600)

	infos, err := store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(infos) != 2 || infos[0].ID != newer.ID || infos[1].ID != older.ID {
		t.Fatalf("List = %+v, want newer then older", infos)
	}
	if infos[1].Nodes != 3 || infos[1].Chromatic != 3 {
		t.Errorf("older summary = %+v, want 3 nodes and 3 colors", infos[1])
	}

	if n, _ := store.Cleanup(ctx); n != 1 {
		t.Errorf("Cleanup removed %d, want 1", n)
	}
}

func TestNewFileStoreNeedsDir(t *testing.T) {
	if _, err := NewFileStore(""); err == nil {
		t.Error("empty dir should be rejected")
	}
}

func TestFileStoreRejectsBadIDs(t *testing.T) {
	ctx := context.Background()
	store, _ := NewFileStore(t.TempDir())
	for _, id := range []string{"", "../escape", "not-a-uuid"} {
		if _, err := store.Get(ctx, id); err == nil {
			t.Errorf("Get(%q) should fail", id)
		}
		if err := store.Set(ctx, &Session{ID: id}); err == nil {
			t.Errorf("Set(%q) should fail", id)
		}
	}
}

func TestNewSession(t *testing.T) {
	a := New("x", engine.State{}, 0)
	b := New("x", engine.State{}, 0)
	if a.ID == b.ID {
		t.Error("session IDs should be unique")
	}
	if d := a.ExpiresAt.Sub(a.CreatedAt); d != DefaultTTL {
		t.Errorf("default TTL = %v, want %v", d, DefaultTTL)
	}
	if a.IsExpired() {
		t.Error("fresh session reported expired")
	}

	e := sampleEngine()
	before := a.UpdatedAt
	time.Sleep(time.Millisecond)
	a.Capture(e)
	if !a.UpdatedAt.After(before) || len(a.State.History) != 3 {
		t.Errorf("Capture: updated %v, history %d", a.UpdatedAt, len(a.State.History))
	}
}

func TestSessionBSON(t *testing.T) {
	sess := New("bson", sampleEngine().State(), time.Hour)
	data, err := bson.Marshal(sess)
	if err != nil {
		t.Fatalf("bson.Marshal: %v", err)
	}

	var raw bson.M
	if err := bson.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if raw["_id"] != sess.ID {
		t.Errorf("_id = %v, want %s", raw["_id"], sess.ID)
	}
	if _, ok := raw["expires_at"]; !ok {
		t.Error("expires_at missing from document")
	}

	var back Session
	if err := bson.Unmarshal(data, &back); err != nil {
		t.Fatalf("bson.Unmarshal: %v", err)
	}
	if back.State.Current.Colors["c"] != 2 || len(back.State.History) != 3 {
		t.Errorf("state lost in BSON round trip: %+v", back.State)
	}
}

func TestMongoFilters(t *testing.T) {
	if got := idFilter("abc"); got[0].Key != "_id" || got[0].Value != "abc" {
		t.Errorf("idFilter = %v", got)
	}
	now := time.Now()
	f := expiredFilter(now)
	inner, ok := f[0].Value.(bson.D)
	if f[0].Key != "expires_at" || !ok || inner[0].Key != "$lt" || inner[0].Value != now {
		t.Errorf("expiredFilter = %v", f)
	}
}
