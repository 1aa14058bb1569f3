package server

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/franzenjb/fourcolor/pkg/engine"
	"github.com/franzenjb/fourcolor/pkg/errors"
	"github.com/franzenjb/fourcolor/pkg/session"
)

// entry is one live session. mu serializes every engine call.
type entry struct {
	mu   sync.Mutex
	sess *session.Session
	eng  *engine.Engine
}

// registry maps session IDs to live engines, backed by an optional store.
type registry struct {
	mu         sync.Mutex
	entries    map[string]*entry
	store      session.Store
	ttl        time.Duration
	engineOpts []engine.Option
}

func newRegistry(store session.Store, ttl time.Duration, engineOpts []engine.Option) *registry {
	return &registry{
		entries:    make(map[string]*entry),
		store:      store,
		ttl:        ttl,
		engineOpts: engineOpts,
	}
}

func (r *registry) create(ctx context.Context, name string) (*entry, error) {
	e := engine.New(r.engineOpts...)
	ent := &entry{sess: session.New(name, e.State(), r.ttl), eng: e}
	if err := r.persist(ctx, ent); err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.entries[ent.sess.ID] = ent
	r.mu.Unlock()
	return ent, nil
}

// get returns the live entry for id, restoring it from the store when it
// is not in memory.
func (r *registry) get(ctx context.Context, id string) (*entry, error) {
	if err := errors.ValidateSessionID(id); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSessionNotFound, err, "session %s not found", id)
	}

	r.mu.Lock()
	ent, ok := r.entries[id]
	r.mu.Unlock()
	if ok {
		if ent.sess.IsExpired() {
			r.forget(id)
			return nil, errors.New(errors.ErrCodeSessionNotFound, "session %s expired", id)
		}
		return ent, nil
	}

	if r.store == nil {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %s not found", id)
	}
	sess, err := r.store.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load session %s", id)
	}
	if sess == nil {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %s not found", id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Another request may have restored it meanwhile.
	if ent, ok := r.entries[id]; ok {
		return ent, nil
	}
	ent = &entry{sess: sess, eng: sess.Engine(r.engineOpts...)}
	r.entries[id] = ent
	return ent, nil
}

// persist saves the entry's engine state. The caller holds ent.mu.
func (r *registry) persist(ctx context.Context, ent *entry) error {
	if r.store == nil {
		return nil
	}
	ent.sess.Capture(ent.eng)
	if err := r.store.Set(ctx, ent.sess); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "save session %s", ent.sess.ID)
	}
	return nil
}

func (r *registry) delete(ctx context.Context, id string) error {
	if _, err := r.get(ctx, id); err != nil {
		return err
	}
	r.forget(id)
	if r.store != nil {
		if err := r.store.Delete(ctx, id); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "delete session %s", id)
		}
	}
	return nil
}

// list summarizes every live session. With a store the store is the source
// of truth, since it also holds sessions not yet restored into memory.
func (r *registry) list(ctx context.Context) ([]session.Info, error) {
	if r.store != nil {
		infos, err := r.store.List(ctx)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "list sessions")
		}
		return infos, nil
	}

	r.mu.Lock()
	ents := slices.Collect(maps.Values(r.entries))
	r.mu.Unlock()

	infos := make([]session.Info, 0, len(ents))
	for _, ent := range ents {
		ent.mu.Lock()
		if !ent.sess.IsExpired() {
			info := ent.sess.Info()
			if m := ent.eng.Model(); m != nil {
				info.Nodes = m.Len()
			}
			info.Chromatic = ent.eng.Current().Chromatic
			infos = append(infos, info)
		}
		ent.mu.Unlock()
	}
	session.SortInfos(infos)
	return infos, nil
}

func (r *registry) forget(id string) {
	r.mu.Lock()
	delete(r.entries, id)
	r.mu.Unlock()
}
