// Package catalog holds the client-side state of the parts catalog: the
// loaded list, the draft form, the editing marker and the last error.
//
// The loaded list is a cache of the service. It is fully reloaded after
// every successful mutation and never patched in place.
package catalog

import (
	"context"
	"strings"
	"sync"

	"github.com/jacksmith/pcparts/internal/model"
	"github.com/sirupsen/logrus"
)

// Service is the remote parts service. *api.Client implements it.
type Service interface {
	List(ctx context.Context) ([]model.Part, error)
	Create(ctx context.Context, d model.Draft) error
	Update(ctx context.Context, key string, d model.Draft) error
	Delete(ctx context.Context, key string) error
}

// slot identifies a class of request for stale-response detection.
type slot int

const (
	slotLoad slot = iota
	slotSubmit
	slotDelete
	numSlots
)

// Catalog is the catalog client. It is safe for concurrent use; every state
// change happens under one lock.
type Catalog struct {
	svc Service
	log logrus.FieldLogger

	mu         sync.Mutex
	parts      []model.Part
	draft      model.Draft
	editingKey string
	lastErr    *Error
	gen        [numSlots]uint64
}

// New returns an empty Catalog backed by svc.
func New(svc Service, logger logrus.FieldLogger) *Catalog {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Catalog{
		svc:   svc,
		log:   logger,
		draft: model.BlankDraft(),
	}
}

// LoadAll replaces the list with the service's current collection. On
// failure the previous list is kept and a KindLoad error is recorded.
func (c *Catalog) LoadAll(ctx context.Context) error {
	g := c.begin(slotLoad)

	parts, err := c.svc.List(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.current(slotLoad, g) {
		return ErrSuperseded
	}
	if err != nil {
		c.log.WithError(err).Warn("failed to load parts")
		c.lastErr = newError(KindLoad, err, MsgLoadFailed)
		return c.lastErr
	}
	c.parts = parts
	if c.lastErr != nil && c.lastErr.Kind == KindLoad {
		c.lastErr = nil
	}
	c.log.WithField("count", len(parts)).Debug("parts loaded")
	return nil
}

// Submit sends the draft: a create when nothing is being edited, otherwise
// an update of the record being edited. On success the draft is reset, the
// editing marker and error are cleared and the list is reloaded. On failure
// the draft and editing marker are kept so the user can correct and retry.
//
// A failed reload after a successful submit does not fail Submit; it is
// reported through LastError.
func (c *Catalog) Submit(ctx context.Context) error {
	c.mu.Lock()
	draft, key := c.draft, c.editingKey
	if errs := draft.Validate(); len(errs) > 0 {
		lines := make([]string, len(errs))
		for i, fe := range errs {
			lines[i] = fe.Message
		}
		failure := newError(KindValidation, nil, lines...)
		c.lastErr = failure
		c.mu.Unlock()
		return failure
	}
	c.lastErr = nil
	c.gen[slotSubmit]++
	g := c.gen[slotSubmit]
	c.mu.Unlock()

	var err error
	if key == "" {
		err = c.svc.Create(ctx, draft)
	} else {
		err = c.svc.Update(ctx, key, draft)
	}

	c.mu.Lock()
	stale := !c.current(slotSubmit, g)
	switch {
	case stale:
	case err != nil:
		c.lastErr = submitError(err)
	default:
		c.draft = model.BlankDraft()
		c.editingKey = ""
		c.lastErr = nil
	}
	failure := c.lastErr
	c.mu.Unlock()

	log := c.log.WithFields(logrus.Fields{"id": draft.ID, "key": key})
	if err != nil {
		if stale {
			return ErrSuperseded
		}
		log.WithError(err).Debug("submit failed")
		return failure
	}
	log.Debug("submit succeeded")

	_ = c.LoadAll(ctx)
	if stale {
		return ErrSuperseded
	}
	return nil
}

// BeginEdit copies p into the draft and marks it as the record being
// edited. Calling it again replaces the draft. Any in-flight submit for the
// previous draft is superseded.
func (c *Catalog) BeginEdit(p model.Part) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = model.DraftFromPart(p)
	c.editingKey = p.Key
	c.lastErr = nil
	c.gen[slotSubmit]++
}

// CancelEdit resets the draft to blank and clears the editing marker.
func (c *Catalog) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = model.BlankDraft()
	c.editingKey = ""
	c.gen[slotSubmit]++
}

// SetDraft replaces the draft. While editing, the business id is locked
// and a draft with a different id is rejected.
func (c *Catalog) SetDraft(d model.Draft) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.editingKey != "" && d.ID != c.draft.ID {
		return newError(KindValidation, nil, MsgIDLocked)
	}
	c.draft = d
	return nil
}

// Delete removes the record stored under key. On success the error is
// cleared and the list reloaded; a draft editing that record is discarded.
// On failure the list is left as it was.
func (c *Catalog) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	c.lastErr = nil
	c.gen[slotDelete]++
	g := c.gen[slotDelete]
	c.mu.Unlock()

	err := c.svc.Delete(ctx, key)

	c.mu.Lock()
	stale := !c.current(slotDelete, g)
	if err == nil && key != "" && c.editingKey == key {
		c.draft = model.BlankDraft()
		c.editingKey = ""
		c.gen[slotSubmit]++
	}
	if !stale && err != nil {
		c.lastErr = deleteError(err)
	}
	failure := c.lastErr
	c.mu.Unlock()

	if err != nil {
		if stale {
			return ErrSuperseded
		}
		c.log.WithError(err).WithField("key", key).Debug("delete failed")
		return failure
	}
	c.log.WithField("key", key).Debug("part deleted")

	_ = c.LoadAll(ctx)
	if stale {
		return ErrSuperseded
	}
	return nil
}

// Filter returns the loaded parts whose id contains term, ignoring case.
func (c *Catalog) Filter(term string) []model.Part {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Filter(c.parts, term)
}

// Filter returns, in order, the parts whose id contains term, ignoring
// case. Parts without an id are never returned. parts is not modified.
func Filter(parts []model.Part, term string) []model.Part {
	out := make([]model.Part, 0, len(parts))
	for i := range parts {
		if parts[i].MatchesID(term) {
			out = append(out, parts[i])
		}
	}
	return out
}

// Find returns the loaded part whose id equals id, ignoring case.
func (c *Catalog) Find(id string) (model.Part, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.parts {
		if p.ID != "" && strings.EqualFold(p.ID, id) {
			return p, true
		}
	}
	return model.Part{}, false
}

// Parts returns a copy of the loaded list.
func (c *Catalog) Parts() []model.Part {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Part, len(c.parts))
	copy(out, c.parts)
	return out
}

// Draft returns the current draft.
func (c *Catalog) Draft() model.Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// EditingKey returns the internal key of the record being edited, if any.
func (c *Catalog) EditingKey() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editingKey, c.editingKey != ""
}

// LastError returns the last recorded error, or nil.
func (c *Catalog) LastError() *Error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// DismissError clears the last recorded error.
func (c *Catalog) DismissError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = nil
}

func (c *Catalog) begin(s slot) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen[s]++
	return c.gen[s]
}

// current reports whether g is still the newest generation of s.
// Callers hold c.mu.
func (c *Catalog) current(s slot, g uint64) bool {
	return c.gen[s] == g
}
