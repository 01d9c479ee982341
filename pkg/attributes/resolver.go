package attributes

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/matecat/go-dqf/pkg/dqf"
)

// Source supplies the authoritative attribute list.
type Source interface {
	FetchAll(ctx context.Context) ([]Record, error)
}

// Resolver caches the attribute list and resolves keys against it.
// It is safe for concurrent use.
type Resolver struct {
	mu      sync.RWMutex
	source  Source
	records map[Kind][]Record
	logger  hclog.Logger
}

// NewResolver returns an uninitialized resolver.
func NewResolver(logger hclog.Logger) *Resolver {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Resolver{logger: logger.Named("attributes")}
}

// Init loads the list from src and remembers src for later refreshes.
func (r *Resolver) Init(ctx context.Context, src Source) error {
	if err := r.RefreshFrom(ctx, src); err != nil {
		return err
	}
	r.mu.Lock()
	r.source = src
	r.mu.Unlock()
	return nil
}

// Refresh reloads the list from the source given to Init.
func (r *Resolver) Refresh(ctx context.Context) error {
	r.mu.RLock()
	src := r.source
	r.mu.RUnlock()

	if src == nil {
		return &dqf.Error{Op: "Resolver.Refresh", Err: dqf.ErrNotInitialized}
	}
	return r.RefreshFrom(ctx, src)
}

// RefreshFrom replaces the list with the one from src. On error the
// previous list is kept.
func (r *Resolver) RefreshFrom(ctx context.Context, src Source) error {
	records, err := src.FetchAll(ctx)
	if err != nil {
		r.logger.Warn("attribute refresh failed, keeping previous list", "error", err)
		return fmt.Errorf("error fetching attributes: %w", err)
	}
	r.Load(records)
	return nil
}

// Load replaces the list with records.
func (r *Resolver) Load(records []Record) {
	byKind := make(map[Kind][]Record)
	for _, rec := range records {
		byKind[rec.Kind] = append(byKind[rec.Kind], rec)
	}

	r.mu.Lock()
	r.records = byKind
	r.mu.Unlock()

	r.logger.Debug("attribute list loaded", "records", len(records), "kinds", len(byKind))
}

// Initialized reports whether a list has been loaded.
func (r *Resolver) Initialized() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.records != nil
}

// Records returns the records of kind.
func (r *Resolver) Records(kind Kind) ([]Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.records == nil {
		return nil, &dqf.Error{Op: "Resolver.Records", Err: dqf.ErrNotInitialized}
	}
	out := make([]Record, len(r.records[kind]))
	copy(out, r.records[kind])
	return out, nil
}

// Resolve returns the record of kind matching key. Languages match on their
// locale code, every other kind on its name. An exact match wins over a
// case-insensitive one.
func (r *Resolver) Resolve(kind Kind, key string) (Record, error) {
	const op = "Resolver.Resolve"

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.records == nil {
		return Record{}, &dqf.Error{Op: op, Err: dqf.ErrNotInitialized}
	}

	var fold *Record
	for i, rec := range r.records[kind] {
		if rec.Key() == key {
			return rec, nil
		}
		if fold == nil && strings.EqualFold(rec.Key(), key) {
			fold = &r.records[kind][i]
		}
	}
	if fold != nil {
		return *fold, nil
	}
	return Record{}, &dqf.Error{
		Op:  op,
		Err: dqf.ErrAttributeNotFound,
		Msg: fmt.Sprintf("%s %q", kind, key),
	}
}

// ResolveID returns the remote id of the record of kind matching key.
func (r *Resolver) ResolveID(kind Kind, key string) (int64, error) {
	rec, err := r.Resolve(kind, key)
	if err != nil {
		return 0, err
	}
	return rec.ID, nil
}

// Lookup returns the record of kind with the given id.
func (r *Resolver) Lookup(kind Kind, id int64) (Record, error) {
	const op = "Resolver.Lookup"

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.records == nil {
		return Record{}, &dqf.Error{Op: op, Err: dqf.ErrNotInitialized}
	}
	for _, rec := range r.records[kind] {
		if rec.ID == id {
			return rec, nil
		}
	}
	return Record{}, &dqf.Error{
		Op:  op,
		Err: dqf.ErrAttributeNotFound,
		Msg: fmt.Sprintf("%s id %d", kind, id),
	}
}

// Hydrate resolves h's key and writes the id and name onto h.
func (r *Resolver) Hydrate(kind Kind, h Hydratable) error {
	rec, err := r.Resolve(kind, h.AttributeKey())
	if err != nil {
		return err
	}
	h.Hydrate(rec.ID, rec.Name)
	return nil
}

// HydrateLanguage is Hydrate for languages.
func (r *Resolver) HydrateLanguage(l *dqf.Language) error {
	return r.Hydrate(Language, l)
}

var defaultResolver = NewResolver(nil)

// Default returns the process-wide resolver.
func Default() *Resolver {
	return defaultResolver
}

// SetDefaultLogger replaces the logger of the process-wide resolver.
func SetDefaultLogger(logger hclog.Logger) {
	defaultResolver.mu.Lock()
	defaultResolver.logger = logger.Named("attributes")
	defaultResolver.mu.Unlock()
}

// Init initializes the process-wide resolver from src.
func Init(ctx context.Context, src Source) error {
	return defaultResolver.Init(ctx, src)
}

// Refresh reloads the process-wide resolver.
func Refresh(ctx context.Context) error {
	return defaultResolver.Refresh(ctx)
}

// Resolve resolves key with the process-wide resolver.
func Resolve(kind Kind, key string) (Record, error) {
	return defaultResolver.Resolve(kind, key)
}
