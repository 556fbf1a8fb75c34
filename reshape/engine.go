package reshape

import (
	"strconv"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"tree-reshaper/cast"
	"tree-reshaper/internal/schema"
	"tree-reshaper/internal/walk"
	"tree-reshaper/tree"
)

// Engine converts trees according to schemas. Compiled schemas are cached
// per mode and schema content until Invalidate is called or the delimiters
// change. An Engine is safe for concurrent use.
type Engine struct {
	mu         sync.Mutex
	delimiters schema.Delimiters
	ignore     bool
	preserve   bool
	caster     cast.Caster
	logger     *zap.Logger

	cache map[string]*schema.Schema
	// generation changes on every invalidation so that compilations started
	// before it are not cached after it.
	generation uint64
	group      singleflight.Group
}

// NewEngine creates an engine. A nil cfg means DefaultConfig().
func NewEngine(cfg *Config) *Engine {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	e := &Engine{
		delimiters: cfg.Delimiters.WithDefaults(),
		ignore:     cfg.IgnoreNonExistingElements,
		preserve:   cfg.PreservePartlyExistingElements,
		caster:     cfg.Caster,
		logger:     cfg.Logger,
		cache:      map[string]*schema.Schema{},
	}

	if e.caster == nil {
		e.caster = cast.NewRegistry()
	}

	if e.logger == nil {
		e.logger = zap.NewNop()
	}

	return e
}

// Convert compiles raw for mode, using the cache when possible, and runs it
// against t. Schema errors are reported before t is looked at.
func (e *Engine) Convert(raw Raw, mode Mode, t tree.Value) (tree.Value, error) {
	s, err := e.Compile(raw, mode)
	if err != nil {
		return nil, err
	}

	return e.Run(s, t)
}

// Compile returns the compiled program for raw in mode.
func (e *Engine) Compile(raw Raw, mode Mode) (*Schema, error) {
	key := mode.String() + "\x00" + raw.Fingerprint()

	e.mu.Lock()
	if s, ok := e.cache[key]; ok {
		e.mu.Unlock()
		e.logger.Debug("Schema cache hit", zap.Stringer("mode", mode), zap.Int("entries", len(s.Entries)))

		return s, nil
	}

	gen := e.generation
	delimiters := e.delimiters
	e.mu.Unlock()

	v, err, shared := e.group.Do(strconv.FormatUint(gen, 10)+"\x00"+key, func() (any, error) {
		s, err := schema.Compile(raw, mode, delimiters)
		if err != nil {
			return nil, err
		}

		e.mu.Lock()
		if e.generation == gen {
			e.cache[key] = s
		}
		e.mu.Unlock()

		return s, nil
	})
	if err != nil {
		e.logger.Debug("Schema compilation failed", zap.Stringer("mode", mode), zap.Error(err))
		return nil, err
	}

	e.logger.Debug("Schema compiled",
		zap.Stringer("mode", mode),
		zap.Int("entries", len(raw.Entries)),
		zap.Bool("shared", shared))

	return v.(*schema.Schema), nil
}

// Run executes an already compiled schema against t.
func (e *Engine) Run(s *Schema, t tree.Value) (tree.Value, error) {
	e.mu.Lock()
	settings := walk.Settings{
		IgnoreMissing: e.ignore,
		Preserve:      e.preserve,
		Caster:        e.caster,
	}
	e.mu.Unlock()

	var (
		out tree.Value
		err error
	)

	switch s.Mode {
	case ModeReshape:
		out, err = reshapeTree(s, t, settings)
	case ModeSelect:
		out, err = selectTree(s, t, settings)
	case ModePrune:
		out, err = pruneTree(s, t)
	default:
		err = s.Mode.Validate()
	}

	if err != nil {
		e.logger.Debug("Conversion failed", zap.Stringer("mode", s.Mode), zap.Error(err))
		return nil, err
	}

	return out, nil
}

// Invalidate drops every cached schema.
func (e *Engine) Invalidate() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.invalidateLocked()
}

func (e *Engine) invalidateLocked() {
	dropped := len(e.cache)
	e.cache = map[string]*schema.Schema{}
	e.generation++

	e.logger.Debug("Schema cache invalidated", zap.Int("dropped", dropped))
}

// SetDelimiters changes the path-language tokens and invalidates the cache.
// Empty tokens fall back to the defaults.
func (e *Engine) SetDelimiters(d Delimiters) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.delimiters = d.WithDefaults()
	e.invalidateLocked()
}

// Delimiters returns the current path-language tokens.
func (e *Engine) Delimiters() Delimiters {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.delimiters
}

// SetMissingPolicy changes the engine-wide handling of missing keys. It
// applies to the next conversion; compiled schemas stay valid.
func (e *Engine) SetMissingPolicy(ignoreNonExisting, preservePartlyExisting bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.ignore = ignoreNonExisting
	e.preserve = preservePartlyExisting
}

// CacheLen returns the number of cached schemas.
func (e *Engine) CacheLen() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return len(e.cache)
}
