package walk

import (
	"tree-reshaper/cast"
	"tree-reshaper/internal/schema"
	"tree-reshaper/tree"
)

// Cursor reads rows one at a time.
type Cursor interface {
	Next() bool
	Row() Row
	Err() error
}

// Settings are the engine-wide switches that shape every walk.
type Settings struct {
	IgnoreMissing bool
	Preserve      bool
	Caster        cast.Caster
}

// Registry opens the streams of one conversion. Named streams are walked at
// most once: every cursor on a name replays the same buffered rows, pulling
// from the underlying walk only when a cursor reads past the buffer.
//
// A Registry belongs to a single conversion and is not safe for concurrent use.
type Registry struct {
	schema   *schema.Schema
	root     tree.Value
	settings Settings
	memos    map[string]*memo
}

// NewRegistry prepares the streams of s over root.
func NewRegistry(s *schema.Schema, root tree.Value, settings Settings) *Registry {
	return &Registry{
		schema:   s,
		root:     root,
		settings: settings,
		memos:    map[string]*memo{},
	}
}

// Options returns the walk options of an input under the registry settings.
func (r *Registry) Options(in *schema.Input) Options {
	return Options{
		Policy:   in.Policy.Effective(r.settings.IgnoreMissing),
		Preserve: r.settings.Preserve,
		Cast:     in.Cast,
		Caster:   r.settings.Caster,
	}
}

// Open returns a cursor over the rows of entry idx. Named entries read
// through the shared buffer of their stream.
func (r *Registry) Open(idx int) Cursor {
	in := &r.schema.Entries[idx].Input
	if in.Stream != "" {
		return &replay{memo: r.memo(in.Stream)}
	}

	return New(in.Path, r.root, r.Options(in))
}

// Stream returns a fresh cursor over a named stream, positioned before its
// first row. It returns false for undeclared names.
func (r *Registry) Stream(name string) (Cursor, bool) {
	if _, ok := r.schema.Streams[name]; !ok {
		return nil, false
	}

	return &replay{memo: r.memo(name)}, true
}

func (r *Registry) memo(name string) *memo {
	if m, ok := r.memos[name]; ok {
		return m
	}

	in := &r.schema.Entries[r.schema.Streams[name]].Input
	m := &memo{src: New(in.Path, r.root, r.Options(in))}
	r.memos[name] = m

	return m
}

// memo buffers the rows of one walk for any number of readers.
type memo struct {
	src  *Walker
	rows []Row
	done bool
	err  error
}

// at returns row i, walking further only if the buffer is too short.
func (m *memo) at(i int) (Row, bool, error) {
	for len(m.rows) <= i && !m.done {
		if m.src.Next() {
			m.rows = append(m.rows, m.src.Row())
			continue
		}

		m.done = true
		m.err = m.src.Err()
	}

	if i < len(m.rows) {
		return m.rows[i], true, nil
	}

	return Row{}, false, m.err
}

// replay is an independent cursor over a memo.
type replay struct {
	memo *memo
	pos  int
	row  Row
	err  error
}

func (c *replay) Next() bool {
	if c.err != nil {
		return false
	}

	row, ok, err := c.memo.at(c.pos)
	if !ok {
		c.err = err
		return false
	}

	c.pos++
	c.row = row

	return true
}

func (c *replay) Row() Row {
	return c.row
}

func (c *replay) Err() error {
	return c.err
}
