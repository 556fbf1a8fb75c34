package reshape

import (
	"fmt"
	"math"
	"strconv"

	"tree-reshaper/internal/schema"
	"tree-reshaper/internal/shapeerr"
	"tree-reshaper/internal/walk"
	"tree-reshaper/tree"
)

// reshapeTree runs every entry in schema order into one destination tree.
// Running-index counters belong to destination containers and are shared by
// all entries that reach the same container.
func reshapeTree(s *schema.Schema, root tree.Value, settings walk.Settings) (tree.Value, error) {
	reg := walk.NewRegistry(s, root, settings)
	r := &reshaper{
		reg:      reg,
		settings: settings,
		builder:  tree.NewBuilder(),
		counters: map[tree.Value]int{},
	}

	for i := range s.Entries {
		if err := r.entry(i, &s.Entries[i]); err != nil {
			return nil, err
		}
	}

	return r.builder.Root(), nil
}

type reshaper struct {
	reg      *walk.Registry
	settings walk.Settings
	builder  *tree.Builder
	counters map[tree.Value]int
}

// dependency is the current row of a stream read by an output.
type dependency struct {
	value tree.Value
	ok    bool
}

func (r *reshaper) entry(idx int, e *schema.Entry) error {
	names := e.Output.Streams()

	deps := make(map[string]walk.Cursor, len(names))
	for _, name := range names {
		cur, ok := r.reg.Stream(name)
		if !ok {
			return &shapeerr.SchemaError{
				Code:    "unresolved_stream",
				Entry:   idx,
				Message: fmt.Sprintf("stream %q is not declared by any entry", name),
			}
		}

		deps[name] = cur
	}

	required := r.reg.Options(&e.Input).Policy == schema.PolicyRequired
	driver := r.reg.Open(idx)

	for row := 0; driver.Next(); row++ {
		// Every dependency advances exactly once per driving row, before
		// anything else is resolved.
		current := make(map[string]dependency, len(names))

		for _, name := range names {
			cur := deps[name]
			if cur.Next() {
				current[name] = dependency{value: cur.Row().Value, ok: true}
				continue
			}

			if err := cur.Err(); err != nil {
				return err
			}

			if required {
				return &shapeerr.MissingElementError{Stream: name, Row: row}
			}

			current[name] = dependency{}
		}

		if err := r.assign(e, driver.Row(), current); err != nil {
			return err
		}
	}

	return driver.Err()
}

// step is a resolved output segment. index marks a running index, whose key
// is only known once the container is reached.
type step struct {
	key   tree.Key
	index bool
}

func (r *reshaper) assign(e *schema.Entry, row walk.Row, current map[string]dependency) error {
	out := e.Output

	steps, ok, err := resolveSteps(out.Path, &e.Input, row, current)
	if err != nil || !ok {
		return err
	}

	value, ok := resolveValue(out.Source, &e.Input, row, current)
	if !ok {
		return nil
	}

	if row.Complete() || out.Source.Kind != schema.SourceSame {
		value, err = walk.Apply(r.settings.Caster, value, out.Cast)
		if err != nil {
			return err
		}
	}

	pos := r.builder.Start()
	last := len(steps) - 1

	for i, st := range steps {
		key := st.key

		if st.index {
			container := pos.Container()
			key = tree.IndexKey(r.counters[container])
			r.counters[container]++
		}

		if i == last {
			pos.Assign(key, tree.Clone(value))
			break
		}

		next := steps[i+1]
		pos = pos.Enter(key, next.index || next.key.IsIndex())
	}

	return nil
}

// resolveSteps resolves captured keys and stream values of an output path.
// It reports false when the row cannot be placed: a capture beyond the
// resolved keys or an exhausted stream.
func resolveSteps(path []schema.OutputSegment, in *schema.Input, row walk.Row, current map[string]dependency) ([]step, bool, error) {
	steps := make([]step, len(path))

	for i, seg := range path {
		switch seg.Kind {
		case schema.OutputLiteral:
			steps[i] = step{key: tree.MapKey(seg.Text)}

		case schema.OutputIndex:
			steps[i] = step{index: true}

		case schema.OutputCapture:
			key, ok := capturedKey(in, row, seg.Text)
			if !ok {
				return nil, false, nil
			}

			steps[i] = step{key: key}

		case schema.OutputStream:
			dep := current[seg.Text]
			if !dep.ok {
				return nil, false, nil
			}

			key, err := keyOf(dep.value, seg.Text)
			if err != nil {
				return nil, false, err
			}

			steps[i] = step{key: key}
		}
	}

	return steps, true, nil
}

func resolveValue(src schema.ValueSource, in *schema.Input, row walk.Row, current map[string]dependency) (tree.Value, bool) {
	switch src.Kind {
	case schema.SourceStream:
		return current[src.Name].value, true
	case schema.SourceCapture:
		key, ok := capturedKey(in, row, src.Name)
		if !ok {
			return nil, false
		}

		if key.IsIndex() {
			return key.Index(), true
		}

		return key.String(), true
	default:
		return row.Value, true
	}
}

func capturedKey(in *schema.Input, row walk.Row, name string) (tree.Key, bool) {
	pos, ok := in.Captures[name]
	if !ok || pos >= len(row.Keys) {
		return tree.Key{}, false
	}

	return row.Keys[pos], true
}

// keyOf turns a stream value into a destination key. Integers that fit a
// list position address one; other scalars are used in their string form.
func keyOf(v tree.Value, stream string) (tree.Key, error) {
	switch x := v.(type) {
	case nil:
		return tree.MapKey(""), nil
	case string:
		return tree.MapKey(x), nil
	case *tree.Map, *tree.List:
		return tree.Key{}, &shapeerr.TypeMismatchError{
			Segment: stream,
			Want:    "a scalar key",
			Kind:    tree.KindOf(v),
		}
	case int:
		return signedKey(int64(x)), nil
	case int8:
		return signedKey(int64(x)), nil
	case int16:
		return signedKey(int64(x)), nil
	case int32:
		return signedKey(int64(x)), nil
	case int64:
		return signedKey(x), nil
	case uint:
		return unsignedKey(uint64(x)), nil
	case uint8:
		return unsignedKey(uint64(x)), nil
	case uint16:
		return unsignedKey(uint64(x)), nil
	case uint32:
		return unsignedKey(uint64(x)), nil
	case uint64:
		return unsignedKey(x), nil
	default:
		return tree.MapKey(fmt.Sprint(v)), nil
	}
}

func signedKey(n int64) tree.Key {
	if n < 0 || n > math.MaxInt {
		return tree.MapKey(strconv.FormatInt(n, 10))
	}

	return tree.IndexKey(int(n))
}

func unsignedKey(n uint64) tree.Key {
	if n > math.MaxInt {
		return tree.MapKey(strconv.FormatUint(n, 10))
	}

	return tree.IndexKey(int(n))
}
