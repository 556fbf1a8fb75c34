package walk

import (
	"slices"

	"tree-reshaper/cast"
	"tree-reshaper/internal/schema"
	"tree-reshaper/internal/shapeerr"
	"tree-reshaper/tree"
)

// Row is one match of a key-path program.
type Row struct {
	// Value is the matched node, cast when the input asks for it.
	Value tree.Value
	// Keys holds the key matched by each resolved segment, in order.
	Keys []tree.Key
	// Partial marks a row whose path broke off under the preserve setting;
	// Value is then an empty map.
	Partial bool
	// Missing marks a row whose path broke off without the preserve
	// setting; Value is then nil.
	Missing bool
}

// Complete reports whether every segment of the program was resolved.
func (r Row) Complete() bool {
	return !r.Partial && !r.Missing
}

// Options control a single walk.
type Options struct {
	// Policy is the effective missing-element policy, Required or Ignore.
	Policy schema.Policy
	// Preserve substitutes an empty map for a missing element.
	Preserve bool
	// Cast is applied to every complete row.
	Cast   *cast.Spec
	Caster cast.Caster
}

// frame is a pending branch: node reached after resolving segments
// [0, next) with the given keys.
type frame struct {
	node tree.Value
	next int
	keys []tree.Key
}

// Walker lazily enumerates the rows of a program over a tree, depth first
// and in source order. It cannot be rewound; walk again to start over.
type Walker struct {
	prog  schema.Program
	opts  Options
	stack []frame
	row   Row
	err   error
}

// New starts a walk of prog over root.
func New(prog schema.Program, root tree.Value, opts Options) *Walker {
	return &Walker{
		prog:  prog,
		opts:  opts,
		stack: []frame{{node: root}},
	}
}

// Next advances to the next row. It returns false when the walk is over or
// failed; check Err to tell them apart.
func (w *Walker) Next() bool {
	if w.err != nil {
		return false
	}

	for len(w.stack) > 0 {
		f := w.stack[len(w.stack)-1]
		w.stack = w.stack[:len(w.stack)-1]

		row, ok, err := w.resolve(f)
		if err != nil {
			w.err = err
			w.stack = nil

			return false
		}

		if ok {
			w.row = row
			return true
		}
	}

	return false
}

// Row returns the current row.
func (w *Walker) Row() Row {
	return w.row
}

// Err returns the error that stopped the walk, if any.
func (w *Walker) Err() error {
	return w.err
}

// resolve follows literal segments from f until the program ends, a key is
// missing or a capture fans out into new frames.
func (w *Walker) resolve(f frame) (Row, bool, error) {
	node, keys := f.node, f.keys

	for i := f.next; i < len(w.prog); i++ {
		seg := w.prog[i]

		switch seg.Kind {
		case schema.SegmentLiteral:
			key, child, ok := tree.Child(node, seg.Text)
			if !ok {
				return w.missing(keys, seg.Text)
			}

			node = child
			keys = append(slices.Clip(keys), key)

		case schema.SegmentCapture:
			if !tree.IsContainer(node) {
				return Row{}, false, &shapeerr.TypeMismatchError{
					Path:    keyStrings(keys),
					Segment: seg.Text,
					Kind:    tree.KindOf(node),
				}
			}

			var branches []frame
			for k, child := range tree.Children(node) {
				branches = append(branches, frame{
					node: child,
					next: i + 1,
					keys: append(slices.Clip(keys), k),
				})
			}

			// Pushed in reverse so the first child is walked first.
			for j := len(branches) - 1; j >= 0; j-- {
				w.stack = append(w.stack, branches[j])
			}

			return Row{}, false, nil
		}
	}

	value, err := Apply(w.opts.Caster, node, w.opts.Cast)
	if err != nil {
		return Row{}, false, err
	}

	return Row{Value: value, Keys: keys}, true, nil
}

// missing applies the missing-element policy to an absent literal key.
func (w *Walker) missing(keys []tree.Key, literal string) (Row, bool, error) {
	switch {
	case w.opts.Policy != schema.PolicyIgnore:
		return Row{}, false, &shapeerr.MissingElementError{
			Path: append(keyStrings(keys), literal),
		}
	case w.opts.Preserve:
		return Row{Value: tree.NewMap(), Keys: keys, Partial: true}, true, nil
	default:
		return Row{Keys: keys, Missing: true}, true, nil
	}
}

func keyStrings(keys []tree.Key) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.String()
	}

	return out
}
