// Package reshape converts JSON-like trees with declarative schemas.
//
// A schema is a list of key paths written in a small path language (see
// package tree for the value model). It runs in one of three modes:
//
//   - reshape builds a new tree: each input path is mapped to an output path
//     that may rename keys, regroup by captured keys, number rows with a
//     running index or pair rows with those of another, named, input.
//   - select builds a tree holding only the matched locations, in place.
//   - prune returns a copy of the input without the matched locations.
//
// Example:
//
//	e := reshape.NewEngine(nil)
//	out, err := e.Convert(reshape.Raw{Entries: []reshape.RawEntry{
//		reshape.Pair("users.$id.name", "byId.$id"),
//	}}, reshape.ModeReshape, input)
//
// Schemas are compiled and validated before the tree is touched; compiled
// schemas are cached by the Engine. Errors match ErrSchema,
// ErrTypeMismatch, ErrMissingElement or ErrCast with errors.Is.
package reshape
