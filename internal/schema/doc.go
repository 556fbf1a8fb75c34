// Package schema compiles reshaping schemas into executable key-path
// programs.
//
// A schema is an ordered list of entries. Each entry has an input
// definition and, in reshape mode, an output definition. Both can be written
// as a shorthand path string or as structured fields; the two forms compile
// to the same program.
//
// # Schema file
//
//	mode: reshape
//	entries:
//	  # shorthand pairs, input: output
//	  users.$id.name: byId.$id
//	  "users.$.name=>names": list.*
//	  "orders.$.total|float:2|ignore": totals.*
//
// The structured form spells out every part:
//
//	mode: reshape
//	entries:
//	  - input:
//	      keys: users.$.name
//	      name: names
//	      type: string
//	      policy: ignore
//	    output:
//	      keys: [list, "*"]
//	      value: "@names"
//
// # Path language
//
// Segments are separated by ".". A segment starting with "$" is a capture:
// it matches every key at its level and binds the matched key to its name.
// An unnamed capture ("$") is given a synthetic name. Output paths also
// accept "*" (running index of the destination container), "$name"
// (captured key) and "@name" (current value of a named stream). Any
// delimiter is taken literally when escaped with a backslash.
//
// Input suffixes: "|type[:param]" casts each value, "|required" and
// "|ignore" set the missing-element policy, "=>name" declares a named
// stream. Output suffixes: "|type[:param]" and "=>@stream" or "=>$capture"
// to override the assigned value.
//
// # Validation
//
// Check reports every problem as a diagnostic; Compile folds them into
// *shapeerr.SchemaError values. References to undeclared captures or
// streams are caught here, before any tree is touched.
package schema
