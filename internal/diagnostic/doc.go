// Package diagnostic collects the problems found while compiling a schema
// so they can be reported together instead of one at a time.
//
// Every error diagnostic becomes a *shapeerr.SchemaError when the
// collection is turned into an error.
package diagnostic
