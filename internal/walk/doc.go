// Package walk matches compiled key-path programs against trees.
//
// A Walker produces rows lazily: literal segments descend one level, capture
// segments fan out over every child of a map or list, and the program end
// yields the reached node with the keys that led there. Nothing is read
// ahead of the consumer.
//
// A Registry scopes the streams of one conversion. Entries that declare a
// stream name are walked once and replayed to every reader through
// independent cursors.
package walk
