// Package history persists every disc scan in a SQLite database so earlier
// results can be listed without reinserting the disc.
package history
