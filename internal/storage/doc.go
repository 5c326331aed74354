// Package storage keeps run summaries in SQLite so repeated runs can be compared later.
package storage
