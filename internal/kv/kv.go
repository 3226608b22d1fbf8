// Package kv provides the durable ordered key-value maps the entity
// stores are built on.  A SortedMap maps 64-bit keys to opaque byte
// values and iterates in ascending key order; a Cell holds a single
// 64-bit counter.  Backends differ only in where the bytes live.
package kv

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// Entry is one key/value pair returned by Scan.
type Entry struct {
	Key   uint64
	Value []byte
}

// SortedMap is an ordered mapping from uint64 keys to byte values.
// Insert and Remove report the previous value so callers can tell a
// create from an update.
type SortedMap interface {
	Get(ctx context.Context, key uint64) ([]byte, bool, error)
	Insert(ctx context.Context, key uint64, value []byte) ([]byte, bool, error)
	Remove(ctx context.Context, key uint64) ([]byte, bool, error)
	Scan(ctx context.Context) ([]Entry, error)
}

// Cell is a single durable counter.  An unset cell reads as zero.
type Cell interface {
	Get(ctx context.Context) (uint64, error)
	Set(ctx context.Context, v uint64) error
}

// Backend hands out named maps and cells.  Asking twice for the same name
// returns views over the same data.
type Backend interface {
	Map(ctx context.Context, name string) (SortedMap, error)
	Cell(ctx context.Context, name string) (Cell, error)
}

// ErrInvalidName is returned for map or cell names that are not
// lower-case identifiers.
var ErrInvalidName = errors.New("kv: invalid name")

var nameRE = regexp.MustCompile(`^[a-z][a-z0-9_]{0,47}$`)

func validName(name string) error {
	if !nameRE.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
