// Package seeders holds named seed functions run by `kasir seed`.
//
//	func init() {
//	    seeders.Register("products", SeedProducts)
//	}
package seeders

import (
	"fmt"
	"io"
	"sync"

	"gorm.io/gorm"
)

// SeederFunc inserts rows. Seeders must be safe to run more than once.
type SeederFunc func(db *gorm.DB) error

type seederEntry struct {
	name string
	fn   SeederFunc
}

var (
	mu      sync.Mutex
	entries []seederEntry
)

// Register adds a seeder. Seeders run in registration order.
func Register(name string, fn SeederFunc) {
	mu.Lock()
	defer mu.Unlock()
	entries = append(entries, seederEntry{name: name, fn: fn})
}

// RunAll runs every registered seeder, or only those named in only, and
// stops at the first error.
func RunAll(db *gorm.DB, out io.Writer, only ...string) error {
	mu.Lock()
	current := append([]seederEntry(nil), entries...)
	mu.Unlock()

	want := make(map[string]bool, len(only))
	for _, n := range only {
		want[n] = true
	}

	ran := 0
	for _, e := range current {
		if len(want) > 0 && !want[e.name] {
			continue
		}
		fmt.Fprintf(out, "  • Running seeder: %s … ", e.name)
		if err := e.fn(db); err != nil {
			fmt.Fprintln(out, "FAILED")
			return fmt.Errorf("seeder %q: %w", e.name, err)
		}
		fmt.Fprintln(out, "done")
		ran++
	}

	if ran == 0 {
		fmt.Fprintln(out, "  (no seeders matched)")
	}
	return nil
}
