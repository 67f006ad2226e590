package schema

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/signadot/rbxbin/format"
)

var (
	mu       sync.RWMutex
	registry = make(map[string]*Database)
	// loaded maps files read by Open to their databases.
	loaded = make(map[string]*Database)
)

// Register registers a database in the global registry under its name.
func Register(db *Database) error {
	if db == nil {
		return fmt.Errorf("cannot register nil database")
	}
	if db.Name == "" {
		return fmt.Errorf("database must have a name")
	}

	mu.Lock()
	defer mu.Unlock()

	if _, exists := registry[db.Name]; exists {
		return fmt.Errorf("database %q already registered", db.Name)
	}
	registry[db.Name] = db
	return nil
}

// Get looks up a registered database by name.
func Get(name string) *Database {
	mu.RLock()
	defer mu.RUnlock()
	return registry[name]
}

// Names returns the registered database names in order.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	res := make([]string, 0, len(registry))
	for k := range registry {
		res = append(res, k)
	}
	sort.Strings(res)
	return res
}

// Open returns the database registered under ref. Otherwise ref is a file
// path: the file is loaded once, in the format its extension names, and the
// database is registered under its name if it has one.
func Open(ref string) (*Database, error) {
	mu.RLock()
	db := registry[ref]
	if db == nil {
		db = loaded[ref]
	}
	mu.RUnlock()
	if db != nil {
		return db, nil
	}

	f, err := os.Open(ref)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	db, err = Load(f, format.FromPath(ref))
	if err != nil {
		return nil, fmt.Errorf("loading schema %s: %w", ref, err)
	}

	mu.Lock()
	defer mu.Unlock()
	if db.Name != "" {
		if _, exists := registry[db.Name]; exists {
			return nil, fmt.Errorf("schema %s: database %q already registered", ref, db.Name)
		}
		registry[db.Name] = db
	}
	loaded[ref] = db
	return db, nil
}
