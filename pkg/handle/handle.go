// Package handle implements the Handle facade (§4.6): a Database paired
// with a blob-store root directory, giving extractors a single object
// through which to both mutate the triplet store and read blob bytes.
package handle

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/tilfirn/firn/pkg/triplestore"
)

// ErrLookupMiss is returned by Blob when entity contains a path separator
// or names no file under the blob root (§7 "LookupMiss").
var ErrLookupMiss = errors.New("handle: lookup miss")

// pathCacheSize bounds the resolved-path cache; a blob store with more
// distinct entities than this just pays the filepath.Join cost again on
// the evicted entries, it does not lose correctness.
const pathCacheSize = 4096

// Handle composes a Database with a blob root. It is the only object
// extractors are given during Init and EntryAdded.
type Handle struct {
	db    *triplestore.Database
	root  string
	paths *lru.Cache[triplestore.Entity, string]
}

// New constructs a Handle rooted at root.
func New(db *triplestore.Database, root string) (*Handle, error) {
	paths, err := lru.New[triplestore.Entity, string](pathCacheSize)
	if err != nil {
		return nil, err
	}
	return &Handle{db: db, root: root, paths: paths}, nil
}

// Insert records a triplet through the underlying Database.
func (h *Handle) Insert(entity triplestore.Entity, attribute triplestore.Attribute, value triplestore.Value) {
	h.db.Insert(entity, attribute, value)
}

// Get returns the values stored for (entity, attribute).
func (h *Handle) Get(entity triplestore.Entity, attribute triplestore.Attribute) []triplestore.Value {
	return h.db.Get(entity, attribute)
}

// DB exposes the underlying Database for callers that need the raw
// indices, e.g. pkg/query's resolver.
func (h *Handle) DB() *triplestore.Database { return h.db }

// Blob opens a seekable, read-only stream over the file backing entity.
// The entity id is sanitized before any filesystem access: an id
// containing a path separator, or naming "." or "..", fails with
// ErrLookupMiss rather than being resolved against root (§4.6, §8
// Scenario 5).
func (h *Handle) Blob(entity triplestore.Entity) (io.ReadSeekCloser, error) {
	path, ok := h.paths.Get(entity)
	if !ok {
		resolved, err := h.resolve(entity)
		if err != nil {
			return nil, err
		}
		path = resolved
		h.paths.Add(entity, path)
	}

	f, err := os.Open(path)
	if err != nil {
		h.paths.Remove(entity)
		if os.IsNotExist(err) {
			return nil, ErrLookupMiss
		}
		return nil, err
	}
	return f, nil
}

func (h *Handle) resolve(entity triplestore.Entity) (string, error) {
	name := string(entity)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, "/\\") {
		return "", ErrLookupMiss
	}
	return filepath.Join(h.root, name), nil
}
