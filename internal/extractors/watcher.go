package extractors

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tilfirn/firn/pkg/extractor"
	"github.com/tilfirn/firn/pkg/triplestore"
)

// DefaultSettleTimeout bounds how long Watcher waits for a new filesystem
// event before concluding the directory has settled, mirroring the
// write-log's own bounded-wait quiescence idiom (§4.8).
const DefaultSettleTimeout = 200 * time.Millisecond

// Watcher supplements BlobLoader: it watches Root for files created or
// written after the pipeline started, inserting blob/size for each one it
// observes before the directory goes quiet. Like BlobLoader it never
// calls Insert from outside the driver's goroutine — fsnotify's Events
// channel is only drained inside Init's own select loop, so the
// single-threaded discipline in §5 still holds.
type Watcher struct {
	Root          string
	SettleTimeout time.Duration
}

// Name implements extractor.Extractor.
func (w *Watcher) Name() string { return "watcher" }

// Init blocks, draining fsnotify events for Root until SettleTimeout
// elapses with nothing new, inserting blob/size for every regular file it
// sees created or written.
func (w *Watcher) Init(h extractor.Handle) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.Add(w.Root); err != nil {
		return err
	}

	timeout := w.SettleTimeout
	if timeout <= 0 {
		timeout = DefaultSettleTimeout
	}

	seen := make(map[string]bool)
	for {
		select {
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			name := filepath.Base(ev.Name)
			if seen[name] {
				continue
			}
			info, err := os.Stat(ev.Name)
			if err != nil || info.IsDir() {
				continue
			}
			seen[name] = true
			h.Insert(triplestore.Entity(name), "blob/size", triplestore.Data(strconv.FormatInt(info.Size(), 10)))

		case _, ok := <-fw.Errors:
			if !ok {
				return nil
			}

		case <-time.After(timeout):
			return nil
		}
	}
}

// EntryAdded is a no-op; Watcher only contributes during Init.
func (w *Watcher) EntryAdded(h extractor.Handle, entity triplestore.Entity, attribute triplestore.Attribute, value triplestore.Value) error {
	return nil
}
