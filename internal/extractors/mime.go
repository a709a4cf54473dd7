package extractors

import (
	"io"
	"net/http"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/tilfirn/firn/pkg/extractor"
	"github.com/tilfirn/firn/pkg/triplestore"
)

const mimeAttribute triplestore.Attribute = "type/mime"

// mimeCacheSize bounds MimeSniffer's in-process sniff cache; there is no
// on-disk cache here (original_source used a standalone sled database for
// this, which has no idiomatic Go counterpart in the retrieved examples),
// so a re-run of the pipeline re-sniffs every blob once per process.
const mimeCacheSize = 4096

// MimeSniffer reads the first 512 bytes of a newly seen blob and records
// its sniffed MIME type, using the standard library's content sniffer
// rather than a magic-number library: none of the retrieved examples
// import one, so net/http.DetectContentType is the stdlib fallback (§7
// TypeMismatch is not applicable here — sniffing never fails, it degrades
// to "application/octet-stream").
type MimeSniffer struct {
	cache *lru.Cache[triplestore.Entity, string]
}

// NewMimeSniffer constructs a MimeSniffer with its sniff cache.
func NewMimeSniffer() (*MimeSniffer, error) {
	cache, err := lru.New[triplestore.Entity, string](mimeCacheSize)
	if err != nil {
		return nil, err
	}
	return &MimeSniffer{cache: cache}, nil
}

// Name implements extractor.Extractor.
func (m *MimeSniffer) Name() string { return "mime-sniffer" }

// Init is a no-op; MimeSniffer only reacts to blob/size events.
func (m *MimeSniffer) Init(h extractor.Handle) error { return nil }

// EntryAdded sniffs entity's MIME type the first time it observes a
// blob/size triplet for it.
func (m *MimeSniffer) EntryAdded(h extractor.Handle, entity triplestore.Entity, attribute triplestore.Attribute, value triplestore.Value) error {
	if attribute != "blob/size" {
		return nil
	}

	// Don't do the work twice.
	if len(h.Get(entity, mimeAttribute)) > 0 {
		return nil
	}
	if mime, ok := m.cache.Get(entity); ok {
		h.Insert(entity, mimeAttribute, triplestore.Data(mime))
		return nil
	}

	blob, err := h.Blob(entity)
	if err != nil {
		return err
	}
	defer blob.Close()

	buf := make([]byte, 512)
	n, err := blob.Read(buf)
	if err != nil && err != io.EOF {
		return err
	}

	mime := http.DetectContentType(buf[:n])
	m.cache.Add(entity, mime)
	h.Insert(entity, mimeAttribute, triplestore.Data(mime))
	return nil
}
