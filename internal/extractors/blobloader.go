package extractors

import (
	"fmt"
	"os"
	"strconv"

	"github.com/tilfirn/firn/pkg/extractor"
	"github.com/tilfirn/firn/pkg/triplestore"
)

// BlobLoader walks a directory once at Init and records blob/size for
// every regular file it finds, seeding the triplet store before any other
// extractor runs.
type BlobLoader struct {
	Root string
}

// Name implements extractor.Extractor.
func (b *BlobLoader) Name() string { return "blob-loader" }

// Init scans Root non-recursively, inserting (filename, blob/size, bytes)
// for every regular file.
func (b *BlobLoader) Init(h extractor.Handle) error {
	entries, err := os.ReadDir(b.Root)
	if err != nil {
		return fmt.Errorf("blob-loader: read dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		h.Insert(triplestore.Entity(entry.Name()), "blob/size", triplestore.Data(strconv.FormatInt(info.Size(), 10)))
	}
	return nil
}

// EntryAdded is a no-op; BlobLoader only contributes during Init.
func (b *BlobLoader) EntryAdded(h extractor.Handle, entity triplestore.Entity, attribute triplestore.Attribute, value triplestore.Value) error {
	return nil
}
