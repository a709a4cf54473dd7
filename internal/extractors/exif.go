package extractors

import (
	"strconv"
	"strings"
	"time"

	goexif "github.com/rwcarlsen/goexif/exif"

	"github.com/tilfirn/firn/pkg/extractor"
	"github.com/tilfirn/firn/pkg/triplestore"
)

// ExifExtractor decodes EXIF metadata out of image blobs once MimeSniffer
// has identified them as images, grounded on original_source's
// exif.rs but delegating field parsing to rwcarlsen/goexif instead of
// hand-rolling rational/ASCII tag decoding.
type ExifExtractor struct{}

// Name implements extractor.Extractor.
func (e *ExifExtractor) Name() string { return "exif" }

// Init is a no-op; ExifExtractor only reacts to type/mime events.
func (e *ExifExtractor) Init(h extractor.Handle) error { return nil }

// EntryAdded extracts EXIF data from entity once it has been sniffed as an
// image MIME type.
func (e *ExifExtractor) EntryAdded(h extractor.Handle, entity triplestore.Entity, attribute triplestore.Attribute, value triplestore.Value) error {
	if attribute != mimeAttribute {
		return nil
	}
	mime, ok := value.AsData()
	if !ok || !strings.HasPrefix(mime, "image") {
		return nil
	}

	blob, err := h.Blob(entity)
	if err != nil {
		return err
	}
	defer blob.Close()

	x, err := goexif.Decode(blob)
	if err != nil {
		// Not every image carries EXIF (PNGs rarely do); this is not an
		// extractor failure.
		return nil
	}

	if tag, err := x.Get(goexif.PixelXDimension); err == nil {
		if width, err := tag.Int(0); err == nil {
			h.Insert(entity, "image/width", triplestore.Data(strconv.Itoa(width)))
		}
	}
	if tag, err := x.Get(goexif.PixelYDimension); err == nil {
		if height, err := tag.Int(0); err == nil {
			h.Insert(entity, "image/height", triplestore.Data(strconv.Itoa(height)))
		}
	}

	if ts, err := x.DateTime(); err == nil {
		h.Insert(entity, "time/creation", triplestore.Data(ts.Format(time.RFC3339)))
	}

	if lat, lng, err := x.LatLong(); err == nil {
		h.Insert(entity, "location/latitude", triplestore.Data(strconv.FormatFloat(lat, 'f', -1, 64)))
		h.Insert(entity, "location/longitude", triplestore.Data(strconv.FormatFloat(lng, 'f', -1, 64)))
	}

	if tag, err := x.Get(goexif.GPSAltitude); err == nil {
		if alt, err := tag.Float(0); err == nil {
			h.Insert(entity, "location/altitude", triplestore.Data(strconv.FormatFloat(alt, 'f', -1, 64)))
		}
	}

	makeTag, makeErr := x.Get(goexif.Make)
	modelTag, modelErr := x.Get(goexif.Model)
	if makeErr == nil && modelErr == nil {
		makeStr, err1 := makeTag.StringVal()
		modelStr, err2 := modelTag.StringVal()
		if err1 == nil && err2 == nil {
			camera := triplestore.Entity(strings.TrimSpace(modelStr))
			if len(h.Get(camera, "device/manufacturer")) == 0 {
				h.Insert(camera, "device/manufacturer", triplestore.Data(titleCase(strings.TrimSpace(makeStr))))
			}
			h.Insert(entity, "image/camera", triplestore.Reference(camera))
		}
	}

	return nil
}

func titleCase(s string) string {
	lower := strings.ToLower(s)
	if lower == "" {
		return lower
	}
	return strings.ToUpper(lower[:1]) + lower[1:]
}
