package extractors

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/tilfirn/firn/pkg/extractor"
	"github.com/tilfirn/firn/pkg/triplestore"
)

// point is one gazetteer entry's coordinates and id, kept as a flat slice
// for Gazetteer's nearest-neighbor scan.
type point struct {
	lat, lng float64
	id       int64
}

// place is the descriptive data Gazetteer attaches once a coordinate
// resolves to a geoname id.
type place struct {
	name      string
	parent    int64
	hasParent bool
}

// Gazetteer resolves (latitude, longitude) pairs to the nearest named
// place in a loaded geonames.org-style dump, grounded on
// original_source's geonames.rs. That implementation indexes points with
// an R-tree (the `rstar` crate); no spatial-index library appears
// anywhere in the retrieved examples, so Gazetteer falls back to a linear
// nearest-neighbor scan over the stdlib — acceptable at the scale of a
// single-user blob store's distinct coordinates, and the one place in
// this package that has no third-party grounding to reach for.
type Gazetteer struct {
	points []point
	places map[int64]place
}

// LoadGazetteer reads a tab-separated geonames dump (columns per
// geonames.org's allCountries.txt: geonameid, name, ..., latitude,
// longitude, feature class, ...) and an optional hierarchy file (parent,
// child, type) linking geoname ids into a containment tree.
func LoadGazetteer(geonamesPath, hierarchyPath string) (*Gazetteer, error) {
	g := &Gazetteer{places: make(map[int64]place)}

	if geonamesPath == "" {
		return g, nil
	}

	if err := g.loadGeonames(geonamesPath); err != nil {
		return nil, fmt.Errorf("gazetteer: %w", err)
	}
	if hierarchyPath != "" {
		if err := g.loadHierarchy(hierarchyPath); err != nil {
			return nil, fmt.Errorf("gazetteer: %w", err)
		}
	}
	return g, nil
}

func (g *Gazetteer) loadGeonames(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	for {
		record, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if len(record) < 8 {
			continue
		}

		featureClass := record[6]
		if featureClass != "P" && featureClass != "A" {
			continue
		}

		id, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			continue
		}
		lat, err1 := strconv.ParseFloat(record[4], 64)
		lng, err2 := strconv.ParseFloat(record[5], 64)
		if err1 != nil || err2 != nil {
			continue
		}

		g.points = append(g.points, point{lat: lat, lng: lng, id: id})
		g.places[id] = place{name: record[1]}
	}
	return nil
}

func (g *Gazetteer) loadHierarchy(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	for {
		record, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if len(record) < 2 {
			continue
		}

		parent, err1 := strconv.ParseInt(record[0], 10, 64)
		child, err2 := strconv.ParseInt(record[1], 10, 64)
		if err1 != nil || err2 != nil {
			continue
		}
		if _, ok := g.places[parent]; !ok {
			continue
		}
		if p, ok := g.places[child]; ok {
			p.parent = parent
			p.hasParent = true
			g.places[child] = p
		}
	}
	return nil
}

// nearest returns the geoname id closest to (lat, lng) by planar
// Euclidean distance on raw degrees — adequate at gazetteer density, and
// consistent with the great-circle-free approach original_source itself
// used via rstar's Euclidean metric.
func (g *Gazetteer) nearest(lat, lng float64) (int64, bool) {
	var (
		bestID   int64
		bestDist = math.Inf(1)
		found    bool
	)
	for _, p := range g.points {
		dLat := p.lat - lat
		dLng := p.lng - lng
		dist := dLat*dLat + dLng*dLng
		if dist < bestDist {
			bestDist = dist
			bestID = p.id
			found = true
		}
	}
	return bestID, found
}

// Name implements extractor.Extractor.
func (g *Gazetteer) Name() string { return "gazetteer" }

// Init is a no-op; all gazetteer data is loaded ahead of time via
// LoadGazetteer.
func (g *Gazetteer) Init(h extractor.Handle) error { return nil }

// EntryAdded reacts to two distinct triggers, mirroring
// original_source's geonames.rs: a newly bound coordinate resolves to the
// nearest geoname, and a newly observed geoname reference is expanded
// into its label and parent.
func (g *Gazetteer) EntryAdded(h extractor.Handle, entity triplestore.Entity, attribute triplestore.Attribute, value triplestore.Value) error {
	switch attribute {
	case "location/latitude", "location/longitude":
		g.resolveCoordinate(h, entity)
	}

	if ref, ok := value.AsEntity(); ok {
		if id, ok := geonameID(ref); ok {
			g.expandGeoname(h, ref, id)
		}
	}
	return nil
}

func geonameID(e triplestore.Entity) (int64, bool) {
	const prefix = "geoname:"
	s := string(e)
	if !strings.HasPrefix(s, prefix) {
		return 0, false
	}
	id, err := strconv.ParseInt(s[len(prefix):], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func (g *Gazetteer) resolveCoordinate(h extractor.Handle, entity triplestore.Entity) {
	if len(h.Get(entity, "location/geoname")) > 0 {
		return
	}

	lats := h.Get(entity, "location/latitude")
	lngs := h.Get(entity, "location/longitude")
	if len(lats) == 0 || len(lngs) == 0 {
		return
	}

	latStr, ok := lats[0].AsData()
	if !ok {
		return
	}
	lngStr, ok := lngs[0].AsData()
	if !ok {
		return
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return
	}

	id, ok := g.nearest(lat, lng)
	if !ok {
		return
	}
	h.Insert(entity, "location/geoname", triplestore.Reference(triplestore.Entity(fmt.Sprintf("geoname:%d", id))))
}

func (g *Gazetteer) expandGeoname(h extractor.Handle, entity triplestore.Entity, id int64) {
	p, ok := g.places[id]
	if !ok {
		return
	}

	if len(h.Get(entity, "text/label")) == 0 {
		h.Insert(entity, "text/label", triplestore.Data(p.name))
	}
	if p.hasParent {
		h.Insert(entity, "relation/parent", triplestore.Reference(triplestore.Entity(fmt.Sprintf("geoname:%d", p.parent))))
	}
}
