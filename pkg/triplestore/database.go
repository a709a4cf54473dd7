package triplestore

// Database holds the three indices described in §3/§4.2 — EAV, AVE and
// VAE — and fans every insert out onto a write-log for the pipeline driver
// to consume. It performs no locking of its own: the spec's concurrency
// model (§5) is single-threaded and cooperative, so Database is safe only
// when Insert, Get and the query engine all run on one goroutine.
type Database struct {
	eav *TripletIndex[Entity, Attribute, Value]
	ave *TripletIndex[Attribute, Value, Entity]
	vae *TripletIndex[Value, Attribute, Entity]

	writeLog *WriteLog
}

// NewDatabase constructs an empty Database and returns it alongside the
// receiving end of its write-log. The caller (normally the pipeline driver)
// takes ownership of the WriteLog; Database keeps only the sending side.
func NewDatabase() (*Database, *WriteLog) {
	wl := newWriteLog()
	db := &Database{
		eav:      NewTripletIndex[Entity, Attribute, Value](),
		ave:      NewTripletIndex[Attribute, Value, Entity](),
		vae:      NewTripletIndex[Value, Attribute, Entity](),
		writeLog: wl,
	}
	return db, wl
}

// Insert records a new (entity, attribute, value) triplet. It never
// overwrites or deduplicates: the same triplet inserted twice produces two
// occurrences in every index and two events on the write-log (§3
// "Lifecycle", §8 "Round-trip / idempotence").
func (db *Database) Insert(entity Entity, attribute Attribute, value Value) {
	db.eav.Append(entity, attribute, value)
	db.ave.Append(attribute, value, entity)
	db.vae.Append(value, attribute, entity)

	db.writeLog.push(Triplet{Entity: entity, Attribute: attribute, Value: value})
}

// Get returns the values stored for (entity, attribute), in insertion
// order; an empty slice if none.
func (db *Database) Get(entity Entity, attribute Attribute) []Value {
	return db.eav.Values(entity, attribute)
}

// Len returns the number of distinct (entity, attribute) groups currently
// populated in the EAV index — an approximation of the triplet count when
// attributes are single-valued, and a lower bound otherwise.
func (db *Database) Len() int {
	return db.eav.Len()
}

// RebuildIndices clears AVE and VAE and repopulates them from a full scan
// of EAV. It is a maintenance-only operation: normal Insert calls already
// keep all three indices synchronized, so this is only needed after a bulk
// load that bypassed Insert (§4.2).
func (db *Database) RebuildIndices() {
	db.ave.Clear()
	db.vae.Clear()

	for _, group := range db.eav.Scan() {
		for _, v := range group.Values {
			db.ave.Append(group.K2, v, group.K1)
			db.vae.Append(v, group.K2, group.K1)
		}
	}
}

// EAV, AVE and VAE expose the raw indices to pkg/query's resolver, which
// picks one of the three per rule based on which slots are bound (§4.4).
func (db *Database) EAV() *TripletIndex[Entity, Attribute, Value] { return db.eav }
func (db *Database) AVE() *TripletIndex[Attribute, Value, Entity] { return db.ave }
func (db *Database) VAE() *TripletIndex[Value, Attribute, Entity] { return db.vae }
