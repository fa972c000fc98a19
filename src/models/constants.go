package models

// Entity identifies one record collection. The value doubles as the REST path
// segment on the backend, the dashboard route segment and the cache namespace.
type Entity string

const (
	// EntityKeys is the collection of physical keys
	EntityKeys Entity = "keys"
	// EntityKeyCopies is the collection of key copies handed out to staff
	EntityKeyCopies Entity = "key-copies"
	// EntityStaffs is the collection of staff members
	EntityStaffs Entity = "staffs"
)

// DefaultPageSize is the number of rows shown per table page
const DefaultPageSize = 3

// String returns the collection name
func (e Entity) String() string {
	return string(e)
}

// Valid reports whether e names a known collection
func (e Entity) Valid() bool {
	switch e {
	case EntityKeys, EntityKeyCopies, EntityStaffs:
		return true
	}
	return false
}
