package domain

// A named delivery location. Name is the identity key into the
// distance table; the address fields are for display only.
type Location struct {
	Name    string
	Address string
	City    string
	Zip     string
}

// One undirected distance measurement between two named locations.
type DistanceEntry struct {
	From  string
	To    string
	Miles float64
}
