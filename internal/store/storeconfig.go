package store

type StoreConfig interface {
	// GetEndpoints returns the addresses the store connects to
	GetEndpoints() []string

	// GetDatabase returns the logical database (namespace) the flag lives in
	GetDatabase() int

	Validate() error
}
