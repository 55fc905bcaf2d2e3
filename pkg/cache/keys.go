package cache

// PartitionKeyOpts are the inputs besides geometry that determine a
// partition result.
type PartitionKeyOpts struct {
	Volume    [3]float64 `json:"volume"`
	Strategy  string     `json:"strategy"`
	Trials    int        `json:"trials"`
	Seed      uint64     `json:"seed"`
	Layers    string     `json:"layers"`
	PerStrand int        `json:"per_strand"`
}

// Keyer derives cache keys.
type Keyer interface {
	// PartitionKey returns the key for a partition of the geometry with the
	// given content hash.
	PartitionKey(geometryHash string, opts PartitionKeyOpts) string
}

// DefaultKeyer produces "partition:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// PartitionKey implements [Keyer].
func (DefaultKeyer) PartitionKey(geometryHash string, opts PartitionKeyOpts) string {
	return hashKey("partition", geometryHash, opts)
}

// ScopedKeyer prefixes every key of an inner Keyer, giving server tenants or
// test runs their own namespace in a shared backend.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer returns a keyer that prepends prefix. A nil inner keyer
// means [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// PartitionKey implements [Keyer].
func (k *ScopedKeyer) PartitionKey(geometryHash string, opts PartitionKeyOpts) string {
	return k.prefix + k.inner.PartitionKey(geometryHash, opts)
}
