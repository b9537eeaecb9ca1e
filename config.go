package edgecache

// Config configures a Cache.
//
// Both fields are slot counts and are rounded up to powers of two during
// construction. The trade they control: a larger compact bound keeps the
// cache in the zero-probe phase for wider key sets at the price of bigger
// doublings; a smaller bound migrates to the probing table sooner.
type Config struct {
	// InitialCapacity is the slot count of the first compact table.
	// Rounded up to a power of two, 2 at minimum.
	//
	// Default: 2. Per-state symbol sets are tiny in practice, and the
	// table doubles on demand, so starting small wastes nothing.
	InitialCapacity int

	// MaxCapacity bounds compact-table growth. A key set that cannot be
	// stored collision-free within this bound moves the cache to the
	// probing table, once and permanently.
	//
	// Default: 128. Large enough that the whole ASCII symbol range keeps
	// zero-probe lookups, small enough that a failed search for a
	// collision-free layout stays cheap.
	//
	// Rounded up to a power of two; must not exceed 1<<29 after
	// rounding.
	MaxCapacity int
}

// DefaultConfig returns the configuration used by New.
func DefaultConfig() Config {
	return Config{
		InitialCapacity: 2,
		MaxCapacity:     128,
	}
}

// Validate checks if the configuration is valid.
// Returns an error if any parameter is out of acceptable range.
func (c *Config) Validate() error {
	if c.InitialCapacity < 1 {
		return &CacheError{
			Kind:    InvalidCapacity,
			Message: "InitialCapacity must be >= 1",
		}
	}

	if c.MaxCapacity < c.InitialCapacity {
		return &CacheError{
			Kind:    InvalidCapacity,
			Message: "MaxCapacity must be >= InitialCapacity",
		}
	}

	// InitialCapacity <= MaxCapacity, so one ceiling check covers both.
	if _, err := adjustCapacity(c.MaxCapacity); err != nil {
		return err
	}

	return nil
}

// WithInitialCapacity returns a new config with the specified initial capacity
func (c Config) WithInitialCapacity(capacity int) Config {
	c.InitialCapacity = capacity
	return c
}

// WithMaxCapacity returns a new config with the specified compact-table bound
func (c Config) WithMaxCapacity(capacity int) Config {
	c.MaxCapacity = capacity
	return c
}
