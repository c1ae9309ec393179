package types

import "errors"

// Config holds backend selection and parameters for opening an Inventory.
type Config struct {
	Backend  string `json:"backend" yaml:"backend" mapstructure:"backend"`
	Capacity int    `json:"capacity" yaml:"capacity" mapstructure:"capacity"`
}

// Supported backend names.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Config validation errors.
var (
	ErrBackendEmpty    = errors.New("backend must not be empty")
	ErrBackendUnknown  = errors.New("unknown backend")
	ErrCapacityInvalid = errors.New("capacity must not be negative")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendMemory: true,
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure. A zero Capacity means unbounded.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.Capacity < 0 {
		return ErrCapacityInvalid
	}
	return nil
}

// Bounded reports whether the config limits the number of items.
func (c Config) Bounded() bool {
	return c.Capacity > 0
}
