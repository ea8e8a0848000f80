package rex

// Config controls compilation and match behavior.
//
// Example:
//
//	cfg := rex.DefaultConfig()
//	cfg.CaseInsensitive = true
//	re, err := rex.CompileWithConfig(`(greeting:hello) \g{greeting}`, cfg)
type Config struct {
	// CaseInsensitive makes literal, class, and backreference comparisons
	// ASCII case-insensitive.
	// Default: false
	CaseInsensitive bool

	// Multiline makes '^' and '$' match at internal line boundaries, not
	// just at the start and end of the whole input.
	// Default: false
	Multiline bool

	// Dotall makes '.' match '\n' as well as every other codepoint.
	// Default: false
	Dotall bool

	// EnablePrefilter enables Aho-Corasick literal prefiltering ahead of
	// NFA simulation. Disabling it never changes match results, only
	// search speed.
	// Default: true
	EnablePrefilter bool

	// MaxStepsPerSearch caps the number of thread-steps a single search
	// attempt may take. When the cap is hit the search stops and the
	// search methods report no match; no error reaches the caller. Zero
	// means unbounded.
	// Default: 0 (unbounded)
	MaxStepsPerSearch int

	// MaxThreads caps the number of live simulator threads at any one
	// input position. When the cap is hit the search stops and the search
	// methods report no match; no error reaches the caller. Zero means
	// unbounded.
	// Default: 0 (unbounded)
	MaxThreads int
}

// DefaultConfig returns a Config with sensible defaults: case-sensitive,
// single-line, prefiltering enabled, no resource limits.
func DefaultConfig() Config {
	return Config{
		EnablePrefilter: true,
	}
}

// Validate reports whether c's numeric fields are in range.
func (c Config) Validate() error {
	if c.MaxStepsPerSearch < 0 {
		return &ConfigError{Field: "MaxStepsPerSearch", Message: "must be >= 0"}
	}
	if c.MaxThreads < 0 {
		return &ConfigError{Field: "MaxThreads", Message: "must be >= 0"}
	}
	return nil
}

// ConfigError reports an invalid Config field.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "rex: invalid config: " + e.Field + ": " + e.Message
}
