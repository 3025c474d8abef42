package icd

import "time"

const (
	// DefaultTokenEndpoint is the WHO access-management token endpoint.
	DefaultTokenEndpoint = "https://icdaccessmanagement.who.int/connect/token"

	// DefaultSearchEndpoint is the ICD-11 MMS linearization search endpoint.
	DefaultSearchEndpoint = "https://id.who.int/icd/release/11/2024-01/mms/search"

	// DefaultEntityEndpoint is the base URI for entity detail lookups.
	DefaultEntityEndpoint = "https://id.who.int/icd/entity"

	// DefaultScope is the OAuth2 scope granted for ICD API access.
	DefaultScope = "icdapi_access"

	// DefaultTimeout bounds every remote call.
	DefaultTimeout = 10 * time.Second

	// DefaultResultCap bounds the combined primary plus fallback result set.
	// Observed service behavior, kept configurable.
	DefaultResultCap = 20
)

// Config holds gateway connection settings.
type Config struct {
	TokenEndpoint  string
	SearchEndpoint string
	EntityEndpoint string
	ClientID       string
	ClientSecret   string
	Scope          string
	Timeout        time.Duration
	ResultCap      int

	// FallbackOnEmpty controls whether an empty primary search triggers the
	// widened flexisearch. The empty-only trigger is observed behavior, kept
	// configurable rather than hard-coded.
	FallbackOnEmpty bool
}

// DefaultConfig returns a Config with standard WHO endpoints. Credentials
// must be supplied by the caller.
func DefaultConfig() Config {
	return Config{
		TokenEndpoint:   DefaultTokenEndpoint,
		SearchEndpoint:  DefaultSearchEndpoint,
		EntityEndpoint:  DefaultEntityEndpoint,
		Scope:           DefaultScope,
		Timeout:         DefaultTimeout,
		ResultCap:       DefaultResultCap,
		FallbackOnEmpty: true,
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.ClientID == "" || c.ClientSecret == "" {
		return ErrCredentialsRequired
	}
	return nil
}

// normalize fills zero-valued fields with defaults.
func (c *Config) normalize() {
	def := DefaultConfig()
	if c.TokenEndpoint == "" {
		c.TokenEndpoint = def.TokenEndpoint
	}
	if c.SearchEndpoint == "" {
		c.SearchEndpoint = def.SearchEndpoint
	}
	if c.EntityEndpoint == "" {
		c.EntityEndpoint = def.EntityEndpoint
	}
	if c.Scope == "" {
		c.Scope = def.Scope
	}
	if c.Timeout == 0 {
		c.Timeout = def.Timeout
	}
	if c.ResultCap == 0 {
		c.ResultCap = def.ResultCap
	}
}
