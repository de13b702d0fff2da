package config

// DefaultCredentialsScope is the settings section holding API credentials.
const DefaultCredentialsScope = "wws"

const (
	keyAPIKey      = "api_key"
	keyAPIInstance = "api_instance"
)

// ScopedCredentials resolves the API key and instance from a settings scope
// at call time. It satisfies httpclient.Credentials.
type ScopedCredentials struct {
	src   *Source
	scope string
}

// Credentials returns the credentials stored under scope, e.g. "wws" reads
// wws.api_key / wws.api_instance (env: WWS_API_KEY / WWS_API_INSTANCE).
func (s *Source) Credentials(scope string) *ScopedCredentials {
	if scope == "" {
		scope = DefaultCredentialsScope
	}
	return &ScopedCredentials{src: s, scope: scope}
}

// Scope returns the settings section the credentials are read from.
func (c *ScopedCredentials) Scope() string { return c.scope }

// APIKey returns the current API key.
func (c *ScopedCredentials) APIKey() (string, bool) {
	return c.src.Lookup(c.scope + "." + keyAPIKey)
}

// APIInstance returns the current API instance identifier.
func (c *ScopedCredentials) APIInstance() (string, bool) {
	return c.src.Lookup(c.scope + "." + keyAPIInstance)
}
