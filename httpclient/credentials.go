package httpclient

// Credentials supplies the per-deployment API key and instance. Both are
// read each time a request is decorated, so implementations may rotate
// them. A false second result means the value is not configured.
type Credentials interface {
	APIKey() (string, bool)
	APIInstance() (string, bool)
}

// StaticCredentials is a fixed key/instance pair.
type StaticCredentials struct {
	Key      string
	Instance string
}

// APIKey implements Credentials.
func (s StaticCredentials) APIKey() (string, bool) { return s.Key, s.Key != "" }

// APIInstance implements Credentials.
func (s StaticCredentials) APIInstance() (string, bool) { return s.Instance, s.Instance != "" }
