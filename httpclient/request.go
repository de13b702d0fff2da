package httpclient

// Request describes an outbound HTTP request.
type Request struct {
	// Method is the HTTP method (GET, POST, PUT, PATCH, DELETE, etc).
	Method string
	// Path is joined onto the client's versioned base URL. A full http(s)
	// URL is used as given.
	Path string
	// Headers are request-specific headers (merged over client defaults).
	Headers map[string]string
	// Query are request-specific query parameters (merged over client
	// defaults). api_key and api_instance are always overwritten.
	Query map[string]string
	// Body is the request body. Accepts io.Reader, []byte, string, or any value
	// that will be JSON-encoded.
	Body any
	// Auth overrides the client-level auth for this request.
	Auth *AuthConfig
}
