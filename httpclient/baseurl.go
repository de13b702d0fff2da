package httpclient

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/kbukum/apiclient/errors"
)

// VersionPlaceholder marks where the API version goes in a base URL.
const VersionPlaceholder = "{version}"

// ExpandBaseURL substitutes version into the base URL template. Without an
// explicit placeholder the version becomes the last path segment:
//
//	ExpandBaseURL("/", "v1")                      // /v1
//	ExpandBaseURL("https://h/api", "v2")          // https://h/api/v2
//	ExpandBaseURL("https://h/{version}/rest", "v3") // https://h/v3/rest
func ExpandBaseURL(baseURL, version string) (*url.URL, error) {
	if version == "" {
		return nil, errors.Configuration("api_version", "must not be empty")
	}
	if strings.ContainsAny(version, "/?#% \t\r\n") || strings.Contains(version, VersionPlaceholder) {
		return nil, errors.Configuration("api_version", fmt.Sprintf("%q is not a single URL path segment", version))
	}

	template := baseURL
	if !strings.Contains(template, VersionPlaceholder) {
		template = strings.TrimRight(baseURL, "/") + "/" + VersionPlaceholder
	}
	if n := strings.Count(template, VersionPlaceholder); n != 1 {
		return nil, errors.Configuration("base_url", fmt.Sprintf("contains %d %s placeholders, want at most 1", n, VersionPlaceholder))
	}

	expanded := strings.Replace(template, VersionPlaceholder, version, 1)
	u, err := url.Parse(expanded)
	if err != nil {
		return nil, errors.Configuration("base_url", fmt.Sprintf("%q is not a valid URL", expanded)).WithCause(err)
	}
	if u.IsAbs() {
		if u.Scheme != "http" && u.Scheme != "https" {
			return nil, errors.Configuration("base_url", fmt.Sprintf("unsupported scheme %q", u.Scheme))
		}
		if u.Host == "" {
			return nil, errors.Configuration("base_url", "absolute URL has no host")
		}
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return nil, errors.Configuration("base_url", "must not carry a query string or fragment")
	}
	return u, nil
}

// joinPath resolves a request path against the expanded base. Absolute
// http(s) URLs are used as given.
func joinPath(base *url.URL, path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	prefix := strings.TrimRight(base.String(), "/")
	if path == "" {
		return prefix
	}
	return prefix + "/" + strings.TrimLeft(path, "/")
}
