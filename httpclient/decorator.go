package httpclient

import (
	"context"
	"net"
	"net/http"
	"net/http/httptrace"
	"net/url"
	"strings"

	"github.com/kbukum/apiclient/errors"
)

// Query parameters written by the Decorator.
const (
	QueryAPIKey      = "api_key"
	QueryAPIInstance = "api_instance"
)

// Decorator injects the API credentials into every outgoing request and
// turns off send coalescing on the connection that carries it. New installs
// exactly one Decorator per client, ahead of all plugins.
type Decorator struct {
	creds Credentials
}

// NewDecorator creates a Decorator reading from creds.
func NewDecorator(creds Credentials) *Decorator {
	return &Decorator{creds: creds}
}

// Decorate overwrites the api_key and api_instance query parameters of req
// with the current credentials. The URL is updated in place; the returned
// request carries the connection hook in its context. Applying Decorate
// again with unchanged credentials yields the same request.
//
// If either credential is unresolved the request is left untouched and a
// MissingCredentialsError is returned.
func (d *Decorator) Decorate(req *http.Request) (*http.Request, error) {
	key, instance, err := d.resolve()
	if err != nil {
		return nil, err
	}

	req.URL.RawQuery = credentialQuery(req.URL.Query(), key, instance)

	ctx := req.Context()
	if noDelayed := withNoDelay(ctx); noDelayed != ctx {
		req = req.WithContext(noDelayed)
	}
	return req, nil
}

// credentialQuery encodes q without any previous credentials and appends
// api_key then api_instance.
func credentialQuery(q url.Values, key, instance string) string {
	q.Del(QueryAPIKey)
	q.Del(QueryAPIInstance)

	var b strings.Builder
	if rest := q.Encode(); rest != "" {
		b.WriteString(rest)
		b.WriteByte('&')
	}
	b.WriteString(QueryAPIKey + "=" + url.QueryEscape(key))
	b.WriteString("&" + QueryAPIInstance + "=" + url.QueryEscape(instance))
	return b.String()
}

func (d *Decorator) resolve() (key, instance string, err error) {
	if d.creds == nil {
		return "", "", errors.MissingCredentials(QueryAPIKey)
	}
	key, ok := d.creds.APIKey()
	if !ok || key == "" {
		return "", "", errors.MissingCredentials(QueryAPIKey)
	}
	instance, ok = d.creds.APIInstance()
	if !ok || instance == "" {
		return "", "", errors.MissingCredentials(QueryAPIInstance)
	}
	return key, instance, nil
}

type noDelayKey struct{}

// withNoDelay attaches a connection trace that sets TCP_NODELAY on the
// connection obtained for the request. Contexts that already carry it are
// returned unchanged.
func withNoDelay(ctx context.Context) context.Context {
	if ctx.Value(noDelayKey{}) != nil {
		return ctx
	}
	ctx = context.WithValue(ctx, noDelayKey{}, true)
	return httptrace.WithClientTrace(ctx, &httptrace.ClientTrace{
		GotConn: func(info httptrace.GotConnInfo) {
			disableSendDelay(info.Conn)
		},
	})
}

// disableSendDelay disables Nagle's algorithm on conn, looking through TLS
// wrappers. It reports whether the option was applied.
func disableSendDelay(conn net.Conn) bool {
	if wrapped, ok := conn.(interface{ NetConn() net.Conn }); ok {
		conn = wrapped.NetConn()
	}
	tcp, ok := conn.(*net.TCPConn)
	if !ok {
		return false
	}
	return tcp.SetNoDelay(true) == nil
}
