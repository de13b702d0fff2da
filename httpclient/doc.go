// Package httpclient builds HTTP clients for a versioned web API.
//
// New expands the configured base URL with the API version, installs the
// client-level default headers and query parameters, and wires a request
// pipeline around the transport. Every outgoing request passes through:
//
//  1. the Decorator, which overwrites the api_key and api_instance query
//     parameters from the client's Credentials and disables Nagle's
//     algorithm on the connection carrying the request;
//  2. each attached plugin's RequestObserver, in attachment order;
//  3. the transport;
//  4. each attached plugin's ResponseObserver, in attachment order.
//
// A RequestObserver error aborts the request; ResponseObservers attached
// ahead of the rejecting plugin still receive the error.
//
// Transport concerns (pooling, retries, TLS) are left to net/http.
//
// # Basic Usage
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL:    "https://api.example.com/",
//	    APIVersion: "v1",
//	    Headers:    map[string]string{"X-Env": "prod"},
//	}, httpclient.StaticCredentials{Key: "abc", Instance: "inst1"})
//
//	resp, err := client.Do(ctx, httpclient.Request{
//	    Method: http.MethodGet,
//	    Path:   "/items",
//	})
//	// GET https://api.example.com/v1/items?api_key=abc&api_instance=inst1
//
// # Plugins
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL: "https://api.example.com/",
//	    Plugins: []httpclient.Plugin{plugins.RequestID(), plugins.Logging(log)},
//	}, creds)
package httpclient
