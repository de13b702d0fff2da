// Package plugins provides ready-made request and response observers for
// httpclient. Attach them through httpclient.Config.Plugins or
// httpclient.AttachPlugins; they run after the credential decorator in the
// order given.
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL: "https://api.example.com",
//	    Plugins: []httpclient.Plugin{
//	        plugins.RequestID(),
//	        plugins.Tracing(nil, nil),
//	        plugins.Logging(logger.Get("api")),
//	    },
//	}, creds)
//
// Plugins that keep per-request state store it in the context of the
// request they return, so response observers find it again.
package plugins
