package httpclient

import (
	"fmt"
	"net/http"

	"github.com/kbukum/apiclient/errors"
	"github.com/kbukum/apiclient/logger"
)

// Plugin is an externally supplied observer attached to a client. A plugin
// must implement RequestObserver, ResponseObserver, or both; the client
// never inspects it beyond that.
type Plugin interface {
	// Name identifies the plugin in logs and errors.
	Name() string
}

// RequestObserver sees every outgoing request after credential decoration
// and before it is handed to the transport. It may mutate req in place or
// return a replacement (for example to carry a new context). Returning an
// error aborts the request.
type RequestObserver interface {
	ObserveRequest(req *http.Request) (*http.Request, error)
}

// ResponseObserver sees the outcome of every request that reached the
// transport, and of requests rejected by a request observer attached after
// it. resp is nil when err is not.
type ResponseObserver interface {
	ObserveResponse(req *http.Request, resp *http.Response, err error)
}

// RequestObserverFunc adapts a function to RequestObserver.
type RequestObserverFunc func(req *http.Request) (*http.Request, error)

// ObserveRequest implements RequestObserver.
func (f RequestObserverFunc) ObserveRequest(req *http.Request) (*http.Request, error) {
	return f(req)
}

// ResponseObserverFunc adapts a function to ResponseObserver.
type ResponseObserverFunc func(req *http.Request, resp *http.Response, err error)

// ObserveResponse implements ResponseObserver.
func (f ResponseObserverFunc) ObserveResponse(req *http.Request, resp *http.Response, err error) {
	f(req, resp, err)
}

// NewPlugin builds a plugin from hook functions. Either may be nil, but not
// both.
func NewPlugin(name string, onRequest RequestObserverFunc, onResponse ResponseObserverFunc) Plugin {
	switch {
	case onRequest != nil && onResponse != nil:
		return &funcPlugin{name: name, RequestObserverFunc: onRequest, ResponseObserverFunc: onResponse}
	case onRequest != nil:
		return &requestPlugin{name: name, RequestObserverFunc: onRequest}
	case onResponse != nil:
		return &responsePlugin{name: name, ResponseObserverFunc: onResponse}
	default:
		return namedPlugin(name)
	}
}

type funcPlugin struct {
	name string
	RequestObserverFunc
	ResponseObserverFunc
}

func (p *funcPlugin) Name() string { return p.name }

type requestPlugin struct {
	name string
	RequestObserverFunc
}

func (p *requestPlugin) Name() string { return p.name }

type responsePlugin struct {
	name string
	ResponseObserverFunc
}

func (p *responsePlugin) Name() string { return p.name }

// namedPlugin has no hooks; attaching it fails.
type namedPlugin string

func (p namedPlugin) Name() string { return string(p) }

// AttachPlugins subscribes plugins to the client's request pipeline in the
// given order, after the decorator and any previously attached plugins.
// Duplicates are attached again. The first plugin that is nil or offers no
// observer capability stops the loop with a PluginAttachmentError carrying
// its index; plugins attached before it stay attached.
//
// AttachPlugins must not run concurrently with requests on the same client.
func AttachPlugins(c *Client, plugins ...Plugin) error {
	for i, p := range plugins {
		if err := c.pipeline.attach(p); err != nil {
			appErr := errors.PluginAttachment(i, pluginName(p), err.Error())
			c.log.Warn("plugin rejected", logger.Fields(logger.FieldPlugin, pluginName(p), "index", i))
			return appErr
		}
		c.log.Debug("plugin attached", logger.Fields(logger.FieldPlugin, pluginName(p), "index", i))
	}
	return nil
}

func pluginName(p Plugin) string {
	if p == nil {
		return "<nil>"
	}
	if name := p.Name(); name != "" {
		return name
	}
	return fmt.Sprintf("%T", p)
}

type requestHook struct {
	name string
	// settled is the number of response observers attached ahead of this
	// hook; they are notified when the hook rejects a request.
	settled int
	RequestObserver
}

// pipeline is the client's RoundTripper: decorator, request observers,
// transport, response observers.
type pipeline struct {
	decorator *Decorator
	next      http.RoundTripper

	plugins   []Plugin
	onRequest []requestHook
	onResp    []ResponseObserver
}

func (p *pipeline) attach(plugin Plugin) error {
	if plugin == nil {
		return fmt.Errorf("plugin is nil")
	}
	reqObs, isReq := plugin.(RequestObserver)
	respObs, isResp := plugin.(ResponseObserver)
	if !isReq && !isResp {
		return fmt.Errorf("%T observes neither requests nor responses", plugin)
	}
	if isReq {
		p.onRequest = append(p.onRequest, requestHook{
			name:            pluginName(plugin),
			settled:         len(p.onResp),
			RequestObserver: reqObs,
		})
	}
	if isResp {
		p.onResp = append(p.onResp, respObs)
	}
	p.plugins = append(p.plugins, plugin)
	return nil
}

// RoundTrip implements http.RoundTripper. The caller's request is cloned
// before any mutation. When a request observer rejects, response observers
// attached ahead of it receive the rejection error.
func (p *pipeline) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())

	out, err := p.decorator.Decorate(out)
	if err != nil {
		closeBody(req)
		return nil, err
	}

	for _, hook := range p.onRequest {
		next, err := hook.ObserveRequest(out)
		if err != nil {
			closeBody(req)
			if !errors.IsAppError(err) {
				err = errors.RequestRejected(hook.name, err)
			}
			for _, obs := range p.onResp[:hook.settled] {
				obs.ObserveResponse(out, nil, err)
			}
			return nil, err
		}
		if next != nil {
			out = next
		}
	}

	resp, err := p.next.RoundTrip(out)
	for _, obs := range p.onResp {
		obs.ObserveResponse(out, resp, err)
	}
	return resp, err
}

func closeBody(req *http.Request) {
	if req.Body != nil {
		_ = req.Body.Close()
	}
}
