package http

import "net/http"

type headerTransport struct {
	headers   map[string]string
	transport http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	reqCopy := req.Clone(req.Context())

	for key, value := range t.headers {
		if reqCopy.Header.Get(key) == "" {
			reqCopy.Header.Set(key, value)
		}
	}

	return t.transport.RoundTrip(reqCopy)
}

// WithDefaultHeaders sets headers on every outbound request unless the request already carries them.
func WithDefaultHeaders(headers map[string]string) HttpOpts {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &headerTransport{
			headers:   headers,
			transport: rt,
		}
	})
}
