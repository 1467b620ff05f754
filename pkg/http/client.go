package http

import (
	"net"
	"net/http"
	"time"
)

type TransportFunc func(http.RoundTripper) http.RoundTripper

type httpConfig struct {
	connClientTimeout     time.Duration
	requestTimeout        time.Duration
	clientKeepAlive       time.Duration
	tlsHandshakeTimeout   time.Duration
	responseHeaderTimeout time.Duration
	idleConnTimeout       time.Duration
	maxIdleConnsPerHost   int
	transports            []TransportFunc
	baseTransport         http.RoundTripper
}

func defaultHTTPConfig() *httpConfig {
	return &httpConfig{
		connClientTimeout:     10 * time.Second,
		requestTimeout:        30 * time.Second,
		clientKeepAlive:       90 * time.Second,
		tlsHandshakeTimeout:   10 * time.Second,
		responseHeaderTimeout: 10 * time.Second,
		idleConnTimeout:       90 * time.Second,
		maxIdleConnsPerHost:   10,
		transports:            []TransportFunc{},
	}
}

func newClient(opts ...HttpOpts) *http.Client {
	cfg := defaultHTTPConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return newInternal(cfg)
}

func newInternal(cfg *httpConfig) *http.Client {
	var transport http.RoundTripper = cfg.baseTransport
	if transport == nil {
		dialer := net.Dialer{
			Timeout:   cfg.connClientTimeout,
			KeepAlive: cfg.clientKeepAlive,
		}

		transport = &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           dialer.DialContext,
			MaxIdleConnsPerHost:   cfg.maxIdleConnsPerHost,
			TLSHandshakeTimeout:   cfg.tlsHandshakeTimeout,
			ResponseHeaderTimeout: cfg.responseHeaderTimeout,
			IdleConnTimeout:       cfg.idleConnTimeout,
		}
	}

	// Wrap in registration order: the first option is the innermost round tripper
	for _, transportFunc := range cfg.transports {
		transport = transportFunc(transport)
	}

	return &http.Client{
		Timeout:   cfg.requestTimeout,
		Transport: transport,
	}
}
