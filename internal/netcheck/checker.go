package netcheck

import (
	"context"
	"net"
	"time"
)

// Resolver resolves host names. *net.Resolver satisfies it.
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// ProxySource returns the configured HTTPS proxy URL, or "" if none.
type ProxySource interface {
	HTTPSProxy(ctx context.Context) string
}

// Checker runs the reachability check.
type Checker struct {
	resolver Resolver
	proxies  ProxySource
	host     string
	timeout  time.Duration
}

// Option customizes a Checker.
type Option func(*Checker)

// WithResolver replaces the system resolver.
func WithResolver(r Resolver) Option {
	return func(c *Checker) { c.resolver = r }
}

// WithProxySource sets where the fallback proxy comes from. Without it
// the check never falls back to a proxy.
func WithProxySource(p ProxySource) Option {
	return func(c *Checker) { c.proxies = p }
}

// WithTimeout bounds each individual lookup. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Checker) { c.timeout = d }
}

// NewChecker creates a Checker that resolves host.
func NewChecker(host string, opts ...Option) *Checker {
	c := &Checker{
		resolver: net.DefaultResolver,
		host:     host,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Result describes the outcome of a check, for logging.
type Result struct {
	// Online is the verdict.
	Online bool

	// Host is the host name whose lookup decided the verdict: the
	// registry host, or the proxy host after a fallback.
	Host string

	// ViaProxy is true when the verdict came from the proxy lookup.
	ViaProxy bool

	// Err is the lookup error behind an offline verdict.
	Err error
}

// IsOnline reports whether the registry is reachable.
func (c *Checker) IsOnline(ctx context.Context) bool {
	return c.Check(ctx).Online
}

// Check resolves the registry host and, if that fails, the proxy host.
func (c *Checker) Check(ctx context.Context) Result {
	err := c.lookup(ctx, c.host)
	if err == nil {
		return Result{Online: true, Host: c.host}
	}

	if c.proxies == nil {
		return Result{Host: c.host, Err: err}
	}
	proxy := c.proxies.HTTPSProxy(ctx)
	if proxy == "" {
		return Result{Host: c.host, Err: err}
	}
	proxyHost := ProxyHost(proxy)
	if proxyHost == "" {
		return Result{Host: c.host, Err: err}
	}

	if proxyErr := c.lookup(ctx, proxyHost); proxyErr != nil {
		return Result{Host: proxyHost, ViaProxy: true, Err: proxyErr}
	}
	return Result{Online: true, Host: proxyHost, ViaProxy: true}
}

func (c *Checker) lookup(ctx context.Context, host string) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	_, err := c.resolver.LookupHost(ctx, host)
	return err
}
