package netcheck

import (
	"context"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/http/httpproxy"

	"github.com/shinji-kodama/mk-command/internal/proc"
)

// EnvProxySource reads the HTTPS proxy from the environment and, when
// enabled, falls back to `npm config get https-proxy`.
type EnvProxySource struct {
	// Runner runs npm for the fallback. Nil disables the fallback.
	Runner proc.Runner

	// NPM is the npm executable name. Defaults to "npm".
	NPM string

	// Environment returns the proxy configuration. Defaults to
	// httpproxy.FromEnvironment; tests replace it.
	Environment func() *httpproxy.Config
}

// HTTPSProxy returns the configured HTTPS proxy URL, or "".
func (s *EnvProxySource) HTTPSProxy(ctx context.Context) string {
	env := s.Environment
	if env == nil {
		env = httpproxy.FromEnvironment
	}
	if p := strings.TrimSpace(env().HTTPSProxy); p != "" {
		return p
	}

	if s.Runner == nil {
		return ""
	}
	npm := s.NPM
	if npm == "" {
		npm = "npm"
	}
	out, err := s.Runner.Output(ctx, proc.Command{
		Name:   npm,
		Args:   []string{"config", "get", "https-proxy"},
		Stderr: io.Discard,
	})
	if err != nil {
		return ""
	}
	return normalizeNPMValue(out)
}

// normalizeNPMValue maps npm's placeholders for an unset key to "".
func normalizeNPMValue(out string) string {
	v := strings.TrimSpace(out)
	switch v {
	case "", "null", "undefined":
		return ""
	}
	return v
}

// ProxyHost extracts the host name from a proxy setting. Bare
// "host:port" values without a scheme are accepted.
func ProxyHost(proxy string) string {
	proxy = strings.TrimSpace(proxy)
	if proxy == "" {
		return ""
	}
	if !strings.Contains(proxy, "://") {
		proxy = "http://" + proxy
	}
	u, err := url.Parse(proxy)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
