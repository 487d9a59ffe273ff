// Package netcheck decides whether the package registry is reachable.
//
// The check is a plain DNS resolution of a well-known registry host. When
// that fails and an HTTPS proxy is configured (HTTPS_PROXY / https_proxy in
// the environment, or npm's https-proxy setting), the proxy's host name is
// resolved instead: behind a proxy the registry name may not resolve
// locally while the network is still usable.
//
// No connection is opened; a successful lookup is taken to mean online.
package netcheck
