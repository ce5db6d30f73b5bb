// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package handshake

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/idna"
)

// DefaultPort is used when the target carries no port.
const DefaultPort = 443

var (
	// ErrInvalidTarget indicates a malformed host[:port] argument.
	ErrInvalidTarget = errors.New("handshake: invalid target")

	// ErrInvalidProxy indicates a malformed proxy specification.
	ErrInvalidProxy = errors.New("handshake: invalid proxy")
)

// Target identifies the server to connect to.
type Target struct {
	// Host is the ASCII host name or IP literal, also used as SNI.
	Host string
	Port int
	// Proxy is optional; nil means a direct connection.
	Proxy *url.URL
}

// Address returns host:port suitable for dialing.
func (t Target) Address() string {
	return net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
}

// String describes the target the way progress messages show it.
func (t Target) String() string {
	if t.Proxy == nil {
		return t.Address()
	}
	return fmt.Sprintf("%s via proxy %s", t.Address(), t.Proxy.Host)
}

// ParseTarget parses "host", "host:port" or "[ipv6]:port". Without a port
// defaultPort is used, or [DefaultPort] when defaultPort is not positive.
// Internationalised names are converted to ASCII.
func ParseTarget(arg string, defaultPort int) (Target, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return Target{}, fmt.Errorf("%w: empty host", ErrInvalidTarget)
	}
	if defaultPort <= 0 {
		defaultPort = DefaultPort
	}

	host, port := arg, defaultPort
	if ip := net.ParseIP(strings.Trim(arg, "[]")); ip != nil {
		// Bare IP literal, IPv6 included.
		host = ip.String()
	} else if strings.Contains(arg, ":") {
		h, p, err := net.SplitHostPort(arg)
		if err != nil {
			return Target{}, fmt.Errorf("%w: %q: %v", ErrInvalidTarget, arg, err)
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 || n > 65535 {
			return Target{}, fmt.Errorf("%w: bad port %q", ErrInvalidTarget, p)
		}
		host, port = h, n
	}

	host, err := normalizeHost(host)
	if err != nil {
		return Target{}, err
	}
	return Target{Host: host, Port: port}, nil
}

func normalizeHost(host string) (string, error) {
	if host == "" {
		return "", fmt.Errorf("%w: empty host", ErrInvalidTarget)
	}
	if ip := net.ParseIP(host); ip != nil {
		return ip.String(), nil
	}
	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidTarget, host, err)
	}
	return ascii, nil
}

// ParseProxy parses a proxy given as host:port or as a URL. A value without
// a scheme is treated as an HTTP CONNECT proxy.
func ParseProxy(s string) (*url.URL, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if !strings.Contains(s, "://") {
		s = "http://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProxy, err)
	}
	switch u.Scheme {
	case "http", "socks5", "socks5h":
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidProxy, u.Scheme)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("%w: missing host in %q", ErrInvalidProxy, s)
	}
	if p := u.Port(); p != "" {
		if n, err := strconv.Atoi(p); err != nil || n < 1 || n > 65535 {
			return nil, fmt.Errorf("%w: bad port %q", ErrInvalidProxy, p)
		}
	}
	return u, nil
}
