// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package handshake

import (
	"bufio"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/proxy"
)

// ErrProxyConnect is returned when an HTTP proxy refuses the CONNECT tunnel.
var ErrProxyConnect = errors.New("handshake: proxy CONNECT failed")

func init() {
	proxy.RegisterDialerType("http", newConnectDialer)
}

// connectDialer tunnels TCP connections through an HTTP proxy using CONNECT.
type connectDialer struct {
	proxyAddr string
	auth      string
	forward   proxy.Dialer
}

func newConnectDialer(u *url.URL, forward proxy.Dialer) (proxy.Dialer, error) {
	addr := u.Host
	if u.Port() == "" {
		addr = net.JoinHostPort(u.Hostname(), "80")
	}

	d := &connectDialer{proxyAddr: addr, forward: forward}
	if u.User != nil {
		pass, _ := u.User.Password()
		cred := u.User.Username() + ":" + pass
		d.auth = "Basic " + base64.StdEncoding.EncodeToString([]byte(cred))
	}
	return d, nil
}

// Dial implements [proxy.Dialer].
func (d *connectDialer) Dial(network, addr string) (net.Conn, error) {
	return d.DialContext(context.Background(), network, addr)
}

// DialContext implements [proxy.ContextDialer].
func (d *connectDialer) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	conn, err := dialForward(ctx, d.forward, network, d.proxyAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to proxy %s: %w", d.proxyAddr, err)
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	req := &http.Request{
		Method: http.MethodConnect,
		URL:    &url.URL{Opaque: addr},
		Host:   addr,
		Header: make(http.Header),
	}
	if d.auth != "" {
		req.Header.Set("Proxy-Authorization", d.auth)
	}

	if err := req.Write(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: writing request: %v", ErrProxyConnect, err)
	}

	br := bufio.NewReader(conn)
	resp, err := http.ReadResponse(br, req)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: reading response: %v", ErrProxyConnect, err)
	}
	resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		conn.Close()
		return nil, fmt.Errorf("%w: %s", ErrProxyConnect, resp.Status)
	}

	_ = conn.SetDeadline(time.Time{})

	if br.Buffered() > 0 {
		return &bufferedConn{Conn: conn, r: br}, nil
	}
	return conn, nil
}

func dialForward(ctx context.Context, forward proxy.Dialer, network, addr string) (net.Conn, error) {
	if cd, ok := forward.(proxy.ContextDialer); ok {
		return cd.DialContext(ctx, network, addr)
	}
	return forward.Dial(network, addr)
}

// bufferedConn serves bytes the proxy sent right after its reply before
// reading from the connection again.
type bufferedConn struct {
	net.Conn
	r *bufio.Reader
}

func (c *bufferedConn) Read(p []byte) (int, error) { return c.r.Read(p) }

// dialerFor returns the dialer reaching target, honoring its proxy.
func dialerFor(target Target, timeout time.Duration) (proxy.ContextDialer, error) {
	direct := &net.Dialer{Timeout: timeout}
	if target.Proxy == nil {
		return direct, nil
	}

	d, err := proxy.FromURL(target.Proxy, direct)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProxy, err)
	}
	if cd, ok := d.(proxy.ContextDialer); ok {
		return cd, nil
	}
	return contextless{d}, nil
}

type contextless struct{ proxy.Dialer }

func (c contextless) DialContext(_ context.Context, network, addr string) (net.Conn, error) {
	return c.Dial(network, addr)
}
