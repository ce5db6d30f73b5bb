// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package handshake performs a single certificate-capturing TLS client
// handshake against a target host, directly or through a proxy.
//
// The server-trust step is routed through a [verifier.Capturing] wrapper,
// so the chain the server presented is recorded whether or not it is
// trusted. A [Session] makes exactly one attempt and always closes its
// connection; the [Result] reports what was captured and how it ended:
//
//	res := handshake.Session{
//		Target:   handshake.Target{Host: "example.com", Port: 443},
//		Timeout:  10 * time.Second,
//		Verifier: verifier.NewPoolVerifier(anchors, "example.com"),
//	}.Run(ctx)
//
//	if res.Outcome.HasChain() {
//		// present res.Chain
//	}
//
// Proxies are resolved with [golang.org/x/net/proxy]. This package registers
// the "http" scheme, which tunnels with HTTP CONNECT; "socks5" is handled by
// x/net itself.
package handshake
