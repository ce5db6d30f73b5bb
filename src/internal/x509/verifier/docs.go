// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package verifier implements server-trust verification for the capture
// handshake.
//
// [PoolVerifier] makes the real trust decision against a set of trust
// anchors. [Capturing] wraps any [Verifier], records the chain it is asked
// about before delegating, and hands the delegate's verdict back unchanged,
// so the chain stays inspectable whether or not it was trusted.
package verifier
