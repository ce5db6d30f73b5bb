// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package verifier

import (
	"crypto/x509"
	"errors"
	"sync"
	"time"
)

var (
	// ErrClientVerifyUnsupported is returned for client certificate checks;
	// the installer only ever acts as a TLS client.
	ErrClientVerifyUnsupported = errors.New("verifier: client certificate verification is not supported")

	// ErrEmptyChain indicates that the server presented no certificates.
	ErrEmptyChain = errors.New("verifier: empty certificate chain")
)

// Verifier decides whether a presented certificate chain is trusted.
type Verifier interface {
	// VerifyServer checks a server chain, leaf first. authType names the
	// negotiated key exchange (the cipher suite name in this package).
	VerifyServer(chain []*x509.Certificate, authType string) error
	// VerifyClient checks a client chain for mutual TLS.
	VerifyClient(chain []*x509.Certificate, authType string) error
	// AcceptedIssuers lists the trust anchors this verifier accepts.
	AcceptedIssuers() []*x509.Certificate
}

// PoolVerifier verifies server chains against a fixed set of trust anchors.
type PoolVerifier struct {
	anchors []*x509.Certificate
	roots   *x509.CertPool
	dnsName string

	// Now overrides the verification time; nil means time.Now.
	Now func() time.Time
}

// NewPoolVerifier creates a verifier trusting anchors and requiring the leaf
// to be valid for dnsName (skipped when dnsName is empty).
func NewPoolVerifier(anchors []*x509.Certificate, dnsName string) *PoolVerifier {
	roots := x509.NewCertPool()
	for _, c := range anchors {
		roots.AddCert(c)
	}
	return &PoolVerifier{
		anchors: append([]*x509.Certificate(nil), anchors...),
		roots:   roots,
		dnsName: dnsName,
	}
}

// VerifyServer builds a path from chain[0] to one of the anchors, using the
// rest of chain as intermediates. The x509 error is returned as is so the
// operator sees the real reason (unknown authority, expiry, host mismatch).
func (p *PoolVerifier) VerifyServer(chain []*x509.Certificate, authType string) error {
	if len(chain) == 0 {
		return ErrEmptyChain
	}

	intermediates := x509.NewCertPool()
	for _, c := range chain[1:] {
		intermediates.AddCert(c)
	}

	opts := x509.VerifyOptions{
		Roots:         p.roots,
		Intermediates: intermediates,
		DNSName:       p.dnsName,
		KeyUsages:     []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}
	if p.Now != nil {
		opts.CurrentTime = p.Now()
	}

	_, err := chain[0].Verify(opts)
	return err
}

// VerifyClient always fails with ErrClientVerifyUnsupported.
func (p *PoolVerifier) VerifyClient(chain []*x509.Certificate, authType string) error {
	return ErrClientVerifyUnsupported
}

// AcceptedIssuers returns a copy of the trust anchors.
func (p *PoolVerifier) AcceptedIssuers() []*x509.Certificate {
	return append([]*x509.Certificate(nil), p.anchors...)
}

// Capturing records every server chain it sees and delegates the decision.
//
// Construct one per handshake; the recorded chain lives on the instance, so
// separate instances never observe each other's chains.
type Capturing struct {
	delegate Verifier

	mu       sync.Mutex
	captured []*x509.Certificate
	authType string
}

// NewCapturing wraps delegate.
func NewCapturing(delegate Verifier) *Capturing {
	return &Capturing{delegate: delegate}
}

// VerifyServer stores chain, replacing any earlier capture, then returns
// the delegate's verdict unchanged. A rejection is never swallowed.
func (c *Capturing) VerifyServer(chain []*x509.Certificate, authType string) error {
	c.mu.Lock()
	c.captured = append([]*x509.Certificate(nil), chain...)
	c.authType = authType
	c.mu.Unlock()

	return c.delegate.VerifyServer(chain, authType)
}

// VerifyClient always fails with ErrClientVerifyUnsupported.
func (c *Capturing) VerifyClient(chain []*x509.Certificate, authType string) error {
	return ErrClientVerifyUnsupported
}

// AcceptedIssuers returns an empty set: Capturing is a recorder, not an anchor.
func (c *Capturing) AcceptedIssuers() []*x509.Certificate {
	return []*x509.Certificate{}
}

// Captured returns a copy of the last recorded chain, or nil when
// VerifyServer was never reached.
func (c *Capturing) Captured() []*x509.Certificate {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.captured == nil {
		return nil
	}
	return append([]*x509.Certificate(nil), c.captured...)
}

// AuthType returns the authType passed with the last recorded chain.
func (c *Capturing) AuthType() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authType
}
