// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509chain

import (
	"bytes"
	"crypto/x509"
	"errors"
)

// ErrEmptyChain is returned when a Chain is built from zero certificates.
var ErrEmptyChain = errors.New("x509chain: empty certificate chain")

// Chain is the ordered, leaf-first list of [X.509] certificates a server
// presented during one handshake.
//
// A Chain never changes after construction; accessors return copies, which
// makes it safe for concurrent reads without locking.
//
// [X.509]: https://grokipedia.com/page/X.509
type Chain struct {
	certs []*x509.Certificate
}

// New creates a Chain from certs in server-presented order.
//
// Parameters:
//   - certs: Certificates, leaf first
//
// Returns:
//   - *Chain: New Chain instance
//   - error: ErrEmptyChain if certs is empty or contains a nil entry
func New(certs []*x509.Certificate) (*Chain, error) {
	if len(certs) == 0 {
		return nil, ErrEmptyChain
	}
	for _, c := range certs {
		if c == nil {
			return nil, ErrEmptyChain
		}
	}
	return &Chain{certs: append([]*x509.Certificate(nil), certs...)}, nil
}

// Len returns the number of certificates.
func (ch *Chain) Len() int { return len(ch.certs) }

// At returns the certificate at the 0-based position i.
func (ch *Chain) At(i int) *x509.Certificate { return ch.certs[i] }

// Leaf returns the end-entity certificate.
func (ch *Chain) Leaf() *x509.Certificate { return ch.certs[0] }

// Certificates returns a copy of the chain.
func (ch *Chain) Certificates() []*x509.Certificate {
	return append([]*x509.Certificate(nil), ch.certs...)
}

// Equal reports whether both chains hold the same certificates in the same order.
func (ch *Chain) Equal(other *Chain) bool {
	if other == nil || len(ch.certs) != len(other.certs) {
		return false
	}
	for i := range ch.certs {
		if !ch.certs[i].Equal(other.certs[i]) {
			return false
		}
	}
	return true
}

// IsSelfSigned checks if a certificate is self-signed.
//
// Subject and issuer must match and the signature must verify with the
// certificate's own key. CA constraints are not required, so self-signed
// leaves count too.
func IsSelfSigned(cert *x509.Certificate) bool {
	if !bytes.Equal(cert.RawSubject, cert.RawIssuer) {
		return false
	}
	return cert.CheckSignature(cert.SignatureAlgorithm, cert.RawTBSCertificate, cert.Signature) == nil
}

// Role describes the position of the certificate at 0-based index within
// the chain hierarchy.
//
// Parameters:
//   - index: Zero-based position of the certificate in the chain
//
// Returns:
//   - string: Role description
func (ch *Chain) Role(index int) string {
	total := len(ch.certs)
	switch {
	case total == 1 && IsSelfSigned(ch.certs[0]):
		return "Self-Signed Certificate"
	case index == 0:
		return "End-Entity (Server/Leaf) Certificate"
	case index == total-1 && IsSelfSigned(ch.certs[index]):
		return "Root CA Certificate"
	default:
		return "Intermediate CA Certificate"
	}
}
