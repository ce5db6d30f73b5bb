// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package certgen builds throwaway certificate chains for tests: a root, any
// number of intermediates, and a leaf valid for the given names.
package certgen

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"fmt"
	"math/big"
	"net"
	"time"
)

// Bundle is a generated chain, leaf first.
type Bundle struct {
	Certs   []*x509.Certificate
	LeafKey *ecdsa.PrivateKey
}

// Root returns the self-signed anchor of the chain.
func (b *Bundle) Root() *x509.Certificate { return b.Certs[len(b.Certs)-1] }

// Leaf returns the end-entity certificate.
func (b *Bundle) Leaf() *x509.Certificate { return b.Certs[0] }

// TLSCertificate returns a server certificate presenting the whole chain,
// root included, so capture tests see every generated certificate.
func (b *Bundle) TLSCertificate() tls.Certificate {
	out := tls.Certificate{PrivateKey: b.LeafKey, Leaf: b.Certs[0]}
	for _, c := range b.Certs {
		out.Certificate = append(out.Certificate, c.Raw)
	}
	return out
}

// Chain generates a chain of depth certificates (depth >= 1). With depth 1
// the result is a single self-signed leaf.
func Chain(depth int, names ...string) (*Bundle, error) {
	if depth < 1 {
		return nil, fmt.Errorf("certgen: depth must be at least 1, got %d", depth)
	}

	now := time.Now()
	var (
		parent    *x509.Certificate
		parentKey *ecdsa.PrivateKey
		certs     []*x509.Certificate
	)

	// Issue from the root downwards, then reverse to leaf-first order.
	for level := depth - 1; level >= 0; level-- {
		key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("certgen: generate key: %w", err)
		}
		serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
		if err != nil {
			return nil, fmt.Errorf("certgen: serial: %w", err)
		}

		tmpl := &x509.Certificate{
			SerialNumber: serial,
			NotBefore:    now.Add(-time.Hour),
			NotAfter:     now.Add(24 * time.Hour),
		}

		switch {
		case level == 0:
			tmpl.Subject = pkix.Name{CommonName: leafName(names), Organization: []string{"installcert test"}}
			tmpl.KeyUsage = x509.KeyUsageDigitalSignature
			tmpl.ExtKeyUsage = []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth}
			for _, n := range names {
				if ip := net.ParseIP(n); ip != nil {
					tmpl.IPAddresses = append(tmpl.IPAddresses, ip)
				} else {
					tmpl.DNSNames = append(tmpl.DNSNames, n)
				}
			}
		case level == depth-1:
			tmpl.Subject = pkix.Name{CommonName: "installcert test root", Organization: []string{"installcert test"}}
		default:
			tmpl.Subject = pkix.Name{CommonName: fmt.Sprintf("installcert test intermediate %d", level), Organization: []string{"installcert test"}}
		}
		if level > 0 {
			tmpl.IsCA = true
			tmpl.BasicConstraintsValid = true
			tmpl.KeyUsage = x509.KeyUsageCertSign | x509.KeyUsageDigitalSignature
		}

		issuer, issuerKey := parent, parentKey
		if issuer == nil {
			issuer, issuerKey = tmpl, key
		}

		der, err := x509.CreateCertificate(rand.Reader, tmpl, issuer, &key.PublicKey, issuerKey)
		if err != nil {
			return nil, fmt.Errorf("certgen: create certificate: %w", err)
		}
		cert, err := x509.ParseCertificate(der)
		if err != nil {
			return nil, fmt.Errorf("certgen: parse certificate: %w", err)
		}

		certs = append([]*x509.Certificate{cert}, certs...)
		parent, parentKey = cert, key
	}

	return &Bundle{Certs: certs, LeafKey: parentKey}, nil
}

func leafName(names []string) string {
	if len(names) > 0 {
		return names[0]
	}
	return "localhost"
}
