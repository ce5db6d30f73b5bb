// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package verifier_test

import (
	"crypto/x509"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/H0llyW00dzZ/installcert/src/internal/x509/certgen"
	"github.com/H0llyW00dzZ/installcert/src/internal/x509/verifier"
)

// stubVerifier returns a fixed verdict and counts calls.
type stubVerifier struct {
	err   error
	calls int
	seen  []*x509.Certificate
	auth  string
}

func (s *stubVerifier) VerifyServer(chain []*x509.Certificate, authType string) error {
	s.calls++
	s.seen = chain
	s.auth = authType
	return s.err
}

func (s *stubVerifier) VerifyClient([]*x509.Certificate, string) error { return nil }

func (s *stubVerifier) AcceptedIssuers() []*x509.Certificate { return nil }

func TestPoolVerifier(t *testing.T) {
	bundle, err := certgen.Chain(3, "example.com")
	require.NoError(t, err)
	other, err := certgen.Chain(2, "example.com")
	require.NoError(t, err)

	tests := []struct {
		name    string
		anchors []*x509.Certificate
		chain   []*x509.Certificate
		dnsName string
		now     func() time.Time
		check   func(t *testing.T, err error)
	}{
		{
			name:    "Trusted chain",
			anchors: []*x509.Certificate{bundle.Root()},
			chain:   bundle.Certs,
			dnsName: "example.com",
			check: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name:    "Unknown authority",
			anchors: []*x509.Certificate{other.Root()},
			chain:   bundle.Certs,
			dnsName: "example.com",
			check: func(t *testing.T, err error) {
				var uae x509.UnknownAuthorityError
				assert.True(t, errors.As(err, &uae), "expected UnknownAuthorityError, got %v", err)
			},
		},
		{
			name:    "Host mismatch",
			anchors: []*x509.Certificate{bundle.Root()},
			chain:   bundle.Certs,
			dnsName: "other.example.org",
			check: func(t *testing.T, err error) {
				var he x509.HostnameError
				assert.True(t, errors.As(err, &he), "expected HostnameError, got %v", err)
			},
		},
		{
			name:    "Expired",
			anchors: []*x509.Certificate{bundle.Root()},
			chain:   bundle.Certs,
			dnsName: "example.com",
			now:     func() time.Time { return time.Now().Add(30 * 24 * time.Hour) },
			check: func(t *testing.T, err error) {
				var ie x509.CertificateInvalidError
				require.True(t, errors.As(err, &ie), "expected CertificateInvalidError, got %v", err)
				assert.Equal(t, x509.Expired, ie.Reason)
			},
		},
		{
			name:    "Empty chain",
			anchors: []*x509.Certificate{bundle.Root()},
			chain:   nil,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, verifier.ErrEmptyChain)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := verifier.NewPoolVerifier(tt.anchors, tt.dnsName)
			v.Now = tt.now
			tt.check(t, v.VerifyServer(tt.chain, "TLS_AES_128_GCM_SHA256"))
		})
	}
}

func TestPoolVerifier_ClientAndIssuers(t *testing.T) {
	bundle, err := certgen.Chain(2, "example.com")
	require.NoError(t, err)

	v := verifier.NewPoolVerifier([]*x509.Certificate{bundle.Root()}, "example.com")
	assert.ErrorIs(t, v.VerifyClient(bundle.Certs, "RSA"), verifier.ErrClientVerifyUnsupported)
	assert.Equal(t, []*x509.Certificate{bundle.Root()}, v.AcceptedIssuers())
}

func TestCapturing_RecordsRegardlessOfVerdict(t *testing.T) {
	bundle, err := certgen.Chain(3, "example.com")
	require.NoError(t, err)

	rejection := x509.UnknownAuthorityError{Cert: bundle.Leaf()}

	tests := []struct {
		name     string
		delegate *stubVerifier
		wantErr  bool
	}{
		{name: "Delegate accepts", delegate: &stubVerifier{}},
		{name: "Delegate rejects", delegate: &stubVerifier{err: rejection}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := verifier.NewCapturing(tt.delegate)
			assert.Nil(t, c.Captured(), "nothing captured before the handshake")

			err := c.VerifyServer(bundle.Certs, "TLS_AES_128_GCM_SHA256")
			if tt.wantErr {
				var uae x509.UnknownAuthorityError
				assert.True(t, errors.As(err, &uae), "rejection must propagate, got %v", err)
				assert.Equal(t, error(rejection), err, "rejection must be returned as is")
				assert.Equal(t, rejection.Error(), err.Error())
			} else {
				assert.NoError(t, err)
			}

			assert.Equal(t, 1, tt.delegate.calls)
			assert.Equal(t, "TLS_AES_128_GCM_SHA256", tt.delegate.auth)
			assert.Equal(t, bundle.Certs, tt.delegate.seen)

			captured := c.Captured()
			require.Len(t, captured, len(bundle.Certs))
			for i := range bundle.Certs {
				assert.True(t, bundle.Certs[i].Equal(captured[i]), "certificate %d out of order", i+1)
			}
			assert.Equal(t, "TLS_AES_128_GCM_SHA256", c.AuthType())
		})
	}
}

func TestCapturing_OverwritesAndCopies(t *testing.T) {
	first, err := certgen.Chain(2, "a.example")
	require.NoError(t, err)
	second, err := certgen.Chain(1, "b.example")
	require.NoError(t, err)

	c := verifier.NewCapturing(&stubVerifier{})
	require.NoError(t, c.VerifyServer(first.Certs, ""))
	require.NoError(t, c.VerifyServer(second.Certs, ""))

	captured := c.Captured()
	require.Len(t, captured, 1)
	assert.True(t, second.Leaf().Equal(captured[0]))

	captured[0] = nil
	assert.NotNil(t, c.Captured()[0], "Captured must hand out a copy")
}

func TestCapturing_ClientAndIssuers(t *testing.T) {
	c := verifier.NewCapturing(&stubVerifier{})
	assert.ErrorIs(t, c.VerifyClient(nil, "RSA"), verifier.ErrClientVerifyUnsupported)

	issuers := c.AcceptedIssuers()
	assert.NotNil(t, issuers)
	assert.Empty(t, issuers)
}

func TestCapturing_IndependentInstances(t *testing.T) {
	const n = 8

	bundles := make([]*certgen.Bundle, n)
	for i := range n {
		b, err := certgen.Chain(1, "host.example")
		require.NoError(t, err)
		bundles[i] = b
	}

	capturers := make([]*verifier.Capturing, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := range n {
		capturers[i] = verifier.NewCapturing(&stubVerifier{})
		go func(i int) {
			defer wg.Done()
			_ = capturers[i].VerifyServer(bundles[i].Certs, "")
		}(i)
	}
	wg.Wait()

	for i := range n {
		got := capturers[i].Captured()
		require.Len(t, got, 1)
		assert.True(t, bundles[i].Leaf().Equal(got[0]), "instance %d saw another instance's chain", i)
	}
}
