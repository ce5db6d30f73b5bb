// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package fingerprint_test

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/H0llyW00dzZ/installcert/src/internal/x509/certgen"
	"github.com/H0llyW00dzZ/installcert/src/internal/x509/fingerprint"
)

func TestDigest_KnownVectors(t *testing.T) {
	tests := []struct {
		name     string
		alg      fingerprint.Algorithm
		input    string
		expected string
	}{
		{
			name:     "SHA1 abc",
			alg:      fingerprint.SHA1,
			input:    "abc",
			expected: "a9 99 3e 36 47 06 81 6a ba 3e 25 71 78 50 c2 6c 9c d0 d8 9d",
		},
		{
			name:     "MD5 abc",
			alg:      fingerprint.MD5,
			input:    "abc",
			expected: "90 01 50 98 3c d2 4f b0 d6 96 3f 7d 28 e1 7f 72",
		},
		{
			name:     "SHA256 abc",
			alg:      fingerprint.SHA256,
			input:    "abc",
			expected: "ba 78 16 bf 8f 01 cf ea 41 41 40 de 5d ae 22 23 b0 03 61 a3 96 17 7a 9c b4 10 ff 61 f2 00 15 ad",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sum := fingerprint.Digest([]byte(tt.input), tt.alg)
			assert.Len(t, sum, tt.alg.Size())
			assert.Equal(t, tt.expected, fingerprint.Format(sum))
		})
	}
}

func TestDigest_UnknownAlgorithm(t *testing.T) {
	alg := fingerprint.Algorithm(42)
	assert.Nil(t, fingerprint.Digest([]byte("abc"), alg))
	assert.Equal(t, "unknown", alg.String())
	assert.Equal(t, 0, alg.Size())
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{name: "Empty", input: nil, expected: ""},
		{name: "Single byte", input: []byte{0x0a}, expected: "0a"},
		{name: "Leading zero nibbles", input: []byte{0x00, 0x01, 0xf0}, expected: "00 01 f0"},
		{name: "Lowercase", input: []byte{0xa1, 0xb2, 0xc3}, expected: "a1 b2 c3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := fingerprint.Format(tt.input)
			assert.Equal(t, tt.expected, out)
			assert.False(t, strings.HasSuffix(out, " "), "no trailing separator")
		})
	}
}

// A shared accumulator that is not reset between certificates would make the
// second fingerprint depend on the first.
func TestDigest_NoStateAcrossCertificates(t *testing.T) {
	bundle, err := certgen.Chain(3, "example.com")
	require.NoError(t, err)

	for _, alg := range []fingerprint.Algorithm{fingerprint.SHA1, fingerprint.MD5, fingerprint.SHA256} {
		t.Run(alg.String(), func(t *testing.T) {
			forward := make([]string, len(bundle.Certs))
			for i, c := range bundle.Certs {
				forward[i] = fingerprint.Of(c, alg)
			}

			backward := make([]string, len(bundle.Certs))
			for i := len(bundle.Certs) - 1; i >= 0; i-- {
				backward[i] = fingerprint.Of(bundle.Certs[i], alg)
			}

			assert.Equal(t, forward, backward, "fingerprints depend on processing order")

			for i, c := range bundle.Certs {
				assert.Equal(t, fingerprint.Format(reference(alg, c.Raw)), forward[i], "certificate %d", i+1)
			}
			assert.NotEqual(t, forward[0], forward[1])
		})
	}
}

func reference(alg fingerprint.Algorithm, der []byte) []byte {
	switch alg {
	case fingerprint.SHA1:
		s := sha1.Sum(der)
		return s[:]
	case fingerprint.MD5:
		s := md5.Sum(der)
		return s[:]
	default:
		s := sha256.Sum256(der)
		return s[:]
	}
}
