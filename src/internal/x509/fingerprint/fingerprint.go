// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package fingerprint

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/x509"
	"hash"

	"github.com/H0llyW00dzZ/installcert/src/internal/helper/gc"
)

// Algorithm identifies a digest used for certificate fingerprints.
type Algorithm int

const (
	// SHA1 is the 20-byte legacy digest printed by keytool and most browsers.
	SHA1 Algorithm = iota
	// MD5 is the 16-byte legacy digest.
	MD5
	// SHA256 is the 32-byte digest, reported in JSON output.
	SHA256
)

// String returns the lowercase algorithm name used as a label in output.
func (a Algorithm) String() string {
	switch a {
	case SHA1:
		return "sha1"
	case MD5:
		return "md5"
	case SHA256:
		return "sha256"
	default:
		return "unknown"
	}
}

// New returns a fresh hash for the algorithm, or nil for an unknown one.
func (a Algorithm) New() hash.Hash {
	switch a {
	case SHA1:
		return sha1.New()
	case MD5:
		return md5.New()
	case SHA256:
		return sha256.New()
	default:
		return nil
	}
}

// Size returns the digest length in bytes.
func (a Algorithm) Size() int {
	if h := a.New(); h != nil {
		return h.Size()
	}
	return 0
}

// Digest computes the digest of der.
//
// A new hash is constructed on every call, so successive certificates of a
// chain never share accumulator state. An unknown algorithm yields nil.
func Digest(der []byte, alg Algorithm) []byte {
	h := alg.New()
	if h == nil {
		return nil
	}
	h.Write(der)
	return h.Sum(nil)
}

// Format renders sum as lowercase hex byte pairs separated by a single space,
// e.g. "a1 b2 c3". Empty input renders as "".
func Format(sum []byte) string {
	const hexdigits = "0123456789abcdef"

	buf := gc.Default.Get()
	defer func() {
		buf.Reset()
		gc.Default.Put(buf)
	}()

	for i, b := range sum {
		if i > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteByte(hexdigits[b>>4])
		buf.WriteByte(hexdigits[b&0x0f])
	}
	return buf.String()
}

// Of returns the formatted fingerprint of cert's raw DER encoding.
func Of(cert *x509.Certificate, alg Algorithm) string {
	return Format(Digest(cert.Raw, alg))
}
