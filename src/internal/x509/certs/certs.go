// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509certs

import (
	"bytes"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"strings"

	"github.com/cloudflare/cfssl/crypto/pkcs7"
)

var (
	// ErrInvalidPEMBlock indicates that the provided data does not contain a valid PEM block.
	ErrInvalidPEMBlock = errors.New("x509certs: invalid PEM block")

	// ErrInvalidBlockType indicates that the PEM block type is not the expected certificate type.
	ErrInvalidBlockType = errors.New("x509certs: invalid block type")

	// ErrParseCertificate indicates a failure to parse the certificate from the provided data.
	ErrParseCertificate = errors.New("x509certs: failed to parse certificate")

	// ErrParsePKCS7 indicates a failure to parse PKCS7 formatted data.
	ErrParsePKCS7 = errors.New("x509certs: failed to parse PKCS7 data")

	// ErrNoCertificatesInPKCS indicates that no certificates were found in the PKCS7 data.
	ErrNoCertificatesInPKCS = errors.New("x509certs: no certificates found in PKCS7 data")

	// ErrTrailingData indicates bytes after the last certificate of a bundle
	// that are neither whitespace nor comments.
	ErrTrailingData = errors.New("x509certs: unexpected data after last certificate")
)

// AliasPrefix starts the comment line that names the certificate below it in
// an alias-annotated bundle.
const AliasPrefix = "# alias: "

// Certificate provides methods to decode and encode [X.509] certificates.
// It maintains internal configuration such as the certificate block type.
//
// [X.509]: https://en.wikipedia.org/wiki/X.509
type Certificate struct {
	certBlockType string
}

// BundleEntry is one certificate of a PEM bundle together with the exact
// bytes it was read from (preceding comments included), so an unchanged
// entry can be written back byte for byte.
type BundleEntry struct {
	Alias string
	Cert  *x509.Certificate
	Raw   []byte
}

// New creates a new Certificate with default settings.
func New() *Certificate {
	return &Certificate{
		certBlockType: "CERTIFICATE",
	}
}

// IsPEM checks if the data is in PEM format.
func (c *Certificate) IsPEM(data []byte) bool {
	block, _ := pem.Decode(data)
	return block != nil
}

// Decode decodes a single certificate from PEM, DER or a PKCS7 bundle (the
// first certificate is returned).
func (c *Certificate) Decode(data []byte) (*x509.Certificate, error) {
	if c.IsPEM(data) {
		block, _ := pem.Decode(data)
		if block.Type != c.certBlockType {
			return nil, ErrInvalidBlockType
		}
		data = block.Bytes
	}

	if cert, err := x509.ParseCertificate(data); err == nil {
		return cert, nil
	}

	p, err := pkcs7.ParsePKCS7(data)
	if err != nil {
		return nil, ErrParseCertificate
	}
	if len(p.Content.SignedData.Certificates) == 0 {
		return nil, ErrNoCertificatesInPKCS
	}
	return p.Content.SignedData.Certificates[0], nil
}

// DecodeMultiple decodes every certificate in a PEM bundle, a DER sequence or
// a PKCS7 container.
func (c *Certificate) DecodeMultiple(data []byte) ([]*x509.Certificate, error) {
	if c.IsPEM(data) {
		entries, err := c.DecodeBundle(data)
		if err != nil {
			return nil, err
		}
		certs := make([]*x509.Certificate, 0, len(entries))
		for _, e := range entries {
			certs = append(certs, e.Cert)
		}
		return certs, nil
	}

	if certs, err := x509.ParseCertificates(data); err == nil {
		return certs, nil
	}

	p, err := pkcs7.ParsePKCS7(data)
	if err != nil {
		return nil, ErrParsePKCS7
	}
	if len(p.Content.SignedData.Certificates) == 0 {
		return nil, ErrNoCertificatesInPKCS
	}
	return p.Content.SignedData.Certificates, nil
}

// DecodeBundle splits an alias-annotated PEM bundle into entries.
//
// Each entry owns the text from the end of the previous block up to and
// including its own END line. The alias is taken from the last
// "# alias: " line in that text; entries without one get an empty alias.
func (c *Certificate) DecodeBundle(data []byte) ([]BundleEntry, error) {
	var entries []BundleEntry

	rest := data
	for {
		block, remainder := pem.Decode(rest)
		if block == nil {
			break
		}
		if block.Type != c.certBlockType {
			return nil, ErrInvalidBlockType
		}

		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, ErrParseCertificate
		}

		raw := rest[:len(rest)-len(remainder)]
		entries = append(entries, BundleEntry{
			Alias: aliasFrom(raw),
			Cert:  cert,
			Raw:   append([]byte(nil), raw...),
		})
		rest = remainder
	}

	if len(entries) == 0 {
		return nil, ErrInvalidPEMBlock
	}
	if !blankOrComments(rest) {
		return nil, ErrTrailingData
	}
	return entries, nil
}

// EncodeBundleEntry renders cert as an alias-annotated PEM block.
func (c *Certificate) EncodeBundleEntry(alias string, cert *x509.Certificate) []byte {
	var buf bytes.Buffer
	if alias != "" {
		buf.WriteString(AliasPrefix)
		buf.WriteString(alias)
		buf.WriteByte('\n')
	}
	buf.Write(c.EncodePEM(cert))
	return buf.Bytes()
}

// EncodePEM encodes a certificate to PEM format.
func (c *Certificate) EncodePEM(cert *x509.Certificate) []byte {
	block := pem.Block{
		Type:  c.certBlockType,
		Bytes: cert.Raw,
	}
	return pem.EncodeToMemory(&block)
}

// EncodeDER encodes a certificate to DER format.
func (c *Certificate) EncodeDER(cert *x509.Certificate) []byte { return cert.Raw }

// EncodeMultiplePEM encodes multiple certificates to PEM format.
func (c *Certificate) EncodeMultiplePEM(certs []*x509.Certificate) []byte {
	var data []byte

	for _, cert := range certs {
		data = append(data, c.EncodePEM(cert)...)
	}

	return data
}

func aliasFrom(raw []byte) string {
	begin := bytes.Index(raw, []byte("-----BEGIN"))
	if begin < 0 {
		return ""
	}

	alias := ""
	for _, line := range strings.Split(string(raw[:begin]), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, AliasPrefix) {
			alias = strings.TrimSpace(strings.TrimPrefix(line, AliasPrefix))
		}
	}
	return alias
}

func blankOrComments(data []byte) bool {
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			return false
		}
	}
	return true
}
