// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509chain

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/H0llyW00dzZ/installcert/src/internal/x509/fingerprint"
)

// RenderText writes the chain for operator review, one block per certificate
// with its 1-based index, subject, issuer and SHA-1/MD5 fingerprints:
//
//	Server sent 2 certificate(s):
//
//	 1 Subject: CN=example.com
//	   Issuer:  CN=Example CA
//	   sha1:    a1 b2 ...
//	   md5:     c3 d4 ...
//
// Parameters:
//   - w: Destination writer
//
// Returns:
//   - error: First write error, if any
func (ch *Chain) RenderText(w io.Writer) error {
	var b strings.Builder

	fmt.Fprintf(&b, "\nServer sent %d certificate(s):\n\n", len(ch.certs))
	for i, cert := range ch.certs {
		fmt.Fprintf(&b, " %d Subject: %s\n", i+1, cert.Subject)
		fmt.Fprintf(&b, "   Issuer:  %s\n", cert.Issuer)
		fmt.Fprintf(&b, "   %-8s %s\n", fingerprint.SHA1.String()+":", fingerprint.Of(cert, fingerprint.SHA1))
		fmt.Fprintf(&b, "   %-8s %s\n\n", fingerprint.MD5.String()+":", fingerprint.Of(cert, fingerprint.MD5))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderTable renders the chain as a markdown table.
//
// It lists the index, role, subject, issuer, expiry and both legacy
// fingerprints, using tablewriter.
//
// Returns:
//   - string: Markdown table representation of the certificate chain
func (ch *Chain) RenderTable() string {
	var buf strings.Builder
	table := tablewriter.NewTable(&buf,
		tablewriter.WithRenderer(renderer.NewMarkdown(tw.Rendition{Streaming: true})),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)

	table.Header([]string{"#", "Role", "Subject", "Issuer", "Valid Until", "SHA-1", "MD5"})

	rows := make([][]string, 0, len(ch.certs))
	for i, cert := range ch.certs {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			ch.Role(i),
			cert.Subject.String(),
			cert.Issuer.String(),
			cert.NotAfter.UTC().Format("2006-01-02"),
			fingerprint.Of(cert, fingerprint.SHA1),
			fingerprint.Of(cert, fingerprint.MD5),
		})
	}

	table.Bulk(rows)
	table.Render()
	return buf.String()
}

// CertificateReport is the JSON form of one chain entry.
type CertificateReport struct {
	Index              int       `json:"index"`
	Role               string    `json:"role"`
	Subject            string    `json:"subject"`
	Issuer             string    `json:"issuer"`
	SerialNumber       string    `json:"serialNumber"`
	SignatureAlgorithm string    `json:"signatureAlgorithm"`
	PublicKeyAlgorithm string    `json:"publicKeyAlgorithm"`
	KeySize            int       `json:"keySize,omitempty"`
	NotBefore          time.Time `json:"notBefore"`
	NotAfter           time.Time `json:"notAfter"`
	IsCA               bool      `json:"isCA"`
	DNSNames           []string  `json:"dnsNames,omitempty"`
	SHA1               string    `json:"sha1"`
	MD5                string    `json:"md5"`
	SHA256             string    `json:"sha256"`
}

// Report is the JSON document produced by ToJSON.
type Report struct {
	Host         string              `json:"host"`
	Port         int                 `json:"port"`
	Outcome      string              `json:"outcome"`
	Error        string              `json:"error,omitempty"`
	Timestamp    string              `json:"timestamp"`
	ChainLength  int                 `json:"chainLength"`
	Certificates []CertificateReport `json:"certificates"`
}

// Reports converts the chain to its JSON-ready form; Index is 1-based.
func (ch *Chain) Reports() []CertificateReport {
	out := make([]CertificateReport, len(ch.certs))
	for i, cert := range ch.certs {
		keySize, pubKeyAlgo := describeKey(cert.PublicKey)
		out[i] = CertificateReport{
			Index:              i + 1,
			Role:               ch.Role(i),
			Subject:            cert.Subject.String(),
			Issuer:             cert.Issuer.String(),
			SerialNumber:       cert.SerialNumber.String(),
			SignatureAlgorithm: cert.SignatureAlgorithm.String(),
			PublicKeyAlgorithm: pubKeyAlgo,
			KeySize:            keySize,
			NotBefore:          cert.NotBefore,
			NotAfter:           cert.NotAfter,
			IsCA:               cert.IsCA,
			DNSNames:           cert.DNSNames,
			SHA1:               fingerprint.Of(cert, fingerprint.SHA1),
			MD5:                fingerprint.Of(cert, fingerprint.MD5),
			SHA256:             fingerprint.Of(cert, fingerprint.SHA256),
		}
	}
	return out
}

// ToJSON renders report with the chain's certificates filled in.
//
// Parameters:
//   - report: Header fields (host, port, outcome, error)
//
// Returns:
//   - []byte: Indented JSON document
//   - error: Error if JSON marshaling fails
func (ch *Chain) ToJSON(report Report) ([]byte, error) {
	report.Timestamp = time.Now().UTC().Format(time.RFC3339)
	report.ChainLength = len(ch.certs)
	report.Certificates = ch.Reports()
	return json.MarshalIndent(report, "", "  ")
}

func describeKey(pub any) (int, string) {
	switch k := pub.(type) {
	case *rsa.PublicKey:
		return k.Size() * 8, "RSA"
	case *ecdsa.PublicKey:
		return k.Curve.Params().BitSize, "ECDSA"
	case ed25519.PublicKey:
		return 256, "Ed25519"
	default:
		return 0, "unknown"
	}
}
