// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package truststore

import (
	"bytes"
	"crypto/x509"
	"fmt"
	"io"
	"time"

	"github.com/pavlo-v-chernykh/keystore-go/v4"

	x509certs "github.com/H0llyW00dzZ/installcert/src/internal/x509/certs"
)

// certificateType is the only entry certificate type JKS files carry.
const certificateType = "X509"

// jksStore is a Java KeyStore.
type jksStore struct {
	ks    keystore.KeyStore
	codec *x509certs.Certificate
	now   func() time.Time
}

// NewJKS returns an empty JKS store.
func NewJKS() Store {
	return &jksStore{
		ks:    keystore.New(keystore.WithOrderedAliases()),
		codec: x509certs.New(),
		now:   time.Now,
	}
}

func decodeJKS(data, passphrase []byte) (*jksStore, error) {
	s := NewJKS().(*jksStore)
	// keystore-go may zero the password it is given.
	if err := s.ks.Load(bytes.NewReader(data), append([]byte(nil), passphrase...)); err != nil {
		return nil, fmt.Errorf("decoding JKS: %w", err)
	}
	return s, nil
}

func (s *jksStore) Format() Format { return FormatJKS }

func (s *jksStore) Aliases() []string { return s.ks.Aliases() }

func (s *jksStore) Contains(alias string) bool {
	return s.ks.IsTrustedCertificateEntry(alias) || s.ks.IsPrivateKeyEntry(alias)
}

// Certificates returns every trusted certificate entry that parses. Entries
// in other encodings are skipped, not fatal, so one odd anchor does not
// block the run.
func (s *jksStore) Certificates() []*x509.Certificate {
	var out []*x509.Certificate
	for _, alias := range s.ks.Aliases() {
		if !s.ks.IsTrustedCertificateEntry(alias) {
			continue
		}
		entry, err := s.ks.GetTrustedCertificateEntry(alias)
		if err != nil {
			continue
		}
		cert, err := s.codec.Decode(entry.Certificate.Content)
		if err != nil {
			continue
		}
		out = append(out, cert)
	}
	return out
}

func (s *jksStore) AddCertificate(alias string, cert *x509.Certificate) error {
	if cert == nil {
		return ErrNilCertificate
	}
	if s.ks.IsPrivateKeyEntry(alias) {
		return fmt.Errorf("%w: %s", ErrAliasConflict, alias)
	}

	return s.ks.SetTrustedCertificateEntry(alias, keystore.TrustedCertificateEntry{
		CreationTime: s.now(),
		Certificate: keystore.Certificate{
			Type:    certificateType,
			Content: s.codec.EncodeDER(cert),
		},
	})
}

func (s *jksStore) Save(w io.Writer, passphrase []byte) error {
	return s.ks.Store(w, append([]byte(nil), passphrase...))
}
