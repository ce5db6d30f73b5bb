// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package truststore

import (
	"crypto/x509"
	"io"

	"github.com/H0llyW00dzZ/installcert/src/internal/helper/gc"
	x509certs "github.com/H0llyW00dzZ/installcert/src/internal/x509/certs"
)

// pemStore is an alias-annotated PEM bundle.
//
// entries keep the exact text they were read from; trailer is whatever
// followed the last certificate (blank lines, comments).
type pemStore struct {
	entries []x509certs.BundleEntry
	trailer []byte
	codec   *x509certs.Certificate
}

// NewPEM returns an empty PEM bundle store.
func NewPEM() Store { return newPEMStore() }

func newPEMStore() *pemStore {
	return &pemStore{codec: x509certs.New()}
}

func decodePEM(data []byte) (*pemStore, error) {
	s := newPEMStore()

	entries, err := s.codec.DecodeBundle(data)
	if err != nil {
		return nil, err
	}

	consumed := 0
	for _, e := range entries {
		consumed += len(e.Raw)
	}
	s.entries = entries
	s.trailer = append([]byte(nil), data[consumed:]...)
	return s, nil
}

func (s *pemStore) Format() Format { return FormatPEM }

func (s *pemStore) Aliases() []string {
	var out []string
	for _, e := range s.entries {
		if e.Alias != "" {
			out = append(out, e.Alias)
		}
	}
	return out
}

func (s *pemStore) Contains(alias string) bool {
	return s.index(alias) >= 0
}

func (s *pemStore) Certificates() []*x509.Certificate {
	out := make([]*x509.Certificate, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.Cert)
	}
	return out
}

func (s *pemStore) AddCertificate(alias string, cert *x509.Certificate) error {
	if cert == nil {
		return ErrNilCertificate
	}

	entry := x509certs.BundleEntry{
		Alias: alias,
		Cert:  cert,
		Raw:   s.codec.EncodeBundleEntry(alias, cert),
	}
	if i := s.index(alias); i >= 0 {
		s.entries[i] = entry
		return nil
	}
	s.entries = append(s.entries, entry)
	return nil
}

// Save writes every entry's text followed by the trailer. A newline is
// inserted only where an entry read without one would otherwise run into
// the next.
func (s *pemStore) Save(w io.Writer, _ []byte) error {
	buf := gc.Default.Get()
	defer func() {
		buf.Reset()
		gc.Default.Put(buf)
	}()

	for _, e := range s.entries {
		if n := buf.Len(); n > 0 && buf.Bytes()[n-1] != '\n' {
			buf.WriteByte('\n')
		}
		buf.Write(e.Raw)
	}
	buf.Write(s.trailer)

	_, err := w.Write(buf.Bytes())
	return err
}

func (s *pemStore) index(alias string) int {
	if alias == "" {
		return -1
	}
	for i, e := range s.entries {
		if e.Alias == alias {
			return i
		}
	}
	return -1
}
