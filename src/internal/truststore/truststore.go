// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package truststore

import (
	"bytes"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/H0llyW00dzZ/installcert/src/internal/helper/gc"
)

var (
	// ErrNotFound indicates that no trust store exists at any searched path.
	ErrNotFound = errors.New("truststore: no trust store found")

	// ErrUnsupportedFormat indicates content that is neither JKS nor PEM.
	ErrUnsupportedFormat = errors.New("truststore: unsupported trust store format")

	// ErrAliasConflict indicates an alias already used by a non-certificate entry.
	ErrAliasConflict = errors.New("truststore: alias is in use by another kind of entry")

	// ErrNilCertificate is returned when adding a nil certificate.
	ErrNilCertificate = errors.New("truststore: nil certificate")
)

// DefaultPassphrase is the conventional passphrase of Java trust stores.
const DefaultPassphrase = "changeit"

// DefaultOutput is the file a selected certificate is written to.
const DefaultOutput = "jssecacerts"

// jksMagic starts every JKS file.
var jksMagic = []byte{0xFE, 0xED, 0xFE, 0xED}

// Format identifies a trust store encoding.
type Format int

const (
	// FormatJKS is the Java KeyStore format.
	FormatJKS Format = iota
	// FormatPEM is an alias-annotated PEM bundle.
	FormatPEM
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatJKS:
		return "JKS"
	case FormatPEM:
		return "PEM"
	default:
		return "Format(" + strconv.Itoa(int(f)) + ")"
	}
}

// Store is a loaded trust store.
//
// Implementations are not safe for concurrent use.
type Store interface {
	// Format reports the encoding Save produces.
	Format() Format
	// Aliases lists the named entries.
	Aliases() []string
	// Certificates returns the trusted certificates, usable as anchors.
	Certificates() []*x509.Certificate
	// Contains reports whether alias names an entry.
	Contains(alias string) bool
	// AddCertificate stores cert as a trusted entry under alias, replacing
	// a trusted certificate already using that alias.
	AddCertificate(alias string, cert *x509.Certificate) error
	// Save writes the store, protected with passphrase where the format
	// supports it.
	Save(w io.Writer, passphrase []byte) error
}

// Alias returns the entry name for the certificate at 1-based index of a
// chain captured from host.
func Alias(host string, index int) string {
	return host + "-" + strconv.Itoa(index)
}

// Decode detects the format of data and parses it.
//
// Parameters:
//   - data: Raw trust store content
//   - passphrase: Integrity passphrase for JKS; ignored for PEM
//
// Returns:
//   - Store: Parsed store
//   - error: Parse error, or ErrUnsupportedFormat
func Decode(data, passphrase []byte) (Store, error) {
	switch {
	case bytes.HasPrefix(data, jksMagic):
		return decodeJKS(data, passphrase)
	case len(bytes.TrimSpace(data)) == 0:
		return newPEMStore(), nil
	case bytes.Contains(data, []byte("-----BEGIN")):
		return decodePEM(data)
	default:
		return nil, ErrUnsupportedFormat
	}
}

// Locate returns the trust store to load.
//
// An explicit path wins and must exist. Otherwise the first regular file
// among ./jssecacerts, $JAVA_HOME/lib/security/jssecacerts and
// $JAVA_HOME/lib/security/cacerts is used; the jre/lib/security layout of
// older JDKs is searched after that.
//
// Parameters:
//   - explicit: Operator-supplied path; empty to search
//   - javaHome: Java installation directory; empty skips those candidates
//
// Returns:
//   - string: Path of the trust store
//   - error: ErrNotFound if no candidate exists
func Locate(explicit, javaHome string) (string, error) {
	if explicit != "" {
		if isFile(explicit) {
			return explicit, nil
		}
		return "", fmt.Errorf("%w: %s", ErrNotFound, explicit)
	}

	candidates := []string{DefaultOutput}
	if javaHome != "" {
		for _, dir := range []string{
			filepath.Join(javaHome, "lib", "security"),
			filepath.Join(javaHome, "jre", "lib", "security"),
		} {
			candidates = append(candidates,
				filepath.Join(dir, "jssecacerts"),
				filepath.Join(dir, "cacerts"),
			)
		}
	}

	for _, c := range candidates {
		if isFile(c) {
			return c, nil
		}
	}
	return "", ErrNotFound
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Load reads and decodes the trust store at path.
func Load(path string, passphrase []byte) (Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("truststore: opening %s: %w", path, err)
	}
	defer f.Close()

	buf := gc.Default.Get()
	defer func() {
		buf.Reset()
		gc.Default.Put(buf)
	}()

	if _, err := buf.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("truststore: reading %s: %w", path, err)
	}

	// The pooled buffer is reused after return; decoders keep their own copy.
	data := append([]byte(nil), buf.Bytes()...)

	store, err := Decode(data, passphrase)
	if err != nil {
		return nil, fmt.Errorf("truststore: loading %s: %w", path, err)
	}
	return store, nil
}

// Persist writes store to path.
//
// The content goes to a temporary file in the same directory which then
// replaces path, so readers never see a partial store. An existing file's
// permissions are kept; new files get 0644.
func Persist(store Store, path string, passphrase []byte) (err error) {
	mode := os.FileMode(0o644)
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("truststore: creating temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = store.Save(tmp, passphrase); err != nil {
		return fmt.Errorf("truststore: encoding %s store: %w", store.Format(), err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("truststore: syncing %s: %w", tmp.Name(), err)
	}
	if err = tmp.Chmod(mode); err != nil {
		return fmt.Errorf("truststore: setting permissions: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("truststore: closing %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("truststore: replacing %s: %w", path, err)
	}
	return nil
}
