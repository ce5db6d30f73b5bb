// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509chain

import (
	"bufio"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrAborted is returned when the operator declines to pick a certificate.
var ErrAborted = errors.New("x509chain: selection aborted")

// Prompt is the text shown before reading the operator's choice.
const Prompt = "Enter certificate to add to trusted keystore or 'q' to quit [1]: "

// Selection is the certificate chosen for installation.
type Selection struct {
	// Index is 1-based, as shown to the operator.
	Index       int
	Certificate *x509.Certificate
}

// Selector resolves which certificate of a chain gets installed.
//
// In quiet mode the first certificate is chosen and In/Out are never touched.
// Otherwise Prompt is written to Out and one line is read from In.
type Selector struct {
	Quiet bool
	In    io.Reader
	Out   io.Writer
}

// Select resolves the operator's choice against ch.
//
// An empty line picks the first certificate. "q" or "Q", a non-numeric
// answer, an index outside 1..ch.Len() and end of input without an answer
// all return ErrAborted.
//
// Parameters:
//   - ch: Captured chain to choose from
//
// Returns:
//   - Selection: Chosen certificate and its 1-based index
//   - error: ErrAborted, or an I/O error from In/Out
func (s Selector) Select(ch *Chain) (Selection, error) {
	if s.Quiet {
		return Selection{Index: 1, Certificate: ch.At(0)}, nil
	}

	if s.Out != nil {
		if _, err := io.WriteString(s.Out, Prompt); err != nil {
			return Selection{}, err
		}
	}

	if s.In == nil {
		return Selection{}, ErrAborted
	}

	line, err := bufio.NewReader(s.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return Selection{}, fmt.Errorf("x509chain: reading selection: %w", err)
	}
	if errors.Is(err, io.EOF) && line == "" {
		return Selection{}, ErrAborted
	}

	answer := strings.TrimSpace(line)
	if answer == "" {
		return Selection{Index: 1, Certificate: ch.At(0)}, nil
	}
	if strings.EqualFold(answer, "q") {
		return Selection{}, ErrAborted
	}

	k, convErr := strconv.Atoi(answer)
	if convErr != nil || k < 1 || k > ch.Len() {
		return Selection{}, ErrAborted
	}
	return Selection{Index: k, Certificate: ch.At(k - 1)}, nil
}
