// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package handshake

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	x509chain "github.com/H0llyW00dzZ/installcert/src/internal/x509/chain"
	"github.com/H0llyW00dzZ/installcert/src/internal/x509/verifier"
	"github.com/H0llyW00dzZ/installcert/src/logger"
)

// DefaultTimeout bounds connect plus handshake when Session.Timeout is zero.
const DefaultTimeout = 10 * time.Second

// Outcome classifies how a session ended.
type Outcome int

const (
	// TrustedNoChainCaptured: the handshake succeeded without the
	// trust step ever seeing a chain.
	TrustedNoChainCaptured Outcome = iota
	// ChainCapturedHandshakeSucceeded: the chain was recorded and trusted.
	ChainCapturedHandshakeSucceeded
	// ChainCapturedHandshakeFailed: the chain was recorded, then the
	// handshake failed (typically an untrusted chain).
	ChainCapturedHandshakeFailed
	// ConnectionFailedNoChain: the server never presented a chain.
	ConnectionFailedNoChain
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case TrustedNoChainCaptured:
		return "TrustedNoChainCaptured"
	case ChainCapturedHandshakeSucceeded:
		return "ChainCapturedHandshakeSucceeded"
	case ChainCapturedHandshakeFailed:
		return "ChainCapturedHandshakeFailed"
	case ConnectionFailedNoChain:
		return "ConnectionFailedNoChain"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// HasChain reports whether the outcome carries a captured chain.
func (o Outcome) HasChain() bool {
	return o == ChainCapturedHandshakeSucceeded || o == ChainCapturedHandshakeFailed
}

// Classify derives the outcome from whether a chain was captured and
// whether the handshake reported an error.
func Classify(captured bool, err error) Outcome {
	switch {
	case captured && err == nil:
		return ChainCapturedHandshakeSucceeded
	case captured:
		return ChainCapturedHandshakeFailed
	case err == nil:
		return TrustedNoChainCaptured
	default:
		return ConnectionFailedNoChain
	}
}

// Result is what one session produced.
type Result struct {
	Outcome Outcome
	// Chain is nil unless Outcome.HasChain().
	Chain *x509chain.Chain
	// Err is the connection or handshake error, if any.
	Err error
	// State is set only when the handshake completed.
	State *tls.ConnectionState
}

// Session is a single capture attempt against Target.
type Session struct {
	Target  Target
	Timeout time.Duration
	// Verifier decides trust. Nil trusts nothing, so every chain is
	// captured and the handshake fails.
	Verifier verifier.Verifier
	// Logger receives progress messages; nil keeps the session silent.
	Logger logger.Logger
}

// Run connects, performs one TLS handshake and closes the connection.
//
// Parameters:
//   - ctx: Context for cancellation of dialing and handshake
//
// Returns:
//   - *Result: Outcome with whatever chain the server presented
func (s Session) Run(ctx context.Context) *Result {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	underlying := s.Verifier
	if underlying == nil {
		underlying = verifier.NewPoolVerifier(nil, s.Target.Host)
	}
	capturing := verifier.NewCapturing(underlying)

	s.logf("Opening connection to %s...", s.Target)

	state, err := s.handshake(ctx, timeout, capturing)

	res := &Result{Err: err, State: state}
	if captured := capturing.Captured(); len(captured) > 0 {
		if ch, chErr := x509chain.New(captured); chErr == nil {
			res.Chain = ch
		}
	}
	res.Outcome = Classify(res.Chain != nil, err)
	return res
}

func (s Session) handshake(ctx context.Context, timeout time.Duration, capturing *verifier.Capturing) (*tls.ConnectionState, error) {
	dialer, err := dialerFor(s.Target, timeout)
	if err != nil {
		return nil, err
	}

	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	rawConn, err := dialer.DialContext(dialCtx, "tcp", s.Target.Address())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", s.Target, err)
	}
	defer rawConn.Close()

	if err := rawConn.SetDeadline(time.Now().Add(timeout)); err != nil {
		return nil, fmt.Errorf("failed to set deadline: %w", err)
	}

	conn := tls.Client(rawConn, &tls.Config{
		ServerName: s.Target.Host,
		// The built-in check is replaced by VerifyConnection so the chain
		// reaches the capturing verifier whatever its trust status.
		InsecureSkipVerify: true,
		VerifyConnection: func(cs tls.ConnectionState) error {
			return capturing.VerifyServer(cs.PeerCertificates, tls.CipherSuiteName(cs.CipherSuite))
		},
	})
	defer conn.Close()

	s.logf("Starting SSL handshake...")

	if err := conn.HandshakeContext(ctx); err != nil {
		return nil, err
	}
	state := conn.ConnectionState()
	return &state, nil
}

func (s Session) logf(format string, args ...any) {
	if s.Logger != nil {
		s.Logger.Printf(format, args...)
	}
}
