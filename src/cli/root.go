// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/H0llyW00dzZ/installcert/src/internal/handshake"
	"github.com/H0llyW00dzZ/installcert/src/internal/helper/posix"
	"github.com/H0llyW00dzZ/installcert/src/internal/truststore"
	"github.com/H0llyW00dzZ/installcert/src/logger"
)

var (
	// ErrInvalidArguments indicates a missing host, malformed target or
	// proxy, an unknown flag, or surplus positional arguments.
	ErrInvalidArguments = errors.New("cli: invalid arguments")

	// ErrNoChain indicates that the server never presented a certificate chain.
	ErrNoChain = errors.New("cli: could not obtain server certificate chain")
)

var (
	// OperationPerformed reports whether a chain was captured and presented.
	OperationPerformed bool
	// OperationPerformedSuccessfully reports whether a certificate was written.
	OperationPerformedSuccessfully bool
)

// options are the parsed command-line flags.
type options struct {
	proxy      string
	quiet      bool
	keystore   string
	output     string
	timeout    time.Duration
	table      bool
	json       bool
	configPath string
}

// NewRootCommand builds the installcert command. Its output, error and input
// streams can be redirected with SetOut, SetErr and SetIn.
func NewRootCommand(version string, log logger.Logger) *cobra.Command {
	cmd, _ := newRootCommand(version, log)
	return cmd
}

func newRootCommand(version string, log logger.Logger) (*cobra.Command, *options) {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   posix.GetExecutableName() + " [flags] host[:port] [passphrase]",
		Short: "Capture a TLS server's certificate chain and add it to a trust store",
		Long: `Connects to host (port 443 unless given), records the
certificate chain the server presents whether or not it is trusted, shows
each certificate with its SHA-1 and MD5 fingerprints, and adds the one you
pick to the trust store as "host-N".

The passphrase protects JKS stores and defaults to "changeit".`,
		Version:       version,
		Args:          validateArgs,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, opts, log)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.proxy, "proxy", "p", "", "proxy as host:port or URL (http://, socks5://)")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "add the first certificate without prompting")
	flags.StringVarP(&opts.keystore, "keystore", "k", "", "trust store to load (default: jssecacerts, then $JAVA_HOME/lib/security)")
	flags.StringVarP(&opts.output, "output", "o", truststore.DefaultOutput, "trust store to write")
	flags.DurationVarP(&opts.timeout, "timeout", "t", handshake.DefaultTimeout, "handshake timeout")
	flags.BoolVar(&opts.table, "table", false, "render the chain as a markdown table")
	flags.BoolVarP(&opts.json, "json", "j", false, "print the captured chain as JSON and exit without changing any store")
	flags.StringVarP(&opts.configPath, "config", "c", "", "config file (.json, .yaml, .yml); also "+configFileEnv)

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	})

	return rootCmd, opts
}

// Execute runs the root command with os.Args.
//
// Parameters:
//   - ctx: Context for cancellation, typically tied to SIGINT/SIGTERM
//   - version: Version string reported by --version
//   - log: Destination for progress messages
//
// Returns:
//   - error: ErrInvalidArguments, ErrNoChain, or a trust store error
func Execute(ctx context.Context, version string, log logger.Logger) error {
	return NewRootCommand(version, log).ExecuteContext(ctx)
}

func validateArgs(cmd *cobra.Command, args []string) error {
	switch {
	case len(args) == 0:
		return fmt.Errorf("%w: missing host", ErrInvalidArguments)
	case len(args) > 2:
		return fmt.Errorf("%w: unexpected arguments %q", ErrInvalidArguments, args[2:])
	}
	return nil
}
