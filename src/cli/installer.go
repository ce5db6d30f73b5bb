// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/H0llyW00dzZ/installcert/src/internal/handshake"
	"github.com/H0llyW00dzZ/installcert/src/internal/truststore"
	x509chain "github.com/H0llyW00dzZ/installcert/src/internal/x509/chain"
	"github.com/H0llyW00dzZ/installcert/src/internal/x509/verifier"
	"github.com/H0llyW00dzZ/installcert/src/logger"
)

// request is a fully resolved invocation.
type request struct {
	target     handshake.Target
	passphrase []byte
	keystore   string
	output     string
	timeout    time.Duration
}

// resolve merges config and flags and validates the target. Nothing here
// touches the network.
func resolve(cmd *cobra.Command, args []string, opts *options) (*request, error) {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	req := &request{
		passphrase: []byte(cfg.Defaults.Passphrase),
		keystore:   cfg.TrustStore.Path,
		output:     cfg.TrustStore.Output,
		timeout:    time.Duration(cfg.Defaults.Timeout) * time.Second,
	}
	if len(args) > 1 {
		req.passphrase = []byte(args[1])
	}
	if flags.Changed("keystore") {
		req.keystore = opts.keystore
	}
	if flags.Changed("output") {
		req.output = opts.output
	}
	if flags.Changed("timeout") {
		req.timeout = opts.timeout
	}
	if req.timeout <= 0 {
		return nil, fmt.Errorf("%w: timeout must be positive", ErrInvalidArguments)
	}

	target, err := handshake.ParseTarget(args[0], cfg.Defaults.Port)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}

	proxySpec := cfg.Proxy
	if flags.Changed("proxy") {
		proxySpec = opts.proxy
	}
	proxyURL, err := handshake.ParseProxy(proxySpec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	target.Proxy = proxyURL

	req.target = target
	return req, nil
}

// run is the installer flow: load the store, capture the chain, present it,
// and add the selected certificate.
func run(cmd *cobra.Command, args []string, opts *options, log logger.Logger) error {
	req, err := resolve(cmd, args, opts)
	if errors.Is(err, ErrInvalidArguments) {
		// cobra prints the usage text on the way out.
		return err
	}
	// Failures past this point are not usage mistakes.
	cmd.SilenceUsage = true
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.json {
		// Keep stdout machine-readable.
		log = logger.NewJSONLogger(cmd.ErrOrStderr(), false)
	}

	store, err := loadStore(req, opts.json, log)
	if err != nil {
		return err
	}

	res := handshake.Session{
		Target:   req.target,
		Timeout:  req.timeout,
		Verifier: verifier.NewPoolVerifier(store.Certificates(), req.target.Host),
		Logger:   log,
	}.Run(cmd.Context())

	if ctxErr := cmd.Context().Err(); ctxErr != nil {
		return ctxErr
	}

	switch res.Outcome {
	case handshake.ChainCapturedHandshakeSucceeded, handshake.TrustedNoChainCaptured:
		log.Println("")
		log.Println("No errors, certificate is already trusted")
	default:
		log.Println("")
		log.Errorf("%v", res.Err)
	}

	if !res.Outcome.HasChain() {
		log.Println("")
		log.Println("Could not obtain server certificate chain")
		return ErrNoChain
	}

	OperationPerformed = true

	if opts.json {
		return writeReport(out, req.target, res)
	}

	if opts.table {
		fmt.Fprintf(out, "\nServer sent %d certificate(s):\n\n", res.Chain.Len())
		fmt.Fprintln(out, res.Chain.RenderTable())
	} else if err := res.Chain.RenderText(out); err != nil {
		return err
	}

	if opts.quiet {
		log.Println("Adding first certificate to trusted keystore.")
	}
	sel, err := x509chain.Selector{Quiet: opts.quiet, In: cmd.InOrStdin(), Out: out}.Select(res.Chain)
	if errors.Is(err, x509chain.ErrAborted) {
		log.Println("KeyStore not changed.")
		return nil
	}
	if err != nil {
		return err
	}

	alias := truststore.Alias(req.target.Host, sel.Index)
	if err := store.AddCertificate(alias, sel.Certificate); err != nil {
		return err
	}
	if err := truststore.Persist(store, req.output, req.passphrase); err != nil {
		return err
	}

	log.Println("")
	printCertificate(log, res.Chain.Reports()[sel.Index-1])
	log.Println("")
	log.Printf("Added certificate to keystore '%s' using alias '%s'", req.output, alias)

	OperationPerformedSuccessfully = true
	return nil
}

// printCertificate shows the installed certificate in full.
func printCertificate(log logger.Logger, c x509chain.CertificateReport) {
	log.Printf("Subject:             %s", c.Subject)
	log.Printf("Issuer:              %s", c.Issuer)
	log.Printf("Serial Number:       %s", c.SerialNumber)
	log.Printf("Valid From:          %s", c.NotBefore.UTC().Format(time.RFC3339))
	log.Printf("Valid Until:         %s", c.NotAfter.UTC().Format(time.RFC3339))
	log.Printf("Signature Algorithm: %s", c.SignatureAlgorithm)
	log.Printf("Public Key:          %s %d bits", c.PublicKeyAlgorithm, c.KeySize)
	if len(c.DNSNames) > 0 {
		log.Printf("DNS Names:           %s", strings.Join(c.DNSNames, ", "))
	}
	log.Printf("CA:                  %t", c.IsCA)
	log.Printf("sha1:                %s", c.SHA1)
	log.Printf("md5:                 %s", c.MD5)
	log.Printf("sha256:              %s", c.SHA256)
}

// loadStore finds and reads the trust store. A JSON report needs no store to
// write to, so there a missing store only means no anchors.
func loadStore(req *request, reportOnly bool, log logger.Logger) (truststore.Store, error) {
	path, err := truststore.Locate(req.keystore, os.Getenv("JAVA_HOME"))
	if err != nil {
		if reportOnly && errors.Is(err, truststore.ErrNotFound) {
			return truststore.NewPEM(), nil
		}
		return nil, err
	}

	log.Printf("Loading KeyStore %s...", path)
	return truststore.Load(path, req.passphrase)
}

func writeReport(w io.Writer, target handshake.Target, res *handshake.Result) error {
	report := x509chain.Report{
		Host:    target.Host,
		Port:    target.Port,
		Outcome: res.Outcome.String(),
	}
	if res.Err != nil {
		report.Error = res.Err.Error()
	}

	data, err := res.Chain.ToJSON(report)
	if err != nil {
		return fmt.Errorf("failed to marshal chain report: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
