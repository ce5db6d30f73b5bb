// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package cli provides the command-line interface for installcert.
// It implements a Cobra-based command that loads the local trust store,
// captures the certificate chain a TLS server presents (directly or through
// a proxy), shows it with SHA-1 and MD5 fingerprints as text, a markdown
// table or JSON, and adds the operator's pick to the trust store.
//
// Settings come from built-in defaults, then an optional JSON or YAML config
// file, then command-line flags. Progress goes through the logger package;
// with --json it switches to JSON lines on stderr so stdout stays parseable.
package cli
