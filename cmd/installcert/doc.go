// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// installcert captures the certificate chain a TLS server presents and adds
// a certificate from it to a local trust store, trust-on-first-use style.
//
// # Installation
//
// Install with Go 1.25.5 or later:
//
//	go install github.com/H0llyW00dzZ/installcert/cmd/installcert@latest
//
// # Usage
//
//	installcert [flags] host[:port] [passphrase]
//
// The port defaults to 443 and the passphrase to "changeit".
//
// # Flags
//
//	-p, --proxy     Proxy as host:port or URL (http://, socks5://)
//	-q, --quiet     Add the first certificate without prompting
//	-k, --keystore  Trust store to load (default: search order below)
//	-o, --output    Trust store to write (default: jssecacerts)
//	-t, --timeout   Handshake timeout (default: 10s)
//	    --table     Render the chain as a markdown table
//	-j, --json      Print the captured chain as JSON; never writes a store
//	-c, --config    Config file (.json, .yaml, .yml)
//
// Without --keystore the first existing file of ./jssecacerts,
// $JAVA_HOME/lib/security/jssecacerts and $JAVA_HOME/lib/security/cacerts
// is loaded. Both JKS stores and alias-annotated PEM bundles are supported.
//
// # Examples
//
// Review a server's chain and pick a certificate interactively:
//
//	installcert git.internal.example:8443
//
// Trust the leaf of a self-signed service through a corporate proxy:
//
//	installcert -q -p proxy.corp.example:3128 build.internal.example
//
// Inspect the chain without touching any store:
//
//	installcert --json example.com > chain.json
//
// # Exit Status
//
// 0 on success, also when the operator quits at the prompt; 1 on connection
// or trust store errors; 2 on invalid arguments; 130 when interrupted.
package main
