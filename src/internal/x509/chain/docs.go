// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package x509chain holds the [X.509] certificate chain captured from a TLS
// handshake and presents it to the operator. It provides capabilities to:
//   - Keep the server-presented chain immutable, leaf first.
//   - Describe each certificate's role in the hierarchy.
//   - Render the chain as plain text with SHA-1/MD5 fingerprints, as a
//     markdown table, or as a JSON report.
//   - Resolve which certificate the operator wants installed.
//
// Indices shown to the operator are 1-based; accessors take 0-based positions.
//
// [X.509]: https://grokipedia.com/page/X.509
package x509chain
