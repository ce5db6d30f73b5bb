// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package truststore locates, loads, extends and persists the local trust
// store that captured certificates are installed into.
//
// Two formats are supported:
//   - JKS (Java KeyStore), read and written with [keystore-go]. Entries
//     other than trusted certificates, such as private keys, are carried
//     over untouched.
//   - Alias-annotated PEM bundles, where each certificate may be preceded
//     by a "# alias: <name>" line. Existing text is written back byte for
//     byte; new entries are appended.
//
// The format is detected from the content, never from the file name.
// Writes go through a temporary file in the target directory followed by a
// rename, so a failed write leaves the previous store in place.
//
// [keystore-go]: https://github.com/pavlo-v-chernykh/keystore-go
package truststore
