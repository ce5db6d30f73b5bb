// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package fingerprint computes digests over DER-encoded [X.509] certificates
// for out-of-band comparison with other tools (openssl, keytool, browsers).
//
// The legacy SHA-1 and MD5 digests exist for human cross-referencing only and
// are never used to make a trust decision.
//
// [X.509]: https://grokipedia.com/page/X.509
package fingerprint
