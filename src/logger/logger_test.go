// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package logger_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/H0llyW00dzZ/installcert/src/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCLILogger(t *testing.T) {
	tests := []struct {
		name     string
		testFunc func(t *testing.T)
	}{
		{
			name: "Printf",
			testFunc: func(t *testing.T) {
				var buf bytes.Buffer
				log := logger.NewCLILogger()
				log.SetOutput(&buf)

				log.Printf("Opening connection to %s:%d...", "example.com", 443)

				assert.Equal(t, "Opening connection to example.com:443...\n", buf.String())
			},
		},
		{
			name: "Println",
			testFunc: func(t *testing.T) {
				var buf bytes.Buffer
				log := logger.NewCLILogger()
				log.SetOutput(&buf)

				log.Println("Starting SSL handshake...")

				assert.Equal(t, "Starting SSL handshake...\n", buf.String())
			},
		},
		{
			name: "Errorf",
			testFunc: func(t *testing.T) {
				var buf bytes.Buffer
				log := logger.NewCLILogger()
				log.SetOutput(&buf)

				log.Errorf("handshake failed: %v", "x509: certificate signed by unknown authority")

				assert.Contains(t, buf.String(), "certificate signed by unknown authority")
			},
		},
		{
			name: "SetOutput",
			testFunc: func(t *testing.T) {
				var buf1, buf2 bytes.Buffer
				log := logger.NewCLILogger()

				log.SetOutput(&buf1)
				log.Println("first")

				log.SetOutput(&buf2)
				log.Println("second")

				assert.Contains(t, buf1.String(), "first")
				assert.Contains(t, buf2.String(), "second")
				assert.NotContains(t, buf1.String(), "second", "buf1 should not contain 'second'")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.testFunc(t)
		})
	}
}

func decodeLines(t *testing.T, out string) []map[string]any {
	t.Helper()

	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry), "failed to parse JSON line %q", line)
		entries = append(entries, entry)
	}
	return entries
}

func TestJSONLogger(t *testing.T) {
	tests := []struct {
		name     string
		testFunc func(t *testing.T)
	}{
		{
			name: "Silent",
			testFunc: func(t *testing.T) {
				var buf bytes.Buffer
				log := logger.NewJSONLogger(&buf, true)

				log.Printf("test message: %s", "hello")
				log.Println("another message")
				log.Errorf("boom")

				assert.Equal(t, 0, buf.Len(), "expected no output in silent mode")
			},
		},
		{
			name: "Levels",
			testFunc: func(t *testing.T) {
				var buf bytes.Buffer
				log := logger.NewJSONLogger(&buf, false)

				log.Printf("loading %s", "jssecacerts")
				log.Println("Starting SSL handshake...")
				log.Errorf("handshake: %s", "remote error: tls: bad certificate")

				entries := decodeLines(t, buf.String())
				require.Len(t, entries, 3)

				assert.Equal(t, "info", entries[0]["level"])
				assert.Equal(t, "loading jssecacerts", entries[0]["message"])
				assert.Equal(t, "info", entries[1]["level"])
				assert.Equal(t, "error", entries[2]["level"])
				assert.Equal(t, "handshake: remote error: tls: bad certificate", entries[2]["message"])
			},
		},
		{
			name: "Escaping",
			testFunc: func(t *testing.T) {
				var buf bytes.Buffer
				log := logger.NewJSONLogger(&buf, false)

				subject := "CN=\"quoted\",O=tab\there\nnewline"
				log.Printf("%s", subject)

				entries := decodeLines(t, buf.String())
				require.Len(t, entries, 1)
				assert.Equal(t, subject, entries[0]["message"])
			},
		},
		{
			name: "SetOutput_Nil",
			testFunc: func(t *testing.T) {
				var buf bytes.Buffer
				log := logger.NewJSONLogger(&buf, false)

				log.Println("before")
				log.SetOutput(nil)
				log.Println("after")

				assert.Contains(t, buf.String(), "before")
				assert.NotContains(t, buf.String(), "after")
			},
		},
		{
			name: "NilWriter",
			testFunc: func(t *testing.T) {
				log := logger.NewJSONLogger(nil, false)
				assert.NotPanics(t, func() {
					log.Printf("test")
					log.Println("test")
				})
			},
		},
		{
			name: "Concurrent",
			testFunc: func(t *testing.T) {
				var buf bytes.Buffer
				log := logger.NewJSONLogger(&buf, false)

				const goroutines = 50
				var wg sync.WaitGroup
				wg.Add(goroutines)
				for i := range goroutines {
					go func(id int) {
						defer wg.Done()
						log.Printf("goroutine %d", id)
					}(i)
				}
				wg.Wait()

				assert.Len(t, decodeLines(t, buf.String()), goroutines)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.testFunc(t)
		})
	}
}
