// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or use this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package gc

import (
	"bytes"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferInterface(t *testing.T) {
	tests := []struct {
		name  string
		setup func(buf Buffer)
		check func(t *testing.T, buf Buffer)
	}{
		{
			name: "Write byte slice",
			setup: func(buf Buffer) {
				buf.Write([]byte{0xfe, 0xed})
			},
			check: func(t *testing.T, buf Buffer) {
				assert.Equal(t, []byte{0xfe, 0xed}, buf.Bytes())
				assert.Equal(t, 2, buf.Len())
			},
		},
		{
			name: "Hex pairs",
			setup: func(buf Buffer) {
				buf.WriteString("a1")
				buf.WriteByte(' ')
				buf.WriteString("b2")
			},
			check: func(t *testing.T, buf Buffer) {
				assert.Equal(t, "a1 b2", buf.String())
			},
		},
		{
			name: "Reset clears buffer",
			setup: func(buf Buffer) {
				buf.WriteString("data to clear")
				buf.Reset()
			},
			check: func(t *testing.T, buf Buffer) {
				assert.Equal(t, 0, buf.Len(), "Reset() failed, buffer still contains data: %q", buf.Bytes())
			},
		},
		{
			name:  "Empty buffer",
			setup: func(buf Buffer) {},
			check: func(t *testing.T, buf Buffer) {
				assert.Equal(t, 0, buf.Len())
				assert.Equal(t, "", buf.String())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := Default.Get()
			defer func() {
				buf.Reset()
				Default.Put(buf)
			}()

			tt.setup(buf)
			tt.check(t, buf)
		})
	}
}

func TestBufferReadFrom(t *testing.T) {
	buf := Default.Get()
	defer func() {
		buf.Reset()
		Default.Put(buf)
	}()

	payload := strings.Repeat("-----BEGIN CERTIFICATE-----\n", 64)
	n, err := buf.ReadFrom(strings.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)), n)
	assert.Equal(t, payload, buf.String())
}

func TestBufferReadFromError(t *testing.T) {
	buf := Default.Get()
	defer func() {
		buf.Reset()
		Default.Put(buf)
	}()

	_, err := buf.ReadFrom(&errorReader{err: io.ErrUnexpectedEOF})
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestPoolPutNonByteBuffer(t *testing.T) {
	mockBuf := &mockBuffer{buf: bytes.NewBuffer(nil)}
	assert.NotPanics(t, func() { Default.Put(mockBuf) })
}

func TestPoolConcurrentUse(t *testing.T) {
	const workers = 32

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := range workers {
		go func(id int) {
			defer wg.Done()
			buf := Default.Get()
			defer func() {
				buf.Reset()
				Default.Put(buf)
			}()
			buf.WriteString(strings.Repeat("x", id))
			assert.Equal(t, id, buf.Len())
		}(i)
	}
	wg.Wait()
}
