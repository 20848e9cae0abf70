package domain

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelope(t *testing.T) {
	nonce := bytes.Repeat([]byte{0x01}, 16)
	wrappedKey := bytes.Repeat([]byte{0x02}, 32)
	blob := []byte{0x03, 0x04, 0x05}

	t.Run("marshal lays out fixed offsets", func(t *testing.T) {
		envelope := &Envelope{Nonce: nonce, WrappedKey: wrappedKey, Blob: blob}
		data := envelope.Marshal()

		require.Len(t, data, 16+32+3)
		assert.Equal(t, nonce, data[WrapNonceOffset:WrappedKeyOffset])
		assert.Equal(t, wrappedKey, data[WrappedKeyOffset:BlobOffset])
		assert.Equal(t, blob, data[BlobOffset:])
	})

	t.Run("unmarshal inverts marshal", func(t *testing.T) {
		envelope := &Envelope{Nonce: nonce, WrappedKey: wrappedKey, Blob: blob}

		parsed, err := UnmarshalEnvelope(envelope.Marshal())
		require.NoError(t, err)
		assert.Equal(t, envelope.Nonce, parsed.Nonce)
		assert.Equal(t, envelope.WrappedKey, parsed.WrappedKey)
		assert.Equal(t, envelope.Blob, parsed.Blob)
	})

	t.Run("accepts the minimum file size", func(t *testing.T) {
		parsed, err := UnmarshalEnvelope(make([]byte, MinEnvelopeSize))
		require.NoError(t, err)
		assert.Len(t, parsed.Blob, 1)
	})

	t.Run("rejects anything shorter", func(t *testing.T) {
		for _, size := range []int{0, 1, 16, 48} {
			_, err := UnmarshalEnvelope(make([]byte, size))
			assert.ErrorIs(t, err, ErrInvalidReader, "size %d", size)
		}
	})
}
