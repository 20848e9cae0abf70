package domain

import (
	cryptoDomain "github.com/robopass/robopass/internal/crypto/domain"
)

// On-disk envelope layout, fixed-offset:
//
//	offset 0   length 16  key-wrap nonce
//	offset 16  length 32  wrapped data key
//	offset 48  length ≥1  encrypted vault blob
//
// There is no magic number and no version byte.
const (
	WrapNonceOffset  = 0
	WrappedKeyOffset = cryptoDomain.WrapNonceSize
	BlobOffset       = cryptoDomain.WrapNonceSize + cryptoDomain.KeySize

	// MinEnvelopeSize is the minimum valid vault file length: both key fields
	// plus at least one blob byte. Shorter files are rejected.
	MinEnvelopeSize = BlobOffset + 1
)

// Envelope is the parsed form of a vault file.
type Envelope struct {
	Nonce      []byte // key-wrap nonce, 16 bytes
	WrappedKey []byte // wrapped data key, 32 bytes
	Blob       []byte // authenticated encrypted vault blob
}

// Marshal assembles the fixed-offset file bytes.
func (e *Envelope) Marshal() []byte {
	out := make([]byte, 0, len(e.Nonce)+len(e.WrappedKey)+len(e.Blob))
	out = append(out, e.Nonce...)
	out = append(out, e.WrappedKey...)
	out = append(out, e.Blob...)
	return out
}

// UnmarshalEnvelope parses vault file bytes into an Envelope.
// Returns ErrInvalidReader when the file is shorter than MinEnvelopeSize.
func UnmarshalEnvelope(data []byte) (*Envelope, error) {
	if len(data) < MinEnvelopeSize {
		return nil, ErrInvalidReader
	}
	return &Envelope{
		Nonce:      data[WrapNonceOffset:WrappedKeyOffset],
		WrappedKey: data[WrappedKeyOffset:BlobOffset],
		Blob:       data[BlobOffset:],
	}, nil
}
