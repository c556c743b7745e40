package codec

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
)

// Field widths of the packed little-endian primitives.
const (
	Uint32Size    = 4
	Int32Size     = 4
	Uint64Size    = 8
	PublicKeySize = 32
)

// Reader is a forward-only cursor over a packed little-endian buffer.
type Reader struct {
	buf []byte
	off int
}

// NewReader returns a Reader positioned at the start of buf.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int {
	return r.off
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.off
}

// ReadBytes returns the next n bytes and advances the cursor.
// The returned slice aliases the underlying buffer.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || r.Remaining() < n {
		return nil, &TruncatedInputError{Offset: r.off, Need: n, Have: r.Remaining()}
	}
	out := r.buf[r.off : r.off+n]
	r.off += n
	return out, nil
}

// Uint32 reads an unsigned little-endian 32-bit integer.
func (r *Reader) Uint32() (uint32, error) {
	b, err := r.ReadBytes(Uint32Size)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// Int32 reads a signed little-endian 32-bit integer (two's complement).
func (r *Reader) Int32() (int32, error) {
	b, err := r.ReadBytes(Int32Size)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

// Uint64 reads an unsigned little-endian 64-bit integer.
func (r *Reader) Uint64() (uint64, error) {
	b, err := r.ReadBytes(Uint64Size)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// PublicKey reads a 32-byte opaque account key.
func (r *Reader) PublicKey() (solana.PublicKey, error) {
	b, err := r.ReadBytes(PublicKeySize)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return solana.PublicKeyFromBytes(b), nil
}
