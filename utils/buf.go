package utils

import (
	"encoding/binary"
	"errors"
	"math/big"
)

// OutputBuf builds the little-endian framed blobs exchanged with the proving
// backend. Big integers are stored little-endian with a fixed byte length.
type OutputBuf struct {
	buf []byte
}

func (o *OutputBuf) AppendBigInt(nbBytes int, x *big.Int) {
	zbuf := make([]byte, nbBytes)
	b := x.Bytes()
	for i := 0; i < len(b); i++ {
		zbuf[i] = b[len(b)-i-1]
	}
	o.buf = append(o.buf, zbuf...)
}

func (o *OutputBuf) AppendUint32(x uint32) {
	o.buf = binary.LittleEndian.AppendUint32(o.buf, x)
}

func (o *OutputBuf) AppendUint64(x uint64) {
	o.buf = binary.LittleEndian.AppendUint64(o.buf, x)
}

func (o *OutputBuf) Bytes() []byte {
	return o.buf
}

// ErrShortBuffer is returned by InputBuf reads past the end of the blob.
var ErrShortBuffer = errors.New("short buffer")

// InputBuf reads back blobs produced by OutputBuf.
type InputBuf struct {
	buf []byte
}

func NewInputBuf(buf []byte) *InputBuf {
	return &InputBuf{buf: buf}
}

func (i *InputBuf) ReadUint32() (uint32, error) {
	if len(i.buf) < 4 {
		return 0, ErrShortBuffer
	}
	x := binary.LittleEndian.Uint32(i.buf[:4])
	i.buf = i.buf[4:]
	return x, nil
}

func (i *InputBuf) ReadUint64() (uint64, error) {
	if len(i.buf) < 8 {
		return 0, ErrShortBuffer
	}
	x := binary.LittleEndian.Uint64(i.buf[:8])
	i.buf = i.buf[8:]
	return x, nil
}

func (i *InputBuf) ReadBigInt(nbBytes int) (*big.Int, error) {
	if len(i.buf) < nbBytes {
		return nil, ErrShortBuffer
	}
	zbuf := make([]byte, nbBytes)
	for j := 0; j < nbBytes; j++ {
		zbuf[j] = i.buf[nbBytes-1-j]
	}
	i.buf = i.buf[nbBytes:]
	return new(big.Int).SetBytes(zbuf), nil
}

func (i *InputBuf) Remaining() int {
	return len(i.buf)
}
