package index

import (
	"encoding/binary"
	"errors"
)

// Magic identifies a biglist index file. The trailing byte is the format version.
var Magic = [8]byte{'B', 'i', 'g', 'L', 'i', 's', 't', 0x01}

const (
	// HeaderSize is the encoded size of a Header in bytes.
	HeaderSize = 20

	// FrameSize is the encoded size of a single frame record in bytes.
	FrameSize = 4
)

// ErrStale is returned when index data is not a well-formed index file.
var ErrStale = errors.New("index is stale")

// Header is the fixed-size preamble of an index file.
type Header struct {
	PerFrame   uint16
	TotalLines uint64
	Separator  byte
}

// Frames returns the number of frame records that follow the header.
func (h Header) Frames() uint64 {
	return FrameCount(h.TotalLines, h.PerFrame)
}

// FrameCount returns ceil(totalLines / perFrame).
// A zero perFrame yields zero frames.
func FrameCount(totalLines uint64, perFrame uint16) uint64 {
	if perFrame == 0 {
		return 0
	}
	n := totalLines / uint64(perFrame)
	if totalLines%uint64(perFrame) != 0 {
		n++
	}
	return n
}

// EncodeHeader returns the 20-byte encoding of h.
func EncodeHeader(h Header) []byte {
	return AppendHeader(make([]byte, 0, HeaderSize), h)
}

// AppendHeader appends the encoding of h to dst.
func AppendHeader(dst []byte, h Header) []byte {
	dst = append(dst, Magic[:]...)
	dst = binary.LittleEndian.AppendUint16(dst, h.PerFrame)
	dst = binary.LittleEndian.AppendUint64(dst, h.TotalLines)
	return append(dst, h.Separator, 0)
}

// DecodeHeader decodes the header at the start of b.
// It returns ErrStale if b is shorter than HeaderSize or the magic differs.
func DecodeHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, ErrStale
	}
	if [8]byte(b[:8]) != Magic {
		return Header{}, ErrStale
	}
	return Header{
		PerFrame:   binary.LittleEndian.Uint16(b[8:10]),
		TotalLines: binary.LittleEndian.Uint64(b[10:18]),
		Separator:  b[18],
	}, nil
}

// EncodeFrame returns the 4-byte encoding of a frame span.
func EncodeFrame(numBytes uint32) []byte {
	return AppendFrame(make([]byte, 0, FrameSize), numBytes)
}

// AppendFrame appends the encoding of a frame span to dst.
func AppendFrame(dst []byte, numBytes uint32) []byte {
	return binary.LittleEndian.AppendUint32(dst, numBytes)
}

// DecodeFrame decodes the frame span at the start of b.
// It returns ErrStale if b is shorter than FrameSize.
func DecodeFrame(b []byte) (uint32, error) {
	if len(b) < FrameSize {
		return 0, ErrStale
	}
	return binary.LittleEndian.Uint32(b), nil
}
