package isa

import (
	"fmt"
	"io"
)

// Data is an unsigned value of a specific size.
type Data struct {
	Size  Size
	Value uint64
}

// MakeData creates a sized value, truncating value to size.
func MakeData(size Size, value uint64) Data {
	return Data{Size: size, Value: value & size.Mask()}
}

// DataFromBytes reassembles a little-endian byte sequence of 1, 2, 4 or 8 bytes.
func DataFromBytes(buf []byte) (data Data, err error) {
	size, err := SizeFromBytes(len(buf))
	if err != nil {
		return
	}

	var value uint64
	for n, b := range buf {
		value |= uint64(b) << (8 * n)
	}

	data = Data{Size: size, Value: value}
	return
}

// ReadData reads a little-endian value of the given size.
func ReadData(r io.Reader, size Size) (data Data, err error) {
	var buf [8]byte
	_, err = io.ReadFull(r, buf[:size.Bytes()])
	if err != nil {
		return
	}

	return DataFromBytes(buf[:size.Bytes()])
}

// Resize truncates or zero-extends the value to a new size.
func (data Data) Resize(size Size) Data {
	return MakeData(size, data.Value)
}

// AppendBytes appends the little-endian bytes of the value.
func (data Data) AppendBytes(buf []byte) []byte {
	for n := range data.Size.Bytes() {
		buf = append(buf, byte(data.Value>>(8*n)))
	}
	return buf
}

// Bytes returns the little-endian bytes of the value.
func (data Data) Bytes() []byte {
	return data.AppendBytes(make([]byte, 0, data.Size.Bytes()))
}

func (data Data) String() string {
	return fmt.Sprintf("%#x", data.Value)
}
