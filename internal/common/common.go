package common

import "unsafe"

// Fixed is the set of scalar types with a fixed little-endian wire width.
type Fixed interface {
	~bool | ~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 |
		~int64 | ~uint64 | ~float32 | ~float64
}

// SizeOf returns the byte width of T on the wire, which for every Fixed type
// is its in-memory size.
func SizeOf[T Fixed]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// Remaining returns the number of bytes left in buf at off, or 0 when off is
// outside the buffer.
func Remaining(buf []byte, off int) int {
	if off < 0 || off > len(buf) {
		return 0
	}
	return len(buf) - off
}

// Need reports whether n bytes can be read from buf at off.
func Need(buf []byte, off, n int) bool {
	return n >= 0 && off >= 0 && off <= len(buf) && n <= len(buf)-off
}

// Fits reports whether count elements of width bytes can be read from buf at
// off. It never multiplies, so a hostile count cannot overflow.
func Fits(buf []byte, off, count, width int) bool {
	if count < 0 || width <= 0 {
		return count == 0
	}
	return count <= Remaining(buf, off)/width && Need(buf, off, 0)
}

// Span returns count*width clamped to the int range, for error reporting.
func Span(count, width int) int64 {
	return int64(count) * int64(width)
}
