package wire

import (
	"testing"
)

func BenchmarkF64s(b *testing.B) {
	buf := AppendF64s(nil, make([]float64, 256)...)
	b.ReportAllocs()
	b.SetBytes(int64(len(buf)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = F64s(buf, 0, 256)
	}
}

func BenchmarkText16(b *testing.B) {
	buf := AppendText16(nil, "Extrusion Feature Name")
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = Text16(buf, 0)
	}
}
