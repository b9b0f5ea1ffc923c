package catalog

import (
	"github.com/rawbytedev/partgraph/pkg/dispatch"
)

var scene = []layout{
	{0x120284EF, "", read120284EF},
	{0x13FC8170, "", read13FC8170},
	{0x5194E9A3, "Surface", readSurface},
	{0x6C6322EB, "", read6C6322EB},
	{0x950A4A74, "", read950A4A74},
	{0xA529D1E2, "", readA529D1E2},
	{0xA79EACCB, "", readA79EACCB},
	{0xA79EACCF, "3dObject", read3dObject},
	{0xA79EACD2, "", readA79EACD2},
	{0xB91E695F, "", readB91E695F},
}

func read120284EF(rec *dispatch.Record, i int) (int, error) {
	i = rec.HeaderSU32S(i, "")
	i = rec.U8(i, "u8_0")
	i = rec.SkipBlockSize(i)
	i = rec.List(i, refs, "lst0")
	return i, rec.Err()
}

func read13FC8170(rec *dispatch.Record, i int) (int, error) {
	i = rec.HeaderSU32S(i, "")
	i = rec.U8(i, "u8_0")
	i = rec.SkipBlockSize(i)
	i = rec.U8(i, "u8_1")
	return i, rec.Err()
}

func readSurface(rec *dispatch.Record, i int) (int, error) {
	i = header32RRR2(rec, i, "")
	i = rec.List(i, refs, "lst0")
	i = rec.U8(i, "u8_0")
	i = rec.SkipBlockSizeN(i, 8)
	i = rec.F64A(i, 3, "a2")
	i = rec.F64A(i, 3, "a3")
	i = rec.SkipBlockSize(i)
	i = rec.U32(i, "index")
	i = rec.U32A(i, 2, "a4")
	return i, rec.Err()
}

func read6C6322EB(rec *dispatch.Record, i int) (int, error) {
	i = rec.HeaderSU32S(i, "")
	i = rec.U8(i, "u8_0")
	i = rec.SkipBlockSize(i)
	i = rec.U32(i, "u32_1")
	i = rec.List(i, u32s, "lst0")
	i = rec.SkipBlockSize(i)
	i = rec.U8(i, "u8_1")
	i = rec.SkipBlockSize(i)
	return i, rec.Err()
}

func read950A4A74(rec *dispatch.Record, i int) (int, error) {
	i = rec.U32A(i, 3, "a0")
	return i, rec.Err()
}

func readA529D1E2(rec *dispatch.Record, i int) (int, error) {
	i = headerU32RefU8List(rec, i, "", "lst0")
	return i, rec.Err()
}

func readA79EACCB(rec *dispatch.Record, i int) (int, error) {
	i = rec.Header0(i, "")
	i = rec.U32(i, "flags")
	i = rec.ChildRef(i, "ref0")
	i = rec.U32(i, "u32_0")
	i = rec.ParentRef(i)
	i = rec.U32(i, "u32_1")
	i = rec.SkipBlockSize(i)
	i = rec.List(i, points3, "lst0")
	i = rec.U8(i, "u8_0")
	return i, rec.Err()
}

func read3dObject(rec *dispatch.Record, i int) (int, error) {
	i = rec.Header0(i, "")
	i = rec.U32(i, "flags")
	i = rec.ChildRef(i, "styles")
	i = rec.ChildRef(i, "ref1")
	i = rec.CrossRef(i, "ref2")
	i = rec.CrossRef(i, "xstyles")
	i = rec.SkipBlockSize(i)
	i = rec.List(i, refs, "lst0")
	i = rec.U8(i, "u8_0")
	return i, rec.Err()
}

func readA79EACD2(rec *dispatch.Record, i int) (int, error) {
	i = rec.Header0(i, "")
	i = rec.U32(i, "flags")
	i = rec.ChildRef(i, "ref0")
	i = rec.ChildRef(i, "ref1")
	i = rec.ParentRef(i)
	i = rec.CrossRef(i, "styles")
	i = rec.SkipBlockSize(i)
	i = rec.List(i, points3, "lst0")
	i = rec.List(i, pairs16, "lst1")
	i = rec.List(i, points3, "lst2")
	i = rec.List(i, points2, "lst3")
	i = rec.U16A(i, 2, "a0")
	i = rec.List(i, refs, "lst4")
	i = rec.F32A(i, 2, "a1")
	return i, rec.Err()
}

func readB91E695F(rec *dispatch.Record, i int) (int, error) {
	i = rec.Header0(i, "")
	i = rec.U32A(i, 2, "a0")
	i = rec.U8(i, "u8_0")
	i = rec.SkipBlockSize(i)
	i = rec.U32A(i, 3, "a1")
	i = rec.U8(i, "u8_1")
	i = rec.U32A(i, 4, "a2")
	i = rec.U16(i, "u16_0")
	i = rec.U32A(i, 5, "a3")
	i = rec.List(i, samples, "lst0")
	i = rec.SkipBlockSize(i)
	i = rec.Vec2(i, "a4")
	i = rec.SkipBlockSizeN(i, 8)
	i = rec.U32(i, "u32_0")
	return i, rec.Err()
}
