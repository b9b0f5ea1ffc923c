package catalog

import (
	"github.com/rawbytedev/partgraph/pkg/dispatch"
)

var graphics = []layout{
	{0x022AC1B1, "", read022AC1B1},
	{0x022AC1B5, "PartDrawAttr", readPartDrawAttr},
	{0x0244393C, "", read0244393C},
	{0x0270FFC7, "", read0270FFC7},
	{0x03E3D90B, "SurfaceCylinder", readSurfaceCylinder},
	{0x04F234D9, "", empty},
	{0x05CE4AC7, "", readHeader0},
	{0x0B2C8AE9, "", read0B2C8AE9},
	{0x0BC8EA6D, "KeyRef", readKeyRef},
	{0x12A31E33, "", read12A31E33},
	{0x14533D82, "WrkPlane", readWrkPlane},
	{0x2C7020F6, "WrkAxis", readWrkAxis},
	{0x2C7020F8, "WrkPoint", readWrkPoint},
	{0x37DB9D1E, "SurfacePlane", readSurfacePlane},
	{0x3D953EB2, "", readParentPair},
	{0x3EA856AC, "", readParentPair},
	{0x4AD05620, "KeyRef", readKeyRef},
	{0x4B26ED59, "Mesh", readMeshPart},
	{0x4B57DC55, "2dCircle", readCircle},
	{0x4E951290, "", read4E951290},
	{0x4E951291, "", read4E951291},
	{0x50E809CD, "Points", readPoints},
	{0x5EDE1890, "Mesh", readMesh},
	{0x60FD1845, "Sketch2D", readSketch2D},
	{0x651117CE, "MeshTriangleNormals", readMeshTriangleNormals},
	{0x698CF98E, "", empty},
	{0xDEF9AD03, "MeshTriangleIndices", readMeshTriangleIndices},
}

func readHeader0(rec *dispatch.Record, i int) (int, error) {
	i = rec.Header0(i, "")
	return i, rec.Err()
}

func read022AC1B1(rec *dispatch.Record, i int) (int, error) {
	i = rec.U8(i, "u8")
	i = rec.List(i, refs, "lst0")
	return i, rec.Err()
}

// readPartDrawAttr carries a reference list from 2015 on; older files have
// two u16 in its place.
func readPartDrawAttr(rec *dispatch.Record, i int) (int, error) {
	i = rec.HeaderSU32S(i, "")
	i = rec.U8(i, "u8_0")
	i = rec.SkipBlockSize(i)
	i = rec.U32(i, "u32_1")
	if rec.Version() >= 2015 {
		i = rec.List(i, refs, "lst0")
	} else {
		i = rec.U16A(i, 2, "a1")
	}
	i = rec.U16A(i, 3, "a2")
	i = colorAttr(rec, i)
	i = rec.SkipBlockSize(i)
	i = rec.U16A(i, 2, "a0")
	return i, rec.Err()
}

func read0244393C(rec *dispatch.Record, i int) (int, error) {
	i = rec.HeaderSU32S(i, "")
	i = rec.U8(i, "u8_0")
	i = rec.SkipBlockSize(i)
	i = rec.U32(i, "keyRef")
	return i, rec.Err()
}

func read0270FFC7(rec *dispatch.Record, i int) (int, error) {
	i = rec.HeaderSU32S(i, "")
	i = rec.U8(i, "u8_0")
	i = rec.SkipBlockSize(i)
	i = rec.U32(i, "u32_1")
	i = rec.List(i, refs, "lst0")
	i = rec.SkipBlockSize(i)
	i = rec.U8(i, "u8_1")
	i = rec.SkipBlockSize(i)
	i = rec.U8(i, "u8_2")
	return i, rec.Err()
}

func readSurfaceCylinder(rec *dispatch.Record, i int) (int, error) {
	i = rec.HeaderParent(i, "")
	i = rec.List(i, pairs32s, "lst0")
	i = rec.U32(i, "u32_0")
	i = rec.U8(i, "u8_0")
	i = rec.SkipBlockSize(i)
	i = rec.Vec3(i, "vec_1")
	i = rec.Vec3(i, "vec_2")
	return i, rec.Err()
}

func read0B2C8AE9(rec *dispatch.Record, i int) (int, error) {
	i = rec.SkipBlockSize(i)
	i = rec.U16A(i, 4, "a0")
	return i, rec.Err()
}

func readKeyRef(rec *dispatch.Record, i int) (int, error) {
	i = rec.HeaderParent(i, "")
	i = rec.U32(i, "key")
	return i, rec.Err()
}

func read12A31E33(rec *dispatch.Record, i int) (int, error) {
	i = rec.HeaderSU32S(i, "")
	i = rec.U8(i, "u8_0")
	i = rec.SkipBlockSize(i)
	i = rec.U32(i, "u32_1")
	i = rec.List(i, refs, "lst0")
	i = colorAttr(rec, i)
	i = rec.SkipBlockSize(i)
	i = rec.U16A(i, 5, "a0")
	i = rec.U8(i, "u8_1")
	i = rec.U16A(i, 8, "a1")
	i = rec.SkipBlockSizeN(i, 8)
	return i, rec.Err()
}

// workFeature reads the body shared by work planes, axes and points. The
// index key makes the feature reachable from the sketch segments.
func workFeature(rec *dispatch.Record, i int) int {
	i = headerU32RefU8List(rec, i, "", "lst0")
	i = rec.ChildRef(i, "ref_1")
	i = rec.SkipBlockSize(i)
	i = rec.U32(i, "u32_1")
	i = rec.U32(i, "index")
	return rec.Index(i, "indexDC")
}

func readWrkPlane(rec *dispatch.Record, i int) (int, error) {
	i = workFeature(rec, i)
	i = rec.F64A(i, 6, "a1")
	i = transformation(rec, i)
	i = rec.U8A(i, 3, "a3")
	return i, rec.Err()
}

func readWrkAxis(rec *dispatch.Record, i int) (int, error) {
	i = workFeature(rec, i)
	i = transformation(rec, i)
	i = rec.U8A(i, 3, "a3")
	return i, rec.Err()
}

func readWrkPoint(rec *dispatch.Record, i int) (int, error) {
	i = workFeature(rec, i)
	i = transformation(rec, i)
	i = rec.U8A(i, 2, "a3")
	return i, rec.Err()
}

func readSurfacePlane(rec *dispatch.Record, i int) (int, error) {
	rec.SetTypeName("SurfacePlane")
	i = rec.SkipBlockSizeN(i, 8)
	i = rec.ParentRef(i)
	i = rec.SkipBlockSize(i)
	i = rec.List(i, pairs32s, "lst0")
	return i, rec.Err()
}

func readParentPair(rec *dispatch.Record, i int) (int, error) {
	i = rec.HeaderParent(i, "")
	i = rec.U32A(i, 2, "a0")
	return i, rec.Err()
}

// readMeshPart has four bytes of 0xFF after the index key from 2018 on.
func readMeshPart(rec *dispatch.Record, i int) (int, error) {
	i = headerU32RefU8List(rec, i, "", "parts")
	i = rec.ParentRef(i)
	i = rec.U32(i, "u32_1")
	i = rec.Index(i, "indexDC")
	if rec.Version() > 2017 {
		i = rec.Skip(i, 4)
	}
	return i, rec.Err()
}

func readCircle(rec *dispatch.Record, i int) (int, error) {
	i = header32RRR2(rec, i, "")
	i = rec.Vec3(i, "m")
	i = rec.F64(i, "f64_0")
	i = rec.F64(i, "r")
	i = rec.F64(i, "alpha")
	i = rec.F64(i, "beta")
	return i, rec.Err()
}

func read4E951290(rec *dispatch.Record, i int) (int, error) {
	i = rec.Header0(i, "")
	i = rec.List(i, refs, "lst0")
	return i, rec.Err()
}

func read4E951291(rec *dispatch.Record, i int) (int, error) {
	i = rec.Header0(i, "")
	i = rec.List(i, xrefs, "lst0")
	i = rec.Text(i, "txt0")
	return i, rec.Err()
}

func readPoints(rec *dispatch.Record, i int) (int, error) {
	i = header32RRR2(rec, i, "")
	i = rec.List(i, points3, "points")
	i = rec.U8(i, "u8_0")
	i = rec.SkipBlockSize(i)
	i = rec.List(i, pairs16, "lst1")
	return i, rec.Err()
}

func readMesh(rec *dispatch.Record, i int) (int, error) {
	i = headerU32RefU8List(rec, i, "", "parts")
	i = rec.Text(i, "meshId")
	i = rec.U32(i, "u32_1")
	i = rec.ChildRef(i, "ref_1")
	return i, rec.Err()
}

func readSketch2D(rec *dispatch.Record, i int) (int, error) {
	i = headerU32RefU8List(rec, i, "", "lst0")
	i = rec.ChildRef(i, "ref_1")
	i = rec.SkipBlockSize(i)
	i = rec.U8(i, "u8_1")
	i = rec.SkipBlockSize(i)
	i = rec.U32(i, "key")
	i = transformation(rec, i)
	i = rec.List(i, refMap, "lst1")
	i = rec.List(i, refMap, "lst2")
	i = rec.U8(i, "u8_2")
	i = rec.List(i, refMap, "lst3")
	i = rec.U32(i, "u32_0")
	return i, rec.Err()
}

// meshTail is the u32 and, after 2013, the key map closing mesh records.
func meshTail(rec *dispatch.Record, i int) int {
	i = rec.U32(i, "u32_1")
	if rec.Version() > 2013 {
		return rec.List(i, refMap, "lst1")
	}
	return i
}

func readMeshTriangleNormals(rec *dispatch.Record, i int) (int, error) {
	i = rec.Header0(i, "")
	i = rec.List(i, points3, "normals")
	i = meshTail(rec, i)
	return i, rec.Err()
}

func readMeshTriangleIndices(rec *dispatch.Record, i int) (int, error) {
	i = rec.Header0(i, "")
	i = rec.List(i, u32s, "indices")
	i = meshTail(rec, i)
	return i, rec.Err()
}
