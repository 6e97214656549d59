package layout

import (
	cerrors "github.com/cockroachdb/errors"
)

// AFBCSliceLayout is the AFBC-specific part of a mip level's layout.
type AFBCSliceLayout struct {
	// HeaderSizeB is the size in bytes of the header region of one
	// surface, before body alignment.
	HeaderSizeB uint32

	// BodyOffsetB is the offset from the surface start to the body region:
	// HeaderSizeB rounded up to the body alignment.
	BodyOffsetB uint32

	// BodySizeB is the payload size in bytes of one surface.
	BodySizeB uint64

	// SurfaceStrideB is the stride between two consecutive surfaces. For
	// 3D images headers and bodies are interleaved per depth slice, so
	// this covers one header region plus one body region.
	SurfaceStrideB uint64
}

// CRCSliceLayout locates the checksum region that follows a mip level when
// transaction elimination is enabled.
type CRCSliceLayout struct {
	OffsetB uint64
	StrideB uint32
	SizeB   uint32
}

// SliceLayout is the computed geometry of one mip level of one image plane.
type SliceLayout struct {
	// OffsetB is the offset in bytes relative to the plane base. Explicit
	// image subresource reporting requires plane offsets to be folded in
	// here rather than hidden in the memory binding, so native and
	// imported images share one code path.
	OffsetB uint64

	// SizeB is the total size of the mip level in bytes, including any
	// checksum region.
	SizeB uint64

	// RowStrideB is the stride between rows of texels for linear images,
	// rows of tiles for u-interleaved/AFRC images, and rows of AFBC
	// headers for AFBC images.
	RowStrideB uint32

	// SurfaceStrideB is the stride between array layers, depth slices or
	// samples within the mip level.
	SurfaceStrideB uint64

	AFBC AFBCSliceLayout
	CRC  CRCSliceLayout
}

// ImageLayout is the computed layout of one image plane: one SliceLayout per
// mip level plus the strides that separate layers. Produced once by
// ImageLayoutInit and immutable thereafter.
type ImageLayout struct {
	Slices [MaxMipLevels]SliceLayout

	// DataSizeB is the total plane data size in bytes.
	DataSizeB uint64

	// ArrayStrideB separates array layers (and cube faces); the whole mip
	// tree is duplicated per layer.
	ArrayStrideB uint64

	// AFBCMode is the canonical compression mode of the plane for AFBC
	// images, ModeInvalid otherwise.
	AFBCMode AFBCMode

	nrSlices uint32
}

// NrSlices returns the number of mip levels laid out in l.
func (l *ImageLayout) NrSlices() uint32 { return l.nrSlices }

// Validate runs internal consistency checks on a computed layout. When the
// engine is functioning correctly this cannot fail; it exists so layouts can
// be checked under the debug_img_utils build tag.
func (l *ImageLayout) Validate() error {
	var end uint64
	for level := uint32(0); level < l.nrSlices; level++ {
		slice := &l.Slices[level]
		if slice.SizeB == 0 {
			return cerrors.Newf("level %d has zero size", level)
		}
		if level > 0 && slice.OffsetB < end {
			return cerrors.Newf("level %d at offset %d overlaps previous level ending at %d",
				level, slice.OffsetB, end)
		}
		end = slice.OffsetB + slice.SizeB
	}

	if l.ArrayStrideB%64 != 0 {
		return cerrors.Newf("array stride %d not 64-byte aligned", l.ArrayStrideB)
	}

	return nil
}
