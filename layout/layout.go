package layout

// Package layout computes the memory placement of Mali GPU images: per mip
// level offsets, strides and sizes for linear, u-interleaved, AFBC and AFRC
// images, plus the checksum regions used for transaction elimination. The
// engine only does arithmetic; it never touches image memory.

import (
	cerrors "github.com/cockroachdb/errors"

	"github.com/panforge/maliimage/format"
	"github.com/panforge/maliimage/imgutils"
)

// Checksumming (transaction elimination) stores 8 bytes per 16x16 tile,
// believed to be a CRC variant. CRC values are prefetched by 32x32 regions
// (64x64 on v12 onwards), so the region is sized in those units.
const (
	checksumTileWidth    = 16
	checksumTileHeight   = 16
	checksumBytesPerTile = 8
)

// metaTileSize returns the CRC prefetch region size in pixels.
func metaTileSize(arch uint32) uint32 {
	if arch >= 12 {
		return 64
	}
	return 32
}

func initSliceCRCInfo(arch uint32, slice *SliceLayout, widthPx, heightPx uint32, offsetB uint64) {
	regionSizePx := metaTileSize(arch)
	xTilePerRegion := regionSizePx / checksumTileWidth
	yTilePerRegion := regionSizePx / checksumTileHeight

	tileCountX := xTilePerRegion * imgutils.DivRoundUp(widthPx, regionSizePx)
	tileCountY := yTilePerRegion * imgutils.DivRoundUp(heightPx, regionSizePx)

	slice.CRC.OffsetB = offsetB
	slice.CRC.StrideB = tileCountX * checksumBytesPerTile
	slice.CRC.SizeB = slice.CRC.StrideB * tileCountY
}

// ImageLayoutInit computes the layout of one plane of an image described by
// props and writes it into l. constraints is nil for fully native images;
// a non-nil constraints with a zero WSIRowPitchB only seeds the plane
// offset, while a non-zero WSIRowPitchB switches to explicit mode and
// validates the caller-supplied pitch and offset instead of choosing them.
func ImageLayoutInit(dev *DeviceProps, props *ImageProps, planeIdx uint32,
	constraints *Constraints, l *ImageLayout) error {

	imgutils.DebugValidate(props)

	handler := GetHandler(dev.Arch, props.Modifier)
	if handler == nil {
		return cerrors.Wrapf(ErrModifierUnsupported,
			"modifier %#x on v%d", uint64(props.Modifier), dev.Arch)
	}

	if planeIdx >= format.NumPlanes(props.Format) {
		return cerrors.Wrapf(ErrInvalidPlane, "plane %d of %s",
			planeIdx, props.Format)
	}

	var local Constraints
	if constraints != nil {
		local = *constraints
	}

	explicit := local.WSIRowPitchB != 0

	// Explicit strides only work for non-mipmapped, non-array,
	// single-sample 2D images without CRC; WSI producers never hand out
	// anything else.
	if explicit &&
		(props.ExtentPx.Depth > 1 || props.NrSamples > 1 ||
			props.ArraySize > 1 || props.Dim != Dim2D ||
			props.NrSlices > 1 || props.CRC) {
		return cerrors.Wrapf(ErrExplicitLayoutUnsupported,
			"levels=%d layers=%d samples=%d depth=%d dim=%d crc=%t",
			props.NrSlices, props.ArraySize, props.NrSamples,
			props.ExtentPx.Depth, props.Dim, props.CRC)
	}

	l.AFBCMode = AFBCModeInvalid
	if pli, ok := handler.(planeLayoutIniter); ok {
		if err := pli.InitPlaneLayout(dev, props, planeIdx, l); err != nil {
			return err
		}
	}

	// MSAA is implemented as a 3D texture with z corresponding to the
	// sample index, horrifyingly enough.
	mipExtentPx := Extent{
		Width:  format.PlaneWidth(props.Format, planeIdx, props.ExtentPx.Width),
		Height: format.PlaneHeight(props.Format, planeIdx, props.ExtentPx.Height),
		Depth:  props.ExtentPx.Depth,
	}

	for level := uint32(0); level < props.NrSlices; level++ {
		slice := &l.Slices[level]

		err := handler.InitSliceLayout(dev, props, planeIdx, mipExtentPx, &local, slice)
		if err != nil {
			return cerrors.Wrapf(err, "level %d", level)
		}

		local.OffsetB += slice.SizeB

		// Append a checksum region when requested.
		if props.CRC {
			initSliceCRCInfo(dev.Arch, slice, mipExtentPx.Width,
				mipExtentPx.Height, local.OffsetB)
			local.OffsetB += uint64(slice.CRC.SizeB)
			slice.SizeB += uint64(slice.CRC.SizeB)
		}

		mipExtentPx.Width = imgutils.Minify(mipExtentPx.Width, 1)
		mipExtentPx.Height = imgutils.Minify(mipExtentPx.Height, 1)
		mipExtentPx.Depth = imgutils.Minify(mipExtentPx.Depth, 1)
	}

	l.nrSlices = props.NrSlices

	// Arrays and cubemaps duplicate the entire mip tree.
	l.ArrayStrideB = imgutils.AlignUp(local.OffsetB-l.Slices[0].OffsetB, 64)
	if explicit {
		l.DataSizeB = local.OffsetB - constraints.OffsetB
	} else {
		// Native images start at offset 0 and planar plane offsets are
		// page aligned, so the base slice offset matches the plane
		// offset and sizing from the array stride is exact.
		l.DataSizeB = imgutils.AlignUp(
			l.ArrayStrideB*uint64(props.ArraySize), 4096)
	}

	imgutils.DebugValidate(l)
	return nil
}

// SurfaceStride returns the distance in bytes between consecutive surfaces
// (array layers, depth slices or samples) of a mip level.
func SurfaceStride(props *ImageProps, l *ImageLayout, level uint32) uint64 {
	if props.Dim != Dim3D {
		return l.ArrayStrideB
	}
	return l.Slices[level].SurfaceStrideB
}

// SurfaceOffset returns the offset in bytes of one surface of a mip level,
// selected by array index and depth/sample index.
func SurfaceOffset(l *ImageLayout, level, arrayIdx, surfaceIdx uint32) uint64 {
	slice := &l.Slices[level]
	return slice.OffsetB + uint64(arrayIdx)*l.ArrayStrideB +
		uint64(surfaceIdx)*slice.SurfaceStrideB
}

// MipLevelSize returns the size in bytes of a mip level across the whole
// array.
func MipLevelSize(props *ImageProps, l *ImageLayout, level uint32) uint64 {
	size := l.Slices[level].SizeB

	if props.ArraySize > 1 {
		size += l.ArrayStrideB * uint64(props.ArraySize-1)
	}

	return size
}
