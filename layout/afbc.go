package layout

import (
	"fmt"

	"github.com/panforge/maliimage/drm"
	"github.com/panforge/maliimage/format"
	"github.com/panforge/maliimage/imgutils"
)

// Arm FrameBuffer Compression (AFBC) is a lossless compression scheme
// natively implemented in Mali GPUs and many display controllers paired with
// them. An AFBC plane is a single contiguous buffer split into a header
// region and a body region. The header carries 16 bytes of metadata per
// superblock; the body holds the compressed superblock payloads. The engine
// never interprets payload data, it only has to place and size the regions.

// AFBCHeaderBytesPerTile is the size of one superblock header block.
const AFBCHeaderBytesPerTile = 16

// AFBCMode is the canonical compression mode of a plane. The ordering
// matches the Valhall hardware enum, but the enum is needed in software on
// older hardware too for correct handling of texture views.
type AFBCMode uint8

const (
	AFBCModeR8 AFBCMode = iota
	AFBCModeR8G8
	AFBCModeR5G6B5
	AFBCModeR4G4B4A4
	AFBCModeR5G5B5A1
	AFBCModeR8G8B8
	AFBCModeR8G8B8A8
	AFBCModeR10G10B10A2
	AFBCModeR11G11B10
	AFBCModeS8

	AFBCModeYUV420_6C8
	AFBCModeYUV420_2C8
	AFBCModeYUV420_1C8
	AFBCModeYUV420_6C10
	AFBCModeYUV420_2C10
	AFBCModeYUV420_1C10

	AFBCModeYUV422_4C8
	AFBCModeYUV422_2C8
	AFBCModeYUV422_1C8
	AFBCModeYUV422_4C10
	AFBCModeYUV422_2C10
	AFBCModeYUV422_1C10

	// AFBCModeInvalid signals a format that cannot be compressed.
	AFBCModeInvalid
)

// AFBCSuperblockSize returns the superblock size in pixels selected by the
// modifier.
func AFBCSuperblockSize(mod drm.Modifier) BlockExtent {
	switch mod & drm.AFBCBlockSizeMask {
	case drm.AFBCBlockSize16x16:
		return BlockExtent{Width: 16, Height: 16}
	case drm.AFBCBlockSize32x8:
		return BlockExtent{Width: 32, Height: 8}
	case drm.AFBCBlockSize64x4:
		return BlockExtent{Width: 64, Height: 4}
	default:
		panic(fmt.Sprintf("unsupported AFBC block size in modifier %#x", uint64(mod)))
	}
}

// afbcSuperblockSizeEl is AFBCSuperblockSize counted in texel blocks instead
// of pixels. For anything non-YUV this is the same.
func afbcSuperblockSizeEl(mod drm.Modifier, f format.PixelFormat) BlockExtent {
	sb := AFBCSuperblockSize(mod)
	return BlockExtent{
		Width:  sb.Width / format.BlockWidth(f),
		Height: sb.Height / format.BlockHeight(f),
	}
}

// AFBCRenderblockSize returns the effective block size for rendering. The
// GPU renders 16x16 tiles, so wide superblocks extend the render region to a
// height of 16 pixels.
func AFBCRenderblockSize(mod drm.Modifier) BlockExtent {
	blk := AFBCSuperblockSize(mod)
	blk.Height = imgutils.AlignUp(blk.Height, 16)
	return blk
}

// AFBCIsWide reports whether the modifier uses superblocks wider than the
// minimum 16 pixels.
func AFBCIsWide(mod drm.Modifier) bool {
	return AFBCSuperblockSize(mod).Width > 16
}

// afbcSubblockSize returns the subdivision of a superblock. Always 4x4 for
// the superblock layouts in use.
func afbcSubblockSize(mod drm.Modifier) BlockExtent {
	return BlockExtent{Width: 4, Height: 4}
}

// AFBCTileSize returns the superblock tiling factor: 8 when headers are
// grouped into 8x8 tiles, 1 otherwise.
func AFBCTileSize(mod drm.Modifier) uint32 {
	if mod&drm.AFBCTiled != 0 {
		return 8
	}
	return 1
}

// AFBCRowStride returns the number of bytes between header rows for an image
// of the given width in pixels. With tiled headers a "row" covers a full
// tile of header rows.
func AFBCRowStride(mod drm.Modifier, widthPx uint32) uint32 {
	return (widthPx / AFBCSuperblockSize(mod).Width) * AFBCTileSize(mod) *
		AFBCHeaderBytesPerTile
}

// AFBCStrideBlocks converts a header row stride in bytes to a line stride in
// header blocks, as programmed on Bifrost onwards.
func AFBCStrideBlocks(mod drm.Modifier, rowStrideB uint32) uint32 {
	return rowStrideB / (AFBCHeaderBytesPerTile * AFBCTileSize(mod))
}

// AFBCHeightBlocks returns a height in superblocks, padded to the tile
// alignment the modifier requires.
func AFBCHeightBlocks(mod drm.Modifier, heightPx uint32) uint32 {
	return imgutils.AlignUp(
		imgutils.DivRoundUp(heightPx, AFBCSuperblockSize(mod).Height),
		AFBCTileSize(mod))
}

// AFBCHeaderRowStrideAlign returns the required alignment of the header row
// stride in bytes.
func AFBCHeaderRowStrideAlign(arch uint32, f format.PixelFormat, mod drm.Modifier) uint32 {
	if arch <= 7 || mod&drm.AFBCTiled == 0 {
		return 16
	}

	if format.BlockSizeBits(f) <= 32 {
		return 1024
	}
	return 256
}

// AFBCHeaderAlign returns the required alignment of the header region in
// bytes.
func AFBCHeaderAlign(arch uint32, mod drm.Modifier) uint32 {
	switch {
	case mod&drm.AFBCTiled != 0:
		return 4096
	case arch >= 6:
		return 128
	default:
		return 64
	}
}

// AFBCBodyAlign returns the required alignment of the body region in bytes.
// Body and header alignments are the same on all current GPUs.
func AFBCBodyAlign(arch uint32, mod drm.Modifier) uint32 {
	return AFBCHeaderAlign(arch, mod)
}

// AFBCBodyOffset returns the body offset for a given header region size.
func AFBCBodyOffset(arch uint32, mod drm.Modifier, headerSizeB uint32) uint32 {
	return imgutils.AlignUp(headerSizeB, AFBCBodyAlign(arch, mod))
}

// afbcUnswizzledFormat maps component-swizzled formats onto the canonical
// layout AFBC compresses. Swizzling is handled orthogonally to compression.
func afbcUnswizzledFormat(arch uint32, f format.PixelFormat) format.PixelFormat {
	switch f {
	case format.A8Unorm, format.L8Unorm, format.I8Unorm:
		return format.R8Unorm

	case format.L8A8Unorm:
		return format.R8G8Unorm

	case format.B8G8R8Unorm:
		return format.R8G8B8Unorm

	case format.R8G8B8X8Unorm, format.B8G8R8A8Unorm, format.B8G8R8X8Unorm:
		return format.R8G8B8A8Unorm
	case format.A8R8G8B8Unorm, format.X8R8G8B8Unorm,
		format.X8B8G8R8Unorm, format.A8B8G8R8Unorm:
		// v7 can only support AFBC for RGB and BGR component orders.
		if arch == 7 {
			return f
		}
		return format.R8G8B8A8Unorm

	case format.B5G6R5Unorm:
		return format.R5G6B5Unorm

	case format.B5G5R5A1Unorm:
		return format.R5G5B5A1Unorm

	case format.R10G10B10X2Unorm, format.B10G10R10A2Unorm, format.B10G10R10X2Unorm:
		return format.R10G10B10A2Unorm

	case format.B4G4R4A4Unorm:
		return format.R4G4B4A4Unorm
	case format.A4B4G4R4Unorm:
		if arch == 7 {
			return f
		}
		return format.R4G4B4A4Unorm

	default:
		return f
	}
}

// AFBCFormat returns the canonical compression mode used for one plane of a
// format, or AFBCModeInvalid when the plane cannot be compressed.
func AFBCFormat(arch uint32, f format.PixelFormat, planeIdx uint32) AFBCMode {
	switch f {
	case format.R8_G8B8_420Unorm, format.R8_B8G8_420Unorm:
		if planeIdx == 0 {
			return AFBCModeYUV420_1C8
		}
		return AFBCModeYUV420_2C8
	case format.G8_B8R8_420Unorm:
		if planeIdx == 0 {
			return AFBCModeYUV420_1C8
		}
		return AFBCModeYUV420_2C8
	case format.R8_G8_B8_420Unorm, format.R8_B8_G8_420Unorm:
		return AFBCModeYUV420_1C8
	case format.R8_G8B8_422Unorm, format.R8_B8G8_422Unorm:
		if planeIdx == 0 {
			return AFBCModeYUV422_1C8
		}
		return AFBCModeYUV422_2C8
	case format.R10_G10B10_420Unorm:
		if planeIdx == 0 {
			return AFBCModeYUV420_1C10
		}
		return AFBCModeYUV420_2C10
	case format.R10_G10B10_422Unorm:
		if planeIdx == 0 {
			return AFBCModeYUV422_1C10
		}
		return AFBCModeYUV422_2C10
	case format.R8G8B8_420UnormPacked:
		return AFBCModeYUV420_6C8
	case format.R10G10B10_420UnormPacked:
		return AFBCModeYUV420_6C10
	}

	// sRGB does not change the pixel layout, only the interpretation, and
	// the interpretation is handled by conversion hardware independent of
	// the compression hardware. Compress through the linear twin.
	f = format.Linear(f)

	// Luminance-alpha is not supported for AFBC on v7 onwards.
	switch f {
	case format.A8Unorm, format.L8Unorm, format.I8Unorm, format.L8A8Unorm:
		if arch >= 7 {
			return AFBCModeInvalid
		}
	}

	switch afbcUnswizzledFormat(arch, f) {
	case format.R8Unorm:
		return AFBCModeR8
	case format.R8G8Unorm, format.Z16Unorm:
		return AFBCModeR8G8
	case format.R8G8B8Unorm:
		return AFBCModeR8G8B8
	case format.R8G8B8A8Unorm, format.Z24S8Uint, format.Z24X8Unorm, format.X24S8Uint:
		return AFBCModeR8G8B8A8
	case format.R5G6B5Unorm:
		return AFBCModeR5G6B5
	case format.R5G5B5A1Unorm:
		return AFBCModeR5G5B5A1
	case format.R10G10B10A2Unorm:
		return AFBCModeR10G10B10A2
	case format.R4G4B4A4Unorm:
		return AFBCModeR4G4B4A4
	default:
		return AFBCModeInvalid
	}
}

// AFBCSupportsFormat reports whether every plane of f has an AFBC encoding.
func AFBCSupportsFormat(arch uint32, f format.PixelFormat) bool {
	for p := uint32(0); p < format.NumPlanes(f); p++ {
		if AFBCFormat(arch, f, p) == AFBCModeInvalid {
			return false
		}
	}
	return true
}

// AFBCCanYTR reports whether the lossless colour transform applies to f. YTR
// is only defined for RGB(A).
func AFBCCanYTR(f format.PixelFormat) bool {
	desc := format.Describe(f)

	if desc.NumChannels != 3 && desc.NumChannels != 4 {
		return false
	}

	// The fourth channel, if present, doesn't matter.
	return desc.Colorspace == format.ColorspaceRGB
}

// afbcCanSplit reports whether split-block mode works for a plane
// compression mode under the given modifier.
func afbcCanSplit(arch uint32, mode AFBCMode, mod drm.Modifier) bool {
	if arch < 6 {
		return false
	}

	switch AFBCSuperblockSize(mod).Width {
	case 16:
		return true
	case 32:
		return mode == AFBCModeR8G8B8A8 || mode == AFBCModeR10G10B10A2
	}

	return false
}

// AFBCCanPack reports whether payload packing is supported for f. Only RGB
// formats for now.
func AFBCCanPack(f format.PixelFormat) bool {
	return format.Describe(f).Colorspace == format.ColorspaceRGB
}

// AFBCCanTile reports whether the architecture supports tiled headers (and
// hence also solid colour blocks).
func AFBCCanTile(arch uint32) bool {
	return arch >= 7
}
