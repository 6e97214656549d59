package layout_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/panforge/maliimage/drm"
	"github.com/panforge/maliimage/format"
	"github.com/panforge/maliimage/imgutils"
	"github.com/panforge/maliimage/layout"
)

func TestAFBCSuperblockSizes(t *testing.T) {
	mod := drm.ArmAFBC(drm.AFBCBlockSize16x16 | drm.AFBCSparse | drm.AFBCYTR)
	require.Equal(t, layout.BlockExtent{Width: 16, Height: 16}, layout.AFBCSuperblockSize(mod))
	require.False(t, layout.AFBCIsWide(mod))

	mod = drm.ArmAFBC(drm.AFBCBlockSize32x8 | drm.AFBCSparse)
	require.Equal(t, layout.BlockExtent{Width: 32, Height: 8}, layout.AFBCSuperblockSize(mod))
	require.True(t, layout.AFBCIsWide(mod))

	mod = drm.ArmAFBC(drm.AFBCBlockSize64x4 | drm.AFBCSparse)
	require.Equal(t, layout.BlockExtent{Width: 64, Height: 4}, layout.AFBCSuperblockSize(mod))
	require.True(t, layout.AFBCIsWide(mod))
}

// Check the row stride in bytes (programmed on Valhall) and the line stride
// in blocks (programmed on Bifrost) against reference formulas, for linear
// and tiled headers.
func TestAFBCStrideLinear(t *testing.T) {
	blockSizes := []drm.Modifier{
		drm.AFBCBlockSize16x16, drm.AFBCBlockSize32x8, drm.AFBCBlockSize64x4,
	}

	for _, bs := range blockSizes {
		mod := drm.ArmAFBC(bs | drm.AFBCSparse)
		sw := layout.AFBCSuperblockSize(mod).Width

		for _, n := range []uint32{1, 4, 17, 39} {
			width := sw * n

			rowStride := layout.AFBCRowStride(mod, width)
			require.Equal(t, 16*imgutils.DivRoundUp(width, sw), rowStride)
			require.Equal(t, imgutils.DivRoundUp(width, sw),
				layout.AFBCStrideBlocks(mod, rowStride))
		}
	}
}

func TestAFBCStrideTiled(t *testing.T) {
	blockSizes := []drm.Modifier{
		drm.AFBCBlockSize16x16, drm.AFBCBlockSize32x8, drm.AFBCBlockSize64x4,
	}

	for _, bs := range blockSizes {
		mod := drm.ArmAFBC(bs | drm.AFBCTiled | drm.AFBCSparse)
		sw := layout.AFBCSuperblockSize(mod).Width

		for _, n := range []uint32{1, 4, 17, 39} {
			width := sw * 8 * n

			rowStride := layout.AFBCRowStride(mod, width)
			require.Equal(t, 16*imgutils.DivRoundUp(width, sw*8)*8*8, rowStride)
			require.Equal(t, imgutils.DivRoundUp(width, sw*8)*8,
				layout.AFBCStrideBlocks(mod, rowStride))
		}
	}
}

func TestAFBCHeightBlocks(t *testing.T) {
	linear := drm.ArmAFBC(drm.AFBCBlockSize16x16 | drm.AFBCSparse)
	require.Equal(t, uint32(1), layout.AFBCHeightBlocks(linear, 1))
	require.Equal(t, uint32(2), layout.AFBCHeightBlocks(linear, 17))

	tiled := drm.ArmAFBC(drm.AFBCBlockSize16x16 | drm.AFBCTiled | drm.AFBCSparse)
	require.Equal(t, uint32(8), layout.AFBCHeightBlocks(tiled, 1))
	require.Equal(t, uint32(16), layout.AFBCHeightBlocks(tiled, 129))
}

func TestAFBCHeaderAlign(t *testing.T) {
	linear := drm.ArmAFBC(drm.AFBCBlockSize16x16 | drm.AFBCSparse)
	tiled := drm.ArmAFBC(drm.AFBCBlockSize16x16 | drm.AFBCTiled | drm.AFBCSparse)

	require.Equal(t, uint32(64), layout.AFBCHeaderAlign(5, linear))
	require.Equal(t, uint32(128), layout.AFBCHeaderAlign(6, linear))
	require.Equal(t, uint32(128), layout.AFBCHeaderAlign(7, linear))
	require.Equal(t, uint32(4096), layout.AFBCHeaderAlign(7, tiled))

	// Tiled header rows align loosely up to v7, then per format size.
	require.Equal(t, uint32(16),
		layout.AFBCHeaderRowStrideAlign(7, format.R8G8B8A8Unorm, tiled))
	require.Equal(t, uint32(1024),
		layout.AFBCHeaderRowStrideAlign(9, format.R8G8B8A8Unorm, tiled))
	require.Equal(t, uint32(256),
		layout.AFBCHeaderRowStrideAlign(9, format.R16G16B16A16Float, tiled))
	require.Equal(t, uint32(16),
		layout.AFBCHeaderRowStrideAlign(9, format.R8G8B8A8Unorm, linear))
}

func TestAFBCFormatModes(t *testing.T) {
	require.Equal(t, layout.AFBCModeR8G8B8A8,
		layout.AFBCFormat(7, format.R8G8B8A8Unorm, 0))

	// sRGB twins compress through the linear layout.
	require.Equal(t, layout.AFBCModeR8G8B8A8,
		layout.AFBCFormat(7, format.R8G8B8A8Srgb, 0))

	// Component swizzles are resolved by the texture unit, not the codec.
	require.Equal(t, layout.AFBCModeR8G8B8A8,
		layout.AFBCFormat(7, format.B8G8R8A8Unorm, 0))
	require.Equal(t, layout.AFBCModeR5G6B5,
		layout.AFBCFormat(7, format.B5G6R5Unorm, 0))

	// v7 can only swizzle RGB/BGR component orders.
	require.Equal(t, layout.AFBCModeInvalid,
		layout.AFBCFormat(7, format.A8R8G8B8Unorm, 0))
	require.Equal(t, layout.AFBCModeR8G8B8A8,
		layout.AFBCFormat(9, format.A8R8G8B8Unorm, 0))

	// Depth/stencil rides on the color modes.
	require.Equal(t, layout.AFBCModeR8G8,
		layout.AFBCFormat(7, format.Z16Unorm, 0))
	require.Equal(t, layout.AFBCModeR8G8B8A8,
		layout.AFBCFormat(7, format.Z24S8Uint, 0))

	// Luminance-alpha is gone from v7 onwards.
	require.Equal(t, layout.AFBCModeR8G8,
		layout.AFBCFormat(6, format.L8A8Unorm, 0))
	require.Equal(t, layout.AFBCModeInvalid,
		layout.AFBCFormat(7, format.L8A8Unorm, 0))

	require.Equal(t, layout.AFBCModeInvalid,
		layout.AFBCFormat(7, format.R32G32B32Float, 0))

	// Planar YUV: one luma channel on plane 0, two chroma channels on
	// plane 1.
	require.Equal(t, layout.AFBCModeYUV420_1C8,
		layout.AFBCFormat(7, format.R8_G8B8_420Unorm, 0))
	require.Equal(t, layout.AFBCModeYUV420_2C8,
		layout.AFBCFormat(7, format.R8_G8B8_420Unorm, 1))
	require.Equal(t, layout.AFBCModeYUV420_6C8,
		layout.AFBCFormat(7, format.R8G8B8_420UnormPacked, 0))
}

func TestAFBCSupportsFormat(t *testing.T) {
	require.True(t, layout.AFBCSupportsFormat(7, format.R8G8B8A8Unorm))
	require.True(t, layout.AFBCSupportsFormat(7, format.R8_G8B8_420Unorm))
	require.False(t, layout.AFBCSupportsFormat(7, format.R32G32B32A32Float))
	require.False(t, layout.AFBCSupportsFormat(7, format.ETC2RGB8))
}

func TestAFBCCanYTR(t *testing.T) {
	require.True(t, layout.AFBCCanYTR(format.R8G8B8A8Unorm))
	require.True(t, layout.AFBCCanYTR(format.R5G6B5Unorm))
	require.False(t, layout.AFBCCanYTR(format.R8G8Unorm))
	require.False(t, layout.AFBCCanYTR(format.Z24S8Uint))
	require.False(t, layout.AFBCCanYTR(format.R8_G8B8_420Unorm))
	require.False(t, layout.AFBCCanYTR(format.R8G8B8A8Srgb))
}

func TestAFBCCanTile(t *testing.T) {
	require.False(t, layout.AFBCCanTile(6))
	require.True(t, layout.AFBCCanTile(7))
}
