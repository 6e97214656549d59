package layout_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/panforge/maliimage/drm"
	"github.com/panforge/maliimage/format"
	"github.com/panforge/maliimage/layout"
)

func TestBlockSizeLinear(t *testing.T) {
	formats := []format.PixelFormat{
		format.R32G32B32Float, format.R8G8B8Unorm,
		format.ETC2RGB8, format.ASTC5x5,
	}

	for _, f := range formats {
		blk := layout.BlockSizeEl(drm.ModLinear, f, 0)
		require.Equal(t, layout.BlockExtent{Width: 1, Height: 1}, blk, "%s", f)
	}
}

func TestBlockSizeUInterleaved(t *testing.T) {
	for _, f := range []format.PixelFormat{format.R32G32B32Float, format.R8G8B8Unorm} {
		blk := layout.BlockSizeEl(drm.ModArm16x16BlockUInterleaved, f, 0)
		require.Equal(t, layout.BlockExtent{Width: 16, Height: 16}, blk, "%s", f)
	}

	// Block-compressed formats tile at 4x4 blocks so a tile still covers
	// 16x16 pixels (ish).
	for _, f := range []format.PixelFormat{format.ETC2RGB8, format.ASTC5x5} {
		blk := layout.BlockSizeEl(drm.ModArm16x16BlockUInterleaved, f, 0)
		require.Equal(t, layout.BlockExtent{Width: 4, Height: 4}, blk, "%s", f)
	}
}

func TestBlockSizeAFBC(t *testing.T) {
	mod := drm.ArmAFBC(drm.AFBCBlockSize16x16 | drm.AFBCSparse | drm.AFBCYTR)
	for _, f := range []format.PixelFormat{format.R32G32B32Float, format.R8G8B8Unorm} {
		blk := layout.BlockSizeEl(mod, f, 0)
		require.Equal(t, layout.BlockExtent{Width: 16, Height: 16}, blk, "%s", f)
	}

	mod = drm.ArmAFBC(drm.AFBCBlockSize32x8 | drm.AFBCSparse)
	for _, f := range []format.PixelFormat{format.R32G32B32Float, format.R8G8B8Unorm} {
		blk := layout.BlockSizeEl(mod, f, 0)
		require.Equal(t, layout.BlockExtent{Width: 32, Height: 8}, blk, "%s", f)
	}
}

func TestRenderblockSizeAFBC(t *testing.T) {
	// Wide superblocks still render in regions 16 pixels tall.
	mod := drm.ArmAFBC(drm.AFBCBlockSize32x8 | drm.AFBCSparse)
	blk := layout.RenderblockSizeEl(mod, format.R8G8B8A8Unorm, 0)
	require.Equal(t, layout.BlockExtent{Width: 32, Height: 16}, blk)

	mod = drm.ArmAFBC(drm.AFBCBlockSize64x4 | drm.AFBCSparse)
	blk = layout.RenderblockSizeEl(mod, format.R8G8B8A8Unorm, 0)
	require.Equal(t, layout.BlockExtent{Width: 64, Height: 16}, blk)
}

func TestGetHandlerUnknownArch(t *testing.T) {
	require.Panics(t, func() {
		layout.GetHandler(8, drm.ModLinear)
	})
}

func TestGetHandlerSelection(t *testing.T) {
	require.NotNil(t, layout.GetHandler(7, drm.ModLinear))
	require.NotNil(t, layout.GetHandler(7, drm.ModArm16x16BlockUInterleaved))
	require.NotNil(t, layout.GetHandler(7,
		drm.ArmAFBC(drm.AFBCBlockSize16x16|drm.AFBCSparse)))

	afrc := drm.ArmAFRC(drm.AFRCCuSizeP0(drm.AFRCCuSize16))
	require.Nil(t, layout.GetHandler(9, afrc))
	require.NotNil(t, layout.GetHandler(10, afrc))

	// A misc-family modifier that is not u-interleaved tiling has no
	// handler.
	require.Nil(t, layout.GetHandler(7, drm.Modifier(0x0810000000000002)))
}

func TestSupportString(t *testing.T) {
	require.Equal(t, "none", layout.SupportNone.String())
	require.Equal(t, "not-optimal", layout.SupportNotOptimal.String())
	require.Equal(t, "optimal", layout.SupportOptimal.String())
}

func testAFBCSupport(t *testing.T, dev *layout.DeviceProps, props *layout.ImageProps, usage *layout.Usage) layout.Support {
	t.Helper()
	h := layout.GetHandler(dev.Arch, props.Modifier)
	require.NotNil(t, h)
	return h.TestProps(dev, props, usage)
}

func TestAFBCSupportPolicy(t *testing.T) {
	dev := &layout.DeviceProps{Arch: 7}
	base := layout.ImageProps{
		Modifier: drm.ArmAFBC(drm.AFBCBlockSize16x16 | drm.AFBCSparse |
			drm.AFBCYTR),
		Format:    format.R8G8B8A8Unorm,
		ExtentPx:  layout.Extent{Width: 64, Height: 64, Depth: 1},
		NrSamples: 1,
		Dim:       layout.Dim2D,
		NrSlices:  1,
		ArraySize: 1,
	}
	rt := &layout.Usage{Bind: layout.BindRenderTarget}

	require.Equal(t, layout.SupportOptimal, testAFBCSupport(t, dev, &base, rt))

	// No AFBC hardware before v5, and none when the feature register says
	// the implementation dropped it.
	old := &layout.DeviceProps{Arch: 4}
	require.Equal(t, layout.SupportNone, testAFBCSupport(t, old, &base, rt))
	fused := &layout.DeviceProps{Arch: 7, AFBCFeatures: 1}
	require.Equal(t, layout.SupportNone, testAFBCSupport(t, fused, &base, rt))

	// No image store, no multisampling, no 3D.
	storage := &layout.Usage{Bind: layout.BindStorageImage}
	require.Equal(t, layout.SupportNone, testAFBCSupport(t, dev, &base, storage))

	msaa := base
	msaa.NrSamples = 4
	require.Equal(t, layout.SupportNone, testAFBCSupport(t, dev, &msaa, rt))

	volume := base
	volume.Dim = layout.Dim3D
	volume.ExtentPx.Depth = 8
	require.Equal(t, layout.SupportNone, testAFBCSupport(t, dev, &volume, rt))

	// Formats without an AFBC encoding are rejected on every plane.
	unencodable := base
	unencodable.Format = format.R32G32B32Float
	require.Equal(t, layout.SupportNone, testAFBCSupport(t, dev, &unencodable, rt))

	// YTR needs at least three RGB channels.
	twoChannel := base
	twoChannel.Format = format.R8G8Unorm
	require.Equal(t, layout.SupportNone, testAFBCSupport(t, dev, &twoChannel, rt))

	yuv := base
	yuv.Format = format.R8_G8B8_420Unorm
	require.Equal(t, layout.SupportNone, testAFBCSupport(t, dev, &yuv, rt))

	// ZS descriptors cannot carry wide or YTR modifiers.
	zs := base
	zs.Format = format.Z24S8Uint
	zs.Modifier = drm.ArmAFBC(drm.AFBCBlockSize32x8 | drm.AFBCSparse)
	ds := &layout.Usage{Bind: layout.BindDepthStencil}
	require.Equal(t, layout.SupportNone, testAFBCSupport(t, dev, &zs, ds))

	zs.Modifier = drm.ArmAFBC(drm.AFBCBlockSize16x16 | drm.AFBCSparse)
	require.Equal(t, layout.SupportOptimal, testAFBCSupport(t, dev, &zs, ds))

	// One tile or less is better served by u-interleaved tiling.
	tiny := base
	tiny.Format = format.R8G8Unorm
	tiny.Modifier = drm.ArmAFBC(drm.AFBCBlockSize16x16 | drm.AFBCSparse)
	tiny.ExtentPx = layout.Extent{Width: 16, Height: 16, Depth: 1}
	require.Equal(t, layout.SupportNotOptimal, testAFBCSupport(t, dev, &tiny, rt))

	// Missing YTR on a format that supports it is allowed but not preferred.
	noYTR := base
	noYTR.Modifier = drm.ArmAFBC(drm.AFBCBlockSize16x16 | drm.AFBCSparse)
	require.Equal(t, layout.SupportNotOptimal, testAFBCSupport(t, dev, &noYTR, rt))

	// Wide superblocks are reserved for WSI consumers.
	wide := base
	wide.Modifier = drm.ArmAFBC(drm.AFBCBlockSize32x8 | drm.AFBCSparse |
		drm.AFBCSplit | drm.AFBCYTR)
	require.Equal(t, layout.SupportNotOptimal, testAFBCSupport(t, dev, &wide, rt))
	wsiUsage := &layout.Usage{WSI: true}
	require.Equal(t, layout.SupportOptimal, testAFBCSupport(t, dev, &wide, wsiUsage))

	// Split mode only works on 16-wide superblocks for non-32bpp modes.
	split := wide
	split.Format = format.R8G8B8Unorm
	require.Equal(t, layout.SupportNone, testAFBCSupport(t, dev, &split, wsiUsage))

	// Tiled headers are never picked.
	tiled := base
	tiled.Modifier = drm.ArmAFBC(drm.AFBCBlockSize16x16 | drm.AFBCTiled |
		drm.AFBCSC | drm.AFBCSparse | drm.AFBCYTR)
	tiled.ExtentPx = layout.Extent{Width: 256, Height: 256, Depth: 1}
	require.Equal(t, layout.SupportNone, testAFBCSupport(t, dev, &tiled, rt))

	// Without sparse payloads, GPU writes need a repacking pass.
	dense := base
	dense.Modifier = drm.ArmAFBC(drm.AFBCBlockSize16x16 | drm.AFBCYTR)
	require.Equal(t, layout.SupportNotOptimal, testAFBCSupport(t, dev, &dense, rt))
	sampled := &layout.Usage{Bind: layout.BindSamplerView}
	require.Equal(t, layout.SupportOptimal, testAFBCSupport(t, dev, &dense, sampled))
}

func TestAFRCSupportPolicy(t *testing.T) {
	dev := &layout.DeviceProps{Arch: 10, TextureFeatures: [4]uint32{1 << 25}}
	base := layout.ImageProps{
		Modifier:  drm.ArmAFRC(drm.AFRCCuSizeP0(drm.AFRCCuSize24)),
		Format:    format.R8G8B8A8Unorm,
		ExtentPx:  layout.Extent{Width: 256, Height: 256, Depth: 1},
		NrSamples: 1,
		Dim:       layout.Dim2D,
		NrSlices:  1,
		ArraySize: 1,
	}
	sampled := &layout.Usage{Bind: layout.BindSamplerView}

	require.Equal(t, layout.SupportOptimal, testAFBCSupport(t, dev, &base, sampled))

	// The feature bit gates AFRC even on v10+.
	nofeat := &layout.DeviceProps{Arch: 10}
	require.Equal(t, layout.SupportNone, testAFBCSupport(t, nofeat, &base, sampled))

	zs := base
	zs.Format = format.Z24S8Uint
	require.Equal(t, layout.SupportNone, testAFBCSupport(t, dev, &zs, sampled))

	msaa := base
	msaa.NrSamples = 4
	require.Equal(t, layout.SupportNone, testAFBCSupport(t, dev, &msaa, sampled))

	storage := &layout.Usage{Bind: layout.BindStorageImage}
	require.Equal(t, layout.SupportNone, testAFBCSupport(t, dev, &base, storage))

	hostCopy := &layout.Usage{HostCopy: true}
	require.Equal(t, layout.SupportNone, testAFBCSupport(t, dev, &base, hostCopy))

	hostHeavy := &layout.Usage{FrequentHostUpdates: true}
	require.Equal(t, layout.SupportNotOptimal, testAFBCSupport(t, dev, &base, hostHeavy))

	oneDim := base
	oneDim.Dim = layout.Dim1D
	oneDim.ExtentPx.Height = 1
	require.Equal(t, layout.SupportNotOptimal, testAFBCSupport(t, dev, &oneDim, sampled))
}

func TestLinearAndTiledSupportPolicy(t *testing.T) {
	dev := &layout.DeviceProps{Arch: 7}
	base := layout.ImageProps{
		Modifier:  drm.ModLinear,
		Format:    format.R8G8B8A8Unorm,
		ExtentPx:  layout.Extent{Width: 256, Height: 256, Depth: 1},
		NrSamples: 1,
		Dim:       layout.Dim2D,
		NrSlices:  1,
		ArraySize: 1,
	}
	sampled := &layout.Usage{Bind: layout.BindSamplerView}

	require.Equal(t, layout.SupportOptimal, testAFBCSupport(t, dev, &base, sampled))

	// The packed YUV formats only exist in AFBC form.
	packed := base
	packed.Format = format.R8G8B8_420UnormPacked
	require.Equal(t, layout.SupportNone, testAFBCSupport(t, dev, &packed, sampled))

	tiled := base
	tiled.Modifier = drm.ModArm16x16BlockUInterleaved
	require.Equal(t, layout.SupportOptimal, testAFBCSupport(t, dev, &tiled, sampled))

	yuv := tiled
	yuv.Format = format.R8_G8B8_420Unorm
	require.Equal(t, layout.SupportNone, testAFBCSupport(t, dev, &yuv, sampled))

	// Tiling cannot help a single-pixel-wide image.
	narrow := tiled
	narrow.ExtentPx = layout.Extent{Width: 1, Height: 256, Depth: 1}
	require.Equal(t, layout.SupportNotOptimal, testAFBCSupport(t, dev, &narrow, sampled))
}

func TestChooseModifier(t *testing.T) {
	dev := &layout.DeviceProps{Arch: 7}
	props := &layout.ImageProps{
		Format:    format.R8G8B8A8Unorm,
		ExtentPx:  layout.Extent{Width: 64, Height: 64, Depth: 1},
		NrSamples: 1,
		Dim:       layout.Dim2D,
		NrSlices:  1,
		ArraySize: 1,
	}
	rt := &layout.Usage{Bind: layout.BindRenderTarget}
	all := drm.SupportedModifiers()

	// Small RGBA render target: 16x16 AFBC with YTR wins.
	mod, ok := layout.ChooseModifier(dev, props, rt, all)
	require.True(t, ok)
	require.Equal(t, drm.ArmAFBC(drm.AFBCBlockSize16x16|drm.AFBCSparse|drm.AFBCYTR), mod)

	// Image store rules AFBC out entirely.
	storage := &layout.Usage{Bind: layout.BindStorageImage}
	mod, ok = layout.ChooseModifier(dev, props, storage, all)
	require.True(t, ok)
	require.Equal(t, drm.ModArm16x16BlockUInterleaved, mod)

	// Restricting the candidate list restricts the choice.
	mod, ok = layout.ChooseModifier(dev, props, rt, []drm.Modifier{drm.ModLinear})
	require.True(t, ok)
	require.Equal(t, drm.ModLinear, mod)

	// Planar YUV compresses without YTR.
	yuv := *props
	yuv.Format = format.R8_G8B8_420Unorm
	mod, ok = layout.ChooseModifier(dev, &yuv, rt, all)
	require.True(t, ok)
	require.Equal(t, drm.ArmAFBC(drm.AFBCBlockSize16x16|drm.AFBCSparse), mod)

	// With image store on top, YUV can neither compress nor tile.
	mod, ok = layout.ChooseModifier(dev, &yuv, storage, all)
	require.True(t, ok)
	require.Equal(t, drm.ModLinear, mod)

	// An empty candidate list cannot be satisfied.
	_, ok = layout.ChooseModifier(dev, props, rt, nil)
	require.False(t, ok)
}
