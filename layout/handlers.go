package layout

import (
	cerrors "github.com/cockroachdb/errors"

	"github.com/panforge/maliimage/drm"
	"github.com/panforge/maliimage/format"
	"github.com/panforge/maliimage/imgutils"
)

// planeLayoutIniter is implemented by handlers that carry per-plane state
// beyond the slice geometry.
type planeLayoutIniter interface {
	InitPlaneLayout(dev *DeviceProps, props *ImageProps, planeIdx uint32, l *ImageLayout) error
}

// mipExtentEl converts a mip extent in pixels to texel blocks. Only
// block-compressed formats have non-trivial blocks here; block-based YUV
// keeps pixel units because its tile extents are expressed in pixels.
func mipExtentEl(f format.PixelFormat, mipExtentPx Extent) Extent {
	if !format.IsCompressed(f) {
		return mipExtentPx
	}
	return Extent{
		Width:  imgutils.DivRoundUp(mipExtentPx.Width, format.BlockWidth(f)),
		Height: imgutils.DivRoundUp(mipExtentPx.Height, format.BlockHeight(f)),
		Depth:  imgutils.DivRoundUp(mipExtentPx.Depth, format.BlockDepth(f)),
	}
}

func useExplicitLayout(constraints *Constraints) bool {
	return constraints != nil && constraints.WSIRowPitchB != 0
}

func constraintsOffset(constraints *Constraints) uint64 {
	if constraints == nil {
		return 0
	}
	return constraints.OffsetB
}

//
// Linear
//

type linearHandler struct{}

func (linearHandler) Match(mod drm.Modifier) bool {
	return mod == drm.ModLinear
}

func (linearHandler) TestProps(dev *DeviceProps, props *ImageProps, usage *Usage) Support {
	switch props.Format {
	// AFBC-only formats.
	case format.R8G8B8_420UnormPacked, format.R10G10B10_420UnormPacked:
		return SupportNone

	default:
		// All better modifiers are tested before linear, so declaring
		// it optimal just means it always wins when it is reached.
		return SupportOptimal
	}
}

func (linearHandler) InitSliceLayout(dev *DeviceProps, props *ImageProps, planeIdx uint32,
	mipExtentPx Extent, constraints *Constraints, slice *SliceLayout) error {

	explicit := useExplicitLayout(constraints)
	alignMask := linearOrTiledRowAlignReq(dev.Arch, props.Format, planeIdx) - 1
	blockSizeB := format.PlaneBlockSizeB(props.Format, planeIdx)
	extentEl := mipExtentEl(props.Format, mipExtentPx)

	if explicit {
		widthFromPitch := constraints.WSIRowPitchB / blockSizeB
		if !format.IsCompressed(props.Format) {
			widthFromPitch *= format.BlockWidth(props.Format)
		}

		if widthFromPitch < extentEl.Width {
			dev.logRejection("WSI pitch too small",
				"pitch", constraints.WSIRowPitchB, "width", extentEl.Width)
			return cerrors.Wrapf(ErrWSIPitchTooSmall,
				"pitch %d covers %d elements, image needs %d",
				constraints.WSIRowPitchB, widthFromPitch, extentEl.Width)
		}

		slice.RowStrideB = constraints.WSIRowPitchB
		if slice.RowStrideB&alignMask != 0 {
			dev.logRejection("WSI pitch not properly aligned",
				"pitch", slice.RowStrideB, "align", alignMask+1)
			return cerrors.Wrapf(ErrWSIPitchUnaligned,
				"pitch %d, required alignment %d", slice.RowStrideB, alignMask+1)
		}

		slice.OffsetB = constraints.OffsetB
		if slice.OffsetB&uint64(alignMask) != 0 {
			dev.logRejection("WSI offset not properly aligned",
				"offset", slice.OffsetB, "align", alignMask+1)
			return cerrors.Wrapf(ErrWSIOffsetUnaligned,
				"offset %d, required alignment %d", slice.OffsetB, alignMask+1)
		}
	} else {
		// When the engine decides the layout, everything is aligned on
		// at least a cacheline for performance reasons.
		alignMask = imgutils.Max(alignMask, 63)
		slice.OffsetB = imgutils.AlignUp(constraintsOffset(constraints),
			uint64(imgutils.Max(alignMask+1, sliceAlignB)))
		slice.RowStrideB = imgutils.AlignUp(extentEl.Width*blockSizeB, alignMask+1)
	}

	surfStrideB := uint64(slice.RowStrideB) * uint64(extentEl.Height)
	surfStrideB = imgutils.AlignUp(surfStrideB, uint64(alignMask)+1)

	// Surface strides are emitted as 32-bit fields in RT/ZS and texture
	// descriptors.
	if surfStrideB > imgutils.MaxUint(32) {
		return cerrors.Wrapf(ErrFieldOverflow, "surface stride %d", surfStrideB)
	}

	slice.SurfaceStrideB = surfStrideB
	slice.SizeB = surfStrideB * uint64(extentEl.Depth) * uint64(props.NrSamples)
	return nil
}

func (linearHandler) WSIRowPitch(props *ImageProps, planeIdx uint32, l *ImageLayout, level uint32) uint32 {
	return l.Slices[level].RowStrideB
}

//
// U-interleaved tiling
//

type uTiledHandler struct{}

func (uTiledHandler) Match(mod drm.Modifier) bool {
	return mod == drm.ModArm16x16BlockUInterleaved
}

func (uTiledHandler) TestProps(dev *DeviceProps, props *ImageProps, usage *Usage) Support {
	if format.IsYUV(props.Format) {
		return SupportNone
	}

	// Tiling improves locality in both X and Y. With a single pixel in
	// either direction it cannot help, and linear wins on memory use.
	if props.ExtentPx.Width < 2 || props.ExtentPx.Height < 2 {
		return SupportNotOptimal
	}

	return SupportOptimal
}

// uInterleavedTileSizeEl returns the tile extent in texel blocks: 16x16 for
// plain formats, 4x4 for block-compressed ones so a tile keeps covering
// 16x16 pixels.
func uInterleavedTileSizeEl(f format.PixelFormat) BlockExtent {
	if format.IsCompressed(f) {
		return BlockExtent{Width: 4, Height: 4}
	}
	return BlockExtent{Width: 16, Height: 16}
}

func (uTiledHandler) InitSliceLayout(dev *DeviceProps, props *ImageProps, planeIdx uint32,
	mipExtentPx Extent, constraints *Constraints, slice *SliceLayout) error {

	explicit := useExplicitLayout(constraints)
	alignMask := linearOrTiledRowAlignReq(dev.Arch, props.Format, planeIdx) - 1
	tileExtentEl := uInterleavedTileSizeEl(props.Format)
	extentEl := mipExtentEl(props.Format, mipExtentPx)

	var tileSizeB uint32
	if format.IsCompressed(props.Format) {
		tileSizeB = tileExtentEl.Width * tileExtentEl.Height *
			format.PlaneBlockSizeB(props.Format, planeIdx)
	} else {
		// Block-based YUV needs care: the tile extent is in pixels,
		// not blocks, in that case.
		tileSizeB = (tileExtentEl.Width / format.BlockWidth(props.Format)) *
			(tileExtentEl.Height / format.BlockHeight(props.Format)) *
			format.PlaneBlockSizeB(props.Format, planeIdx)
	}

	if explicit {
		slice.RowStrideB = constraints.WSIRowPitchB * tileExtentEl.Height
		if slice.RowStrideB&alignMask != 0 {
			dev.logRejection("WSI pitch not properly aligned",
				"pitch", constraints.WSIRowPitchB, "align", alignMask+1)
			return cerrors.Wrapf(ErrWSIPitchUnaligned,
				"pitch %d, required alignment %d", constraints.WSIRowPitchB, alignMask+1)
		}

		widthFromPitch := (slice.RowStrideB / tileSizeB) * tileExtentEl.Width
		if widthFromPitch < extentEl.Width {
			dev.logRejection("WSI pitch too small",
				"pitch", constraints.WSIRowPitchB, "width", extentEl.Width)
			return cerrors.Wrapf(ErrWSIPitchTooSmall,
				"pitch %d covers %d elements, image needs %d",
				constraints.WSIRowPitchB, widthFromPitch, extentEl.Width)
		}

		slice.OffsetB = constraints.OffsetB
		if slice.OffsetB&uint64(alignMask) != 0 {
			dev.logRejection("WSI offset not properly aligned",
				"offset", slice.OffsetB, "align", alignMask+1)
			return cerrors.Wrapf(ErrWSIOffsetUnaligned,
				"offset %d, required alignment %d", slice.OffsetB, alignMask+1)
		}
	} else {
		alignMask = imgutils.Max(alignMask, 63)
		slice.OffsetB = imgutils.AlignUp(constraintsOffset(constraints),
			uint64(imgutils.Max(alignMask+1, sliceAlignB)))
		slice.RowStrideB = imgutils.AlignUp(
			tileSizeB*imgutils.DivRoundUp(extentEl.Width, tileExtentEl.Width),
			alignMask+1)
	}

	surfStrideB := uint64(slice.RowStrideB) *
		uint64(imgutils.DivRoundUp(extentEl.Height, tileExtentEl.Height))
	surfStrideB = imgutils.AlignUp(surfStrideB, uint64(alignMask)+1)

	slice.SurfaceStrideB = surfStrideB
	slice.SizeB = surfStrideB * uint64(extentEl.Depth) * uint64(props.NrSamples)

	if slice.SizeB > maxSizeB(dev.Arch) || surfStrideB > maxSliceStrideB(dev.Arch) {
		return cerrors.Wrapf(ErrFieldOverflow,
			"size %d, surface stride %d", slice.SizeB, surfStrideB)
	}
	return nil
}

func (uTiledHandler) WSIRowPitch(props *ImageProps, planeIdx uint32, l *ImageLayout, level uint32) uint32 {
	return l.Slices[level].RowStrideB / uInterleavedTileSizeEl(props.Format).Height
}

//
// AFBC
//

type afbcHandler struct{}

func (afbcHandler) Match(mod drm.Modifier) bool {
	return mod.IsAFBC()
}

func (afbcHandler) TestProps(dev *DeviceProps, props *ImageProps, usage *Usage) Support {
	// No image store.
	if usage != nil && usage.Bind&BindStorageImage != 0 {
		return SupportNone
	}

	if !dev.SupportsAFBC() {
		return SupportNone
	}

	planeCount := format.NumPlanes(props.Format)
	desc := format.Describe(props.Format)

	// The format needs an AFBC encoding on every plane.
	var planeModes [MaxImagePlanes]AFBCMode
	for p := uint32(0); p < planeCount; p++ {
		planeModes[p] = AFBCFormat(dev.Arch, props.Format, p)
		if planeModes[p] == AFBCModeInvalid {
			return SupportNone
		}
	}

	// AFBC can't do multisampling.
	if props.NrSamples > 1 {
		return SupportNone
	}

	// AFBC(2D) or AFBC(3D) on v7+ only.
	if (props.Dim == Dim3D && dev.Arch < 7) || props.Dim != Dim2D {
		return SupportNone
	}

	// ZS buffer descriptors can't pass split/wide/YTR modifiers.
	if usage != nil && usage.Bind&BindDepthStencil != 0 &&
		(AFBCSuperblockSize(props.Modifier).Width != 16 ||
			props.Modifier&(drm.AFBCSplit|drm.AFBCYTR) != 0) {
		return SupportNone
	}

	// YTR is only useful on RGB formats.
	if props.Modifier&drm.AFBCYTR != 0 &&
		(format.IsYUV(props.Format) || desc.NumChannels < 3) {
		return SupportNone
	}

	// All planes have to support split mode.
	if props.Modifier&drm.AFBCSplit != 0 {
		for p := uint32(0); p < planeCount; p++ {
			if !afbcCanSplit(dev.Arch, planeModes[p], props.Modifier) {
				return SupportNone
			}
		}
	}

	if props.Modifier&drm.AFBCTiled != 0 && !AFBCCanTile(dev.Arch) {
		return SupportNone
	}

	// For one tile, AFBC is a loss compared to u-interleaved.
	if props.ExtentPx.Width <= 16 && props.ExtentPx.Height <= 16 {
		return SupportNotOptimal
	}

	// Reserve 32x8 tiles for WSI images.
	if usage != nil && !usage.WSI && AFBCSuperblockSize(props.Modifier).Width != 16 {
		return SupportNotOptimal
	}

	// Prefer YTR when available.
	if AFBCCanYTR(props.Format) && props.Modifier&drm.AFBCYTR == 0 {
		return SupportNotOptimal
	}

	if props.Modifier&(drm.AFBCTiled|drm.AFBCSC) != 0 {
		return SupportNone
	}

	isTiled := props.Modifier&drm.AFBCTiled != 0
	canTile := AFBCCanTile(dev.Arch)

	if isTiled && !canTile {
		return SupportNone
	}

	// Prefer tiled headers when the image is big enough.
	shouldTile := props.ExtentPx.Width >= 128 && props.ExtentPx.Height >= 128

	if isTiled != shouldTile {
		return SupportNotOptimal
	}

	// Packing and unpacking AFBC payloads takes a compute pass we would
	// rather avoid on anything written by the GPU.
	if usage != nil && usage.Bind&(BindDepthStencil|BindRenderTarget) != 0 &&
		props.Modifier&drm.AFBCSparse == 0 {
		return SupportNotOptimal
	}

	return SupportOptimal
}

func (afbcHandler) InitPlaneLayout(dev *DeviceProps, props *ImageProps, planeIdx uint32, l *ImageLayout) error {
	mode := AFBCFormat(dev.Arch, props.Format, planeIdx)
	if mode == AFBCModeInvalid {
		return cerrors.Wrapf(ErrFormatNotCompressible, "format %s plane %d",
			props.Format, planeIdx)
	}

	l.AFBCMode = mode
	return nil
}

func (afbcHandler) InitSliceLayout(dev *DeviceProps, props *ImageProps, planeIdx uint32,
	mipExtentPx Extent, constraints *Constraints, slice *SliceLayout) error {

	explicit := useExplicitLayout(constraints)
	tileExtentPx := AFBCSuperblockSize(props.Modifier)
	offsetAlignMask := uint64(AFBCHeaderAlign(dev.Arch, props.Modifier)) - 1
	rowAlignMask := AFBCHeaderRowStrideAlign(dev.Arch, props.Format, props.Modifier) - 1
	tileExtentEl := afbcSuperblockSizeEl(props.Modifier, props.Format)
	tilePayloadSizeB := tileExtentEl.Width * tileExtentEl.Height *
		format.PlaneBlockSizeB(props.Format, planeIdx)

	alignPx := AFBCRenderblockSize(props.Modifier)

	// If superblock tiling is used, align on a superblock tile.
	if props.Modifier&drm.AFBCTiled != 0 {
		alignPx.Width = imgutils.AlignUp(alignPx.Width,
			tileExtentPx.Width*AFBCTileSize(props.Modifier))
		alignPx.Height = imgutils.AlignUp(alignPx.Height,
			tileExtentPx.Height*AFBCTileSize(props.Modifier))
	}

	alignedExtentPx := Extent{
		Width:  imgutils.AlignUp(mipExtentPx.Width, alignPx.Width),
		Height: imgutils.AlignUp(mipExtentPx.Height, alignPx.Height),
		Depth:  mipExtentPx.Depth,
	}

	if explicit {
		tilePayloadRowStrideB := constraints.WSIRowPitchB *
			tileExtentPx.Height

		// WSI row pitches that don't exactly match the image size have
		// been accepted for a long time, assuming tightly packed tile
		// rows instead of the explicit stride. Enforcing exact tile
		// alignment would break existing users, so only strict imports
		// check it.
		if constraints.Strict && tilePayloadRowStrideB%tilePayloadSizeB != 0 {
			dev.logRejection("WSI pitch is not aligned on an AFBC tile",
				"pitch", constraints.WSIRowPitchB)
			return cerrors.Wrapf(ErrWSIPitchNotTileAligned,
				"pitch %d, tile payload %d", constraints.WSIRowPitchB, tilePayloadSizeB)
		}

		widthFromPitch := (tilePayloadRowStrideB / tilePayloadSizeB) *
			tileExtentPx.Width

		if widthFromPitch < mipExtentPx.Width {
			dev.logRejection("WSI pitch too small",
				"pitch", constraints.WSIRowPitchB, "width", mipExtentPx.Width)
			return cerrors.Wrapf(ErrWSIPitchTooSmall,
				"pitch %d covers width %d, image width %d",
				constraints.WSIRowPitchB, widthFromPitch, mipExtentPx.Width)
		}

		slice.RowStrideB = AFBCRowStride(props.Modifier, widthFromPitch)
		if slice.RowStrideB&rowAlignMask != 0 {
			dev.logRejection("WSI pitch not properly aligned",
				"headerRowStride", slice.RowStrideB, "align", rowAlignMask+1)
			return cerrors.Wrapf(ErrWSIPitchUnaligned,
				"header row stride %d, required alignment %d",
				slice.RowStrideB, rowAlignMask+1)
		}

		slice.OffsetB = constraints.OffsetB
		if slice.OffsetB&offsetAlignMask != 0 {
			dev.logRejection("WSI offset not properly aligned",
				"offset", slice.OffsetB, "align", offsetAlignMask+1)
			return cerrors.Wrapf(ErrWSIOffsetUnaligned,
				"offset %d, required alignment %d", slice.OffsetB, offsetAlignMask+1)
		}

		// A non-strict import ignores the WSI row pitch and sizes from
		// the resource width.
		if !constraints.Strict {
			slice.RowStrideB = imgutils.AlignUp(
				AFBCRowStride(props.Modifier, alignedExtentPx.Width),
				rowAlignMask+1)
		}
	} else {
		slice.OffsetB = imgutils.AlignUp(constraintsOffset(constraints),
			offsetAlignMask+1)
		slice.RowStrideB = imgutils.AlignUp(
			AFBCRowStride(props.Modifier, alignedExtentPx.Width),
			rowAlignMask+1)
	}

	rowStrideSb := AFBCStrideBlocks(props.Modifier, slice.RowStrideB)
	surfaceStrideSb := rowStrideSb * (alignedExtentPx.Height / tileExtentPx.Height)

	hdrSurfSizeB := uint64(surfaceStrideSb) * AFBCHeaderBytesPerTile
	bodyOffsetB := imgutils.AlignUp(hdrSurfSizeB,
		uint64(AFBCBodyAlign(dev.Arch, props.Modifier)))
	bodySizeB := uint64(surfaceStrideSb) * uint64(tilePayloadSizeB)
	surfStrideB := bodyOffsetB + bodySizeB

	slice.AFBC.HeaderSizeB = uint32(hdrSurfSizeB)
	slice.AFBC.BodyOffsetB = uint32(bodyOffsetB)
	slice.AFBC.BodySizeB = bodySizeB
	slice.AFBC.SurfaceStrideB = surfStrideB
	slice.SurfaceStrideB = surfStrideB
	slice.SizeB = surfStrideB * uint64(mipExtentPx.Depth)

	if hdrSurfSizeB > imgutils.MaxUint(32) || surfStrideB > imgutils.MaxUint(32) ||
		slice.SizeB > imgutils.MaxUint(32) {
		return cerrors.Wrapf(ErrFieldOverflow,
			"header %d, surface stride %d, size %d",
			hdrSurfSizeB, surfStrideB, slice.SizeB)
	}
	return nil
}

func (afbcHandler) WSIRowPitch(props *ImageProps, planeIdx uint32, l *ImageLayout, level uint32) uint32 {
	headerRowStrideB := l.Slices[level].RowStrideB
	tileExtentEl := afbcSuperblockSizeEl(props.Modifier, props.Format)
	tilePayloadSizeB := tileExtentEl.Width * tileExtentEl.Height *
		format.PlaneBlockSizeB(props.Format, planeIdx)
	tileRowPayloadSizeB := AFBCStrideBlocks(props.Modifier, headerRowStrideB) *
		tilePayloadSizeB

	return tileRowPayloadSizeB / AFBCSuperblockSize(props.Modifier).Height
}

//
// AFRC
//

type afrcHandler struct{}

func (afrcHandler) Match(mod drm.Modifier) bool {
	return mod.IsAFRC()
}

func (afrcHandler) TestProps(dev *DeviceProps, props *ImageProps, usage *Usage) Support {
	if !dev.SupportsAFRC() {
		return SupportNone
	}

	if !AFRCSupportsFormat(props.Format) {
		return SupportNone
	}

	// AFRC does not support layered multisampling.
	if props.NrSamples > 1 {
		return SupportNone
	}

	// No image store.
	if usage != nil && usage.Bind&BindStorageImage != 0 {
		return SupportNone
	}

	// An AFRC resource can't be written directly.
	if usage != nil && usage.HostCopy {
		return SupportNone
	}

	// Host updates need an extra blit we would rather avoid.
	if usage != nil && usage.FrequentHostUpdates {
		return SupportNotOptimal
	}

	// Nothing prevents 1D AFRC, but it's pointless.
	if props.Dim == Dim1D {
		return SupportNotOptimal
	}

	return SupportOptimal
}

func (afrcHandler) InitSliceLayout(dev *DeviceProps, props *ImageProps, planeIdx uint32,
	mipExtentPx Extent, constraints *Constraints, slice *SliceLayout) error {

	explicit := useExplicitLayout(constraints)
	alignMask := AFRCBufferAlignmentFromModifier(props.Modifier) - 1
	tileExtentPx := AFRCTileSize(props.Format, props.Modifier)
	alignedExtentPx := Extent{
		Width:  imgutils.AlignUp(mipExtentPx.Width, tileExtentPx.Width),
		Height: imgutils.AlignUp(mipExtentPx.Height, tileExtentPx.Height),
		Depth:  mipExtentPx.Depth,
	}

	if explicit {
		slice.RowStrideB = constraints.WSIRowPitchB * tileExtentPx.Height
		if slice.RowStrideB&alignMask != 0 {
			dev.logRejection("WSI pitch not properly aligned",
				"pitch", constraints.WSIRowPitchB, "align", alignMask+1)
			return cerrors.Wrapf(ErrWSIPitchUnaligned,
				"pitch %d, required alignment %d", constraints.WSIRowPitchB, alignMask+1)
		}

		slice.OffsetB = constraints.OffsetB
		if slice.OffsetB&uint64(alignMask) != 0 {
			dev.logRejection("WSI offset not properly aligned",
				"offset", slice.OffsetB, "align", alignMask+1)
			return cerrors.Wrapf(ErrWSIOffsetUnaligned,
				"offset %d, required alignment %d", slice.OffsetB, alignMask+1)
		}

		blockRowSizeB := AFRCBlockSizeFromModifier(props.Modifier) * AFRCClumpsPerTile
		widthFromPitch := (slice.RowStrideB / blockRowSizeB) * tileExtentPx.Width

		if widthFromPitch < mipExtentPx.Width {
			dev.logRejection("WSI pitch too small",
				"pitch", constraints.WSIRowPitchB, "width", mipExtentPx.Width)
			return cerrors.Wrapf(ErrWSIPitchTooSmall,
				"pitch %d covers width %d, image width %d",
				constraints.WSIRowPitchB, widthFromPitch, mipExtentPx.Width)
		}

		// A non-strict import ignores the WSI row pitch and sizes from
		// the resource width.
		if !constraints.Strict {
			slice.RowStrideB = AFRCRowStride(props.Format, props.Modifier,
				mipExtentPx.Width)
		}
	} else {
		slice.OffsetB = imgutils.AlignUp(constraintsOffset(constraints),
			uint64(alignMask)+1)
		slice.RowStrideB = imgutils.AlignUp(
			AFRCRowStride(props.Format, props.Modifier, mipExtentPx.Width),
			alignMask+1)
	}

	surfStrideB := uint64(slice.RowStrideB) *
		uint64(imgutils.DivRoundUp(alignedExtentPx.Height, tileExtentPx.Height))

	slice.SurfaceStrideB = surfStrideB
	slice.SizeB = surfStrideB * uint64(alignedExtentPx.Depth) * uint64(props.NrSamples)

	if slice.SizeB > maxSizeB(dev.Arch) || surfStrideB > maxSliceStrideB(dev.Arch) {
		return cerrors.Wrapf(ErrFieldOverflow,
			"size %d, surface stride %d", slice.SizeB, surfStrideB)
	}
	return nil
}

func (afrcHandler) WSIRowPitch(props *ImageProps, planeIdx uint32, l *ImageLayout, level uint32) uint32 {
	return l.Slices[level].RowStrideB / AFRCTileSize(props.Format, props.Modifier).Height
}
