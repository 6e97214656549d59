package layout

import (
	"fmt"

	"github.com/panforge/maliimage/drm"
	"github.com/panforge/maliimage/format"
)

// Arm Fixed-Rate Compression (AFRC) is a lossy compression scheme natively
// implemented in Mali GPUs. AFRC images can only be rendered to or textured
// from; image reads and writes are not possible. The image is divided into
// fixed-size coding units (clumps) grouped into paging tiles. The clump size
// depends on the format and on whether the layout is optimized for 2D
// locality and rotation or for scan-line order access. Each clump compresses
// to a block of 16, 24 or 32 bytes, so the compression rate is exact and
// known up front.

// AFRCClumpsPerTile is the number of coding units in one paging tile.
const AFRCClumpsPerTile = 64

// AFRCRate is a fixed compression rate in bits per component.
type AFRCRate uint32

const (
	AFRCRateNone AFRCRate = iota
	AFRCRate1BPC
	AFRCRate2BPC
	AFRCRate3BPC
	AFRCRate4BPC
	AFRCRate5BPC
	AFRCRate6BPC
	AFRCRate7BPC
	AFRCRate8BPC
	AFRCRate9BPC
	AFRCRate10BPC
	AFRCRate11BPC
	AFRCRate12BPC

	AFRCRateDefault AFRCRate = 0xf
)

// AFRCInterchangeFormat classifies the sample interchange layout of an AFRC
// plane.
type AFRCInterchangeFormat uint8

const (
	AFRCInterchangeRaw AFRCInterchangeFormat = iota
	AFRCInterchangeYUV444
	AFRCInterchangeYUV422
	AFRCInterchangeYUV420
)

// AFRCFormatInfo describes how a format maps onto AFRC coding. A zero
// NumComps means the format cannot be AFRC-compressed.
type AFRCFormatInfo struct {
	BPC        uint32
	NumComps   uint32
	Interchange AFRCInterchangeFormat
	NumPlanes  uint32
}

// AFRCIsScan reports whether the modifier selects the scan-order layout.
func AFRCIsScan(mod drm.Modifier) bool {
	return mod&drm.AFRCScanLayout != 0
}

// AFRCFormatInfoFor returns the AFRC coding description of f, or a zero
// value when f cannot be compressed.
func AFRCFormatInfoFor(f format.PixelFormat) AFRCFormatInfo {
	var info AFRCFormatInfo

	// No AFRC(compressed), AFRC(ZS) or AFRC(YUV) yet.
	if format.IsCompressed(f) {
		return info
	}
	desc := format.Describe(f)
	if desc.Colorspace == format.ColorspaceZS {
		return info
	}
	if format.IsYUV(f) {
		return info
	}

	// Only formats where all components are the same size.
	var bpc uint32
	for c := uint8(0); c < desc.NumChannels; c++ {
		if bpc != 0 && bpc != uint32(desc.ChannelBits[c]) {
			return info
		}
		bpc = uint32(desc.ChannelBits[0])
	}

	info.BPC = bpc
	info.Interchange = AFRCInterchangeRaw
	info.NumPlanes = format.NumPlanes(f)
	info.NumComps = format.NumComponents(f)
	return info
}

// AFRCSupportsFormat reports whether f has an AFRC encoding.
func AFRCSupportsFormat(f format.PixelFormat) bool {
	return AFRCFormatInfoFor(f).NumComps != 0
}

// AFRCClumpSize returns the coding-unit size in pixels for f under the given
// layout order.
func AFRCClumpSize(f format.PixelFormat, scan bool) BlockExtent {
	switch AFRCFormatInfoFor(f).NumComps {
	case 1:
		if scan {
			return BlockExtent{Width: 16, Height: 4}
		}
		return BlockExtent{Width: 8, Height: 8}
	case 2:
		return BlockExtent{Width: 8, Height: 4}
	case 3, 4:
		return BlockExtent{Width: 4, Height: 4}
	default:
		panic(fmt.Sprintf("format %s has no AFRC clump size", f))
	}
}

// afrcClumpComponents returns the total number of components in one coding
// unit.
func afrcClumpComponents(f format.PixelFormat, scan bool) uint32 {
	clump := AFRCClumpSize(f, scan)
	return clump.Width * clump.Height * format.NumComponents(f)
}

// AFRCLayoutSize returns the paging-tile footprint in clumps.
func AFRCLayoutSize(mod drm.Modifier) BlockExtent {
	if AFRCIsScan(mod) {
		return BlockExtent{Width: 16, Height: 4}
	}
	return BlockExtent{Width: 8, Height: 8}
}

// AFRCTileSize returns the paging-tile size in pixels: the clump size scaled
// by the tile layout.
func AFRCTileSize(f format.PixelFormat, mod drm.Modifier) BlockExtent {
	clump := AFRCClumpSize(f, AFRCIsScan(mod))
	lay := AFRCLayoutSize(mod)

	return BlockExtent{
		Width:  clump.Width * lay.Width,
		Height: clump.Height * lay.Height,
	}
}

// AFRCBlockSizeFromModifier returns the coding-unit block size in bytes.
func AFRCBlockSizeFromModifier(mod drm.Modifier) uint32 {
	switch mod & drm.AFRCCuSizeMask {
	case drm.AFRCCuSize16:
		return 16
	case drm.AFRCCuSize24:
		return 24
	case drm.AFRCCuSize32:
		return 32
	default:
		panic(fmt.Sprintf("invalid coding unit size flag in modifier %#x", uint64(mod)))
	}
}

// AFRCBufferAlignmentFromModifier returns the buffer alignment in bytes
// required for the coding-unit size.
func AFRCBufferAlignmentFromModifier(mod drm.Modifier) uint32 {
	switch mod & drm.AFRCCuSizeMask {
	case drm.AFRCCuSize16:
		return 1024
	case drm.AFRCCuSize24:
		return 512
	case drm.AFRCCuSize32:
		return 2048
	default:
		panic(fmt.Sprintf("invalid coding unit size flag in modifier %#x", uint64(mod)))
	}
}

// AFRCRowStride returns the number of bytes between rows of paging tiles for
// an image of the given width in pixels.
func AFRCRowStride(f format.PixelFormat, mod drm.Modifier, widthPx uint32) uint32 {
	tile := AFRCTileSize(f, mod)
	return (widthPx / tile.Width) * AFRCBlockSizeFromModifier(mod) * AFRCClumpsPerTile
}

// AFRCRateFor returns the fixed compression rate in bits per component the
// modifier yields for f, or AFRCRateNone when the pairing is invalid.
func AFRCRateFor(f format.PixelFormat, mod drm.Modifier) AFRCRate {
	if !mod.IsAFRC() || !AFRCSupportsFormat(f) {
		return AFRCRateNone
	}

	scan := AFRCIsScan(mod)
	blockComps := afrcClumpComponents(f, scan)
	blockBits := AFRCBlockSizeFromModifier(mod) * 8

	return AFRCRate(blockBits / blockComps)
}

var afrcBlockSizes = []struct {
	sizeB  uint32
	cuFlag drm.Modifier
}{
	{16, drm.AFRCCuSize16},
	{24, drm.AFRCCuSize24},
	{32, drm.AFRCCuSize32},
}

// AFRCQueryRates returns the compression rates available for f, in bits per
// component, smallest coding unit first. Rates that would not actually
// compress are skipped.
func AFRCQueryRates(f format.PixelFormat, max int) []AFRCRate {
	if !AFRCSupportsFormat(f) {
		return nil
	}

	// The rate applies to the component with the highest bit count; all
	// supported formats have equal-size components so the first one works.
	clumpComps := afrcClumpComponents(f, false)
	uncompressed := format.ChannelSizeBits(f, 0)

	var rates []AFRCRate
	for _, bs := range afrcBlockSizes {
		rate := (bs.sizeB * 8) / clumpComps
		if rate >= uncompressed {
			continue
		}

		rates = append(rates, AFRCRate(rate))
		if max > 0 && len(rates) == max {
			break
		}
	}

	return rates
}

// AFRCModifiersForRate returns the AFRC modifiers that achieve the given
// rate for f. AFRCRateDefault picks the 24-byte coding unit in both layout
// orders.
func AFRCModifiersForRate(f format.PixelFormat, rate AFRCRate, max int) []drm.Modifier {
	if !AFRCSupportsFormat(f) {
		return nil
	}

	// The number of components in a clump is the same in both layout
	// orders for all supported formats.
	clumpComps := afrcClumpComponents(f, false)

	if rate == AFRCRateDefault {
		mods := []drm.Modifier{
			drm.ArmAFRC(drm.AFRCCuSize24),
			drm.ArmAFRC(drm.AFRCCuSize24 | drm.AFRCScanLayout),
		}
		if max > 0 && max < len(mods) {
			mods = mods[:max]
		}
		return mods
	}

	var mods []drm.Modifier
	for _, bs := range afrcBlockSizes {
		if AFRCRate((bs.sizeB*8)/clumpComps) != rate {
			continue
		}
		for _, scan := range []drm.Modifier{0, drm.AFRCScanLayout} {
			if max <= 0 || len(mods) < max {
				mods = append(mods, drm.ArmAFRC(bs.cuFlag|scan))
			}
		}
	}

	return mods
}
