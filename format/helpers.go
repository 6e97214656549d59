package format

// BlockWidth returns the width in pixels of one format block.
func BlockWidth(f PixelFormat) uint32 { return Describe(f).BlockWidth }

// BlockHeight returns the height in pixels of one format block.
func BlockHeight(f PixelFormat) uint32 { return Describe(f).BlockHeight }

// BlockDepth returns the depth in pixels of one format block.
func BlockDepth(f PixelFormat) uint32 { return Describe(f).BlockDepth }

// BlockSizeB returns the size in bytes of one block of the first plane.
func BlockSizeB(f PixelFormat) uint32 { return Describe(f).BlockSizeB }

// BlockSizeBits returns the size in bits of one block of the first plane.
func BlockSizeBits(f PixelFormat) uint32 { return Describe(f).BlockSizeB * 8 }

// IsCompressed reports whether f is a block-compressed format.
func IsCompressed(f PixelFormat) bool {
	return Describe(f).Layout == LayoutCompressed
}

// IsYUV reports whether f is laid out as YUV on Mali. Subsampled RGB formats
// are considered YUV formats by the hardware.
func IsYUV(f PixelFormat) bool {
	switch Describe(f).Layout {
	case LayoutSubsampled, LayoutPlanar2, LayoutPlanar3:
		return true
	default:
		return false
	}
}

// NumPlanes returns the number of memory planes of f.
func NumPlanes(f PixelFormat) uint32 { return Describe(f).NumPlanes }

// NumComponents returns the number of channels of f.
func NumComponents(f PixelFormat) uint32 { return uint32(Describe(f).NumChannels) }

// ChannelSizeBits returns the bit width of the given channel.
func ChannelSizeBits(f PixelFormat, channel int) uint32 {
	return uint32(Describe(f).ChannelBits[channel])
}

// PlaneWidth returns the width in pixels of the given plane, accounting for
// chroma subsampling.
func PlaneWidth(f PixelFormat, planeIdx, widthPx uint32) uint32 {
	if planeIdx == 0 {
		return widthPx
	}
	return widthPx >> Describe(f).ChromaWShift
}

// PlaneHeight returns the height in pixels of the given plane, accounting
// for chroma subsampling.
func PlaneHeight(f PixelFormat, planeIdx, heightPx uint32) uint32 {
	if planeIdx == 0 {
		return heightPx
	}
	return heightPx >> Describe(f).ChromaHShift
}

// PlaneBlockSizeB returns the size in bytes of one block of the given plane.
// Chroma planes of two-plane formats pack two (or, for the 10-bit formats,
// two 5-byte groups of) samples per block.
func PlaneBlockSizeB(f PixelFormat, planeIdx uint32) uint32 {
	desc := Describe(f)
	if desc.NumPlanes == 1 {
		return desc.BlockSizeB
	}
	return desc.planeBlockSize[planeIdx]
}

// Linear strips the sRGB interpretation from a format, if any. The memory
// layout of a format and its sRGB variant is identical.
func Linear(f PixelFormat) PixelFormat {
	switch f {
	case R8G8B8A8Srgb:
		return R8G8B8A8Unorm
	case B8G8R8A8Srgb:
		return B8G8R8A8Unorm
	default:
		return f
	}
}

// IsRGB reports whether f carries RGB-interpreted channels (linear or sRGB).
func IsRGB(f PixelFormat) bool {
	space := Describe(f).Colorspace
	return space == ColorspaceRGB || space == ColorspaceSRGB
}

// IsZS reports whether f is a depth and/or stencil format.
func IsZS(f PixelFormat) bool {
	return Describe(f).Colorspace == ColorspaceZS
}
