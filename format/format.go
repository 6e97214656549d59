package format

// Package format describes the pixel formats the Mali layout engine can
// place in memory. Each format maps to one immutable Description: the block
// geometry the format is addressed in, the byte size of one block, channel
// bit widths, and how the format decomposes into planes. The tables are
// read-only after load; lookups are safe from any goroutine.

// PixelFormat identifies a pixel format.
type PixelFormat uint32

const (
	None PixelFormat = iota

	R8Unorm
	R8G8Unorm
	R8G8B8Unorm
	B8G8R8Unorm
	R8G8B8A8Unorm
	R8G8B8A8Srgb
	R8G8B8X8Unorm
	B8G8R8A8Unorm
	B8G8R8A8Srgb
	B8G8R8X8Unorm
	A8R8G8B8Unorm
	X8R8G8B8Unorm
	A8B8G8R8Unorm
	X8B8G8R8Unorm

	R5G6B5Unorm
	B5G6R5Unorm
	R5G5B5A1Unorm
	B5G5R5A1Unorm
	R4G4B4A4Unorm
	B4G4R4A4Unorm
	A4B4G4R4Unorm

	R10G10B10A2Unorm
	B10G10R10A2Unorm
	R10G10B10X2Unorm
	B10G10R10X2Unorm
	R11G11B10Float

	R16G16B16A16Float
	R32G32B32Float
	R32G32B32A32Float

	A8Unorm
	L8Unorm
	I8Unorm
	L8A8Unorm

	S8Uint
	Z16Unorm
	Z24S8Uint
	Z24X8Unorm
	X24S8Uint
	Z32Float

	ETC2RGB8
	ASTC4x4
	ASTC5x5

	// Interleaved (single-plane, subsampled) YUV.
	R8G8_R8B8Unorm
	G8R8_B8R8Unorm
	R8B8_R8G8Unorm
	B8R8_G8R8Unorm

	// Two-plane YUV.
	R8_G8B8_420Unorm
	R8_B8G8_420Unorm
	G8_B8R8_420Unorm
	R8_G8B8_422Unorm
	R8_B8G8_422Unorm
	R10_G10B10_420Unorm
	R10_G10B10_422Unorm

	// Three-plane YUV.
	R8_G8_B8_420Unorm
	R8_B8_G8_420Unorm

	// Single-plane packed YUV. These only exist in AFBC form.
	R8G8B8_420UnormPacked
	R10G10B10_420UnormPacked

	Count
)

// Colorspace classifies how channel values are interpreted.
type Colorspace uint8

const (
	ColorspaceRGB Colorspace = iota
	ColorspaceSRGB
	ColorspaceZS
	ColorspaceYUV
)

// BlockLayout classifies how texels are grouped into blocks.
type BlockLayout uint8

const (
	LayoutPlain BlockLayout = iota
	LayoutCompressed
	LayoutSubsampled
	LayoutPlanar2
	LayoutPlanar3
)

// Description is the immutable geometry and channel description of a
// PixelFormat.
type Description struct {
	Name string

	// Block extent in pixels. Anything non-compressed and non-subsampled
	// is 1x1x1.
	BlockWidth  uint32
	BlockHeight uint32
	BlockDepth  uint32

	// Size in bytes of one block of the first plane.
	BlockSizeB uint32

	// Bit widths of the channels, zero-terminated.
	ChannelBits [4]uint8
	NumChannels uint8

	Colorspace Colorspace
	Layout     BlockLayout

	// Number of memory planes. Chroma planes of 420/422 formats are
	// subsampled horizontally (and vertically for 420).
	NumPlanes      uint32
	ChromaWShift   uint32
	ChromaHShift   uint32
	planeBlockSize [3]uint32
}

var descriptions = [Count]Description{
	None: {Name: "NONE", BlockWidth: 1, BlockHeight: 1, BlockDepth: 1, BlockSizeB: 0, NumPlanes: 1},

	R8Unorm:       plain("R8_UNORM", 1, ColorspaceRGB, 8),
	R8G8Unorm:     plain("R8G8_UNORM", 2, ColorspaceRGB, 8, 8),
	R8G8B8Unorm:   plain("R8G8B8_UNORM", 3, ColorspaceRGB, 8, 8, 8),
	B8G8R8Unorm:   plain("B8G8R8_UNORM", 3, ColorspaceRGB, 8, 8, 8),
	R8G8B8A8Unorm: plain("R8G8B8A8_UNORM", 4, ColorspaceRGB, 8, 8, 8, 8),
	R8G8B8A8Srgb:  plain("R8G8B8A8_SRGB", 4, ColorspaceSRGB, 8, 8, 8, 8),
	R8G8B8X8Unorm: plain("R8G8B8X8_UNORM", 4, ColorspaceRGB, 8, 8, 8, 8),
	B8G8R8A8Unorm: plain("B8G8R8A8_UNORM", 4, ColorspaceRGB, 8, 8, 8, 8),
	B8G8R8A8Srgb:  plain("B8G8R8A8_SRGB", 4, ColorspaceSRGB, 8, 8, 8, 8),
	B8G8R8X8Unorm: plain("B8G8R8X8_UNORM", 4, ColorspaceRGB, 8, 8, 8, 8),
	A8R8G8B8Unorm: plain("A8R8G8B8_UNORM", 4, ColorspaceRGB, 8, 8, 8, 8),
	X8R8G8B8Unorm: plain("X8R8G8B8_UNORM", 4, ColorspaceRGB, 8, 8, 8, 8),
	A8B8G8R8Unorm: plain("A8B8G8R8_UNORM", 4, ColorspaceRGB, 8, 8, 8, 8),
	X8B8G8R8Unorm: plain("X8B8G8R8_UNORM", 4, ColorspaceRGB, 8, 8, 8, 8),

	R5G6B5Unorm:   plain("R5G6B5_UNORM", 2, ColorspaceRGB, 5, 6, 5),
	B5G6R5Unorm:   plain("B5G6R5_UNORM", 2, ColorspaceRGB, 5, 6, 5),
	R5G5B5A1Unorm: plain("R5G5B5A1_UNORM", 2, ColorspaceRGB, 5, 5, 5, 1),
	B5G5R5A1Unorm: plain("B5G5R5A1_UNORM", 2, ColorspaceRGB, 5, 5, 5, 1),
	R4G4B4A4Unorm: plain("R4G4B4A4_UNORM", 2, ColorspaceRGB, 4, 4, 4, 4),
	B4G4R4A4Unorm: plain("B4G4R4A4_UNORM", 2, ColorspaceRGB, 4, 4, 4, 4),
	A4B4G4R4Unorm: plain("A4B4G4R4_UNORM", 2, ColorspaceRGB, 4, 4, 4, 4),

	R10G10B10A2Unorm: plain("R10G10B10A2_UNORM", 4, ColorspaceRGB, 10, 10, 10, 2),
	B10G10R10A2Unorm: plain("B10G10R10A2_UNORM", 4, ColorspaceRGB, 10, 10, 10, 2),
	R10G10B10X2Unorm: plain("R10G10B10X2_UNORM", 4, ColorspaceRGB, 10, 10, 10, 2),
	B10G10R10X2Unorm: plain("B10G10R10X2_UNORM", 4, ColorspaceRGB, 10, 10, 10, 2),
	R11G11B10Float:   plain("R11G11B10_FLOAT", 4, ColorspaceRGB, 11, 11, 10),

	R16G16B16A16Float: plain("R16G16B16A16_FLOAT", 8, ColorspaceRGB, 16, 16, 16, 16),
	R32G32B32Float:    plain("R32G32B32_FLOAT", 12, ColorspaceRGB, 32, 32, 32),
	R32G32B32A32Float: plain("R32G32B32A32_FLOAT", 16, ColorspaceRGB, 32, 32, 32, 32),

	A8Unorm:  plain("A8_UNORM", 1, ColorspaceRGB, 8),
	L8Unorm:  plain("L8_UNORM", 1, ColorspaceRGB, 8),
	I8Unorm:  plain("I8_UNORM", 1, ColorspaceRGB, 8),
	L8A8Unorm: plain("L8A8_UNORM", 2, ColorspaceRGB, 8, 8),

	S8Uint:    plain("S8_UINT", 1, ColorspaceZS, 8),
	Z16Unorm:  plain("Z16_UNORM", 2, ColorspaceZS, 16),
	Z24S8Uint: plain("Z24S8_UINT", 4, ColorspaceZS, 24, 8),
	Z24X8Unorm: plain("Z24X8_UNORM", 4, ColorspaceZS, 24, 8),
	X24S8Uint: plain("X24S8_UINT", 4, ColorspaceZS, 24, 8),
	Z32Float:  plain("Z32_FLOAT", 4, ColorspaceZS, 32),

	ETC2RGB8: compressed("ETC2_RGB8", 4, 4, 8, 3),
	ASTC4x4:  compressed("ASTC_4X4", 4, 4, 16, 4),
	ASTC5x5:  compressed("ASTC_5X5", 5, 5, 16, 4),

	R8G8_R8B8Unorm: subsampled("R8G8_R8B8_UNORM"),
	G8R8_B8R8Unorm: subsampled("G8R8_B8R8_UNORM"),
	R8B8_R8G8Unorm: subsampled("R8B8_R8G8_UNORM"),
	B8R8_G8R8Unorm: subsampled("B8R8_G8R8_UNORM"),

	R8_G8B8_420Unorm:    planar2("R8_G8B8_420_UNORM", 1, 1, 1, 2),
	R8_B8G8_420Unorm:    planar2("R8_B8G8_420_UNORM", 1, 1, 1, 2),
	G8_B8R8_420Unorm:    planar2("G8_B8R8_420_UNORM", 1, 1, 1, 2),
	R8_G8B8_422Unorm:    planar2("R8_G8B8_422_UNORM", 1, 0, 1, 2),
	R8_B8G8_422Unorm:    planar2("R8_B8G8_422_UNORM", 1, 0, 1, 2),
	R10_G10B10_420Unorm: planar2of10("R10_G10B10_420_UNORM", 1),
	R10_G10B10_422Unorm: planar2of10("R10_G10B10_422_UNORM", 0),

	R8_G8_B8_420Unorm: planar3("R8_G8_B8_420_UNORM"),
	R8_B8_G8_420Unorm: planar3("R8_B8_G8_420_UNORM"),

	R8G8B8_420UnormPacked:    packedYUV("R8G8B8_420_UNORM_PACKED", 6, 8),
	R10G10B10_420UnormPacked: packedYUV("R10G10B10_420_UNORM_PACKED", 8, 10),
}

func plain(name string, sizeB uint32, space Colorspace, bits ...uint8) Description {
	d := Description{
		Name:       name,
		BlockWidth: 1, BlockHeight: 1, BlockDepth: 1,
		BlockSizeB: sizeB,
		Colorspace: space,
		Layout:     LayoutPlain,
		NumPlanes:  1,
	}
	copy(d.ChannelBits[:], bits)
	d.NumChannels = uint8(len(bits))
	return d
}

func compressed(name string, w, h, sizeB uint32, channels uint8) Description {
	return Description{
		Name:       name,
		BlockWidth: w, BlockHeight: h, BlockDepth: 1,
		BlockSizeB:  sizeB,
		ChannelBits: [4]uint8{8, 8, 8, 8},
		NumChannels: channels,
		Colorspace:  ColorspaceRGB,
		Layout:      LayoutCompressed,
		NumPlanes:   1,
	}
}

func subsampled(name string) Description {
	return Description{
		Name:       name,
		BlockWidth: 2, BlockHeight: 1, BlockDepth: 1,
		BlockSizeB:  4,
		ChannelBits: [4]uint8{8, 8, 8},
		NumChannels: 3,
		Colorspace:  ColorspaceYUV,
		Layout:      LayoutSubsampled,
		NumPlanes:   1,
	}
}

func planar2(name string, wShift, hShift, lumaB, chromaB uint32) Description {
	return Description{
		Name:       name,
		BlockWidth: 1, BlockHeight: 1, BlockDepth: 1,
		BlockSizeB:  lumaB,
		ChannelBits: [4]uint8{8, 8, 8},
		NumChannels: 3,
		Colorspace:  ColorspaceYUV,
		Layout:      LayoutPlanar2,
		NumPlanes:   2,
		ChromaWShift: wShift, ChromaHShift: hShift,
		planeBlockSize: [3]uint32{lumaB, chromaB},
	}
}

// 10-bit planar formats pack four samples in five bytes, so the block covers
// four pixels horizontally.
func planar2of10(name string, hShift uint32) Description {
	return Description{
		Name:       name,
		BlockWidth: 4, BlockHeight: 1, BlockDepth: 1,
		BlockSizeB:  5,
		ChannelBits: [4]uint8{10, 10, 10},
		NumChannels: 3,
		Colorspace:  ColorspaceYUV,
		Layout:      LayoutPlanar2,
		NumPlanes:   2,
		ChromaWShift: 1, ChromaHShift: hShift,
		planeBlockSize: [3]uint32{5, 10},
	}
}

func planar3(name string) Description {
	return Description{
		Name:       name,
		BlockWidth: 1, BlockHeight: 1, BlockDepth: 1,
		BlockSizeB:  1,
		ChannelBits: [4]uint8{8, 8, 8},
		NumChannels: 3,
		Colorspace:  ColorspaceYUV,
		Layout:      LayoutPlanar3,
		NumPlanes:   3,
		ChromaWShift: 1, ChromaHShift: 1,
		planeBlockSize: [3]uint32{1, 1, 1},
	}
}

func packedYUV(name string, sizeB uint32, bits uint8) Description {
	return Description{
		Name:       name,
		BlockWidth: 2, BlockHeight: 2, BlockDepth: 1,
		BlockSizeB:  sizeB,
		ChannelBits: [4]uint8{bits, bits, bits},
		NumChannels: 3,
		Colorspace:  ColorspaceYUV,
		Layout:      LayoutSubsampled,
		NumPlanes:   1,
	}
}

// Describe returns the description of f. Unknown formats are a programming
// error.
func Describe(f PixelFormat) *Description {
	if f >= Count {
		panic("format: unknown pixel format")
	}
	return &descriptions[f]
}

func (f PixelFormat) String() string {
	return Describe(f).Name
}
