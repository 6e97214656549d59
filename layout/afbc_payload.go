package layout

import (
	"encoding/binary"

	"github.com/panforge/maliimage/drm"
	"github.com/panforge/maliimage/format"
	"github.com/panforge/maliimage/imgutils"
)

// AFBCHeaderBlock is one 16-byte superblock header. Bytes 0..3 hold the
// payload offset; bytes 4..15 hold sixteen 6-bit subblock sizes. A header
// whose first subblock size is zero encodes a solid colour on v7 onwards,
// with the colour embedded in place of the offset.
type AFBCHeaderBlock [AFBCHeaderBytesPerTile]byte

// PayloadOffset returns the offset from the start of the AFBC buffer to the
// superblock payload data.
func (h AFBCHeaderBlock) PayloadOffset() uint32 {
	return binary.LittleEndian.Uint32(h[0:4])
}

// SubblockSize returns the size field of the 4x4 subblock at index in the
// range [0, 15].
func (h AFBCHeaderBlock) SubblockSize(index int) uint32 {
	lo := binary.LittleEndian.Uint64(h[0:8])
	hi := binary.LittleEndian.Uint64(h[8:16])
	const mask = (1 << 6) - 1

	switch index {
	case 0:
		return uint32(lo>>32) & mask
	case 1:
		return uint32(lo>>38) & mask
	case 2:
		return uint32(lo>>44) & mask
	case 3:
		return uint32(lo>>50) & mask
	case 4:
		return uint32(lo>>56) & mask
	case 5:
		return uint32((lo>>62)|(hi<<2)) & mask
	case 6:
		return uint32(hi>>4) & mask
	case 7:
		return uint32(hi>>10) & mask
	case 8:
		return uint32(hi>>16) & mask
	case 9:
		return uint32(hi>>22) & mask
	case 10:
		return uint32(hi>>28) & mask
	case 11:
		return uint32(hi>>34) & mask
	case 12:
		return uint32(hi>>40) & mask
	case 13:
		return uint32(hi>>46) & mask
	case 14:
		return uint32(hi>>52) & mask
	case 15:
		return uint32(hi>>58) & mask
	default:
		panic("subblock index out of range")
	}
}

// AFBCPayloadExtent locates the payload data of one superblock within the
// body region.
type AFBCPayloadExtent struct {
	SizeB   uint32
	OffsetB uint32
}

// AFBCPayloadUncompressedSize returns the payload size in bytes of an
// uncompressed subblock, which is what a size field of 1 escapes to.
func AFBCPayloadUncompressedSize(f format.PixelFormat, mod drm.Modifier) uint32 {
	sub := afbcSubblockSize(mod)
	return format.BlockSizeBits(f) / 8 * sub.Width * sub.Height
}

// AFBCPayloadSize returns the payload size in bytes of the superblock behind
// one header, for the superblock layouts 0, 3, 4 and 7.
func AFBCPayloadSize(arch uint32, h AFBCHeaderBlock, uncompressedSizeB uint32) uint32 {
	// A zero first subblock is a solid colour with no payload.
	if arch >= 7 && h.SubblockSize(0) == 0 {
		return 0
	}

	var size uint64
	for i := 0; i < 16; i++ {
		subSize := h.SubblockSize(i)
		if subSize != 1 {
			size += uint64(subSize)
		} else {
			size += uint64(uncompressedSizeB)
		}
	}

	return uint32(imgutils.AlignUp(size, 16))
}

// sumSubblockSizes adds up the sixteen subblock size fields, expanding the
// uncompressed escape. The fields occupy bytes 4..15, four per three bytes;
// unpacking byte triplets keeps this path branch-light for large batches and
// matches the shift extraction bit for bit.
func sumSubblockSizes(h *AFBCHeaderBlock, uncompressedSizeB uint32) uint64 {
	const mask = (1 << 6) - 1

	expand := func(s uint32) uint64 {
		if s == 1 {
			return uint64(uncompressedSizeB)
		}
		return uint64(s)
	}

	var size uint64
	for i := 4; i < AFBCHeaderBytesPerTile; i += 3 {
		b0, b1, b2 := uint32(h[i]), uint32(h[i+1]), uint32(h[i+2])
		size += expand(b0 & mask)
		size += expand((b0>>6 | b1<<2) & mask)
		size += expand((b1>>4 | b2<<4) & mask)
		size += expand(b2 >> 2)
	}
	return size
}

// AFBCPayloadLayoutPacked computes the payload size of every superblock in
// headers and assigns consecutive packed offsets into layout, returning the
// total body size. layout must be at least as long as headers. The sizes
// match AFBCPayloadSize exactly.
func AFBCPayloadLayoutPacked(arch uint32, headers []AFBCHeaderBlock,
	layout []AFBCPayloadExtent, f format.PixelFormat, mod drm.Modifier) uint32 {

	uncompressedSizeB := AFBCPayloadUncompressedSize(f, mod)
	solidColor := arch >= 7

	var offset uint32
	for i := range headers {
		var size uint32
		if !solidColor || headers[i].SubblockSize(0) != 0 {
			size = uint32(imgutils.AlignUp(
				sumSubblockSizes(&headers[i], uncompressedSizeB), 16))
		}

		layout[i] = AFBCPayloadExtent{SizeB: size, OffsetB: offset}
		offset += size
	}

	return offset
}
