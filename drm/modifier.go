package drm

// Package drm carries the subset of the Linux DRM format-modifier UAPI that
// Mali image layouts are negotiated with. A modifier is an opaque 64-bit
// tagged value: the top byte identifies the vendor, the next nibble the
// layout family, and the low bits carry family-specific options. Values here
// are bit-for-bit the drm_fourcc.h encodings so modifiers can be exchanged
// with compositors and other drivers without translation.

// Modifier is a DRM format modifier value.
type Modifier uint64

const (
	vendorArm uint64 = 0x08

	armTypeAFBC uint64 = 0x00
	armTypeMisc uint64 = 0x01
	armTypeAFRC uint64 = 0x02
)

func armCode(armType uint64, value uint64) Modifier {
	return Modifier((vendorArm << 56) | (armType << 52) | (value & 0x000fffffffffffff))
}

// ModLinear is the universal row-major linear layout.
const ModLinear Modifier = 0

// ModArm16x16BlockUInterleaved is the Mali u-interleaved tiling scheme,
// reordering texels within 16x16 (or 4x4 for block-compressed formats) tiles.
var ModArm16x16BlockUInterleaved = armCode(armTypeMisc, 1)

// AFBC modifier option bits. The block-size field selects the superblock
// geometry; the remaining bits are feature flags.
const (
	AFBCBlockSizeMask Modifier = 0xf

	AFBCBlockSize16x16 Modifier = 1
	AFBCBlockSize32x8  Modifier = 2
	AFBCBlockSize64x4  Modifier = 3

	// AFBCYTR enables the lossless YUV-like colour transform.
	AFBCYTR Modifier = 1 << 4
	// AFBCSplit splits the payload of each superblock across subblocks.
	AFBCSplit Modifier = 1 << 5
	// AFBCSparse pads each superblock payload to its uncompressed size so
	// payloads can be written without repacking.
	AFBCSparse Modifier = 1 << 6
	// AFBCCBR selects copy-block restricted mode.
	AFBCCBR Modifier = 1 << 7
	// AFBCTiled groups superblock headers into 8x8 paging tiles.
	AFBCTiled Modifier = 1 << 8
	// AFBCSC allows solid-colour block optimization.
	AFBCSC Modifier = 1 << 9
	// AFBCDB signals double-buffer friendliness.
	AFBCDB Modifier = 1 << 10
	// AFBCBCH enables the buffer content hints.
	AFBCBCH Modifier = 1 << 11
	// AFBCUSM signals uncompressed storage mode.
	AFBCUSM Modifier = 1 << 12
)

// AFRC modifier option bits. Coding-unit sizes for plane 0 live in the low
// nibble, planes 1/2 in the next nibble.
const (
	AFRCCuSizeMask Modifier = 0xf

	AFRCCuSize16 Modifier = 1
	AFRCCuSize24 Modifier = 2
	AFRCCuSize32 Modifier = 3

	// AFRCScanLayout optimizes the clump layout for scan-line order access
	// instead of rotation-friendly 2D locality.
	AFRCScanLayout Modifier = 1 << 8
)

// ArmAFBC builds an AFBC modifier from the given block-size and flag bits.
func ArmAFBC(mode Modifier) Modifier {
	return armCode(armTypeAFBC, uint64(mode))
}

// ArmAFRC builds an AFRC modifier from the given coding-unit and layout bits.
func ArmAFRC(mode Modifier) Modifier {
	return armCode(armTypeAFRC, uint64(mode))
}

// AFRCCuSizeP0 places a coding-unit size in the plane-0 field.
func AFRCCuSizeP0(cuSize Modifier) Modifier {
	return cuSize
}

// AFRCCuSizeP12 places a coding-unit size in the planes-1/2 field.
func AFRCCuSizeP12(cuSize Modifier) Modifier {
	return cuSize << 4
}

// IsAFBC reports whether the modifier belongs to the AFBC family.
func (m Modifier) IsAFBC() bool {
	return uint64(m)>>52 == (armTypeAFBC | vendorArm<<4)
}

// IsAFRC reports whether the modifier belongs to the AFRC family.
func (m Modifier) IsAFRC() bool {
	return uint64(m)>>52 == (armTypeAFRC | vendorArm<<4)
}
