package layout

import (
	"fmt"

	"github.com/panforge/maliimage/drm"
	"github.com/panforge/maliimage/format"
	"github.com/panforge/maliimage/imgutils"
)

// Support grades how well a modifier fits a given image on a given device.
type Support int

const (
	// SupportNone means the device cannot create the image with this
	// modifier at all.
	SupportNone Support = iota

	// SupportNotOptimal means the image can be created but a better
	// modifier exists; modifier negotiation should prefer other options.
	SupportNotOptimal

	// SupportOptimal means the modifier is a good choice for this image.
	SupportOptimal
)

func (s Support) String() string {
	switch s {
	case SupportNone:
		return "none"
	case SupportNotOptimal:
		return "not-optimal"
	case SupportOptimal:
		return "optimal"
	}
	return fmt.Sprintf("Support(%d)", int(s))
}

// ModHandler implements layout computation and support policy for one family
// of DRM format modifiers. Handlers are stateless; per-device parameters
// arrive through DeviceProps on every call.
type ModHandler interface {
	// Match reports whether this handler covers mod.
	Match(mod drm.Modifier) bool

	// TestProps grades modifier support for the given image properties
	// and usage. Rejections on capable hardware are logged through
	// dev.Logger at debug level.
	TestProps(dev *DeviceProps, props *ImageProps, usage *Usage) Support

	// InitSliceLayout fills slice with the layout of one mip level.
	// mipExtent is the level's extent in pixels, already minified and
	// plane-adjusted. constraints carries explicit-import pitch and
	// offset requirements and is nil for native images.
	InitSliceLayout(dev *DeviceProps, props *ImageProps, planeIdx uint32,
		mipExtent Extent, constraints *Constraints, slice *SliceLayout) error

	// WSIRowPitch returns the row pitch of one mip level as exported to
	// window-system integration, in bytes.
	WSIRowPitch(props *ImageProps, planeIdx uint32, l *ImageLayout, level uint32) uint32
}

var modHandlers = []ModHandler{
	afbcHandler{},
	afrcHandler{},
	uTiledHandler{},
	linearHandler{},
}

var supportedArchs = map[uint32]bool{
	4: true, 5: true, 6: true, 7: true,
	9: true, 10: true, 12: true, 13: true,
}

// GetHandler returns the handler for mod on the given GPU architecture, or
// nil when no handler matches. Panics on an architecture the engine does not
// know about, since that is a programming error rather than a runtime
// condition.
func GetHandler(arch uint32, mod drm.Modifier) ModHandler {
	if !supportedArchs[arch] {
		panic(fmt.Sprintf("unknown GPU architecture v%d", arch))
	}

	for _, h := range modHandlers {
		if h.Match(mod) {
			if _, isAFRC := h.(afrcHandler); isAFRC && arch < 10 {
				continue
			}
			return h
		}
	}
	return nil
}

// ChooseModifier picks the best modifier for the image out of candidates,
// honoring the preference order of drm.SupportedModifiers. Returns the chosen
// modifier and true, or false when no candidate is supported.
func ChooseModifier(dev *DeviceProps, props *ImageProps, usage *Usage, candidates []drm.Modifier) (drm.Modifier, bool) {
	allowed := make(map[drm.Modifier]bool, len(candidates))
	for _, m := range candidates {
		allowed[m] = true
	}

	bestSupport := SupportNone
	var best drm.Modifier
	for _, m := range drm.SupportedModifiers() {
		if !allowed[m] {
			continue
		}
		h := GetHandler(dev.Arch, m)
		if h == nil {
			continue
		}
		test := *props
		test.Modifier = m
		switch h.TestProps(dev, &test, usage) {
		case SupportOptimal:
			return m, true
		case SupportNotOptimal:
			if bestSupport == SupportNone {
				bestSupport = SupportNotOptimal
				best = m
			}
		}
	}

	if bestSupport == SupportNone {
		return 0, false
	}
	return best, true
}

// BlockSizeEl returns the basic block size for the modifier in texel-block
// units. Plain formats tile at 16x16, block-compressed formats at 4x4 so one
// tile still covers 16x16 pixels.
func BlockSizeEl(mod drm.Modifier, f format.PixelFormat, planeIdx uint32) BlockExtent {
	switch {
	case mod.IsAFBC():
		return afbcSuperblockSizeEl(mod, f)
	case mod.IsAFRC():
		return AFRCTileSize(f, mod)
	case mod == drm.ModArm16x16BlockUInterleaved:
		if format.IsCompressed(f) {
			return BlockExtent{Width: 4, Height: 4}
		}
		return BlockExtent{Width: 16, Height: 16}
	default:
		return BlockExtent{Width: 1, Height: 1}
	}
}

// RenderblockSizeEl returns the effective block size for tile-buffer access.
// It matches BlockSizeEl except for AFBC, where wide superblocks still render
// in regions 16 pixels tall.
func RenderblockSizeEl(mod drm.Modifier, f format.PixelFormat, planeIdx uint32) BlockExtent {
	if mod.IsAFBC() {
		rb := AFBCRenderblockSize(mod)
		return BlockExtent{
			Width:  rb.Width / format.BlockWidth(f),
			Height: rb.Height / format.BlockHeight(f),
		}
	}
	return BlockSizeEl(mod, f, planeIdx)
}

// linearOrTiledRowAlignReq returns the row stride alignment requirement in
// bytes for linear and u-interleaved images.
func linearOrTiledRowAlignReq(arch uint32, f format.PixelFormat, planeIdx uint32) uint32 {
	if arch < 7 {
		// Planar formats align on the plane blocksize.
		if format.NumPlanes(f) > 1 {
			return imgutils.NextPow2(format.PlaneBlockSizeB(f, planeIdx))
		}

		if format.IsCompressed(f) {
			return imgutils.NextPow2(format.BlockSizeB(f))
		}

		// Align on a pixel unless all components are the same size,
		// 8-bit aligned and a power of two, in which case a component
		// boundary is enough.
		desc := format.Describe(f)
		var compBits uint8
		for i := uint8(0); i < desc.NumChannels; i++ {
			bits := desc.ChannelBits[i]
			if bits == 0 {
				continue
			}
			if bits%8 != 0 || !imgutils.IsPow2(uint32(bits)) {
				return imgutils.NextPow2(format.BlockSizeB(f))
			}
			if compBits != 0 && compBits != bits {
				return imgutils.NextPow2(format.BlockSizeB(f))
			}
			compBits = bits
		}
		return uint32(compBits) / 8
	}

	switch f {
	// On v7+ the subsampled planar formats have a looser alignment
	// requirement of 16 bytes.
	case format.R8_G8B8_420Unorm, format.G8_B8R8_420Unorm,
		format.R8_G8_B8_420Unorm, format.R8_B8_G8_420Unorm,
		format.R8_G8B8_422Unorm, format.R8_B8G8_422Unorm:
		return 16
	// The 10-bit formats are looser still.
	case format.R10_G10B10_420Unorm, format.R10_G10B10_422Unorm:
		return 1
	default:
		return 64
	}
}

const sliceAlignB = 64

// maxSizeB returns the largest byte size a surface descriptor can express on
// the given architecture.
func maxSizeB(arch uint32) uint64 {
	if arch >= 11 {
		return imgutils.MaxUint(48)
	}
	return imgutils.MaxUint(32)
}

// maxSliceStrideB returns the largest slice stride a surface descriptor can
// express on the given architecture.
func maxSliceStrideB(arch uint32) uint64 {
	if arch >= 11 {
		return imgutils.MaxUint(37)
	}
	return imgutils.MaxUint(32)
}
