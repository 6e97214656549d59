package layout

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/slog"

	"github.com/panforge/maliimage/drm"
	"github.com/panforge/maliimage/format"
)

const (
	// MaxMipLevels is the deepest mip chain the hardware can address.
	MaxMipLevels = 17
	// MaxImagePlanes bounds the planes of a multi-planar image.
	MaxImagePlanes = 3
)

// Extent is a 3D size in pixels.
type Extent struct {
	Width  uint32
	Height uint32
	Depth  uint32
}

// BlockExtent is the 2D footprint of a layout block: the superblock size for
// AFBC, the paging-tile size for AFRC, the tile size for u-interleaving.
type BlockExtent struct {
	Width  uint32
	Height uint32
}

// Dimension is the image dimensionality.
type Dimension uint8

const (
	Dim1D Dimension = iota + 1
	Dim2D
	Dim3D
)

// Bind is a bitset of the ways an image can be bound to the pipeline.
type Bind uint32

const (
	BindSamplerView Bind = 1 << iota
	BindRenderTarget
	BindDepthStencil
	BindStorageImage
)

// Usage captures how an image will be used, for modifier admission and
// optimality decisions. A nil *Usage means "evaluate for the best possible
// usage" when enumerating candidate modifiers.
type Usage struct {
	Bind Bind

	// WSI is set for images shared with the window system.
	WSI bool
	// HostCopy is set when the host writes pixel data directly into the
	// image memory.
	HostCopy bool
	// FrequentHostUpdates hints that host uploads happen often enough that
	// layouts requiring a conversion blit are a bad trade.
	FrequentHostUpdates bool
}

// DeviceProps carries the device facts the layout engine needs: the
// architecture version and the feature registers that gate AFBC/AFRC.
// Logger, when non-nil, receives diagnostics about rejected layouts; there
// is no global debug state.
type DeviceProps struct {
	// Arch is the Mali architecture major version. Supported values are
	// 4, 5, 6, 7, 9, 10, 12 and 13; v8 and v11 are aliased to their
	// predecessors by the hardware numbering.
	Arch uint32

	// AFBCFeatures mirrors the AFBC_FEATURES register; implementations
	// that omit AFBC signal it with a nonzero value.
	AFBCFeatures uint32

	// TextureFeatures mirrors the TEXTURE_FEATURES registers.
	TextureFeatures [4]uint32

	Logger *slog.Logger
}

// SupportsAFBC reports AFBC hardware support. AFBC is introduced in v5.
func (d *DeviceProps) SupportsAFBC() bool {
	return d.Arch >= 5 && d.AFBCFeatures == 0
}

// SupportsAFRC reports AFRC hardware support. AFRC is introduced in v10 and
// signaled in bit 25 of TEXTURE_FEATURES_0.
func (d *DeviceProps) SupportsAFRC() bool {
	return d.Arch >= 10 && d.TextureFeatures[0]&(1<<25) != 0
}

func (d *DeviceProps) logRejection(msg string, args ...any) {
	if d.Logger != nil {
		d.Logger.Debug(msg, args...)
	}
}

// ImageProps is the immutable description of an image: everything a layout
// decision depends on. It is created once at image-creation time and never
// mutated.
type ImageProps struct {
	Modifier drm.Modifier
	Format   format.PixelFormat
	ExtentPx Extent
	NrSamples uint32
	Dim       Dimension
	// NrSlices is the number of mip levels.
	NrSlices  uint32
	ArraySize uint32
	// CRC requests a checksum (transaction elimination) region after each
	// mip level.
	CRC bool
}

// Validate performs internal consistency checks on the image description.
// Exercised through imgutils.DebugValidate under the debug_img_utils build
// tag.
func (p *ImageProps) Validate() error {
	if p.ExtentPx.Width == 0 || p.ExtentPx.Height == 0 || p.ExtentPx.Depth == 0 {
		return errors.New("image extent must be non-zero")
	}
	if p.NrSamples == 0 {
		return errors.New("sample count must be non-zero")
	}
	if p.NrSlices == 0 || p.NrSlices > MaxMipLevels {
		return errors.Errorf("mip level count %d out of range", p.NrSlices)
	}
	if p.ExtentPx.Depth > 1 && p.NrSamples > 1 {
		return errors.New("multisampling and depth are mutually exclusive")
	}
	return nil
}

// Constraints optionally pin parts of a layout. A non-zero WSIRowPitchB
// switches the engine into explicit mode: the caller-supplied pitch and
// offset are validated against hardware constraints instead of being chosen
// by the engine. Constraints are consumed per call and never retained.
type Constraints struct {
	// OffsetB is the plane offset in bytes. For native images this is the
	// planar plane offset; for imported images the caller-specified
	// explicit offset.
	OffsetB uint64

	// WSIRowPitchB is the row pitch in bytes. Non-zero means the layout is
	// explicit.
	WSIRowPitchB uint32

	// Strict enforces exact tile-row alignment on explicit imports.
	// Non-strict imports tolerate historically loose WSI producers by
	// validating the pitch minimally and sizing from the image extent.
	Strict bool
}
