package layout

import "github.com/pkg/errors"

// ErrWSIPitchTooSmall is returned when an explicit WSI row pitch implies an
// image narrower than the one being laid out.
var ErrWSIPitchTooSmall error = errors.New("WSI pitch too small")

// ErrWSIPitchUnaligned is returned when an explicit WSI row pitch does not
// satisfy the modifier's row alignment requirement.
var ErrWSIPitchUnaligned error = errors.New("WSI pitch not properly aligned")

// ErrWSIOffsetUnaligned is returned when an explicit offset does not satisfy
// the modifier's offset alignment requirement.
var ErrWSIOffsetUnaligned error = errors.New("WSI offset not properly aligned")

// ErrWSIPitchNotTileAligned is returned for strict AFBC imports whose pitch
// is not a whole number of superblock payloads.
var ErrWSIPitchNotTileAligned error = errors.New("WSI pitch is not aligned on an AFBC tile")

// ErrExplicitLayoutUnsupported is returned when an explicit layout is
// requested for an image shape WSI producers never describe: anything other
// than a single-sample, single-level, single-layer 2D image without CRC.
var ErrExplicitLayoutUnsupported error = errors.New("explicit layouts require a single-sample single-level single-layer 2D image without CRC")

// ErrFieldOverflow is returned when a computed size or stride exceeds the
// bit width of the hardware descriptor field it must be emitted into.
var ErrFieldOverflow error = errors.New("layout field exceeds hardware descriptor range")

// ErrInvalidPlane is returned when the requested plane index is out of range
// for the image format.
var ErrInvalidPlane error = errors.New("plane index out of range")

// ErrModifierUnsupported is returned when no handler implements the
// requested modifier on the target architecture.
var ErrModifierUnsupported error = errors.New("modifier not implemented on this architecture")

// ErrFormatNotCompressible is returned when a format has no AFBC encoding.
var ErrFormatNotCompressible error = errors.New("format has no AFBC encoding")
