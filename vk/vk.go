package vk

// Package vk translates vkngwrapper core types into the layout engine's
// device-independent model, so Vulkan callers can feed swapchain and image
// creation parameters straight into layout computations.

import (
	"github.com/pkg/errors"
	"github.com/vkngwrapper/core/v2/core1_0"

	"github.com/panforge/maliimage/format"
	"github.com/panforge/maliimage/layout"
)

// ErrUnsupportedFormat is returned when a Vulkan format has no layout-engine
// equivalent.
var ErrUnsupportedFormat error = errors.New("vulkan format not supported by the layout engine")

// ErrUnsupportedImageType is returned for image types outside 1D/2D/3D.
var ErrUnsupportedImageType error = errors.New("unknown vulkan image type")

var formatTable = map[core1_0.Format]format.PixelFormat{
	core1_0.FormatR8UnsignedNormalized:                format.R8Unorm,
	core1_0.FormatR8G8UnsignedNormalized:              format.R8G8Unorm,
	core1_0.FormatR8G8B8UnsignedNormalized:            format.R8G8B8Unorm,
	core1_0.FormatB8G8R8UnsignedNormalized:            format.B8G8R8Unorm,
	core1_0.FormatR8G8B8A8UnsignedNormalized:          format.R8G8B8A8Unorm,
	core1_0.FormatR8G8B8A8SRGB:                        format.R8G8B8A8Srgb,
	core1_0.FormatB8G8R8A8UnsignedNormalized:          format.B8G8R8A8Unorm,
	core1_0.FormatB8G8R8A8SRGB:                        format.B8G8R8A8Srgb,
	core1_0.FormatA8B8G8R8UnsignedNormalizedPacked:    format.R8G8B8A8Unorm,
	core1_0.FormatR5G6B5UnsignedNormalizedPacked:      format.R5G6B5Unorm,
	core1_0.FormatB5G6R5UnsignedNormalizedPacked:      format.B5G6R5Unorm,
	core1_0.FormatR5G5B5A1UnsignedNormalizedPacked:    format.R5G5B5A1Unorm,
	core1_0.FormatB5G5R5A1UnsignedNormalizedPacked:    format.B5G5R5A1Unorm,
	core1_0.FormatR4G4B4A4UnsignedNormalizedPacked:    format.R4G4B4A4Unorm,
	core1_0.FormatB4G4R4A4UnsignedNormalizedPacked:    format.B4G4R4A4Unorm,
	core1_0.FormatA2B10G10R10UnsignedNormalizedPacked: format.R10G10B10A2Unorm,
	core1_0.FormatA2R10G10B10UnsignedNormalizedPacked: format.B10G10R10A2Unorm,
	core1_0.FormatB10G11R11UnsignedFloatPacked:        format.R11G11B10Float,
	core1_0.FormatR16G16B16A16SignedFloat:             format.R16G16B16A16Float,
	core1_0.FormatR32G32B32SignedFloat:                format.R32G32B32Float,
	core1_0.FormatR32G32B32A32SignedFloat:             format.R32G32B32A32Float,
	core1_0.FormatS8UnsignedInt:                       format.S8Uint,
	core1_0.FormatD16UnsignedNormalized:               format.Z16Unorm,
	core1_0.FormatD24UnsignedNormalizedS8UnsignedInt:  format.Z24S8Uint,
	core1_0.FormatD24X8UnsignedNormalizedPacked:       format.Z24X8Unorm,
	core1_0.FormatD32SignedFloat:                      format.Z32Float,
}

// FormatFromVulkan maps a Vulkan format onto the engine's pixel format.
// Block-compressed and multi-planar Vulkan formats are created through
// engine-native formats instead and are not translated here.
func FormatFromVulkan(f core1_0.Format) (format.PixelFormat, error) {
	mapped, ok := formatTable[f]
	if !ok {
		return format.None, errors.Wrapf(ErrUnsupportedFormat, "format %d", f)
	}
	return mapped, nil
}

// DimensionFromVulkan maps a Vulkan image type onto the engine's dimension.
func DimensionFromVulkan(imageType core1_0.ImageType) (layout.Dimension, error) {
	switch imageType {
	case core1_0.ImageType1D:
		return layout.Dim1D, nil
	case core1_0.ImageType2D:
		return layout.Dim2D, nil
	case core1_0.ImageType3D:
		return layout.Dim3D, nil
	default:
		return 0, errors.Wrapf(ErrUnsupportedImageType, "type %d", imageType)
	}
}

// ExtentFromVulkan converts a Vulkan 3D extent.
func ExtentFromVulkan(extent core1_0.Extent3D) layout.Extent {
	return layout.Extent{
		Width:  uint32(extent.Width),
		Height: uint32(extent.Height),
		Depth:  uint32(extent.Depth),
	}
}

// UsageFromVulkan derives the engine's usage description from Vulkan image
// usage flags.
func UsageFromVulkan(usageFlags core1_0.ImageUsageFlags) layout.Usage {
	var usage layout.Usage

	if usageFlags&core1_0.ImageUsageSampled != 0 ||
		usageFlags&core1_0.ImageUsageInputAttachment != 0 {
		usage.Bind |= layout.BindSamplerView
	}
	if usageFlags&core1_0.ImageUsageColorAttachment != 0 {
		usage.Bind |= layout.BindRenderTarget
	}
	if usageFlags&core1_0.ImageUsageDepthStencilAttachment != 0 {
		usage.Bind |= layout.BindDepthStencil
	}
	if usageFlags&core1_0.ImageUsageStorage != 0 {
		usage.Bind |= layout.BindStorageImage
	}
	if usageFlags&core1_0.ImageUsageTransferDst != 0 {
		usage.HostCopy = true
	}

	return usage
}
