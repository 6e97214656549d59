package vk_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v2/core1_0"

	"github.com/panforge/maliimage/format"
	"github.com/panforge/maliimage/layout"
	"github.com/panforge/maliimage/vk"
)

func TestFormatFromVulkan(t *testing.T) {
	f, err := vk.FormatFromVulkan(core1_0.FormatR8G8B8A8UnsignedNormalized)
	require.NoError(t, err)
	require.Equal(t, format.R8G8B8A8Unorm, f)

	// Packed Vulkan formats list components high bit first.
	f, err = vk.FormatFromVulkan(core1_0.FormatA2B10G10R10UnsignedNormalizedPacked)
	require.NoError(t, err)
	require.Equal(t, format.R10G10B10A2Unorm, f)

	f, err = vk.FormatFromVulkan(core1_0.FormatD24UnsignedNormalizedS8UnsignedInt)
	require.NoError(t, err)
	require.Equal(t, format.Z24S8Uint, f)

	_, err = vk.FormatFromVulkan(core1_0.FormatUndefined)
	require.ErrorIs(t, err, vk.ErrUnsupportedFormat)
}

func TestDimensionFromVulkan(t *testing.T) {
	dim, err := vk.DimensionFromVulkan(core1_0.ImageType2D)
	require.NoError(t, err)
	require.Equal(t, layout.Dim2D, dim)

	dim, err = vk.DimensionFromVulkan(core1_0.ImageType3D)
	require.NoError(t, err)
	require.Equal(t, layout.Dim3D, dim)

	_, err = vk.DimensionFromVulkan(core1_0.ImageType(42))
	require.ErrorIs(t, err, vk.ErrUnsupportedImageType)
}

func TestExtentFromVulkan(t *testing.T) {
	extent := vk.ExtentFromVulkan(core1_0.Extent3D{Width: 1920, Height: 1080, Depth: 1})
	require.Equal(t, layout.Extent{Width: 1920, Height: 1080, Depth: 1}, extent)
}

func TestUsageFromVulkan(t *testing.T) {
	usage := vk.UsageFromVulkan(core1_0.ImageUsageSampled | core1_0.ImageUsageColorAttachment)
	require.Equal(t, layout.BindSamplerView|layout.BindRenderTarget, usage.Bind)
	require.False(t, usage.HostCopy)

	usage = vk.UsageFromVulkan(core1_0.ImageUsageStorage | core1_0.ImageUsageTransferDst)
	require.Equal(t, layout.BindStorageImage, usage.Bind)
	require.True(t, usage.HostCopy)

	usage = vk.UsageFromVulkan(core1_0.ImageUsageDepthStencilAttachment)
	require.Equal(t, layout.BindDepthStencil, usage.Bind)
}
