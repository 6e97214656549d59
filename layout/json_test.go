package layout_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/panforge/maliimage/drm"
	"github.com/panforge/maliimage/format"
	"github.com/panforge/maliimage/layout"
)

func TestBuildLayoutString(t *testing.T) {
	dev := &layout.DeviceProps{Arch: 7}
	props := &layout.ImageProps{
		Modifier:  drm.ArmAFBC(drm.AFBCBlockSize16x16 | drm.AFBCSparse),
		Format:    format.R8G8B8A8Unorm,
		ExtentPx:  layout.Extent{Width: 64, Height: 64, Depth: 1},
		NrSamples: 1,
		Dim:       layout.Dim2D,
		NrSlices:  2,
		ArraySize: 1,
	}

	var l layout.ImageLayout
	require.NoError(t, layout.ImageLayoutInit(dev, props, 0, nil, &l))

	doc := layout.BuildLayoutString(props, &l)
	require.True(t, json.Valid([]byte(doc)), "invalid JSON: %s", doc)

	var parsed struct {
		Format string
		Width  int
		Slices []struct {
			Offset int
			Size   int
			AFBC   *struct {
				BodyOffset int
			}
		}
	}
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed))
	require.Equal(t, "R8G8B8A8_UNORM", parsed.Format)
	require.Equal(t, 64, parsed.Width)
	require.Len(t, parsed.Slices, 2)
	require.NotNil(t, parsed.Slices[0].AFBC)
	require.Equal(t, int(l.Slices[0].AFBC.BodyOffsetB), parsed.Slices[0].AFBC.BodyOffset)
}
