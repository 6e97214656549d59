package layout

import (
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// LayoutJsonData populates a json object with the computed plane layout,
// one entry per mip level.
func (l *ImageLayout) LayoutJsonData(json jwriter.ObjectState) {
	json.Name("DataSize").Int(int(l.DataSizeB))
	json.Name("ArrayStride").Int(int(l.ArrayStrideB))

	slices := json.Name("Slices").Array()
	defer slices.End()

	for level := uint32(0); level < l.nrSlices; level++ {
		slice := &l.Slices[level]

		obj := slices.Object()

		obj.Name("Offset").Int(int(slice.OffsetB))
		obj.Name("Size").Int(int(slice.SizeB))
		obj.Name("RowStride").Int(int(slice.RowStrideB))
		obj.Name("SurfaceStride").Int(int(slice.SurfaceStrideB))

		if l.AFBCMode != AFBCModeInvalid {
			afbc := obj.Name("AFBC").Object()
			afbc.Name("HeaderSize").Int(int(slice.AFBC.HeaderSizeB))
			afbc.Name("BodyOffset").Int(int(slice.AFBC.BodyOffsetB))
			afbc.Name("BodySize").Int(int(slice.AFBC.BodySizeB))
			afbc.Name("SurfaceStride").Int(int(slice.AFBC.SurfaceStrideB))
			afbc.End()
		}

		if slice.CRC.SizeB != 0 {
			crc := obj.Name("CRC").Object()
			crc.Name("Offset").Int(int(slice.CRC.OffsetB))
			crc.Name("Stride").Int(int(slice.CRC.StrideB))
			crc.Name("Size").Int(int(slice.CRC.SizeB))
			crc.End()
		}

		obj.End()
	}
}

// BuildLayoutString renders the layout of one plane as a JSON document, for
// logging and bug reports.
func BuildLayoutString(props *ImageProps, l *ImageLayout) string {
	writer := jwriter.NewWriter()

	obj := writer.Object()
	obj.Name("Format").String(props.Format.String())
	obj.Name("Modifier").Int(int(props.Modifier))
	obj.Name("Width").Int(int(props.ExtentPx.Width))
	obj.Name("Height").Int(int(props.ExtentPx.Height))
	obj.Name("Depth").Int(int(props.ExtentPx.Depth))
	l.LayoutJsonData(obj)
	obj.End()

	return string(writer.Bytes())
}
