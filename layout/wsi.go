package layout

// WSIOffset returns the offset of a mip level as exported to window-system
// integration.
func WSIOffset(l *ImageLayout, level uint32) uint64 {
	return l.Slices[level].OffsetB
}

// WSIRowPitch returns the row pitch of a mip level as exported to
// window-system integration. The pitch is expressed in bytes per pixel row,
// whatever the modifier; feeding it back through ImageLayoutInit in explicit
// mode reproduces the same layout.
func WSIRowPitch(dev *DeviceProps, props *ImageProps, planeIdx uint32,
	l *ImageLayout, level uint32) uint32 {

	handler := GetHandler(dev.Arch, props.Modifier)
	if handler == nil {
		return 0
	}

	return handler.WSIRowPitch(props, planeIdx, l, level)
}
