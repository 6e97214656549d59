package drm

// SupportedModifiers returns the modifiers the layout engine can produce, in
// descending order of preference. AFBC is faster than u-interleaved tiling
// which is faster than linear. Within AFBC, enabling the YUV-like transform
// is typically a win where possible. AFRC is only used if explicitly asked
// for (only for RGB formats), so it sorts after the lossless layouts.
func SupportedModifiers() []Modifier {
	return []Modifier{
		ArmAFBC(AFBCBlockSize32x8 | AFBCSparse | AFBCSplit),
		ArmAFBC(AFBCBlockSize32x8 | AFBCSparse | AFBCSplit | AFBCYTR),

		ArmAFBC(AFBCBlockSize16x16 | AFBCTiled | AFBCSC | AFBCSparse | AFBCYTR),
		ArmAFBC(AFBCBlockSize16x16 | AFBCTiled | AFBCSC | AFBCSparse),

		ArmAFBC(AFBCBlockSize16x16 | AFBCSparse | AFBCYTR),
		ArmAFBC(AFBCBlockSize16x16 | AFBCSparse),

		ModArm16x16BlockUInterleaved,
		ModLinear,

		ArmAFRC(AFRCCuSizeP0(AFRCCuSize16)),
		ArmAFRC(AFRCCuSizeP0(AFRCCuSize24)),
		ArmAFRC(AFRCCuSizeP0(AFRCCuSize32)),
		ArmAFRC(AFRCCuSizeP0(AFRCCuSize16) | AFRCScanLayout),
		ArmAFRC(AFRCCuSizeP0(AFRCCuSize24) | AFRCScanLayout),
		ArmAFRC(AFRCCuSizeP0(AFRCCuSize32) | AFRCScanLayout),
	}
}
