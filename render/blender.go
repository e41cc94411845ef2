package render

// BlendMode defines compositing operations using a bitmask (Flags | Op)
type BlendMode uint8

const (
	opReplace uint8 = 0x00
	opAlpha   uint8 = 0x01
	opAdd     uint8 = 0x02
	opMax     uint8 = 0x03
	opScreen  uint8 = 0x04
)

const (
	flagBg uint8 = 0x10
	flagFg uint8 = 0x20
)

const (
	BlendReplace = BlendMode(opReplace | flagBg | flagFg)
	BlendAlpha   = BlendMode(opAlpha | flagBg | flagFg)
	BlendAdd     = BlendMode(opAdd | flagBg | flagFg)
	BlendScreen  = BlendMode(opScreen | flagBg | flagFg)

	BlendAlphaFg  = BlendMode(opAlpha | flagFg)
	BlendAlphaBg  = BlendMode(opAlpha | flagBg)
	BlendAddBg    = BlendMode(opAdd | flagBg)
	BlendMaxFg    = BlendMode(opMax | flagFg)
	BlendScreenBg = BlendMode(opScreen | flagBg)
)

func apply(op uint8, dst, src RGB, alpha float64) RGB {
	switch op {
	case opReplace:
		return src
	case opAlpha:
		return Blend(dst, src, alpha)
	case opAdd:
		return Add(dst, Scale(src, clampAlpha(alpha)))
	case opMax:
		return Max(dst, Scale(src, clampAlpha(alpha)))
	case opScreen:
		return Screen(dst, Scale(src, clampAlpha(alpha)))
	}
	return dst
}
