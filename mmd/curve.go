package mmd

// Curve is a cubic Bezier easing curve in its compact form: the control
// points (x1, y1) and (x2, y2), each coordinate scaled by 127.
// The zero value is a straight line.
type Curve [4]byte

// LinearCurve is the default, non-eased interpolation.
var LinearCurve = Curve{}

// Curve channels in the interpolation block.
const (
	CurveX = iota
	CurveY
	CurveZ
	CurveRotation
)

// InterpolationSize is the size of the interpolation block of a bone keyframe.
const InterpolationSize = 64

// NewCurve returns the compact form of the curve through (x1, y1), (x2, y2).
// Coordinates are clamped to [0, 1].
func NewCurve(x1, y1, x2, y2 float32) Curve {
	return Curve{scaleCurvePoint(x1), scaleCurvePoint(y1), scaleCurvePoint(x2), scaleCurvePoint(y2)}
}

func scaleCurvePoint(v float32) byte {
	if v < 0 || v != v {
		v = 0
	} else if v > 1 {
		v = 1
	}
	return byte(v * 127)
}

// Points returns the control points.
func (c Curve) Points() (x1, y1, x2, y2 float32) {
	return float32(c[0]) / 127, float32(c[1]) / 127, float32(c[2]) / 127, float32(c[3]) / 127
}

// SameCurves returns c for every channel.
func SameCurves(c Curve) [4]Curve {
	return [4]Curve{c, c, c, c}
}

// PackCurves builds the interpolation block of a bone keyframe.
//
// The 16 byte head holds component i of channel j at i*4+j. It is repeated in
// four 16 byte rows, row r keeping only the first 16-r bytes, and bytes 31, 46
// and 61 are always 1.
func PackCurves(curves [4]Curve) [InterpolationSize]byte {
	var head [16]byte
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			head[i*4+j] = curves[j][i]
		}
	}

	var dst [InterpolationSize]byte
	for i := 0; i < 4; i++ {
		copy(dst[i*16:], head[:16-i])
	}
	dst[31], dst[46], dst[61] = 1, 1, 1
	return dst
}

// UnpackCurves reads the per-channel curves back from an interpolation block.
func UnpackCurves(block [InterpolationSize]byte) [4]Curve {
	var curves [4]Curve
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			curves[j][i] = block[i*4+j]
		}
	}
	return curves
}
