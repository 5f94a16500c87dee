// SPDX-License-Identifier: EPL-2.0

package utils

// Float32ToInt16 quantizes a float sample to signed 16-bit PCM.
//
// The sample is clamped to [-1, 1]. Negative values are scaled by 32768 and
// non-negative values by 32767, then truncated toward zero, so -1 maps to
// math.MinInt16 and 1 maps to math.MaxInt16 without overflow. The product
// is taken in float64 so rounding cannot push it onto the next integer.
// NaN maps to 0.
func Float32ToInt16(x float32) int16 {
	if x != x {
		return 0
	}

	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	if x < 0 {
		return int16(float64(x) * 32768)
	}

	return int16(float64(x) * 32767)
}

// Int16ToFloat32 is the inverse of Float32ToInt16 up to quantization error.
func Int16ToFloat32(v int16) float32 {
	if v < 0 {
		return float32(v) / 32768.0
	}

	return float32(v) / 32767.0
}
