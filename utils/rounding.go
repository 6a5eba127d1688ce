package utils

import "math"

// ClampToZero floors negative nutrient values at zero. Negative numbers are
// never propagated into stored or derived totals.
func ClampToZero(v float64) float64 {
	return math.Max(0, v)
}

// RoundCalories clamps and rounds to the nearest whole kilocalorie.
func RoundCalories(cal float64) int {
	return int(math.Round(ClampToZero(cal)))
}

// RoundMacro clamps and rounds a gram/milligram value to one decimal place.
func RoundMacro(macro float64) float64 {
	return math.Round(ClampToZero(macro)*10) / 10
}
