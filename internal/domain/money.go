package domain

import "math"

// MinorUnitScale is the fixed number of minor units per major currency unit.
// The payment processor tracks all amounts in integer minor units (cents),
// while the application works in major-unit decimals.
const MinorUnitScale = 100

// MajorToMinor converts a major-unit decimal amount to integer minor units,
// rounding to the nearest minor unit.
func MajorToMinor(amount float64) int64 {
	return int64(math.Round(amount * MinorUnitScale))
}

// MinorToMajor converts integer minor units to a major-unit decimal amount.
func MinorToMajor(amount int64) float64 {
	return float64(amount) / MinorUnitScale
}
