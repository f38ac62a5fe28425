package utils

import "math"

// ToMinorUnits converts a decimal price to the smallest currency unit (paise, pesewas, cents).
func ToMinorUnits(price float64) int64 {
	return int64(math.Round(price * 100))
}
