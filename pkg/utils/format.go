// Package utils provides shared utility functions.
package utils

import (
	"fmt"
	"math"
	"strings"
)

// FormatPrice formats a price with precision appropriate to its magnitude.
// Large-cap pairs get 2 decimals, small-cap pairs keep enough precision to
// stay meaningful.
func FormatPrice(price float64) string {
	abs := math.Abs(price)
	switch {
	case abs >= 1000:
		return addThousands(fmt.Sprintf("%.2f", price))
	case abs >= 1:
		return fmt.Sprintf("%.4f", price)
	case abs == 0:
		return "0.00"
	default:
		return fmt.Sprintf("%.8f", price)
	}
}

func addThousands(s string) string {
	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}

	parts := strings.Split(s, ".")
	intPart := parts[0]

	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	result := strings.Join(groups, ",")
	if len(parts) > 1 {
		result += "." + parts[1]
	}
	if negative {
		result = "-" + result
	}
	return result
}

// FormatPercent formats a percentage with sign.
func FormatPercent(value float64) string {
	sign := ""
	if value > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, value)
}

// FormatVolume formats traded volume with thousands separators.
func FormatVolume(volume float64) string {
	if volume >= 1 {
		return addThousands(fmt.Sprintf("%.0f", volume))
	}
	return fmt.Sprintf("%.4f", volume)
}

// FormatConfidence renders a confidence value as a percentage.
func FormatConfidence(confidence float64) string {
	return fmt.Sprintf("%.0f%%", confidence*100)
}
