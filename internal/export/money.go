package export

import "fmt"

// formatPaise renders a minor-unit amount with exactly two decimal places,
// e.g. 118000 -> "1180.00", -50 -> "-0.50".
func formatPaise(p int64) string {
	sign := ""
	if p < 0 {
		sign = "-"
		p = -p
	}
	return fmt.Sprintf("%s%d.%02d", sign, p/100, p%100)
}

// formatQuantity renders a thousandths quantity without trailing zeros,
// e.g. 10000 -> "10", 2500 -> "2.5".
func formatQuantity(q int64) string {
	sign := ""
	if q < 0 {
		sign = "-"
		q = -q
	}
	whole, frac := q/1000, q%1000
	if frac == 0 {
		return fmt.Sprintf("%s%d", sign, whole)
	}
	s := fmt.Sprintf("%s%d.%03d", sign, whole, frac)
	for s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	return s
}

// paiseToRupees converts a minor-unit amount to a float for spreadsheet
// cells. Only used at the presentation boundary; all arithmetic stays in
// int64.
func paiseToRupees(p int64) float64 {
	return float64(p) / 100
}
