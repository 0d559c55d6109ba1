package gst

import "regexp"

// gstinPattern matches the 15-character GSTIN layout: 2-digit state code,
// 10-character PAN, entity code, the literal Z, and a check character.
var gstinPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z]{1}[1-9A-Z]{1}Z[0-9A-Z]{1}$`)

// ValidGSTIN reports whether s is a structurally valid GSTIN.
func ValidGSTIN(s string) bool {
	return gstinPattern.MatchString(s)
}

// GSTINState extracts the state-code prefix from a GSTIN. It returns an
// empty code when the value is too short to carry one.
func GSTINState(gstin string) StateCode {
	if len(gstin) < 2 {
		return ""
	}
	return StateCode(gstin[:2])
}
