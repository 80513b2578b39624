package utils

func IsValidCEP(input string) bool {
	return len(OnlyDigits(input)) == 8
}

// FormatCEP renders 00000-000.
func FormatCEP(input string) string {
	d := OnlyDigits(input)
	if len(d) > 8 {
		d = d[:8]
	}
	if len(d) > 5 {
		return d[:5] + "-" + d[5:]
	}
	return d
}
