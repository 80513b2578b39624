package utils

func IsValidPhone(input string) bool {
	n := len(OnlyDigits(input))
	return n == 10 || n == 11
}

// FormatPhone renders (00) 00000-0000 for mobiles and (00) 0000-0000 for landlines.
func FormatPhone(input string) string {
	d := OnlyDigits(input)
	if len(d) > 11 {
		d = d[:11]
	}

	switch n := len(d); {
	case n == 11:
		return "(" + d[:2] + ") " + d[2:7] + "-" + d[7:]
	case n > 6:
		return "(" + d[:2] + ") " + d[2:6] + "-" + d[6:]
	case n > 2:
		return "(" + d[:2] + ") " + d[2:]
	default:
		return d
	}
}
