package utils

// IsValidCPF checks length, rejects repeated-digit numbers and verifies both
// check digits. Input may be formatted.
func IsValidCPF(input string) bool {
	cpf := OnlyDigits(input)
	if len(cpf) != 11 {
		return false
	}

	allSame := true
	for i := 1; i < len(cpf); i++ {
		if cpf[i] != cpf[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return false
	}

	return cpfCheckDigit(cpf[:9], 10) == int(cpf[9]-'0') &&
		cpfCheckDigit(cpf[:10], 11) == int(cpf[10]-'0')
}

func cpfCheckDigit(digits string, weight int) int {
	sum := 0
	for i := 0; i < len(digits); i++ {
		sum += int(digits[i]-'0') * (weight - i)
	}
	return (sum * 10) % 11 % 10
}

// FormatCPF renders 000.000.000-00; partial input is formatted as far as it goes.
func FormatCPF(input string) string {
	d := OnlyDigits(input)
	if len(d) > 11 {
		d = d[:11]
	}

	switch n := len(d); {
	case n > 9:
		return d[:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:]
	case n > 6:
		return d[:3] + "." + d[3:6] + "." + d[6:]
	case n > 3:
		return d[:3] + "." + d[3:]
	default:
		return d
	}
}
