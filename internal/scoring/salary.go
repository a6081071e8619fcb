package scoring

import (
	"strconv"
	"strings"
	"unicode"
)

// SalaryRange is a parsed salary figure or bracket, in currency units.
type SalaryRange struct {
	Min float64
	Max float64
}

// ParseSalaryRange extracts up to two amounts from free text such as "45000", "45 000 €",
// "45k" or "45-55k€". A single figure yields Min == Max. A trailing "k" applies to every
// figure of the bracket when only the last one carries it.
func ParseSalaryRange(text string) (SalaryRange, bool) {
	amounts, suffixes := scanAmounts(text)
	if len(amounts) == 0 {
		return SalaryRange{}, false
	}
	if len(amounts) > 2 {
		amounts = amounts[:2]
		suffixes = suffixes[:2]
	}

	if len(amounts) == 2 && suffixes[1] && !suffixes[0] && amounts[0] < 1000 {
		suffixes[0] = true
	}
	for i := range amounts {
		if suffixes[i] {
			amounts[i] *= 1000
		}
	}

	low, high := amounts[0], amounts[len(amounts)-1]
	if low > high {
		low, high = high, low
	}
	if high <= 0 {
		return SalaryRange{}, false
	}
	return SalaryRange{Min: low, Max: high}, true
}

func scanAmounts(text string) ([]float64, []bool) {
	runes := []rune(strings.ToLower(text))
	var amounts []float64
	var thousands []bool

	for i := 0; i < len(runes); {
		if !unicode.IsDigit(runes[i]) {
			i++
			continue
		}

		var number strings.Builder
		decimal := false
	digits:
		for i < len(runes) {
			r := runes[i]
			switch {
			case unicode.IsDigit(r):
				number.WriteRune(r)
			case isGroupSeparator(r) && groupOfThree(runes, i+1):
			case (r == '.' || r == ',') && !decimal && i+1 < len(runes) && unicode.IsDigit(runes[i+1]):
				decimal = true
				number.WriteRune('.')
			default:
				break digits
			}
			i++
		}

		value, err := strconv.ParseFloat(number.String(), 64)
		if err != nil {
			continue
		}

		suffix := false
		j := i
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		if j < len(runes) && runes[j] == 'k' {
			suffix = true
			i = j + 1
		}

		amounts = append(amounts, value)
		thousands = append(thousands, suffix)
	}

	return amounts, thousands
}

func isGroupSeparator(r rune) bool {
	switch r {
	case ' ', '\u00a0', '\u202f', '.', ',', '\'':
		return true
	default:
		return false
	}
}

// groupOfThree reports whether exactly three digits start at position i, which marks a
// thousands separator in figures like "45 000" or "45.000".
func groupOfThree(runes []rune, i int) bool {
	if i+3 > len(runes) {
		return false
	}
	for k := i; k < i+3; k++ {
		if !unicode.IsDigit(runes[k]) {
			return false
		}
	}
	return i+3 == len(runes) || !unicode.IsDigit(runes[i+3])
}
