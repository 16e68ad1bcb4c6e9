package translit

// devanagariDigits maps ASCII digits to their Devanagari counterparts.
var devanagariDigits = map[rune]rune{
	'0': '०', '1': '१', '2': '२', '3': '३', '4': '४',
	'5': '५', '6': '६', '7': '७', '8': '८', '9': '९',
}

// ToDevanagariDigits rewrites ASCII digits in the input (Aadhaar numbers,
// registration numbers, dates) into Devanagari numerals. Non-digit runes
// pass through unchanged.
func ToDevanagariDigits(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if d, ok := devanagariDigits[r]; ok {
			out = append(out, d)
			continue
		}
		out = append(out, r)
	}
	return string(out)
}
