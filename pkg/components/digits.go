package components

import "strings"

// DigitHeight is the number of rows in every big glyph.
const DigitHeight = 5

const glyphGap = " "

var bigGlyphs = map[rune][DigitHeight]string{
	'0': {"█████", "█   █", "█   █", "█   █", "█████"},
	'1': {"  █  ", " ██  ", "  █  ", "  █  ", "█████"},
	'2': {"█████", "    █", "█████", "█    ", "█████"},
	'3': {"█████", "    █", "█████", "    █", "█████"},
	'4': {"█   █", "█   █", "█████", "    █", "    █"},
	'5': {"█████", "█    ", "█████", "    █", "█████"},
	'6': {"█████", "█    ", "█████", "█   █", "█████"},
	'7': {"█████", "    █", "   █ ", "  █  ", " █   "},
	'8': {"█████", "█   █", "█████", "█   █", "█████"},
	'9': {"█████", "█   █", "█████", "    █", "█████"},
	':': {"   ", " █ ", "   ", " █ ", "   "},
}

// BigText renders s in five-row block glyphs, one space between glyphs.
// Runes without a glyph are skipped.
func BigText(s string) []string {
	rows := make([]strings.Builder, DigitHeight)
	first := true
	for _, r := range s {
		g, ok := bigGlyphs[r]
		if !ok {
			continue
		}
		for i := range rows {
			if !first {
				rows[i].WriteString(glyphGap)
			}
			rows[i].WriteString(g[i])
		}
		first = false
	}

	out := make([]string, DigitHeight)
	for i := range rows {
		out[i] = rows[i].String()
	}
	return out
}
