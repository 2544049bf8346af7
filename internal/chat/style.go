package chat

import (
	"strings"

	"github.com/muesli/termenv"
)

// Style markers. AltEscape is the author-friendly escape used in metadata
// and plugin sources; SectionSign is the canonical marker senders render.
const (
	AltEscape   = '&'
	SectionSign = '§'
)

// styleCodes are the characters that form a valid style code after an
// escape rune. Uppercase color codes are accepted and normalized to lower.
const styleCodes = "0123456789AaBbCcDdEeFfKkLlMmNnOoRr"

// Decode translates '&'-escaped style codes to the canonical section-sign
// form, lowercasing the code character. A doubled escape produces a literal
// '&'. Escapes not followed by a valid code pass through unchanged.
func Decode(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if runes[i] != AltEscape || i+1 >= len(runes) {
			b.WriteRune(runes[i])
			continue
		}
		switch {
		case runes[i+1] == AltEscape:
			b.WriteRune(AltEscape)
			i++
		case strings.ContainsRune(styleCodes, runes[i+1]):
			b.WriteRune(SectionSign)
			b.WriteRune(toLower(runes[i+1]))
			i++
		default:
			b.WriteRune(runes[i])
		}
	}
	return b.String()
}

// Strip removes all section-sign style codes from text.
func Strip(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if runes[i] == SectionSign && i+1 < len(runes) && strings.ContainsRune(styleCodes, runes[i+1]) {
			i++
			continue
		}
		b.WriteRune(runes[i])
	}
	return b.String()
}

func toLower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

// colorTable maps color code characters to ANSI palette slots.
var colorTable = map[rune]termenv.ANSIColor{
	'0': termenv.ANSIBlack,
	'1': termenv.ANSIBlue,
	'2': termenv.ANSIGreen,
	'3': termenv.ANSICyan,
	'4': termenv.ANSIRed,
	'5': termenv.ANSIMagenta,
	'6': termenv.ANSIYellow,
	'7': termenv.ANSIWhite,
	'8': termenv.ANSIBrightBlack,
	'9': termenv.ANSIBrightBlue,
	'a': termenv.ANSIBrightGreen,
	'b': termenv.ANSIBrightCyan,
	'c': termenv.ANSIBrightRed,
	'd': termenv.ANSIBrightMagenta,
	'e': termenv.ANSIBrightYellow,
	'f': termenv.ANSIBrightWhite,
}

// attrTable maps format code characters to ANSI attribute sequences.
var attrTable = map[rune]string{
	'l': termenv.BoldSeq,
	'm': termenv.CrossOutSeq,
	'n': termenv.UnderlineSeq,
	'o': termenv.ItalicSeq,
	'r': termenv.ResetSeq,
}

// Styler renders section-sign style codes as ANSI escape sequences.
type Styler struct {
	profile termenv.Profile
}

// NewStyler creates a styler for the given termenv profile. The Ascii
// profile strips style codes instead of rendering them.
func NewStyler(profile termenv.Profile) *Styler {
	return &Styler{profile: profile}
}

// DefaultStyler creates a styler matching the current terminal.
func DefaultStyler() *Styler {
	return NewStyler(termenv.ColorProfile())
}

// Render converts section-sign style codes in text to ANSI sequences. Text
// containing codes is terminated with a reset so styling does not leak into
// following lines. The 'k' (obfuscated) code has no terminal analog and is
// dropped.
func (s *Styler) Render(text string) string {
	if s.profile == termenv.Ascii {
		return Strip(text)
	}

	var b strings.Builder
	b.Grow(len(text))
	styled := false
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if runes[i] != SectionSign || i+1 >= len(runes) {
			b.WriteRune(runes[i])
			continue
		}
		code := toLower(runes[i+1])
		if color, ok := colorTable[code]; ok {
			b.WriteString(termenv.CSI + s.profile.Convert(color).Sequence(false) + "m")
			styled = true
			i++
			continue
		}
		if seq, ok := attrTable[code]; ok {
			b.WriteString(termenv.CSI + seq + "m")
			styled = code != 'r'
			i++
			continue
		}
		if code == 'k' {
			i++
			continue
		}
		b.WriteRune(runes[i])
	}
	if styled {
		b.WriteString(termenv.CSI + termenv.ResetSeq + "m")
	}
	return b.String()
}
