package types

import (
	"strings"
	"unicode"
)

type Token struct {
	Index    int32
	Text     string
	IsPunct  bool
	IsWord   bool
	IsNumber bool
	Shape    string
}

// NewToken classifies the token text once at construction. A token is a word
// when it contains a letter, a number when it contains a digit but no letter
// ("3.14" and "1,000" count, "A4" does not), and punctuation when every rune
// is punctuation or a symbol.
func NewToken(index int32, text string) *Token {
	token := &Token{
		Index: index,
		Text:  text,
		Shape: GetShape(text),
	}

	letters, digits, other := 0, 0, 0
	for _, r := range text {
		switch {
		case unicode.IsLetter(r):
			letters++
		case unicode.IsDigit(r):
			digits++
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			other++
		}
	}
	token.IsWord = letters > 0
	token.IsNumber = digits > 0 && letters == 0
	token.IsPunct = len(text) > 0 && other == len([]rune(text))
	return token
}

// GetShape maps every rune of txt to d (digit), X (upper) or x (anything
// else).
func GetShape(txt string) string {
	var sb strings.Builder
	for _, r := range txt {
		switch {
		case unicode.IsDigit(r):
			sb.WriteRune('d')
		case unicode.IsUpper(r):
			sb.WriteRune('X')
		default:
			sb.WriteRune('x')
		}
	}

	return sb.String()
}
