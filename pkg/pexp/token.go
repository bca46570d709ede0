package pexp

import (
	"fmt"
	"strings"
)

// TokenKind identifies the lexical class of a Token.
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenOpen
	TokenClose
	TokenComma
	TokenColon
	TokenText
)

var tokenKindStrings = [...]string{"EOF", "'('", "')'", "','", "':'", "text"}

func (k TokenKind) String() string {
	if k >= 0 && int(k) < len(tokenKindStrings) {
		return tokenKindStrings[k]
	}
	return "?"
}

const (
	openParen   = '('
	closeParen  = ')'
	sepChildren = ','
	sepHeight   = ':'
)

// Token is one lexical unit of an expression. Pos is the byte offset of the
// token's first significant character. Text tokens are trimmed of surrounding
// whitespace.
type Token struct {
	Kind TokenKind
	Text string
	Pos  int
}

func (t Token) String() string {
	if t.Kind == TokenText {
		return fmt.Sprintf("%s %q@%d", t.Kind, t.Text, t.Pos)
	}
	return fmt.Sprintf("%s@%d", t.Kind, t.Pos)
}

// Tokenize splits text into tokens. The returned slice always ends with a
// TokenEOF. Whitespace-only runs between punctuation produce no token.
func Tokenize(text string) []Token {
	var toks []Token
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		raw := text[start:end]
		trimmed := strings.TrimSpace(raw)
		if trimmed != "" {
			lead := strings.Index(raw, trimmed)
			toks = append(toks, Token{Kind: TokenText, Text: trimmed, Pos: start + lead})
		}
		start = -1
	}
	for i := 0; i < len(text); i++ {
		var kind TokenKind
		switch text[i] {
		case openParen:
			kind = TokenOpen
		case closeParen:
			kind = TokenClose
		case sepChildren:
			kind = TokenComma
		case sepHeight:
			kind = TokenColon
		default:
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
		toks = append(toks, Token{Kind: kind, Text: text[i : i+1], Pos: i})
	}
	flush(len(text))
	toks = append(toks, Token{Kind: TokenEOF, Pos: len(text)})
	return toks
}
