package token

import (
	"regexp"
	"strings"
)

// Delimiters in effect at the start of every template, until a delimiter
// change tag replaces them.
const (
	DefaultOpen  = "{{"
	DefaultClose = "}}"
)

var delimiterChange = regexp.MustCompile(`^=\s*(\S+)\s+(\S+)\s*=$`)

// scanner holds the state of a single Tokenize call, including the active
// delimiters.
type scanner struct {
	src  string
	mode Mode

	open  string
	close string

	tokens []Token
	// start of the literal text not yet emitted
	pending int

	// incremental newline counting; lineAt is only ever asked about
	// non-decreasing offsets
	linePos int
	line    int
}

// Tokenize converts template text into an ordered token sequence.
func Tokenize(text string, mode Mode) []Token {
	if mode == Strip {
		text = Collapse(text)
	}
	s := &scanner{
		src:   text,
		mode:  mode,
		open:  DefaultOpen,
		close: DefaultClose,
	}
	s.run()
	return s.tokens
}

func (s *scanner) run() {
	pos := strings.Index(s.src, s.open)
	for pos >= 0 {
		bodyStart := pos + len(s.open)
		rel := strings.Index(s.src[bodyStart:], s.close)
		if rel < 0 {
			break
		}
		end := bodyStart + rel
		// the close delimiter in effect for this tag, before a possible change
		closeLen := len(s.close)

		tok, isTag, extra := s.classify(s.src[bodyStart:end], end)
		next := end + closeLen + extra

		if isTag {
			literalEnd := pos
			if s.mode == Strict && (tok == nil || tok.Kind != Variable) {
				if indent, nl, ok := s.standalone(pos, next); ok {
					literalEnd -= len(indent)
					next += nl
					if tok != nil {
						tok.Standalone = true
						tok.Indent = indent
					}
				}
			}
			s.emitLiteral(literalEnd)
			if tok != nil {
				tok.Line = s.lineAt(pos)
				s.tokens = append(s.tokens, *tok)
			}
			s.pending = next
		}

		if next > len(s.src) {
			break
		}
		rel = strings.Index(s.src[next:], s.open)
		if rel < 0 {
			break
		}
		pos = next + rel
	}
	s.emitLiteral(len(s.src))
}

// classify inspects a tag body. isTag is false when the tag must stay in the
// output as literal text. A nil token with isTag set is a delimiter change.
// extra counts closing characters consumed beyond the close delimiter.
func (s *scanner) classify(body string, end int) (tok *Token, isTag bool, extra int) {
	if body == "" {
		return nil, false, 0
	}

	switch c := body[0]; c {
	case '#', '^':
		return &Token{Kind: SectionOpen, Text: strings.TrimSpace(body[1:]), Inverted: c == '^', Modifier: c}, true, 0
	case '/':
		return &Token{Kind: SectionClose, Text: strings.TrimSpace(body[1:]), Modifier: c}, true, 0
	}

	if m := delimiterChange.FindStringSubmatch(body); m != nil {
		s.open, s.close = m[1], m[2]
		return nil, true, 0
	}

	switch c := body[0]; c {
	case '!':
		return &Token{Kind: Comment, Text: strings.TrimSpace(body[1:]), Modifier: c}, true, 0
	case '>':
		return &Token{Kind: Partial, Text: strings.TrimSpace(body[1:]), Modifier: c}, true, 0
	}

	escape := true
	if s.open == DefaultOpen && body[0] == '{' && strings.HasPrefix(s.src[end:], s.close+"}") {
		body = body[1:]
		escape = false
		extra = 1
	}
	if body == "" {
		return nil, false, extra
	}

	tok = &Token{Kind: Variable}
	if strings.IndexByte("!>&", body[0]) >= 0 {
		tok.Modifier = body[0]
		body = body[1:]
	}
	tok.Text = strings.TrimSpace(body)
	tok.Escape = escape != (tok.Modifier == '&')
	return tok, true, extra
}

// standalone reports whether the tag spanning [pos, next) is alone on its
// line. It returns the indentation in front of the tag and the length of the
// line break that follows it.
func (s *scanner) standalone(pos, next int) (indent string, nl int, ok bool) {
	lineStart := strings.LastIndexByte(s.src[:pos], '\n') + 1
	if lineStart < s.pending {
		return "", 0, false
	}
	indent = s.src[lineStart:pos]
	if strings.Trim(indent, " \t") != "" {
		return "", 0, false
	}

	rest := s.src[next:]
	switch {
	case rest == "":
		nl = 0
	case strings.HasPrefix(rest, "\r\n"):
		nl = 2
	case rest[0] == '\n':
		nl = 1
	default:
		return "", 0, false
	}
	return indent, nl, true
}

func (s *scanner) emitLiteral(end int) {
	if end <= s.pending {
		return
	}
	s.tokens = append(s.tokens, Token{
		Kind: Literal,
		Text: s.src[s.pending:end],
		Line: s.lineAt(s.pending),
	})
}

func (s *scanner) lineAt(pos int) int {
	if pos > s.linePos {
		s.line += strings.Count(s.src[s.linePos:pos], "\n")
		s.linePos = pos
	}
	return s.line
}
