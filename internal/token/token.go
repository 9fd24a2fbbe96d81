package token

import "fmt"

// Kind identifies the variant of a Token.
type Kind int

const (
	Literal      Kind = iota // raw text between tags
	SectionOpen              // {{#name}} or {{^name}}
	SectionClose             // {{/name}}
	Variable                 // {{name}}, {{{name}}}, {{&name}}
	Comment                  // {{! text }}
	Partial                  // {{>name}}
)

var kindNames = [...]string{
	Literal:      "Literal",
	SectionOpen:  "SectionOpen",
	SectionClose: "SectionClose",
	Variable:     "Variable",
	Comment:      "Comment",
	Partial:      "Partial",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is a single unit produced by Tokenize.
//
// Text holds the literal text for Literal tokens, the trimmed tag body for
// every other kind. Modifier is the tag-type character that introduced the tag
// ('#', '^', '/', '!', '>', '&'), or zero for a plain variable.
type Token struct {
	Kind     Kind
	Text     string
	Inverted bool // SectionOpen only
	Escape   bool // Variable only
	Modifier byte

	// Line is the zero-based source line the token starts on.
	Line int
	// Standalone and Indent are only ever set in Strict mode.
	Standalone bool
	Indent     string
}

func (t Token) String() string {
	if t.Kind == Literal {
		return fmt.Sprintf("%s(%q)", t.Kind, t.Text)
	}
	return fmt.Sprintf("%s(%s)", t.Kind, t.Text)
}
