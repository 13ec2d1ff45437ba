// Package irtext parses the textual IR fixture format this repo's tests
// and cmd/loadvec-cli use: a participle-tagged struct grammar plus a
// Lexer/Parser wrapper, built for this pass's three-address function text
// rather than a source-level surface syntax.
package irtext

import "github.com/alecthomas/participle/v2/lexer"

// Lexer is a single "Root" state with ordered rules (comments, identifiers,
// numbers, punctuation, whitespace).
var Lexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `;[^\n]*`, nil},
		{"Arrow", `->`, nil},
		{"Float", `[0-9]+\.[0-9]+`, nil},
		{"Integer", `-?[0-9]+`, nil},
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_.]*`, nil},
		{"Global", `@[a-zA-Z_][a-zA-Z0-9_.]*`, nil},
		{"Local", `%[a-zA-Z_][a-zA-Z0-9_.]*`, nil},
		{"Punct", `[{}()\[\]<>,:*=]`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
