package parser

import (
	"fmt"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/spirit-labs/tswindow/errors"
	"strings"
)

var lex = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: `[a-zA-Z_](?:[a-zA-Z0-9_.\-]*[a-zA-Z0-9_])?(\:(?:int|float|bool|string|timestamp))?`},
	{Name: "ListSeparator", Pattern: `,`},
	{Name: "LParens", Pattern: `\(`},
	{Name: "RParens", Pattern: `\)`},
	{Name: "Whitespace", Pattern: `[ \t\n\r]+`},
})

var IdentTokenType lexer.TokenType
var ListSeparatorTokenType lexer.TokenType
var LParensTokenType lexer.TokenType
var RParensTokenType lexer.TokenType
var WhitespaceTokenType lexer.TokenType

func init() {
	IdentTokenType = lex.Symbols()["Ident"]
	ListSeparatorTokenType = lex.Symbols()["ListSeparator"]
	LParensTokenType = lex.Symbols()["LParens"]
	RParensTokenType = lex.Symbols()["RParens"]
	WhitespaceTokenType = lex.Symbols()["Whitespace"]
}

func NewParser(functionChecker FunctionChecker) *Parser {
	return &Parser{functionChecker: functionChecker}
}

// FunctionChecker tells the parser which aggregate functions exist.
type FunctionChecker interface {
	FunctionExists(functionName string) bool
}

type Parser struct {
	functionChecker FunctionChecker
}

func (p *Parser) Parse(input string, parseable Parseable) error {
	if strings.TrimSpace(input) == "" {
		return errors.NewTektiteErrorf(errors.ParseError, "statement is empty")
	}
	tokens, err := Lex(input, true)
	if err != nil {
		return err
	}
	return parseable.Parse(NewParseContext(p, input, tokens))
}

func (p *Parser) ParseAggregates(input string) (*AggListDesc, error) {
	desc := NewAggListDesc()
	err := p.Parse(input, desc)
	return desc, err
}

func (p *Parser) ParseSchema(input string) (*SchemaDesc, error) {
	desc := NewSchemaDesc()
	err := p.Parse(input, desc)
	return desc, err
}

func Lex(input string, removeWhitespace bool) ([]lexer.Token, error) {
	l, err := lex.Lex("", strings.NewReader(input))
	if err != nil {
		return nil, err
	}
	tokens := make([]lexer.Token, 0, 20)
	for {
		token, err := l.Next()
		if err != nil {
			var le *lexer.Error
			ok := errors.As(err, &le)
			if !ok {
				return nil, err
			}
			if strings.Contains(le.Error(), "invalid input text") {
				return nil, errorAtPosition("invalid statement", le.Pos, input)
			}
			return nil, err
		}
		if token.Type == lexer.EOF {
			break
		}
		if !removeWhitespace || token.Type != WhitespaceTokenType {
			tokens = append(tokens, token)
		}
	}
	return tokens, nil
}

func lineWithPosHighlight(input string, pos lexer.Position) string {
	if input == "" {
		return ""
	}
	lines := strings.Split(input, "\n")
	line := lines[pos.Line-1]
	line = strings.ReplaceAll(line, "\t", " ")
	line = strings.ReplaceAll(line, "\r", " ")
	sb := strings.Builder{}
	for i := 0; i < pos.Column-1; i++ {
		sb.WriteRune(' ')
	}
	sb.WriteRune('^')
	return fmt.Sprintf("%s\n%s", line, sb.String())
}

func errorAtPosition(msg string, pos lexer.Position, input string) error {
	msg = MessageWithPosition(msg, pos, input)
	return errors.NewParseError(msg)
}

func MessageWithPosition(msg string, pos lexer.Position, input string) string {
	return fmt.Sprintf("%s (line %d column %d):\n%s", msg, pos.Line, pos.Column, lineWithPosHighlight(input, pos))
}

type Parseable interface {
	Parse(context *ParseContext) error
}

type ParseContext struct {
	parser  *Parser
	input   string
	tokens  []lexer.Token
	pos     int
	lastPos *lexer.Position
}

func NewParseContext(parser *Parser, input string, tokens []lexer.Token) *ParseContext {
	return &ParseContext{
		parser: parser,
		input:  input,
		tokens: tokens,
	}
}

func (pc *ParseContext) HasNext() bool {
	return pc.pos != len(pc.tokens)
}

func (pc *ParseContext) NextToken() (lexer.Token, bool) {
	if pc.pos == len(pc.tokens) {
		return lexer.Token{}, false
	}
	tok := pc.tokens[pc.pos]
	pc.pos++
	pc.lastPos = &tok.Pos
	return tok, true
}

func (pc *ParseContext) PeekToken() (lexer.Token, bool) {
	if pc.pos == len(pc.tokens) {
		return lexer.Token{}, false
	}
	return pc.tokens[pc.pos], true
}

func (pc *ParseContext) LastPos() *lexer.Position {
	return pc.lastPos
}

// expectToken returns the next token, or an error if it is not of the expected type.
func (pc *ParseContext) expectToken(tokType lexer.TokenType, expected string) (lexer.Token, error) {
	token, ok := pc.NextToken()
	if !ok {
		return lexer.Token{}, pc.endOfInputError(expected)
	}
	if token.Type != tokType {
		return lexer.Token{}, errorAtPosition(fmt.Sprintf("expected %s but found '%s'", expected, token.Value),
			token.Pos, pc.input)
	}
	return token, nil
}

func (pc *ParseContext) endOfInputError(expected string) error {
	pos := lexer.Position{Line: 1, Column: 1}
	if pc.lastPos != nil {
		pos = *pc.lastPos
	}
	return errorAtPosition(fmt.Sprintf("reached end of statement, expected %s", expected), pos, pc.input)
}
