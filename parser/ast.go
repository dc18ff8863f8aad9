package parser

import (
	"fmt"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/spirit-labs/tswindow/types"
	"strings"
)

type BaseDesc struct {
	tokenInfo tokensInfo
	super     parseable
}

type tokensInfo struct {
	tokens []lexer.Token
	input  string
}

type parseable interface {
	parse(context *ParseContext) error
}

func (b *BaseDesc) Parse(context *ParseContext) error {
	tokStart := context.pos
	if err := b.super.parse(context); err != nil {
		return err
	}
	// capture the tokens and input
	b.tokenInfo.tokens = context.tokens[tokStart:context.pos]
	b.tokenInfo.input = context.input
	return nil
}

func (b *BaseDesc) ErrorMsgAtToken(msg string, tokenVal string) string {
	tok := &b.tokenInfo.tokens[0] // default to first token
	if tokenVal != "" {
		for _, token := range b.tokenInfo.tokens {
			if token.Value == tokenVal {
				tok = &token
				break
			}
		}
	}
	return MessageWithPosition(msg, tok.Pos, b.tokenInfo.input)
}

// AggListDesc is a comma separated list of aggregate expressions, e.g. "count(temperature), avg(temperature) as avg_temp"
type AggListDesc struct {
	BaseDesc
	Aggs []*AggExprDesc
}

func NewAggListDesc() *AggListDesc {
	a := &AggListDesc{}
	a.super = a
	return a
}

func (a *AggListDesc) parse(context *ParseContext) error {
	for {
		aggDesc := NewAggExprDesc()
		if err := aggDesc.Parse(context); err != nil {
			return err
		}
		a.Aggs = append(a.Aggs, aggDesc)
		token, ok := context.NextToken()
		if !ok {
			return nil
		}
		if token.Type != ListSeparatorTokenType {
			return errorAtPosition(fmt.Sprintf("expected %s", expectedStr(",", "as")), token.Pos, context.input)
		}
	}
}

// AggExprDesc is a single aggregate expression of the form func(column) [as alias].
type AggExprDesc struct {
	BaseDesc
	FuncName string
	ColName  string
	Alias    string
}

func NewAggExprDesc() *AggExprDesc {
	a := &AggExprDesc{}
	a.super = a
	return a
}

func (a *AggExprDesc) parse(context *ParseContext) error {
	funcToken, err := context.expectToken(IdentTokenType, "aggregate function name")
	if err != nil {
		return err
	}
	if context.parser.functionChecker != nil && !context.parser.functionChecker.FunctionExists(funcToken.Value) {
		return errorAtPosition(fmt.Sprintf("unknown aggregate function '%s'", funcToken.Value), funcToken.Pos,
			context.input)
	}
	a.FuncName = strings.ToLower(funcToken.Value)
	if _, err := context.expectToken(LParensTokenType, "'('"); err != nil {
		return err
	}
	colToken, err := context.expectToken(IdentTokenType, "column name")
	if err != nil {
		return err
	}
	if strings.Contains(colToken.Value, ":") {
		return errorAtPosition("column type cannot be specified here", colToken.Pos, context.input)
	}
	a.ColName = colToken.Value
	if _, err := context.expectToken(RParensTokenType, "')'"); err != nil {
		return err
	}
	token, ok := context.PeekToken()
	if !ok || token.Type != IdentTokenType || token.Value != "as" {
		return nil
	}
	context.NextToken()
	aliasToken, err := context.expectToken(IdentTokenType, "alias")
	if err != nil {
		return err
	}
	if strings.Contains(aliasToken.Value, ":") {
		return errorAtPosition("column type cannot be specified here", aliasToken.Pos, context.input)
	}
	a.Alias = aliasToken.Value
	return nil
}

// SchemaDesc is a comma separated list of typed columns, e.g. "event_time:timestamp, temperature:float"
type SchemaDesc struct {
	BaseDesc
	ColumnNames []string
	ColumnTypes []types.ColumnType
}

func NewSchemaDesc() *SchemaDesc {
	s := &SchemaDesc{}
	s.super = s
	return s
}

func (s *SchemaDesc) parse(context *ParseContext) error {
	seen := map[string]struct{}{}
	for {
		token, err := context.expectToken(IdentTokenType, "column of form 'name:type'")
		if err != nil {
			return err
		}
		name, sType, ok := strings.Cut(token.Value, ":")
		if !ok {
			return errorAtPosition("column type must be specified, of form 'name:type' where type is one of int, float, bool, string, timestamp",
				token.Pos, context.input)
		}
		if _, exists := seen[name]; exists {
			return errorAtPosition(fmt.Sprintf("duplicate column '%s'", name), token.Pos, context.input)
		}
		seen[name] = struct{}{}
		colType, err := types.StringToColumnType(sType)
		if err != nil {
			return errorAtPosition(err.Error(), token.Pos, context.input)
		}
		s.ColumnNames = append(s.ColumnNames, name)
		s.ColumnTypes = append(s.ColumnTypes, colType)
		token, ok = context.NextToken()
		if !ok {
			return nil
		}
		if token.Type != ListSeparatorTokenType {
			return errorAtPosition(fmt.Sprintf("expected %s", expectedStr(",")), token.Pos, context.input)
		}
	}
}

func expectedStr(expected ...string) string {
	sb := strings.Builder{}
	if len(expected) > 1 {
		sb.WriteString("one of: ")
	}
	for i := 0; i < len(expected); i++ {
		sb.WriteRune('\'')
		sb.WriteString(expected[i])
		sb.WriteRune('\'')
		if i != len(expected)-1 {
			sb.WriteString(", ")
		}
	}
	return sb.String()
}
