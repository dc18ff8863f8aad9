// Copyright 2024 The Tektite Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package parser

import (
	"github.com/spirit-labs/tswindow/agg"
	"github.com/spirit-labs/tswindow/errors"
	"github.com/spirit-labs/tswindow/types"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestLexInvalidInput(t *testing.T) {
	input := "count(f2 ;)"
	expected := `invalid statement (line 1 column 10):
count(f2 ;)
         ^`
	testLexInvalidInput(t, input, expected)

	input = `count(f1),
sum(@f2)`
	expected = `invalid statement (line 2 column 5):
sum(@f2)
    ^`
	testLexInvalidInput(t, input, expected)
}

func testLexInvalidInput(t *testing.T, input string, expectedMsg string) {
	tokens, err := Lex(input, true)
	require.Nil(t, tokens)
	require.Error(t, err)
	require.True(t, errors.HasCode(err, errors.ParseError))
	require.Equal(t, expectedMsg, err.Error())
}

func TestLexTokens(t *testing.T) {
	tokens, err := Lex("avg( temperature ) as t,event_time:timestamp", true)
	require.NoError(t, err)
	var tokTypes []string
	var vals []string
	for _, tok := range tokens {
		vals = append(vals, tok.Value)
		switch tok.Type {
		case IdentTokenType:
			tokTypes = append(tokTypes, "ident")
		case LParensTokenType:
			tokTypes = append(tokTypes, "(")
		case RParensTokenType:
			tokTypes = append(tokTypes, ")")
		case ListSeparatorTokenType:
			tokTypes = append(tokTypes, ",")
		}
	}
	require.Equal(t, []string{"avg", "(", "temperature", ")", "as", "t", ",", "event_time:timestamp"}, vals)
	require.Equal(t, []string{"ident", "(", "ident", ")", "ident", "ident", ",", "ident"}, tokTypes)

	tokens, err = Lex("a b", false)
	require.NoError(t, err)
	require.Equal(t, 3, len(tokens))
	require.Equal(t, WhitespaceTokenType, tokens[1].Type)
}

func TestParseAggregates(t *testing.T) {
	p := NewParser(agg.FuncChecker{})
	desc, err := p.ParseAggregates("count(temperature), AVG(temperature) as avg_temp,\n  last(sensor)")
	require.NoError(t, err)
	require.Equal(t, 3, len(desc.Aggs))
	require.Equal(t, "count", desc.Aggs[0].FuncName)
	require.Equal(t, "temperature", desc.Aggs[0].ColName)
	require.Equal(t, "", desc.Aggs[0].Alias)
	require.Equal(t, "avg", desc.Aggs[1].FuncName)
	require.Equal(t, "temperature", desc.Aggs[1].ColName)
	require.Equal(t, "avg_temp", desc.Aggs[1].Alias)
	require.Equal(t, "last", desc.Aggs[2].FuncName)
	require.Equal(t, "sensor", desc.Aggs[2].ColName)
}

func TestParseAggregatesErrors(t *testing.T) {
	testParseAggregatesError(t, "count(temp) avg(x)", `expected one of: ',', 'as' (line 1 column 13):
count(temp) avg(x)
            ^`)
	testParseAggregatesError(t, "median(temp)", `unknown aggregate function 'median' (line 1 column 1):
median(temp)
^`)
	testParseAggregatesError(t, "count temp", `expected '(' but found 'temp' (line 1 column 7):
count temp
      ^`)
	testParseAggregatesError(t, "count(temp", `reached end of statement, expected ')' (line 1 column 7):
count(temp
      ^`)
	testParseAggregatesError(t, "count(temp:int)", `column type cannot be specified here (line 1 column 7):
count(temp:int)
      ^`)
	testParseAggregatesError(t, "count(temp) as", `reached end of statement, expected alias (line 1 column 13):
count(temp) as
            ^`)
	testParseAggregatesError(t, "count(temp),", `reached end of statement, expected aggregate function name (line 1 column 12):
count(temp),
           ^`)
	testParseAggregatesError(t, "  ", "statement is empty")
}

func testParseAggregatesError(t *testing.T, input string, expectedMsg string) {
	p := NewParser(agg.FuncChecker{})
	_, err := p.ParseAggregates(input)
	require.Error(t, err)
	require.True(t, errors.HasCode(err, errors.ParseError))
	require.Equal(t, expectedMsg, err.Error())
}

func TestParseSchema(t *testing.T) {
	p := NewParser(nil)
	desc, err := p.ParseSchema("event_time:timestamp, sensor:string, temperature:float, reading:int, ok:bool")
	require.NoError(t, err)
	require.Equal(t, []string{"event_time", "sensor", "temperature", "reading", "ok"}, desc.ColumnNames)
	require.Equal(t, []types.ColumnType{types.ColumnTypeTimestamp, types.ColumnTypeString, types.ColumnTypeFloat,
		types.ColumnTypeInt, types.ColumnTypeBool}, desc.ColumnTypes)
}

func TestParseSchemaErrors(t *testing.T) {
	p := NewParser(nil)
	_, err := p.ParseSchema("event_time:timestamp, sensor")
	require.Error(t, err)
	require.Equal(t, `column type must be specified, of form 'name:type' where type is one of int, float, bool, string, timestamp (line 1 column 23):
event_time:timestamp, sensor
                      ^`, err.Error())

	_, err = p.ParseSchema("a:int, a:float")
	require.Error(t, err)
	require.True(t, errors.HasCode(err, errors.ParseError))
	require.Equal(t, `duplicate column 'a' (line 1 column 8):
a:int, a:float
       ^`, err.Error())

	_, err = p.ParseSchema("a:int b:int")
	require.Error(t, err)
	require.True(t, errors.HasCode(err, errors.ParseError))
}

func TestErrorMsgAtToken(t *testing.T) {
	p := NewParser(agg.FuncChecker{})
	desc, err := p.ParseAggregates("sum(sensor)")
	require.NoError(t, err)
	msg := desc.Aggs[0].ErrorMsgAtToken("cannot sum strings", "sensor")
	require.Equal(t, `cannot sum strings (line 1 column 5):
sum(sensor)
    ^`, msg)
}
