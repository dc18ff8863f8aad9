// Package jsonl reads newline delimited JSON objects into event batches.
package jsonl

import (
	"bufio"
	"context"
	"github.com/araddon/dateparse"
	"github.com/spirit-labs/tswindow/errors"
	"github.com/spirit-labs/tswindow/evbatch"
	log "github.com/spirit-labs/tswindow/logger"
	"github.com/spirit-labs/tswindow/types"
	"github.com/tidwall/gjson"
	"io"
	"time"
)

const (
	DefaultMaxBatchRows = 1000
	maxLineSize         = 1024 * 1024
)

// Source builds batches from lines of JSON. Each column of the schema is extracted from the object using the column
// name as a gjson path, so a column named "reading.temperature" selects a nested field. Missing fields and JSON nulls
// become nulls. Timestamp fields are either unix millis or RFC 3339 strings.
type Source struct {
	schema       *evbatch.EventSchema
	scanner      *bufio.Scanner
	maxBatchRows int
	lineNum      int
	done         bool
}

func NewSource(r io.Reader, schema *evbatch.EventSchema, maxBatchRows int) *Source {
	if maxBatchRows <= 0 {
		maxBatchRows = DefaultMaxBatchRows
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Source{
		schema:       schema,
		scanner:      scanner,
		maxBatchRows: maxBatchRows,
	}
}

// NextBatch returns the next batch of at most maxBatchRows rows, or nil once the input is exhausted.
func (s *Source) NextBatch(ctx context.Context) (*evbatch.Batch, error) {
	if s.done {
		return nil, nil
	}
	colTypes := s.schema.ColumnTypes()
	colNames := s.schema.ColumnNames()
	builders := evbatch.CreateColBuilders(colTypes)
	rows := 0
	for rows < s.maxBatchRows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return nil, errors.WithStack(err)
			}
			s.done = true
			break
		}
		s.lineNum++
		line := s.scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if !gjson.ValidBytes(line) {
			return nil, errors.Errorf("invalid JSON at line %d", s.lineNum)
		}
		for i, colType := range colTypes {
			res := gjson.GetBytes(line, colNames[i])
			if err := appendValue(builders[i], colType, res); err != nil {
				return nil, errors.Wrapf(err, "line %d column '%s'", s.lineNum, colNames[i])
			}
		}
		rows++
	}
	if rows == 0 {
		return nil, nil
	}
	batch := evbatch.NewBatchFromBuilders(s.schema, builders...)
	if log.DebugEnabled {
		log.Debugf("read batch of %d rows up to line %d", rows, s.lineNum)
	}
	return batch, nil
}

func appendValue(builder evbatch.ColumnBuilder, colType types.ColumnType, res gjson.Result) error {
	if !res.Exists() || res.Type == gjson.Null {
		builder.AppendNull()
		return nil
	}
	switch colType.ID() {
	case types.ColumnTypeIDInt:
		if res.Type != gjson.Number {
			return errors.Errorf("expected a number but found %s", res.Type.String())
		}
		builder.(*evbatch.IntColBuilder).Append(res.Int())
	case types.ColumnTypeIDFloat:
		if res.Type != gjson.Number {
			return errors.Errorf("expected a number but found %s", res.Type.String())
		}
		builder.(*evbatch.FloatColBuilder).Append(res.Float())
	case types.ColumnTypeIDBool:
		if !res.IsBool() {
			return errors.Errorf("expected a bool but found %s", res.Type.String())
		}
		builder.(*evbatch.BoolColBuilder).Append(res.Bool())
	case types.ColumnTypeIDString:
		builder.(*evbatch.StringColBuilder).Append(res.String())
	case types.ColumnTypeIDTimestamp:
		switch res.Type {
		case gjson.Number:
			builder.(*evbatch.TimestampColBuilder).Append(types.NewTimestamp(res.Int()))
		case gjson.String:
			// Date strings without a zone are taken as UTC
			t, err := dateparse.ParseIn(res.Str, time.UTC)
			if err != nil {
				return errors.WithStack(err)
			}
			builder.(*evbatch.TimestampColBuilder).Append(types.NewTimestamp(t.UnixMilli()))
		default:
			return errors.Errorf("expected a timestamp but found %s", res.Type.String())
		}
	default:
		panic("unexpected column type")
	}
	return nil
}
