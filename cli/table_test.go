package cli

import (
	"bytes"
	"fmt"
	"github.com/spirit-labs/tswindow/evbatch"
	"github.com/spirit-labs/tswindow/types"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
)

func resultBatch(rows [][]any) *evbatch.Batch {
	schema := evbatch.NewEventSchema([]string{"event_time", "window_end", "avg_temp"},
		[]types.ColumnType{types.ColumnTypeTimestamp, types.ColumnTypeInt, types.ColumnTypeFloat})
	tsBuilder := evbatch.NewTimestampColBuilder()
	endBuilder := evbatch.NewIntColBuilder()
	avgBuilder := evbatch.NewFloatColBuilder()
	for _, row := range rows {
		tsBuilder.Append(types.NewTimestamp(row[0].(int64)))
		endBuilder.Append(row[1].(int64))
		if row[2] == nil {
			avgBuilder.AppendNull()
		} else {
			avgBuilder.Append(row[2].(float64))
		}
	}
	return evbatch.NewBatchFromBuilders(schema, tsBuilder, endBuilder, avgBuilder)
}

func formatRow(a string, b string, c string) string {
	return fmt.Sprintf("| %-26s | %-20s | %-64s |", a, b, c)
}

func TestWriteTable(t *testing.T) {
	buff := &bytes.Buffer{}
	tw, err := NewTableWriter(buff, DefaultMaxLineWidth)
	require.NoError(t, err)

	require.NoError(t, tw.WriteBatch(resultBatch([][]any{{int64(1000), int64(3000), 21.5}})))
	require.NoError(t, tw.WriteBatch(resultBatch([][]any{{int64(4000), int64(6000), nil}})))
	require.NoError(t, tw.Close())
	require.Equal(t, 2, tw.RowCount())

	header := formatRow("event_time", "window_end", "avg_temp")
	border := "+" + strings.Repeat("-", len(header)-2) + "+"
	expected := []string{
		border,
		header,
		border,
		formatRow("1970-01-01 00:00:01.000000", "3000", "21.500000"),
		formatRow("1970-01-01 00:00:04.000000", "6000", "null"),
		border,
		"2 rows returned",
		"",
	}
	require.Equal(t, strings.Join(expected, "\n"), buff.String())
}

func TestWriteTableNoRows(t *testing.T) {
	buff := &bytes.Buffer{}
	tw, err := NewTableWriter(buff, DefaultMaxLineWidth)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.Equal(t, "0 rows returned\n", buff.String())
}

func TestTruncateLongValues(t *testing.T) {
	schema := evbatch.NewEventSchema([]string{"s"}, []types.ColumnType{types.ColumnTypeString})
	builder := evbatch.NewStringColBuilder()
	builder.Append(strings.Repeat("x", 50))
	batch := evbatch.NewBatchFromBuilders(schema, builder)

	buff := &bytes.Buffer{}
	tw, err := NewTableWriter(buff, 20)
	require.NoError(t, err)
	require.NoError(t, tw.WriteBatch(batch))
	lines := strings.Split(buff.String(), "\n")
	// free column gets 20 - 1 - 3 = 16
	require.Equal(t, "| "+strings.Repeat("x", 14)+".. |", lines[3])
}

func TestInvalidLineWidth(t *testing.T) {
	_, err := NewTableWriter(&bytes.Buffer{}, 5)
	require.Error(t, err)
	require.Equal(t, "invalid configuration: max-line-width must be >= 10 and <= 10000", err.Error())
}
