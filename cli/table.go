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

package cli

import (
	"fmt"
	"github.com/charmbracelet/lipgloss"
	"github.com/spirit-labs/tswindow/errors"
	"github.com/spirit-labs/tswindow/evbatch"
	"github.com/spirit-labs/tswindow/types"
	"io"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultMaxLineWidth = 120
	minLineWidth        = 10
	minColWidth         = 5
	maxLineWidth        = 10000
)

// TableWriter renders window results as a text table. The header is written when the first batch arrives.
type TableWriter struct {
	out          io.Writer
	maxLineWidth int
	headerStyle  lipgloss.Style
	columnWidths []int
	headerBorder string
	rowCount     int
	started      bool
}

func NewTableWriter(out io.Writer, lineWidth int) (*TableWriter, error) {
	if lineWidth < minLineWidth || lineWidth > maxLineWidth {
		return nil, errors.NewInvalidConfigurationErrorf("max-line-width must be >= %d and <= %d", minLineWidth, maxLineWidth)
	}
	return &TableWriter{
		out:          out,
		maxLineWidth: lineWidth,
		headerStyle:  lipgloss.NewRenderer(out).NewStyle().Bold(true),
	}, nil
}

func (t *TableWriter) WriteBatch(batch *evbatch.Batch) error {
	if !t.started {
		columnTypes := batch.Schema.ColumnTypes()
		columnNames := batch.Schema.ColumnNames()
		t.columnWidths = t.calcColumnWidths(columnTypes, columnNames)
		header := t.writeHeader(columnNames, t.columnWidths)
		t.headerBorder = createHeaderBorder(len(header))
		if err := t.writeLine(t.headerBorder); err != nil {
			return err
		}
		if err := t.writeLine(t.headerStyle.Render(header)); err != nil {
			return err
		}
		if err := t.writeLine(t.headerBorder); err != nil {
			return err
		}
		t.started = true
	}
	for rowIndex := 0; rowIndex < batch.RowCount; rowIndex++ {
		if err := t.writeLine(formatLine(batch, rowIndex, t.columnWidths)); err != nil {
			return err
		}
		t.rowCount++
	}
	return nil
}

// Close writes the closing border and the row count.
func (t *TableWriter) Close() error {
	if t.rowCount > 0 {
		if err := t.writeLine(t.headerBorder); err != nil {
			return err
		}
	}
	if t.rowCount == 1 {
		return t.writeLine("1 row returned")
	}
	return t.writeLine(fmt.Sprintf("%d rows returned", t.rowCount))
}

func (t *TableWriter) RowCount() int {
	return t.rowCount
}

func (t *TableWriter) writeLine(line string) error {
	_, err := io.WriteString(t.out, line+"\n")
	return errors.WithStack(err)
}

func (t *TableWriter) writeHeader(columnNames []string, columnWidths []int) string {
	sb := &strings.Builder{}
	sb.WriteString("|")
	for i, v := range columnNames {
		sb.WriteRune(' ')
		cw := columnWidths[i]
		if len(v) > cw {
			v = v[:cw-2] + ".."
		}
		sb.WriteString(rightPadToWidth(cw, v))
		sb.WriteString(" |")
	}
	return sb.String()
}

func createHeaderBorder(headerLen int) string {
	return "+" + strings.Repeat("-", headerLen-2) + "+"
}

func rightPadToWidth(width int, s string) string {
	padSpaces := width - len(s)
	pad := strings.Repeat(" ", padSpaces)
	s += pad
	return s
}

func convertUnixMillisToDateString(unixTime int64) string {
	gt := time.UnixMilli(unixTime).In(time.UTC)
	return fmt.Sprintf("%d-%02d-%02d %02d:%02d:%02d.%06d",
		gt.Year(), gt.Month(), gt.Day(), gt.Hour(), gt.Minute(), gt.Second(), gt.Nanosecond()/1000)
}

func formatLine(batch *evbatch.Batch, rowIndex int, colWidths []int) string {
	sb := &strings.Builder{}
	sb.WriteString("|")
	columnTypes := batch.Schema.ColumnTypes()
	for i := 0; i < len(colWidths); i++ {
		sb.WriteRune(' ')
		var v string
		col := batch.Columns[i]
		if col.IsNull(rowIndex) {
			v = "null"
		} else {
			switch columnTypes[i].ID() {
			case types.ColumnTypeIDInt:
				v = strconv.Itoa(int(batch.GetIntColumn(i).Get(rowIndex)))
			case types.ColumnTypeIDFloat:
				v = strconv.FormatFloat(batch.GetFloatColumn(i).Get(rowIndex), 'f', 6, 64)
			case types.ColumnTypeIDBool:
				v = strconv.FormatBool(batch.GetBoolColumn(i).Get(rowIndex))
			case types.ColumnTypeIDString:
				v = batch.GetStringColumn(i).Get(rowIndex)
			case types.ColumnTypeIDTimestamp:
				ts := batch.GetTimestampColumn(i).Get(rowIndex)
				v = convertUnixMillisToDateString(ts.Val)
			default:
				panic("unexpected type")
			}
		}
		cw := colWidths[i]
		if len(v) > cw {
			v = v[:cw-2] + ".."
		}
		sb.WriteString(rightPadToWidth(cw, v))
		sb.WriteString(" |")
	}
	return sb.String()
}

func (t *TableWriter) calcColumnWidths(colTypes []types.ColumnType, colNames []string) []int {
	l := len(colTypes)
	if l == 0 {
		return []int{}
	}
	colWidths := make([]int, l)
	var freeCols []int
	availWidth := t.maxLineWidth - 1
	// Fixed width types get their full width first
	for i, colType := range colTypes {
		w := 0
		switch colType.ID() {
		case types.ColumnTypeIDInt:
			w = 20
		case types.ColumnTypeIDTimestamp:
			w = 26
		case types.ColumnTypeIDBool:
			w = 5
		default:
			freeCols = append(freeCols, i)
		}
		if w != 0 {
			if len(colNames[i]) > w {
				w = len(colNames[i])
			}
			colWidths[i] = w
			availWidth -= w + 3
			if availWidth < 0 {
				break
			}
		}
	}
	if availWidth < 0 {
		return t.calcEvenColWidths(l)
	} else if len(freeCols) > 0 {
		// Free columns share what is left equally
		freeColWidth := (availWidth / len(freeCols)) - 3
		if freeColWidth < minColWidth {
			return t.calcEvenColWidths(l)
		}
		for _, freeCol := range freeCols {
			colWidths[freeCol] = freeColWidth
		}
	}
	return colWidths
}

func (t *TableWriter) calcEvenColWidths(numCols int) []int {
	colWidth := (t.maxLineWidth - 3*numCols - 1) / numCols
	if colWidth < minColWidth {
		colWidth = minColWidth
	}
	colWidths := make([]int, numCols)
	for i := range colWidths {
		colWidths[i] = colWidth
	}
	return colWidths
}
