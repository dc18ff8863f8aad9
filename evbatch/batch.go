package evbatch

import (
	"fmt"
	"github.com/apache/arrow/go/v11/arrow"
	"github.com/apache/arrow/go/v11/arrow/array"
	"github.com/apache/arrow/go/v11/arrow/memory"
	log "github.com/spirit-labs/tswindow/logger"
	"github.com/spirit-labs/tswindow/types"
	"strings"
)

type Batch struct {
	Schema   *EventSchema
	Columns  []Column
	RowCount int
}

func NewBatchFromBuilders(schema *EventSchema, builders ...ColumnBuilder) *Batch {
	cols := make([]Column, len(builders))
	for i, colBuilder := range builders {
		cols[i] = colBuilder.Build()
	}
	return NewBatch(schema, cols...)
}

func NewBatch(schema *EventSchema, columns ...Column) *Batch {
	rc := 0
	for i, col := range columns {
		cl := col.Len()
		if i > 0 && cl != rc {
			panic(fmt.Sprintf("column %s not same length (%d) as others (%d) col_names: %v col_types:%v",
				schema.ColumnNames()[i], cl, rc, schema.ColumnNames(), schema.ColumnTypes()))
		}
		rc = cl
	}
	return &Batch{
		Schema:   schema,
		Columns:  columns,
		RowCount: rc,
	}
}

func (b *Batch) Len() int {
	return b.RowCount
}

func (b *Batch) IsEmpty() bool {
	return b.RowCount == 0
}

// Slice returns a view of the rows from index from to the end of the batch. No column data is copied.
func (b *Batch) Slice(from int) *Batch {
	if from < 0 || from > b.RowCount {
		panic(fmt.Sprintf("slice start %d out of range for batch with %d rows", from, b.RowCount))
	}
	if from == 0 {
		return b
	}
	cols := make([]Column, len(b.Columns))
	for i, col := range b.Columns {
		cols[i] = col.Slice(from, b.RowCount)
	}
	return &Batch{
		Schema:   b.Schema,
		Columns:  cols,
		RowCount: b.RowCount - from,
	}
}

func (b *Batch) GetIntColumn(colIndex int) *IntColumn {
	return b.Columns[colIndex].(*IntColumn)
}

func (b *Batch) GetFloatColumn(colIndex int) *FloatColumn {
	return b.Columns[colIndex].(*FloatColumn)
}

func (b *Batch) GetBoolColumn(colIndex int) *BoolColumn {
	return b.Columns[colIndex].(*BoolColumn)
}

func (b *Batch) GetStringColumn(colIndex int) *StringColumn {
	return b.Columns[colIndex].(*StringColumn)
}

func (b *Batch) GetTimestampColumn(colIndex int) *TimestampColumn {
	return b.Columns[colIndex].(*TimestampColumn)
}

// TimeAt returns the event time of the row held in the int or timestamp column at colIndex.
func (b *Batch) TimeAt(colIndex int, row int) int64 {
	switch c := b.Columns[colIndex].(type) {
	case *TimestampColumn:
		return c.Get(row).Val
	case *IntColumn:
		return c.Get(row)
	default:
		panic(fmt.Sprintf("column %d is not a time column", colIndex))
	}
}

type Column interface {
	IsNull(row int) bool
	Len() int
	Slice(start int, end int) Column
}

type ColumnBuilder interface {
	AppendNull()
	Build() Column
}

// typedArray is an arrow array whose values can be read as T.
type typedArray[T any] interface {
	arrow.Array
	Value(i int) T
}

type typedArrayBuilder[T any] interface {
	AppendNull()
	Append(val T)
	NewArray() arrow.Array
}

// valueColumn is a Column over an arrow array of T. Slices share the array's buffers.
type valueColumn[T any, A typedArray[T]] struct {
	array A
}

func (c *valueColumn[T, A]) Get(row int) T {
	return c.array.Value(row)
}

func (c *valueColumn[T, A]) IsNull(row int) bool {
	return c.array.IsNull(row)
}

func (c *valueColumn[T, A]) Len() int {
	return c.array.Len()
}

func (c *valueColumn[T, A]) Slice(start int, end int) Column {
	return &valueColumn[T, A]{array: array.NewSlice(c.array, int64(start), int64(end)).(A)}
}

type valueColBuilder[T any, A typedArray[T], B typedArrayBuilder[T]] struct {
	builder B
}

func (vb *valueColBuilder[T, A, B]) AppendNull() {
	vb.builder.AppendNull()
}

func (vb *valueColBuilder[T, A, B]) Append(val T) {
	vb.builder.Append(val)
}

func (vb *valueColBuilder[T, A, B]) Build() Column {
	return &valueColumn[T, A]{array: vb.builder.NewArray().(A)}
}

type (
	IntColumn    = valueColumn[int64, *array.Int64]
	FloatColumn  = valueColumn[float64, *array.Float64]
	BoolColumn   = valueColumn[bool, *array.Boolean]
	StringColumn = valueColumn[string, *array.String]

	IntColBuilder    = valueColBuilder[int64, *array.Int64, *array.Int64Builder]
	FloatColBuilder  = valueColBuilder[float64, *array.Float64, *array.Float64Builder]
	BoolColBuilder   = valueColBuilder[bool, *array.Boolean, *array.BooleanBuilder]
	StringColBuilder = valueColBuilder[string, *array.String, *array.StringBuilder]
)

var (
	_ Column = &IntColumn{}
	_ Column = &FloatColumn{}
	_ Column = &BoolColumn{}
	_ Column = &StringColumn{}
	_ Column = &TimestampColumn{}
)

func NewIntColBuilder() *IntColBuilder {
	return &IntColBuilder{builder: array.NewInt64Builder(memory.NewGoAllocator())}
}

func NewFloatColBuilder() *FloatColBuilder {
	return &FloatColBuilder{builder: array.NewFloat64Builder(memory.NewGoAllocator())}
}

func NewBoolColBuilder() *BoolColBuilder {
	return &BoolColBuilder{builder: array.NewBooleanBuilder(memory.NewGoAllocator())}
}

func NewStringColBuilder() *StringColBuilder {
	return &StringColBuilder{builder: array.NewStringBuilder(memory.NewGoAllocator())}
}

// TimestampColumn holds unix millis in an int64 array and reads them as timestamps.
type TimestampColumn struct {
	millis IntColumn
}

func (tc *TimestampColumn) Get(row int) types.Timestamp {
	return types.NewTimestamp(tc.millis.Get(row))
}

func (tc *TimestampColumn) IsNull(row int) bool {
	return tc.millis.IsNull(row)
}

func (tc *TimestampColumn) Len() int {
	return tc.millis.Len()
}

func (tc *TimestampColumn) Slice(start int, end int) Column {
	return &TimestampColumn{millis: *tc.millis.Slice(start, end).(*IntColumn)}
}

type TimestampColBuilder struct {
	millis *IntColBuilder
}

func NewTimestampColBuilder() *TimestampColBuilder {
	return &TimestampColBuilder{millis: NewIntColBuilder()}
}

func (tb *TimestampColBuilder) AppendNull() {
	tb.millis.AppendNull()
}

func (tb *TimestampColBuilder) Append(val types.Timestamp) {
	tb.millis.Append(val.Val)
}

func (tb *TimestampColBuilder) Build() Column {
	return &TimestampColumn{millis: *tb.millis.Build().(*IntColumn)}
}

func CreateColBuilders(columnTypes []types.ColumnType) []ColumnBuilder {
	colBuilders := make([]ColumnBuilder, len(columnTypes))
	for colIndex, ft := range columnTypes {
		colBuilders[colIndex] = NewColBuilder(ft)
	}
	return colBuilders
}

func NewColBuilder(ft types.ColumnType) ColumnBuilder {
	switch ft.ID() {
	case types.ColumnTypeIDInt:
		return NewIntColBuilder()
	case types.ColumnTypeIDFloat:
		return NewFloatColBuilder()
	case types.ColumnTypeIDBool:
		return NewBoolColBuilder()
	case types.ColumnTypeIDString:
		return NewStringColBuilder()
	case types.ColumnTypeIDTimestamp:
		return NewTimestampColBuilder()
	default:
		panic(fmt.Sprintf("unknown column type %d", ft.ID()))
	}
}

func (b *Batch) Equal(other *Batch) bool {
	if b.RowCount != other.RowCount {
		return false
	}
	if len(b.Schema.columnNames) != len(other.Schema.columnNames) {
		return false
	}
	for i := 0; i < b.RowCount; i++ {
		for j, ft := range b.Schema.columnTypes {
			col1 := b.Columns[j]
			col2 := other.Columns[j]
			if col1.IsNull(i) != col2.IsNull(i) {
				return false
			}
			if col1.IsNull(i) {
				continue
			}
			switch ft.ID() {
			case types.ColumnTypeIDInt:
				if col1.(*IntColumn).Get(i) != col2.(*IntColumn).Get(i) {
					return false
				}
			case types.ColumnTypeIDFloat:
				if col1.(*FloatColumn).Get(i) != col2.(*FloatColumn).Get(i) {
					return false
				}
			case types.ColumnTypeIDBool:
				if col1.(*BoolColumn).Get(i) != col2.(*BoolColumn).Get(i) {
					return false
				}
			case types.ColumnTypeIDString:
				if col1.(*StringColumn).Get(i) != col2.(*StringColumn).Get(i) {
					return false
				}
			case types.ColumnTypeIDTimestamp:
				if col1.(*TimestampColumn).Get(i).Val != col2.(*TimestampColumn).Get(i).Val {
					return false
				}
			default:
				panic("unexpected type")
			}
		}
	}
	return true
}

// FormatValue returns the value at the given column and row as a string, "null" for nulls.
func (b *Batch) FormatValue(colIndex int, row int) string {
	col := b.Columns[colIndex]
	if col.IsNull(row) {
		return "null"
	}
	switch b.Schema.ColumnTypes()[colIndex].ID() {
	case types.ColumnTypeIDInt:
		return fmt.Sprintf("%d", col.(*IntColumn).Get(row))
	case types.ColumnTypeIDFloat:
		return fmt.Sprintf("%f", col.(*FloatColumn).Get(row))
	case types.ColumnTypeIDBool:
		return fmt.Sprintf("%t", col.(*BoolColumn).Get(row))
	case types.ColumnTypeIDString:
		return col.(*StringColumn).Get(row)
	case types.ColumnTypeIDTimestamp:
		return fmt.Sprintf("%d", col.(*TimestampColumn).Get(row).Val)
	default:
		panic("unexpected type")
	}
}

func (b *Batch) Dump() {
	if !log.DebugEnabled {
		return
	}
	log.Debug(b.Schema.String())
	for i := 0; i < b.RowCount; i++ {
		builder := strings.Builder{}
		for j := range b.Columns {
			builder.WriteString(b.FormatValue(j, i))
			if j != len(b.Columns)-1 {
				builder.WriteString(", ")
			}
		}
		log.Debug(builder.String())
	}
}
