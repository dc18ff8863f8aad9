package agg

import (
	"fmt"
	"github.com/spirit-labs/tswindow/errors"
	"github.com/spirit-labs/tswindow/evbatch"
	"github.com/spirit-labs/tswindow/types"
)

// Aggregator applies an AggFunc to one column of the rows it is given, and keeps the running result until it is
// emitted. Null values are skipped.
type Aggregator struct {
	name      string
	funcName  string
	aggFunc   AggFunc
	colIndex  int
	colName   string
	inType    types.ColumnType
	outType   types.ColumnType
	state     any
	extraData []byte
}

// NewAggregator creates an Aggregator of the named function over the named column of schema. If name is empty the
// result column is named funcName(colName).
func NewAggregator(funcName string, colName string, name string, schema *evbatch.EventSchema) (*Aggregator, error) {
	aggFunc, ok := GetAggFunc(funcName)
	if !ok {
		return nil, errors.NewInvalidConfigurationErrorf("unknown aggregate function '%s'", funcName)
	}
	colIndex := schema.ColumnIndex(colName)
	if colIndex == -1 {
		return nil, errors.NewInvalidConfigurationErrorf("cannot aggregate column '%s', it does not exist in input schema (%s)",
			colName, schema.String())
	}
	inType := schema.ColumnTypes()[colIndex]
	if !aggFunc.AcceptsType(inType) {
		return nil, errors.NewInvalidConfigurationErrorf("aggregate function '%s' cannot be applied to column '%s' of type %s",
			funcName, colName, inType.String())
	}
	if name == "" {
		name = fmt.Sprintf("%s(%s)", funcName, colName)
	}
	return &Aggregator{
		name:     name,
		funcName: funcName,
		aggFunc:  aggFunc,
		colIndex: colIndex,
		colName:  colName,
		inType:   inType,
		outType:  aggFunc.ReturnTypeForExpressionType(inType),
	}, nil
}

func (a *Aggregator) Name() string {
	return a.name
}

func (a *Aggregator) FuncName() string {
	return a.funcName
}

func (a *Aggregator) ColumnName() string {
	return a.colName
}

func (a *Aggregator) OutputType() types.ColumnType {
	return a.outType
}

// Update folds the given rows of batch into the running result. rows must be in ascending order.
func (a *Aggregator) Update(batch *evbatch.Batch, rows []int) error {
	if len(rows) == 0 {
		return nil
	}
	col := batch.Columns[a.colIndex]
	var res any
	var extra []byte
	var err error
	switch a.inType.ID() {
	case types.ColumnTypeIDInt:
		vals := nonNullValues(col, rows, batch.GetIntColumn(a.colIndex).Get)
		if len(vals) == 0 {
			return nil
		}
		res, extra, err = a.aggFunc.ComputeInt(a.state, a.extraData, vals)
	case types.ColumnTypeIDFloat:
		vals := nonNullValues(col, rows, batch.GetFloatColumn(a.colIndex).Get)
		if len(vals) == 0 {
			return nil
		}
		res, extra, err = a.aggFunc.ComputeFloat(a.state, a.extraData, vals)
	case types.ColumnTypeIDBool:
		vals := nonNullValues(col, rows, batch.GetBoolColumn(a.colIndex).Get)
		if len(vals) == 0 {
			return nil
		}
		res, extra, err = a.aggFunc.ComputeBool(a.state, a.extraData, vals)
	case types.ColumnTypeIDString:
		vals := nonNullValues(col, rows, batch.GetStringColumn(a.colIndex).Get)
		if len(vals) == 0 {
			return nil
		}
		res, extra, err = a.aggFunc.ComputeString(a.state, a.extraData, vals)
	case types.ColumnTypeIDTimestamp:
		vals := nonNullValues(col, rows, batch.GetTimestampColumn(a.colIndex).Get)
		if len(vals) == 0 {
			return nil
		}
		res, extra, err = a.aggFunc.ComputeTimestamp(a.state, a.extraData, vals)
	default:
		panic(fmt.Sprintf("unexpected column type %d", a.inType.ID()))
	}
	if err != nil {
		return errors.WithStack(err)
	}
	a.state = res
	if a.aggFunc.RequiresExtraData() {
		a.extraData = extra
	}
	return nil
}

func nonNullValues[T Value](col evbatch.Column, rows []int, get func(row int) T) []T {
	vals := make([]T, 0, len(rows))
	for _, row := range rows {
		if !col.IsNull(row) {
			vals = append(vals, get(row))
		}
	}
	return vals
}

// Emit appends the running result to builder. An aggregator which has seen no values appends null, except count
// which appends zero.
func (a *Aggregator) Emit(builder evbatch.ColumnBuilder) {
	state := a.state
	if state == nil {
		if _, ok := a.aggFunc.(*CountAggFunc); !ok {
			builder.AppendNull()
			return
		}
		state = int64(0)
	}
	switch a.outType.ID() {
	case types.ColumnTypeIDInt:
		builder.(*evbatch.IntColBuilder).Append(state.(int64))
	case types.ColumnTypeIDFloat:
		builder.(*evbatch.FloatColBuilder).Append(state.(float64))
	case types.ColumnTypeIDBool:
		builder.(*evbatch.BoolColBuilder).Append(state.(bool))
	case types.ColumnTypeIDString:
		builder.(*evbatch.StringColBuilder).Append(state.(string))
	case types.ColumnTypeIDTimestamp:
		builder.(*evbatch.TimestampColBuilder).Append(state.(types.Timestamp))
	default:
		panic(fmt.Sprintf("unexpected column type %d", a.outType.ID()))
	}
}

// Reset clears the running result ready for the next window.
func (a *Aggregator) Reset() {
	a.state = nil
	a.extraData = nil
}
