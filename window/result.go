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

package window

import (
	"fmt"
	"github.com/spirit-labs/tswindow/errors"
	"github.com/spirit-labs/tswindow/evbatch"
	"github.com/spirit-labs/tswindow/types"
)

// ResultBuilder accumulates window result rows. The first column of the schema is always the event_time column and
// holds the window start time, the remaining columns are value columns.
type ResultBuilder struct {
	schema        *evbatch.EventSchema
	timeBuilder   *evbatch.TimestampColBuilder
	valueBuilders []evbatch.ColumnBuilder
	rowCount      int
}

func NewResultBuilder(schema *evbatch.EventSchema) *ResultBuilder {
	colTypes := schema.ColumnTypes()
	if len(colTypes) == 0 || colTypes[0].ID() != types.ColumnTypeIDTimestamp {
		panic(fmt.Sprintf("result schema must start with a timestamp column: %s", schema.String()))
	}
	return &ResultBuilder{
		schema:        schema,
		timeBuilder:   evbatch.NewTimestampColBuilder(),
		valueBuilders: evbatch.CreateColBuilders(colTypes[1:]),
	}
}

func (r *ResultBuilder) Schema() *evbatch.EventSchema {
	return r.schema
}

func (r *ResultBuilder) TimeColumnBuilder() *evbatch.TimestampColBuilder {
	return r.timeBuilder
}

func (r *ResultBuilder) ValueColumnBuilders() []evbatch.ColumnBuilder {
	return r.valueBuilders
}

// DeclareRow must be called once every column builder has had a value appended for the row.
func (r *ResultBuilder) DeclareRow() {
	r.rowCount++
}

func (r *ResultBuilder) RowCount() int {
	return r.rowCount
}

func (r *ResultBuilder) IsEmpty() bool {
	return r.rowCount == 0
}

// Build returns the rows declared so far as a batch and resets the builder.
func (r *ResultBuilder) Build() *evbatch.Batch {
	builders := make([]evbatch.ColumnBuilder, 0, len(r.valueBuilders)+1)
	builders = append(builders, r.timeBuilder)
	builders = append(builders, r.valueBuilders...)
	batch := evbatch.NewBatchFromBuilders(r.schema, builders...)
	r.rowCount = 0
	return batch
}

func resultSchema(aggregators []Aggregator, outputEndTime bool) *evbatch.EventSchema {
	numCols := len(aggregators) + 1
	if outputEndTime {
		numCols++
	}
	names := make([]string, 0, numCols)
	colTypes := make([]types.ColumnType, 0, numCols)
	names = append(names, EventTimeColName)
	colTypes = append(colTypes, types.ColumnTypeTimestamp)
	if outputEndTime {
		names = append(names, WindowEndColName)
		colTypes = append(colTypes, types.ColumnTypeInt)
	}
	for _, agg := range aggregators {
		names = append(names, agg.Name())
		colTypes = append(colTypes, agg.OutputType())
	}
	return evbatch.NewEventSchema(names, colTypes)
}

// outputAggregators appends one result row: the window start time, the end time if requested, then the output of
// each aggregator in order.
func outputAggregators(aggregators []Aggregator, builder *ResultBuilder, startTime int64, endTime int64,
	outputEndTime bool) error {
	valueBuilders := builder.ValueColumnBuilders()
	expectedCols := len(aggregators)
	if outputEndTime {
		expectedCols++
	}
	if len(valueBuilders) != expectedCols {
		return errors.Errorf("result builder has %d value columns but window produces %d", len(valueBuilders),
			expectedCols)
	}
	builder.TimeColumnBuilder().Append(types.NewTimestamp(startTime))
	colIndex := 0
	if outputEndTime {
		endBuilder, ok := valueBuilders[0].(*evbatch.IntColBuilder)
		if !ok {
			return errors.Errorf("result column %s must be an int column", WindowEndColName)
		}
		endBuilder.Append(endTime)
		colIndex = 1
	}
	for _, agg := range aggregators {
		agg.Emit(valueBuilders[colIndex])
		colIndex++
	}
	builder.DeclareRow()
	return nil
}
