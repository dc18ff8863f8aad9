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

package opers

import (
	"github.com/spirit-labs/tswindow/evbatch"
	"github.com/spirit-labs/tswindow/types"
)

func convertBatchToAnyArray(batch *evbatch.Batch) [][]any {
	var data [][]any
	if batch == nil {
		return data
	}
	for i := 0; i < batch.RowCount; i++ {
		var row []any
		for j, colType := range batch.Schema.ColumnTypes() {
			if batch.Columns[j].IsNull(i) {
				row = append(row, nil)
				continue
			}
			switch colType.ID() {
			case types.ColumnTypeIDInt:
				row = append(row, batch.GetIntColumn(j).Get(i))
			case types.ColumnTypeIDFloat:
				row = append(row, batch.GetFloatColumn(j).Get(i))
			case types.ColumnTypeIDBool:
				row = append(row, batch.GetBoolColumn(j).Get(i))
			case types.ColumnTypeIDString:
				row = append(row, batch.GetStringColumn(j).Get(i))
			case types.ColumnTypeIDTimestamp:
				row = append(row, batch.GetTimestampColumn(j).Get(i))
			default:
				panic("unknown type")
			}
		}
		data = append(data, row)
	}
	return data
}

func createEventBatch(columnNames []string, columnTypes []types.ColumnType, data [][]any) *evbatch.Batch {
	schema := evbatch.NewEventSchema(columnNames, columnTypes)
	return createEventBatchWithSchema(schema, data)
}

func createEventBatchWithSchema(schema *evbatch.EventSchema, data [][]any) *evbatch.Batch {
	columnTypes := schema.ColumnTypes()
	colBuilders := evbatch.CreateColBuilders(columnTypes)
	for _, row := range data {
		for j, colType := range columnTypes {
			colBuilder := colBuilders[j]
			if row[j] == nil {
				colBuilder.AppendNull()
				continue
			}
			switch colType.ID() {
			case types.ColumnTypeIDInt:
				colBuilder.(*evbatch.IntColBuilder).Append(row[j].(int64))
			case types.ColumnTypeIDFloat:
				colBuilder.(*evbatch.FloatColBuilder).Append(row[j].(float64))
			case types.ColumnTypeIDBool:
				colBuilder.(*evbatch.BoolColBuilder).Append(row[j].(bool))
			case types.ColumnTypeIDString:
				colBuilder.(*evbatch.StringColBuilder).Append(row[j].(string))
			case types.ColumnTypeIDTimestamp:
				colBuilder.(*evbatch.TimestampColBuilder).Append(row[j].(types.Timestamp))
			default:
				panic("unknown type")
			}
		}
	}
	return evbatch.NewBatchFromBuilders(schema, colBuilders...)
}

func ts(val int64) types.Timestamp {
	return types.NewTimestamp(val)
}
