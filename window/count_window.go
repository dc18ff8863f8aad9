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

// ColumnSelector picks a column out of a batch.
type ColumnSelector func(batch *evbatch.Batch) (evbatch.Column, error)

// ColumnByName returns a ColumnSelector which resolves the named column against the schema of each batch. The
// resolved index is cached for as long as batches share the same schema.
func ColumnByName(name string) ColumnSelector {
	var lastSchema *evbatch.EventSchema
	colIndex := -1
	return func(batch *evbatch.Batch) (evbatch.Column, error) {
		if batch.Schema != lastSchema {
			colIndex = batch.Schema.ColumnIndex(name)
			if colIndex == -1 {
				return nil, errors.NewInvalidConfigurationErrorf("column '%s' does not exist in input schema (%s)",
					name, batch.Schema.String())
			}
			lastSchema = batch.Schema
		}
		return batch.Columns[colIndex], nil
	}
}

type CountWindowParams struct {
	// WindowSize is the number of qualifying rows in each window. Must be > 0.
	WindowSize uint64
	// IgnoreNull means rows where the control column is null are not counted and are not forwarded to aggregators.
	IgnoreNull bool
	// NeedOutputEndTime adds a window_end column holding the latest admitted row time to the result.
	NeedOutputEndTime bool
	// ControlColumn is the column tested for nulls when IgnoreNull is set.
	ControlColumn string
	// ControlColumnSelector overrides ControlColumn when set.
	ControlColumnSelector ColumnSelector
	// TimeColumn holds the row times. Defaults to event_time. Must be a timestamp or int column.
	TimeColumn string
}

func (p *CountWindowParams) Validate() error {
	if p.WindowSize == 0 {
		return errors.NewInvalidConfigurationError("count window size must be > 0")
	}
	if p.IgnoreNull && p.ControlColumn == "" && p.ControlColumnSelector == nil {
		return errors.NewInvalidConfigurationError("a control column must be specified when ignoring nulls")
	}
	return nil
}

// CountWindow is the window currently being filled by a CountWindowManager.
type CountWindow struct {
	windowSize    uint64
	ignoreNull    bool
	outputEndTime bool
	leftCount     uint64
	startTime     int64
	endTime       int64

	controlColumn ColumnSelector
	timeColName   string
	timeSchema    *evbatch.EventSchema
	timeColIndex  int
}

func newCountWindow(params *CountWindowParams) *CountWindow {
	controlColumn := params.ControlColumnSelector
	if controlColumn == nil && params.ControlColumn != "" {
		controlColumn = ColumnByName(params.ControlColumn)
	}
	timeColName := params.TimeColumn
	if timeColName == "" {
		timeColName = EventTimeColName
	}
	return &CountWindow{
		windowSize:    params.WindowSize,
		ignoreNull:    params.IgnoreNull,
		outputEndTime: params.NeedOutputEndTime,
		startTime:     NoStartTime,
		endTime:       NoEndTime,
		controlColumn: controlColumn,
		timeColName:   timeColName,
		timeColIndex:  -1,
	}
}

func (c *CountWindow) Kind() Kind {
	return KindCount
}

func (c *CountWindow) StartTime() int64 {
	return c.startTime
}

func (c *CountWindow) EndTime() int64 {
	return c.endTime
}

func (c *CountWindow) IsClosed() bool {
	return c.leftCount == 0
}

func (c *CountWindow) WindowSize() uint64 {
	return c.windowSize
}

// LeftCount is the number of qualifying rows still needed to close the window.
func (c *CountWindow) LeftCount() uint64 {
	return c.leftCount
}

func (c *CountWindow) SetLeftCount(leftCount uint64) {
	if leftCount > c.windowSize {
		panic(fmt.Sprintf("left count %d exceeds window size %d", leftCount, c.windowSize))
	}
	c.leftCount = leftCount
}

func (c *CountWindow) IsIgnoringNull() bool {
	return c.ignoreNull
}

func (c *CountWindow) IsOutputEndTime() bool {
	return c.outputEndTime
}

// HasControlColumn returns true if a control column was configured.
func (c *CountWindow) HasControlColumn() bool {
	return c.controlColumn != nil
}

// ControlColumn resolves the control column against the batch.
func (c *CountWindow) ControlColumn(batch *evbatch.Batch) (evbatch.Column, error) {
	if c.controlColumn == nil {
		return nil, errors.NewInvalidConfigurationError("no control column configured")
	}
	return c.controlColumn(batch)
}

// TimeColumnIndex resolves the index of the time column in the batch schema.
func (c *CountWindow) TimeColumnIndex(batch *evbatch.Batch) (int, error) {
	if batch.Schema == c.timeSchema {
		return c.timeColIndex, nil
	}
	colIndex := batch.Schema.ColumnIndex(c.timeColName)
	if colIndex == -1 {
		return 0, errors.NewInvalidConfigurationErrorf("time column '%s' does not exist in input schema (%s)",
			c.timeColName, batch.Schema.String())
	}
	colType := batch.Schema.ColumnTypes()[colIndex]
	if !types.IsTimeType(colType) {
		return 0, errors.NewInvalidConfigurationErrorf("time column '%s' must be of type timestamp or int, found %s",
			c.timeColName, colType.String())
	}
	c.timeSchema = batch.Schema
	c.timeColIndex = colIndex
	return colIndex, nil
}

// UpdateTimeBounds widens the window to include the given time.
func (c *CountWindow) UpdateTimeBounds(ts int64) {
	if ts < c.startTime {
		c.startTime = ts
	}
	if ts > c.endTime {
		c.endTime = ts
	}
}

func (c *CountWindow) reset() {
	c.leftCount = c.windowSize
	c.startTime = NoStartTime
	c.endTime = NoEndTime
}
