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
	"github.com/spirit-labs/tswindow/evbatch"
	log "github.com/spirit-labs/tswindow/logger"
)

// CountWindowManager produces windows that each hold a fixed number of qualifying rows. When nulls are ignored a row
// only qualifies if its control column is not null.
type CountWindowManager struct {
	window      *CountWindow
	initialized bool
	needSkip    bool
}

var _ Manager = (*CountWindowManager)(nil)

func NewCountWindowManager(params *CountWindowParams) (*CountWindowManager, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	// needSkip starts true so the very first window is scanned
	return &CountWindowManager{
		window:   newCountWindow(params),
		needSkip: true,
	}, nil
}

func (m *CountWindowManager) IsCurWindowInit() bool {
	return m.initialized
}

func (m *CountWindowManager) InitCurWindow() {
	m.initialized = true
	m.window.reset()
}

// HasNext returns hasMoreData. A count window can only be produced from more rows.
func (m *CountWindowManager) HasNext(hasMoreData bool) bool {
	return hasMoreData
}

func (m *CountWindowManager) Next() {
	m.needSkip = true
	m.initialized = false
}

func (m *CountWindowManager) CurWindow() Window {
	return m.window
}

// CurCountWindow is CurWindow without the interface.
func (m *CountWindowManager) CurCountWindow() *CountWindow {
	return m.window
}

func (m *CountWindowManager) NeedSkipInAdvance() bool {
	return true
}

func (m *CountWindowManager) IsIgnoringNull() bool {
	return m.window.ignoreNull
}

// NeedSkip returns false once the boundary of the current window has been found and stays false until Next is
// called.
func (m *CountWindowManager) NeedSkip() bool {
	return m.needSkip
}

// SkipPointsOutOfCurWindow admits rows from the front of the batch into the current window until the window holds
// WindowSize qualifying rows. It returns the rows that were not admitted. If the whole batch is admitted, or the batch
// contains nothing but nulls, an empty batch is returned and the boundary is still to be found.
func (m *CountWindowManager) SkipPointsOutOfCurWindow(batch *evbatch.Batch) (*evbatch.Batch, error) {
	if !m.needSkip {
		return batch, nil
	}
	if batch == nil || batch.IsEmpty() {
		return batch, nil
	}
	if !m.initialized {
		panic("cannot skip rows for a count window which has not been initialised")
	}
	timeColIndex, err := m.window.TimeColumnIndex(batch)
	if err != nil {
		return nil, err
	}
	var controlCol evbatch.Column
	if m.window.ignoreNull || m.window.HasControlColumn() {
		controlCol, err = m.window.ControlColumn(batch)
		if err != nil {
			return nil, err
		}
	}
	ignoreNull := m.window.ignoreNull
	leftCount := m.window.leftCount
	i, size := 0, batch.RowCount
	for ; i < size; i++ {
		if ignoreNull && controlCol.IsNull(i) {
			continue
		}
		if leftCount == 0 {
			break
		}
		leftCount--
		m.window.UpdateTimeBounds(batch.TimeAt(timeColIndex, i))
	}
	m.window.SetLeftCount(leftCount)
	if i < size {
		m.needSkip = false
		if log.DebugEnabled {
			log.Debugf("count window boundary found at row %d of %d, window [%d, %d]", i, size,
				m.window.startTime, m.window.endTime)
		}
	}
	return batch.Slice(i), nil
}

func (m *CountWindowManager) ResultSchema(aggregators []Aggregator) *evbatch.EventSchema {
	return resultSchema(aggregators, m.window.outputEndTime)
}

func (m *CountWindowManager) CreateResultBuilder(aggregators []Aggregator) *ResultBuilder {
	return NewResultBuilder(m.ResultSchema(aggregators))
}

// AppendResult appends a row for the current window to builder. Nothing is appended unless the window is closed.
func (m *CountWindowManager) AppendResult(builder *ResultBuilder, aggregators []Aggregator) error {
	if !m.window.IsClosed() {
		return nil
	}
	return outputAggregators(aggregators, builder, m.window.startTime, m.window.endTime, m.window.outputEndTime)
}
