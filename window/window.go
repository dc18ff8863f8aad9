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

// Package window decides where windows begin and end in a stream of event batches. A Manager owns the window
// currently being computed; the executor feeds it batches, forwards the rows it claims to the aggregators and asks it
// to emit a result row once the window has closed.
package window

import (
	"github.com/spirit-labs/tswindow/evbatch"
	"github.com/spirit-labs/tswindow/types"
	"math"
)

const (
	// NoStartTime is the start time of a window that has not admitted any rows yet. Any admitted row time is <= it.
	NoStartTime int64 = math.MaxInt64
	// NoEndTime is the end time of a window that has not admitted any rows yet. Any admitted row time is >= it.
	NoEndTime int64 = math.MinInt64
)

const (
	EventTimeColName = "event_time"
	WindowEndColName = "window_end"
)

type Kind int

const (
	KindCount Kind = iota + 1
)

func (k Kind) String() string {
	switch k {
	case KindCount:
		return "count"
	default:
		return "unknown"
	}
}

// Window is one open window. It is owned by its Manager and reused from one window to the next.
type Window interface {
	Kind() Kind
	StartTime() int64
	EndTime() int64
	// IsClosed returns true once the window's closing condition has been met.
	IsClosed() bool
}

// Aggregator is the part of an aggregate function the window layer needs in order to lay out and fill a result row.
// Feeding rows into aggregators is the executor's job.
type Aggregator interface {
	Name() string
	OutputType() types.ColumnType
	Emit(builder evbatch.ColumnBuilder)
}

// Manager drives the lifecycle of the current window for one kind of window.
//
// Managers are not safe for concurrent use. Each window computation owns its own Manager.
type Manager interface {
	IsCurWindowInit() bool
	InitCurWindow()
	// HasNext returns true if another window can be produced given whether more input is available.
	HasNext(hasMoreData bool) bool
	// Next is called once the result of the current window has been emitted.
	Next()
	CurWindow() Window
	// SkipPointsOutOfCurWindow consumes the leading rows of batch that belong to the current window and returns the
	// remaining rows.
	SkipPointsOutOfCurWindow(batch *evbatch.Batch) (*evbatch.Batch, error)
	// NeedSkipInAdvance returns true if rows must pass through SkipPointsOutOfCurWindow before the aggregators see
	// them.
	NeedSkipInAdvance() bool
	IsIgnoringNull() bool
	ResultSchema(aggregators []Aggregator) *evbatch.EventSchema
	CreateResultBuilder(aggregators []Aggregator) *ResultBuilder
	AppendResult(builder *ResultBuilder, aggregators []Aggregator) error
}
