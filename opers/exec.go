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
	"context"
	"github.com/spirit-labs/tswindow/errors"
	"github.com/spirit-labs/tswindow/evbatch"
)

// BatchSource provides input batches. NextBatch returns nil, nil once the input is exhausted.
type BatchSource interface {
	NextBatch(ctx context.Context) (*evbatch.Batch, error)
}

// BatchSink receives result batches.
type BatchSink interface {
	WriteBatch(batch *evbatch.Batch) error
}

// Run pulls batches from source through the operator until the source is exhausted or ctx is done, writing results to
// sink.
func Run(ctx context.Context, source BatchSource, oper Operator, sink BatchSink) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		batch, err := source.NextBatch(ctx)
		if err != nil {
			return err
		}
		var res *evbatch.Batch
		if batch == nil {
			res, err = oper.Finish()
		} else {
			res, err = oper.HandleBatch(batch)
		}
		if err != nil {
			return errors.WithStack(err)
		}
		if res != nil && !res.IsEmpty() {
			res.Dump()
			if err := sink.WriteBatch(res); err != nil {
				return err
			}
		}
		if batch == nil {
			return nil
		}
	}
}

// SliceSource returns the batches it was created with, in order.
type SliceSource struct {
	batches []*evbatch.Batch
	pos     int
}

func NewSliceSource(batches ...*evbatch.Batch) *SliceSource {
	return &SliceSource{batches: batches}
}

func (s *SliceSource) NextBatch(context.Context) (*evbatch.Batch, error) {
	if s.pos >= len(s.batches) {
		return nil, nil
	}
	batch := s.batches[s.pos]
	s.pos++
	return batch, nil
}

// BatchCollector is a BatchSink which keeps every batch written to it.
type BatchCollector struct {
	Batches []*evbatch.Batch
}

func (b *BatchCollector) WriteBatch(batch *evbatch.Batch) error {
	b.Batches = append(b.Batches, batch)
	return nil
}

// RowCount returns the total number of rows collected.
func (b *BatchCollector) RowCount() int {
	tot := 0
	for _, batch := range b.Batches {
		tot += batch.RowCount
	}
	return tot
}
