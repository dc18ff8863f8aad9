// Package opers contains the operators which turn a stream of input batches into result batches.
package opers

import (
	"github.com/spirit-labs/tswindow/evbatch"
	"github.com/spirit-labs/tswindow/window"
)

const EventTimeColName = window.EventTimeColName

// Operator consumes input batches in order and produces result batches.
//
// Operators are not safe for concurrent use.
type Operator interface {
	// HandleBatch processes the next input batch. It returns any results that are complete, or nil if there are none.
	HandleBatch(batch *evbatch.Batch) (*evbatch.Batch, error)
	// Finish is called once there is no more input. It returns any remaining results, or nil.
	Finish() (*evbatch.Batch, error)
	InSchema() *evbatch.EventSchema
	OutSchema() *evbatch.EventSchema
}

func createInColIndexMap(schema *evbatch.EventSchema) map[string]int {
	indexMap := make(map[string]int, len(schema.ColumnNames()))
	for i, inName := range schema.ColumnNames() {
		indexMap[inName] = i
	}
	return indexMap
}
