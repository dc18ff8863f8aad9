package opers

import (
	"github.com/spirit-labs/tswindow/agg"
	"github.com/spirit-labs/tswindow/errors"
	"github.com/spirit-labs/tswindow/evbatch"
	log "github.com/spirit-labs/tswindow/logger"
	"github.com/spirit-labs/tswindow/window"
)

// AggDesc describes one aggregate output column.
type AggDesc struct {
	FuncName string
	ColName  string
	// Alias names the result column. Defaults to FuncName(ColName).
	Alias string
}

// CountWindowAggOperator computes aggregates over consecutive count windows. Each window holds a fixed number of
// qualifying rows and produces one result row once it is full. A window that is still filling when the input ends
// produces nothing.
type CountWindowAggOperator struct {
	inSchema      *evbatch.EventSchema
	outSchema     *evbatch.EventSchema
	mgr           *window.CountWindowManager
	aggregators   []*agg.Aggregator
	winAggs       []window.Aggregator
	resultBuilder *window.ResultBuilder
	rows          []int
	windowsClosed int64
}

var _ Operator = (*CountWindowAggOperator)(nil)

func NewCountWindowAggOperator(inSchema *evbatch.EventSchema, params *window.CountWindowParams,
	aggDescs []AggDesc) (*CountWindowAggOperator, error) {
	if len(aggDescs) == 0 {
		return nil, errors.NewInvalidConfigurationError("at least one aggregate must be specified")
	}
	mgr, err := window.NewCountWindowManager(params)
	if err != nil {
		return nil, err
	}
	inColIndexes := createInColIndexMap(inSchema)
	timeCol := params.TimeColumn
	if timeCol == "" {
		timeCol = EventTimeColName
	}
	if _, ok := inColIndexes[timeCol]; !ok {
		return nil, errors.NewInvalidConfigurationErrorf("time column '%s' does not exist in input schema (%s)",
			timeCol, inSchema.String())
	}
	if params.ControlColumnSelector == nil && params.ControlColumn != "" {
		if _, ok := inColIndexes[params.ControlColumn]; !ok {
			return nil, errors.NewInvalidConfigurationErrorf("control column '%s' does not exist in input schema (%s)",
				params.ControlColumn, inSchema.String())
		}
	}
	aggregators := make([]*agg.Aggregator, 0, len(aggDescs))
	winAggs := make([]window.Aggregator, 0, len(aggDescs))
	names := map[string]struct{}{}
	for _, desc := range aggDescs {
		aggregator, err := agg.NewAggregator(desc.FuncName, desc.ColName, desc.Alias, inSchema)
		if err != nil {
			return nil, err
		}
		if _, exists := names[aggregator.Name()]; exists {
			return nil, errors.NewInvalidConfigurationErrorf("duplicate result column '%s'", aggregator.Name())
		}
		names[aggregator.Name()] = struct{}{}
		aggregators = append(aggregators, aggregator)
		winAggs = append(winAggs, aggregator)
	}
	resultBuilder := mgr.CreateResultBuilder(winAggs)
	return &CountWindowAggOperator{
		inSchema:      inSchema,
		outSchema:     resultBuilder.Schema(),
		mgr:           mgr,
		aggregators:   aggregators,
		winAggs:       winAggs,
		resultBuilder: resultBuilder,
	}, nil
}

func (c *CountWindowAggOperator) HandleBatch(batch *evbatch.Batch) (*evbatch.Batch, error) {
	for batch != nil && !batch.IsEmpty() {
		if !c.mgr.IsCurWindowInit() {
			c.mgr.InitCurWindow()
			c.resetAggregators()
		}
		rem, err := c.mgr.SkipPointsOutOfCurWindow(batch)
		if err != nil {
			return nil, err
		}
		consumed := batch.RowCount - rem.RowCount
		if err := c.updateAggregators(batch, consumed); err != nil {
			return nil, err
		}
		win := c.mgr.CurWindow()
		if win.IsClosed() {
			if err := c.mgr.AppendResult(c.resultBuilder, c.winAggs); err != nil {
				return nil, err
			}
			c.windowsClosed++
			if log.DebugEnabled {
				log.Debugf("count window %d closed, start %d end %d", c.windowsClosed, win.StartTime(), win.EndTime())
			}
			c.mgr.Next()
		} else if consumed == 0 {
			panic("count window made no progress over a non-empty batch")
		}
		batch = rem
	}
	if c.resultBuilder.IsEmpty() {
		return nil, nil
	}
	return c.resultBuilder.Build(), nil
}

// updateAggregators passes the first consumed rows of batch to the aggregators. Rows with a null control value are
// left out when nulls are ignored.
func (c *CountWindowAggOperator) updateAggregators(batch *evbatch.Batch, consumed int) error {
	if consumed == 0 {
		return nil
	}
	c.rows = c.rows[:0]
	if c.mgr.IsIgnoringNull() {
		controlCol, err := c.mgr.CurCountWindow().ControlColumn(batch)
		if err != nil {
			return err
		}
		for i := 0; i < consumed; i++ {
			if !controlCol.IsNull(i) {
				c.rows = append(c.rows, i)
			}
		}
	} else {
		for i := 0; i < consumed; i++ {
			c.rows = append(c.rows, i)
		}
	}
	for _, aggregator := range c.aggregators {
		if err := aggregator.Update(batch, c.rows); err != nil {
			return err
		}
	}
	return nil
}

func (c *CountWindowAggOperator) resetAggregators() {
	for _, aggregator := range c.aggregators {
		aggregator.Reset()
	}
}

// Finish discards any partially filled window. Count windows only produce results for complete windows.
func (c *CountWindowAggOperator) Finish() (*evbatch.Batch, error) {
	if c.mgr.HasNext(false) {
		return nil, errors.Errorf("count window unexpectedly has more windows at end of input")
	}
	if c.mgr.IsCurWindowInit() {
		cw := c.mgr.CurCountWindow()
		if cw.LeftCount() < cw.WindowSize() {
			log.Debugf("discarding partial count window with %d of %d rows", cw.WindowSize()-cw.LeftCount(),
				cw.WindowSize())
		}
		c.mgr.Next()
	}
	return nil, nil
}

// WindowsClosed returns the number of windows that have produced a result.
func (c *CountWindowAggOperator) WindowsClosed() int64 {
	return c.windowsClosed
}

func (c *CountWindowAggOperator) InSchema() *evbatch.EventSchema {
	return c.inSchema
}

func (c *CountWindowAggOperator) OutSchema() *evbatch.EventSchema {
	return c.outSchema
}
