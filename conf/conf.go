package conf

import (
	"github.com/spirit-labs/tswindow/agg"
	"github.com/spirit-labs/tswindow/errors"
	"github.com/spirit-labs/tswindow/evbatch"
	"github.com/spirit-labs/tswindow/opers"
	"github.com/spirit-labs/tswindow/parser"
	"github.com/spirit-labs/tswindow/types"
	"github.com/spirit-labs/tswindow/window"
)

const (
	DefaultTimeColumn   = window.EventTimeColName
	DefaultMaxBatchRows = 1000
)

type Config struct {
	WindowSize    *int    `help:"Number of qualifying rows in each window"`
	IgnoreNull    *bool   `help:"Do not count rows where the control column is null"`
	OutputEndTime *bool   `help:"Add a window_end column holding the time of the last row in each window"`
	ControlColumn *string `help:"Column tested for nulls when ignore-null is set"`
	TimeColumn    *string `help:"Column holding the event time, of type timestamp or int"`
	Schema        *string `help:"Input schema as a comma separated list of name:type"`
	Aggregates    *string `help:"Comma separated list of aggregates of the form func(column) [as alias]"`
	MaxBatchRows  *int    `help:"Maximum number of rows read into each input batch"`
}

func (c *Config) ApplyDefaults() {
	if c.IgnoreNull == nil {
		c.IgnoreNull = types.AddressOf(false)
	}
	if c.OutputEndTime == nil {
		c.OutputEndTime = types.AddressOf(false)
	}
	if c.TimeColumn == nil || *c.TimeColumn == "" {
		c.TimeColumn = types.AddressOf(DefaultTimeColumn)
	}
	if c.MaxBatchRows == nil {
		c.MaxBatchRows = types.AddressOf(DefaultMaxBatchRows)
	}
}

func (c *Config) Validate() error {
	if c.WindowSize == nil {
		return errors.NewInvalidConfigurationError("window-size must be specified")
	}
	if *c.WindowSize <= 0 {
		return errors.NewInvalidConfigurationError("window-size must be > 0")
	}
	if c.IgnoreNull != nil && *c.IgnoreNull && (c.ControlColumn == nil || *c.ControlColumn == "") {
		return errors.NewInvalidConfigurationError("control-column must be specified when ignore-null is true")
	}
	if c.Schema == nil || *c.Schema == "" {
		return errors.NewInvalidConfigurationError("schema must be specified")
	}
	if c.Aggregates == nil || *c.Aggregates == "" {
		return errors.NewInvalidConfigurationError("aggregates must be specified")
	}
	if c.MaxBatchRows != nil && *c.MaxBatchRows <= 0 {
		return errors.NewInvalidConfigurationError("max-batch-rows must be > 0")
	}
	return nil
}

// WindowParams returns the count window parameters. ApplyDefaults must have been called.
func (c *Config) WindowParams() *window.CountWindowParams {
	params := &window.CountWindowParams{
		IgnoreNull:        *c.IgnoreNull,
		NeedOutputEndTime: *c.OutputEndTime,
		TimeColumn:        *c.TimeColumn,
	}
	if c.WindowSize != nil {
		params.WindowSize = uint64(*c.WindowSize)
	}
	if c.ControlColumn != nil {
		params.ControlColumn = *c.ControlColumn
	}
	return params
}

func (c *Config) InputSchema() (*evbatch.EventSchema, error) {
	desc, err := parser.NewParser(nil).ParseSchema(*c.Schema)
	if err != nil {
		return nil, err
	}
	return evbatch.NewEventSchema(desc.ColumnNames, desc.ColumnTypes), nil
}

func (c *Config) AggDescs() ([]opers.AggDesc, error) {
	desc, err := parser.NewParser(agg.FuncChecker{}).ParseAggregates(*c.Aggregates)
	if err != nil {
		return nil, err
	}
	aggDescs := make([]opers.AggDesc, 0, len(desc.Aggs))
	for _, aggDesc := range desc.Aggs {
		aggDescs = append(aggDescs, opers.AggDesc{
			FuncName: aggDesc.FuncName,
			ColName:  aggDesc.ColName,
			Alias:    aggDesc.Alias,
		})
	}
	return aggDescs, nil
}
