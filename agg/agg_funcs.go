package agg

import (
	"encoding/binary"
	"github.com/spirit-labs/tswindow/errors"
	"github.com/spirit-labs/tswindow/types"
	"math"
	"strings"
)

// Value is the set of Go types a non-null column value is read into.
type Value interface {
	int64 | float64 | bool | string | types.Timestamp
}

type numeric interface {
	int64 | float64
}

type ordered interface {
	int64 | float64 | string
}

// AggFunc folds a slice of non-null values into the previous running value. extraData carries any state the function
// needs beyond the running value itself.
type AggFunc interface {
	ComputeInt(prevVal any, extraData []byte, vals []int64) (any, []byte, error)
	ComputeFloat(prevVal any, extraData []byte, vals []float64) (any, []byte, error)
	ComputeBool(prevVal any, extraData []byte, vals []bool) (any, []byte, error)
	ComputeString(prevVal any, extraData []byte, vals []string) (any, []byte, error)
	ComputeTimestamp(prevVal any, extraData []byte, vals []types.Timestamp) (any, []byte, error)
	ReturnTypeForExpressionType(t types.ColumnType) types.ColumnType
	AcceptsType(t types.ColumnType) bool
	RequiresExtraData() bool
}

var saf = &SumAggFunc{typeRestricted{name: "sum"}}
var caf = &CountAggFunc{}
var minAgg = &MinAggFunc{typeRestricted{name: "min"}}
var maxAgg = &MaxAggFunc{typeRestricted{name: "max"}}
var avg = &AvgAggFunc{typeRestricted{name: "avg"}}
var firstAgg = &FirstAggFunc{}
var lastAgg = &LastAggFunc{}

var aggFuncsMap = map[string]AggFunc{
	"sum":   saf,
	"count": caf,
	"min":   minAgg,
	"max":   maxAgg,
	"avg":   avg,
	"first": firstAgg,
	"last":  lastAgg,
}

// GetAggFunc returns the named aggregate function, or false if there is no such function.
func GetAggFunc(name string) (AggFunc, bool) {
	f, ok := aggFuncsMap[strings.ToLower(name)]
	return f, ok
}

// FuncChecker reports whether an aggregate function exists.
type FuncChecker struct{}

func (FuncChecker) FunctionExists(functionName string) bool {
	_, ok := GetAggFunc(functionName)
	return ok
}

func isNumericType(t types.ColumnType) bool {
	return t.ID() == types.ColumnTypeIDInt || t.ID() == types.ColumnTypeIDFloat
}

// typeRestricted is embedded by functions that only accept some column types. The aggregator checks AcceptsType when
// it is created, so these are only reached if a function is driven directly with values it does not accept.
type typeRestricted struct {
	name string
}

func (r typeRestricted) rejected(typeName string) (any, []byte, error) {
	return nil, nil, errors.Errorf("aggregate function %s does not accept %s values", r.name, typeName)
}

func (r typeRestricted) ComputeInt(any, []byte, []int64) (any, []byte, error) {
	return r.rejected("int")
}

func (r typeRestricted) ComputeFloat(any, []byte, []float64) (any, []byte, error) {
	return r.rejected("float")
}

func (r typeRestricted) ComputeBool(any, []byte, []bool) (any, []byte, error) {
	return r.rejected("bool")
}

func (r typeRestricted) ComputeString(any, []byte, []string) (any, []byte, error) {
	return r.rejected("string")
}

func (r typeRestricted) ComputeTimestamp(any, []byte, []types.Timestamp) (any, []byte, error) {
	return r.rejected("timestamp")
}

func (r typeRestricted) RequiresExtraData() bool {
	return false
}

func total[T numeric](vals []T) T {
	var tot T
	for _, val := range vals {
		tot += val
	}
	return tot
}

type SumAggFunc struct {
	typeRestricted
}

func sumVals[T numeric](prev any, vals []T) (any, []byte, error) {
	sum := total(vals)
	if prev != nil {
		sum += prev.(T)
	}
	return sum, nil, nil
}

func (s SumAggFunc) ComputeInt(prev any, _ []byte, vals []int64) (any, []byte, error) {
	return sumVals(prev, vals)
}

func (s SumAggFunc) ComputeFloat(prev any, _ []byte, vals []float64) (any, []byte, error) {
	return sumVals(prev, vals)
}

func (s SumAggFunc) ReturnTypeForExpressionType(t types.ColumnType) types.ColumnType {
	return t
}

func (s SumAggFunc) AcceptsType(t types.ColumnType) bool {
	return isNumericType(t)
}

// AvgAggFunc keeps the running total and count in the extra data.
type AvgAggFunc struct {
	typeRestricted
}

func (a AvgAggFunc) ComputeInt(_ any, extraData []byte, vals []int64) (any, []byte, error) {
	return computeAvg(extraData, float64(total(vals)), len(vals))
}

func (a AvgAggFunc) ComputeFloat(_ any, extraData []byte, vals []float64) (any, []byte, error) {
	return computeAvg(extraData, total(vals), len(vals))
}

func (a AvgAggFunc) ComputeTimestamp(_ any, extraData []byte, vals []types.Timestamp) (any, []byte, error) {
	tot := int64(0)
	for _, val := range vals {
		tot += val.Val
	}
	res, extra, err := computeAvg(extraData, float64(tot), len(vals))
	if err != nil {
		return nil, nil, err
	}
	return types.NewTimestamp(int64(res.(float64))), extra, nil
}

func computeAvg(extraData []byte, valsTot float64, valsCount int) (any, []byte, error) {
	tot := float64(0)
	count := uint64(0)
	if extraData != nil {
		tot = math.Float64frombits(binary.LittleEndian.Uint64(extraData))
		count = binary.LittleEndian.Uint64(extraData[8:])
	} else {
		extraData = make([]byte, 16)
	}
	tot += valsTot
	count += uint64(valsCount)
	binary.LittleEndian.PutUint64(extraData, math.Float64bits(tot))
	binary.LittleEndian.PutUint64(extraData[8:], count)
	return tot / float64(count), extraData, nil
}

func (a AvgAggFunc) ReturnTypeForExpressionType(t types.ColumnType) types.ColumnType {
	if t.ID() == types.ColumnTypeIDTimestamp {
		return types.ColumnTypeTimestamp
	}
	return types.ColumnTypeFloat
}

func (a AvgAggFunc) AcceptsType(t types.ColumnType) bool {
	return isNumericType(t) || t.ID() == types.ColumnTypeIDTimestamp
}

func (a AvgAggFunc) RequiresExtraData() bool {
	return true
}

// keepBest folds vals into prev, replacing the current value whenever better reports the candidate wins.
func keepBest[T Value](prev any, vals []T, better func(candidate T, cur T) bool) (any, []byte, error) {
	if prev == nil {
		if len(vals) == 0 {
			return nil, nil, nil
		}
		prev, vals = vals[0], vals[1:]
	}
	cur := prev.(T)
	for _, val := range vals {
		if better(val, cur) {
			cur = val
		}
	}
	return cur, nil, nil
}

func less[T ordered](candidate T, cur T) bool {
	return candidate < cur
}

func greater[T ordered](candidate T, cur T) bool {
	return candidate > cur
}

func earlier(candidate types.Timestamp, cur types.Timestamp) bool {
	return candidate.Val < cur.Val
}

func later(candidate types.Timestamp, cur types.Timestamp) bool {
	return candidate.Val > cur.Val
}

type MinAggFunc struct {
	typeRestricted
}

func (m MinAggFunc) ComputeInt(prev any, _ []byte, vals []int64) (any, []byte, error) {
	return keepBest(prev, vals, less[int64])
}

func (m MinAggFunc) ComputeFloat(prev any, _ []byte, vals []float64) (any, []byte, error) {
	return keepBest(prev, vals, less[float64])
}

func (m MinAggFunc) ComputeString(prev any, _ []byte, vals []string) (any, []byte, error) {
	return keepBest(prev, vals, less[string])
}

func (m MinAggFunc) ComputeTimestamp(prev any, _ []byte, vals []types.Timestamp) (any, []byte, error) {
	return keepBest(prev, vals, earlier)
}

func (m MinAggFunc) ReturnTypeForExpressionType(t types.ColumnType) types.ColumnType {
	return t
}

func (m MinAggFunc) AcceptsType(t types.ColumnType) bool {
	return t.ID() != types.ColumnTypeIDBool
}

type MaxAggFunc struct {
	typeRestricted
}

func (m MaxAggFunc) ComputeInt(prev any, _ []byte, vals []int64) (any, []byte, error) {
	return keepBest(prev, vals, greater[int64])
}

func (m MaxAggFunc) ComputeFloat(prev any, _ []byte, vals []float64) (any, []byte, error) {
	return keepBest(prev, vals, greater[float64])
}

func (m MaxAggFunc) ComputeString(prev any, _ []byte, vals []string) (any, []byte, error) {
	return keepBest(prev, vals, greater[string])
}

func (m MaxAggFunc) ComputeTimestamp(prev any, _ []byte, vals []types.Timestamp) (any, []byte, error) {
	return keepBest(prev, vals, later)
}

func (m MaxAggFunc) ReturnTypeForExpressionType(t types.ColumnType) types.ColumnType {
	return t
}

func (m MaxAggFunc) AcceptsType(t types.ColumnType) bool {
	return t.ID() != types.ColumnTypeIDBool
}

// CountAggFunc counts non-null values of any type.
type CountAggFunc struct {
}

func countVals[T Value](prev any, vals []T) (any, []byte, error) {
	var count int64
	if prev != nil {
		count = prev.(int64)
	}
	return count + int64(len(vals)), nil, nil
}

func (c CountAggFunc) ComputeInt(prev any, _ []byte, vals []int64) (any, []byte, error) {
	return countVals(prev, vals)
}

func (c CountAggFunc) ComputeFloat(prev any, _ []byte, vals []float64) (any, []byte, error) {
	return countVals(prev, vals)
}

func (c CountAggFunc) ComputeBool(prev any, _ []byte, vals []bool) (any, []byte, error) {
	return countVals(prev, vals)
}

func (c CountAggFunc) ComputeString(prev any, _ []byte, vals []string) (any, []byte, error) {
	return countVals(prev, vals)
}

func (c CountAggFunc) ComputeTimestamp(prev any, _ []byte, vals []types.Timestamp) (any, []byte, error) {
	return countVals(prev, vals)
}

func (c CountAggFunc) ReturnTypeForExpressionType(types.ColumnType) types.ColumnType {
	return types.ColumnTypeInt
}

func (c CountAggFunc) AcceptsType(types.ColumnType) bool {
	return true
}

func (c CountAggFunc) RequiresExtraData() bool {
	return false
}

// FirstAggFunc keeps the first non-null value of the window.
type FirstAggFunc struct {
}

func firstVal[T Value](prev any, vals []T) (any, []byte, error) {
	if prev != nil || len(vals) == 0 {
		return prev, nil, nil
	}
	return vals[0], nil, nil
}

func (f FirstAggFunc) ComputeInt(prev any, _ []byte, vals []int64) (any, []byte, error) {
	return firstVal(prev, vals)
}

func (f FirstAggFunc) ComputeFloat(prev any, _ []byte, vals []float64) (any, []byte, error) {
	return firstVal(prev, vals)
}

func (f FirstAggFunc) ComputeBool(prev any, _ []byte, vals []bool) (any, []byte, error) {
	return firstVal(prev, vals)
}

func (f FirstAggFunc) ComputeString(prev any, _ []byte, vals []string) (any, []byte, error) {
	return firstVal(prev, vals)
}

func (f FirstAggFunc) ComputeTimestamp(prev any, _ []byte, vals []types.Timestamp) (any, []byte, error) {
	return firstVal(prev, vals)
}

func (f FirstAggFunc) ReturnTypeForExpressionType(t types.ColumnType) types.ColumnType {
	return t
}

func (f FirstAggFunc) AcceptsType(types.ColumnType) bool {
	return true
}

func (f FirstAggFunc) RequiresExtraData() bool {
	return false
}

// LastAggFunc keeps the last non-null value of the window.
type LastAggFunc struct {
}

func lastVal[T Value](prev any, vals []T) (any, []byte, error) {
	if len(vals) == 0 {
		return prev, nil, nil
	}
	return vals[len(vals)-1], nil, nil
}

func (l LastAggFunc) ComputeInt(prev any, _ []byte, vals []int64) (any, []byte, error) {
	return lastVal(prev, vals)
}

func (l LastAggFunc) ComputeFloat(prev any, _ []byte, vals []float64) (any, []byte, error) {
	return lastVal(prev, vals)
}

func (l LastAggFunc) ComputeBool(prev any, _ []byte, vals []bool) (any, []byte, error) {
	return lastVal(prev, vals)
}

func (l LastAggFunc) ComputeString(prev any, _ []byte, vals []string) (any, []byte, error) {
	return lastVal(prev, vals)
}

func (l LastAggFunc) ComputeTimestamp(prev any, _ []byte, vals []types.Timestamp) (any, []byte, error) {
	return lastVal(prev, vals)
}

func (l LastAggFunc) ReturnTypeForExpressionType(t types.ColumnType) types.ColumnType {
	return t
}

func (l LastAggFunc) AcceptsType(types.ColumnType) bool {
	return true
}

func (l LastAggFunc) RequiresExtraData() bool {
	return false
}
