package agg

import (
	"github.com/spirit-labs/tswindow/types"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestSum(t *testing.T) {
	saf := &SumAggFunc{}
	res, _, err := saf.ComputeInt(int64(10), nil, []int64{5, -6, 7, -8, 9})
	require.NoError(t, err)
	require.Equal(t, int64(17), res.(int64))

	res, _, err = saf.ComputeInt(nil, nil, []int64{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, int64(6), res.(int64))

	res, _, err = saf.ComputeFloat(float64(11.2), nil, []float64{5.1, 6.3, -7.1, 8.7, 9.4})
	require.NoError(t, err)
	require.Equal(t, float64(33.599999999999994), res.(float64))
}

func TestCount(t *testing.T) {
	caf := &CountAggFunc{}
	res, _, err := caf.ComputeInt(int64(10), nil, []int64{5, -6, 7, -8, 9})
	require.NoError(t, err)
	require.Equal(t, int64(15), res.(int64))

	res, _, err = caf.ComputeFloat(int64(10), nil, []float64{5.1, 6.3, -7.1, 8.7, 9.4})
	require.NoError(t, err)
	require.Equal(t, int64(15), res.(int64))

	res, _, err = caf.ComputeBool(int64(10), nil, []bool{true, true, false, true, false, false})
	require.NoError(t, err)
	require.Equal(t, int64(16), res.(int64))

	res, _, err = caf.ComputeString(nil, nil, []string{"a", "b", "c", "d", "e"})
	require.NoError(t, err)
	require.Equal(t, int64(5), res.(int64))

	res, _, err = caf.ComputeTimestamp(int64(10), nil, []types.Timestamp{types.NewTimestamp(2), types.NewTimestamp(12), types.NewTimestamp(22)})
	require.NoError(t, err)
	require.Equal(t, int64(13), res.(int64))
}

func TestMin(t *testing.T) {
	maf := &MinAggFunc{}
	res, _, err := maf.ComputeInt(int64(10), nil, []int64{-12, 0, 10, 13, 2})
	require.NoError(t, err)
	require.Equal(t, int64(-12), res.(int64))

	res, _, err = maf.ComputeInt(int64(-100), nil, []int64{-12, 0, 10, 13, 2})
	require.NoError(t, err)
	require.Equal(t, int64(-100), res.(int64))

	res, _, err = maf.ComputeFloat(float64(11.2), nil, []float64{5.1, 6.3, -7.1, 8.7, 9.4})
	require.NoError(t, err)
	require.Equal(t, float64(-7.1), res.(float64))

	res, _, err = maf.ComputeString("abc", nil, []string{"bdfdg", "hdgd", "djd", "", "zzz"})
	require.NoError(t, err)
	require.Equal(t, "", res.(string))

	res, _, err = maf.ComputeString(nil, nil, []string{"bdfdg", "hdgd", "djd"})
	require.NoError(t, err)
	require.Equal(t, "bdfdg", res.(string))

	res, _, err = maf.ComputeTimestamp(nil, nil, []types.Timestamp{types.NewTimestamp(20), types.NewTimestamp(7), types.NewTimestamp(9)})
	require.NoError(t, err)
	require.Equal(t, types.NewTimestamp(7), res.(types.Timestamp))
}

func TestMax(t *testing.T) {
	maf := &MaxAggFunc{}
	res, _, err := maf.ComputeInt(int64(10), nil, []int64{-12, 0, 10, 13, 2})
	require.NoError(t, err)
	require.Equal(t, int64(13), res.(int64))

	res, _, err = maf.ComputeInt(int64(100), nil, []int64{-12, 0, 10, 13, 2})
	require.NoError(t, err)
	require.Equal(t, int64(100), res.(int64))

	res, _, err = maf.ComputeFloat(nil, nil, []float64{-5.1, -6.3, -7.1})
	require.NoError(t, err)
	require.Equal(t, float64(-5.1), res.(float64))

	res, _, err = maf.ComputeString("abc", nil, []string{"bdfdg", "hdgd", "djd", "", "zzz"})
	require.NoError(t, err)
	require.Equal(t, "zzz", res.(string))

	res, _, err = maf.ComputeTimestamp(types.NewTimestamp(8), nil, []types.Timestamp{types.NewTimestamp(2), types.NewTimestamp(7)})
	require.NoError(t, err)
	require.Equal(t, types.NewTimestamp(8), res.(types.Timestamp))
}

func TestAvg(t *testing.T) {
	aaf := &AvgAggFunc{}
	res, extra, err := aaf.ComputeInt(nil, nil, []int64{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, float64(2), res.(float64))

	// running total carried in extra data
	res, extra, err = aaf.ComputeInt(res, extra, []int64{10})
	require.NoError(t, err)
	require.Equal(t, float64(4), res.(float64))
	require.Equal(t, 16, len(extra))

	res, _, err = aaf.ComputeFloat(nil, nil, []float64{1.5, 2.5})
	require.NoError(t, err)
	require.Equal(t, float64(2), res.(float64))

	res, _, err = aaf.ComputeTimestamp(nil, nil, []types.Timestamp{types.NewTimestamp(1000), types.NewTimestamp(3000)})
	require.NoError(t, err)
	require.Equal(t, types.NewTimestamp(2000), res.(types.Timestamp))
}

func TestFirstLast(t *testing.T) {
	faf := &FirstAggFunc{}
	res, _, err := faf.ComputeInt(nil, nil, []int64{7, 8, 9})
	require.NoError(t, err)
	require.Equal(t, int64(7), res.(int64))
	res, _, err = faf.ComputeInt(res, nil, []int64{1})
	require.NoError(t, err)
	require.Equal(t, int64(7), res.(int64))

	laf := &LastAggFunc{}
	res, _, err = laf.ComputeString(nil, nil, []string{"a", "b"})
	require.NoError(t, err)
	require.Equal(t, "b", res.(string))
	res, _, err = laf.ComputeString(res, nil, []string{"c"})
	require.NoError(t, err)
	require.Equal(t, "c", res.(string))
	res, _, err = laf.ComputeString(res, nil, nil)
	require.NoError(t, err)
	require.Equal(t, "c", res.(string))
}

func TestAcceptsType(t *testing.T) {
	require.True(t, saf.AcceptsType(types.ColumnTypeInt))
	require.True(t, saf.AcceptsType(types.ColumnTypeFloat))
	require.False(t, saf.AcceptsType(types.ColumnTypeString))
	require.False(t, saf.AcceptsType(types.ColumnTypeTimestamp))

	require.True(t, avg.AcceptsType(types.ColumnTypeTimestamp))
	require.False(t, avg.AcceptsType(types.ColumnTypeBool))

	require.True(t, minAgg.AcceptsType(types.ColumnTypeString))
	require.False(t, maxAgg.AcceptsType(types.ColumnTypeBool))

	for _, ct := range []types.ColumnType{types.ColumnTypeInt, types.ColumnTypeFloat, types.ColumnTypeBool,
		types.ColumnTypeString, types.ColumnTypeTimestamp} {
		require.True(t, caf.AcceptsType(ct))
		require.True(t, firstAgg.AcceptsType(ct))
		require.True(t, lastAgg.AcceptsType(ct))
	}
}

func TestGetAggFunc(t *testing.T) {
	f, ok := GetAggFunc("SUM")
	require.True(t, ok)
	require.Same(t, saf, f)
	_, ok = GetAggFunc("median")
	require.False(t, ok)
}

func TestRejectedTypes(t *testing.T) {
	_, _, err := saf.ComputeString(nil, nil, []string{"a"})
	require.Error(t, err)
	require.Equal(t, "aggregate function sum does not accept string values", err.Error())

	_, _, err = avg.ComputeBool(nil, nil, []bool{true})
	require.Error(t, err)
	require.Equal(t, "aggregate function avg does not accept bool values", err.Error())

	_, _, err = minAgg.ComputeBool(nil, nil, []bool{true})
	require.Error(t, err)
}

func TestMinMaxNoValues(t *testing.T) {
	res, _, err := minAgg.ComputeInt(nil, nil, nil)
	require.NoError(t, err)
	require.Nil(t, res)

	res, _, err = maxAgg.ComputeFloat(float64(2.5), nil, nil)
	require.NoError(t, err)
	require.Equal(t, 2.5, res.(float64))
}
