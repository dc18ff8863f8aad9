package types

import (
	"github.com/spirit-labs/tswindow/errors"
	"strings"
)

type ColumnTypeID int

type Timestamp struct {
	Val int64
}

func NewTimestamp(val int64) Timestamp {
	return Timestamp{Val: val}
}

const (
	ColumnTypeIDInt = iota + 1
	ColumnTypeIDFloat
	ColumnTypeIDBool
	ColumnTypeIDString
	ColumnTypeIDTimestamp
)

var ColumnTypeInt = &nonParameterizedType{id: ColumnTypeIDInt}
var ColumnTypeFloat = &nonParameterizedType{id: ColumnTypeIDFloat}
var ColumnTypeBool = &nonParameterizedType{id: ColumnTypeIDBool}
var ColumnTypeString = &nonParameterizedType{id: ColumnTypeIDString}
var ColumnTypeTimestamp = &nonParameterizedType{id: ColumnTypeIDTimestamp}

type nonParameterizedType struct {
	id ColumnTypeID
}

func (n nonParameterizedType) ID() ColumnTypeID {
	return n.id
}

func (n nonParameterizedType) String() string {
	switch n.id {
	case ColumnTypeIDInt:
		return "int"
	case ColumnTypeIDFloat:
		return "float"
	case ColumnTypeIDBool:
		return "bool"
	case ColumnTypeIDString:
		return "string"
	case ColumnTypeIDTimestamp:
		return "timestamp"
	default:
		panic("unexpected type")
	}
}

type ColumnType interface {
	ID() ColumnTypeID
	String() string
}

func StringToColumnType(sColumnType string) (ColumnType, error) {
	switch strings.TrimSpace(sColumnType) {
	case "int":
		return ColumnTypeInt, nil
	case "float":
		return ColumnTypeFloat, nil
	case "bool":
		return ColumnTypeBool, nil
	case "string":
		return ColumnTypeString, nil
	case "timestamp":
		return ColumnTypeTimestamp, nil
	default:
		return nil, errors.Errorf("invalid type '%s'", sColumnType)
	}
}

// IsTimeType returns true for the column types that can carry event times. Timestamps and ints are both unix
// millis.
func IsTimeType(ct ColumnType) bool {
	return ct.ID() == ColumnTypeIDTimestamp || ct.ID() == ColumnTypeIDInt
}
