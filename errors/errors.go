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

package errors

import (
	"fmt"
	pkgerrors "github.com/pkg/errors"
)

type ErrorCode int

const (
	ParseError           = iota + 1000
	InvalidConfiguration = iota + 3000
	InternalError        = iota + 5000
)

func NewInternalError(errReference string) TektiteError {
	return NewTektiteErrorf(InternalError, "internal error - reference: %s please consult logs for details", errReference)
}

func NewInvalidConfigurationError(msg string) TektiteError {
	return NewTektiteErrorf(InvalidConfiguration, "invalid configuration: %s", msg)
}

func NewInvalidConfigurationErrorf(msgFormat string, args ...interface{}) TektiteError {
	return NewInvalidConfigurationError(fmt.Sprintf(msgFormat, args...))
}

func NewTektiteErrorf(errorCode ErrorCode, msgFormat string, args ...interface{}) TektiteError {
	msg := fmt.Sprintf(msgFormat, args...)
	return TektiteError{Code: errorCode, Msg: msg}
}

func NewTektiteError(errorCode ErrorCode, msg string) TektiteError {
	return TektiteError{Code: errorCode, Msg: msg}
}

func NewParseError(msg string) error {
	return NewTektiteError(ParseError, msg)
}

type TektiteError struct {
	Code ErrorCode
	Msg  string
}

func (u TektiteError) Error() string {
	return u.Msg
}

// HasCode returns true if err, or any error it wraps, is a TektiteError with the given code.
func HasCode(err error, code ErrorCode) bool {
	var terr TektiteError
	if As(err, &terr) {
		return terr.Code == code
	}
	return false
}

func New(msg string) error {
	return pkgerrors.New(msg)
}

func Errorf(format string, args ...interface{}) error {
	return pkgerrors.Errorf(format, args...)
}

func WithStack(err error) error {
	return pkgerrors.WithStack(err)
}

func Wrap(err error, msg string) error {
	return pkgerrors.Wrap(err, msg)
}

func Wrapf(err error, format string, args ...interface{}) error {
	return pkgerrors.Wrapf(err, format, args...)
}

func As(err error, target interface{}) bool {
	return pkgerrors.As(err, target)
}

func Is(err, target error) bool {
	return pkgerrors.Is(err, target)
}

func Cause(err error) error {
	return pkgerrors.Cause(err)
}
