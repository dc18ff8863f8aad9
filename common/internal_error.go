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

package common

import (
	"github.com/google/uuid"
	"github.com/spirit-labs/tswindow/errors"
	log "github.com/spirit-labs/tswindow/logger"
)

// LogInternalError logs err against a random reference and returns an internal error carrying only the reference.
func LogInternalError(err error) errors.TektiteError {
	id, err2 := uuid.NewRandom()
	var errRef string
	if err2 != nil {
		log.Errorf("failed to generate uuid %v", err2)
		errRef = ""
	} else {
		errRef = id.String()
	}
	perr := errors.NewInternalError(errRef)
	log.Errorf("internal error (reference %s) occurred %+v", errRef, err)
	return perr
}

// ReportableError returns err unchanged if it is a TektiteError, which can be shown to the user as is. Anything else
// is logged as an internal error.
func ReportableError(err error) error {
	var terr errors.TektiteError
	if errors.As(err, &terr) {
		return terr
	}
	return LogInternalError(err)
}
