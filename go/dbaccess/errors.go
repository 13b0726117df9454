// Copyright 2026 The CarWashing-System Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dbaccess

import "errors"

// ErrInvalidQuery is the single error kind a failed unit of work surfaces
// as. Every failure inside a unit of work — a bad statement, a commit
// error, a caller mistake — collapses into this kind at the accessor
// boundary; use errors.Is against this sentinel to detect it. The
// underlying cause stays attached for diagnostics via errors.Unwrap, but
// callers must not branch on it.
var ErrInvalidQuery = errors.New("invalid query")

// QueryError carries the preserved cause behind an ErrInvalidQuery.
type QueryError struct {
	Cause error
}

func (e *QueryError) Error() string {
	if e.Cause == nil {
		return ErrInvalidQuery.Error()
	}
	return ErrInvalidQuery.Error() + ": " + e.Cause.Error()
}

// Is reports that a QueryError is of the uniform invalid-query kind.
func (e *QueryError) Is(target error) bool {
	return target == ErrInvalidQuery
}

// Unwrap exposes the underlying cause for diagnostics.
func (e *QueryError) Unwrap() error {
	return e.Cause
}

func invalidQuery(cause error) error {
	return &QueryError{Cause: cause}
}
