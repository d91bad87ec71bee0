// Copyright 2026 gorse Project Authors
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

package matrix

import (
	"github.com/gorse-io/streamsight/base/log"
	"github.com/juju/errors"
)

const (
	// ErrShapeMismatch is raised when a shape cannot hold the identifiers of a matrix,
	// or when two matrices of different shapes are combined.
	ErrShapeMismatch = errors.ConstError("shape mismatch")
	// ErrMissingTimestamp is raised by temporal operations on a matrix without timestamps.
	ErrMissingTimestamp = errors.ConstError("missing timestamp")
	// ErrMixedTimestamps is raised when only part of the events carry timestamps.
	ErrMixedTimestamps = errors.ConstError("mixed timestamps")
	// ErrUnknownIndex is raised when a (user, item) pair is absent from a matrix.
	ErrUnknownIndex = errors.ConstError("unknown index")
	// ErrInvalidSource is raised when a source table cannot be read as an event log.
	ErrInvalidSource = errors.ConstError("invalid source")
	// ErrInvalidIdentifier is raised for negative user or item identifiers.
	ErrInvalidIdentifier = errors.ConstError("invalid identifier")
	// ErrEmptyMatrix is raised by aggregations that need at least one event.
	ErrEmptyMatrix = errors.ConstError("empty matrix")
)

const (
	// UnknownIdentifierWarning is emitted when requested interaction ids are absent.
	UnknownIdentifierWarning log.Warning = "unknown_identifier"
	// EmptySelectionWarning is emitted when a selection yields no events.
	EmptySelectionWarning log.Warning = "empty_selection"
)
