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

// Package splitter divides an interaction matrix into two disjoint parts along time.
package splitter

import (
	"github.com/gorse-io/streamsight/matrix"
	"github.com/juju/errors"
)

// ErrInvalidParameter is raised when a splitter is created with an out-of-range parameter.
const ErrInvalidParameter = errors.ConstError("invalid parameter")

// Splitter splits a matrix into a first and a second part. The input is never modified.
// Both parts keep the shape of the input.
type Splitter interface {
	Split(data *matrix.InteractionMatrix) (*matrix.InteractionMatrix, *matrix.InteractionMatrix, error)
}
