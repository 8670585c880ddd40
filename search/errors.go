// Copyright 2025 Poiesic Systems
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


package search

import "errors"

var (
	// ErrInvalidConfig wraps every configuration error reported by Config.Validate.
	ErrInvalidConfig = errors.New("invalid search configuration")

	// ErrNoNames is returned when the configuration names no atomic components.
	ErrNoNames = errors.New("no component names")

	// ErrMaxOrderOutOfRange is returned when MaxOrder is negative or exceeds the number of names.
	ErrMaxOrderOutOfRange = errors.New("max order out of range")

	// ErrNoBinaryOperators is returned when a search beyond single leaves has no binary operators.
	ErrNoBinaryOperators = errors.New("no binary operators")

	// ErrOperatorArity is returned when an operator is configured in the wrong arity set.
	ErrOperatorArity = errors.New("operator has wrong arity")

	// ErrScorerRequired is returned when a scorer is not provided.
	ErrScorerRequired = errors.New("scorer required")
)
