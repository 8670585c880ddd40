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


package core

import "errors"

// Expression errors
var (
	// ErrInvalidExpression indicates an Expression failed construction.
	ErrInvalidExpression = errors.New("invalid expression")

	// ErrEmptyName indicates a leaf name is empty.
	ErrEmptyName = errors.New("leaf name cannot be empty")

	// ErrDuplicateName indicates the same leaf name was supplied twice.
	ErrDuplicateName = errors.New("duplicate leaf name")

	// ErrInvalidName indicates a leaf name contains whitespace or operator tokens.
	ErrInvalidName = errors.New("leaf name contains reserved characters")

	// ErrArity indicates an operator was given the wrong number of operands.
	ErrArity = errors.New("wrong number of operands")

	// ErrUnknownOperator indicates an operator token is not registered.
	ErrUnknownOperator = errors.New("unknown operator")

	// ErrParse indicates expression text could not be parsed.
	ErrParse = errors.New("parse error")

	// ErrRewriteDiverged indicates canonicalization did not reach a fixed point
	// within MaxRewritePasses. This is an internal invariant violation.
	ErrRewriteDiverged = errors.New("canonicalization did not converge")
)
