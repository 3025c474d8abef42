// Copyright 2025 Medterm Labs
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

// Domain validation errors
var (
	// ErrInvalidConcept indicates a Concept failed validation.
	ErrInvalidConcept = errors.New("invalid concept")

	// ErrEmptyCode indicates the concept code is empty.
	ErrEmptyCode = errors.New("code cannot be empty")

	// ErrEmptySystem indicates the system tag is empty.
	ErrEmptySystem = errors.New("system cannot be empty")

	// ErrInvalidMapping indicates a Mapping failed validation.
	ErrInvalidMapping = errors.New("invalid mapping")

	// ErrMissingDualCoding indicates a condition record lacks either the
	// local or the remote coding.
	ErrMissingDualCoding = errors.New("missing dual-coding")
)
