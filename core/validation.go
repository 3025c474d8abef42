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

import (
	"fmt"
	"strings"
)

// RemoteSystemURI is the namespace of the remote classification (ICD-11 MMS).
const RemoteSystemURI = "http://id.who.int/icd11/mms"

// localSystemBase is the namespace prefix under which the local
// sub-vocabularies publish their codes.
const localSystemBase = "https://ndhm.gov.in/fhir/CodeSystem/namc/"

// LocalSystemURI returns the namespace URI for a local sub-vocabulary tag.
func LocalSystemURI(system string) string {
	return localSystemBase + system
}

// IsLocalSystemURI reports whether uri belongs to the local vocabulary
// namespace.
func IsLocalSystemURI(uri string) bool {
	return strings.HasPrefix(uri, localSystemBase)
}

// ValidateConcept validates a Concept according to domain rules.
//
// Validation rules:
//   - Code must not be empty
//   - System must not be empty
//
// NOT validated:
//   - Designations (concepts without vernacular terms are served with an
//     empty vernacular string)
//   - Definition (optional in the source files)
func ValidateConcept(concept *Concept) error {
	if concept == nil {
		return fmt.Errorf("%w: concept is nil", ErrInvalidConcept)
	}

	if concept.Code == "" {
		return fmt.Errorf("%w: %w", ErrInvalidConcept, ErrEmptyCode)
	}

	if concept.System == "" {
		return fmt.Errorf("%w: %w", ErrInvalidConcept, ErrEmptySystem)
	}

	return nil
}

// ValidateDualCoded enforces the dual-coding rule: a condition record must
// carry at least one coding from the local vocabulary namespace and at least
// one from the remote classification namespace.
func ValidateDualCoded(record *ConditionRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrMissingDualCoding)
	}

	var hasLocal, hasRemote bool
	for _, coding := range record.Codings {
		switch {
		case IsLocalSystemURI(coding.System):
			hasLocal = true
		case coding.System == RemoteSystemURI:
			hasRemote = true
		}
	}

	if !hasLocal {
		return fmt.Errorf("%w: no local vocabulary coding", ErrMissingDualCoding)
	}
	if !hasRemote {
		return fmt.Errorf("%w: no remote classification coding", ErrMissingDualCoding)
	}
	return nil
}

// ValidateMapping validates a Mapping according to domain rules.
func ValidateMapping(mapping *Mapping) error {
	if mapping == nil {
		return fmt.Errorf("%w: mapping is nil", ErrInvalidMapping)
	}
	if mapping.Code == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMapping, ErrEmptyCode)
	}
	if mapping.System == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMapping, ErrEmptySystem)
	}
	return nil
}
