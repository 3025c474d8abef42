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


package storage

import (
	"github.com/medterm/crosswalk/core"
)

// MarshalMapping serializes a Mapping to bytes.
func MarshalMapping(mapping *core.Mapping) []byte {
	buf := make([]byte, core.MappingMUS.Size(*mapping))
	core.MappingMUS.Marshal(*mapping, buf)
	return buf
}

// UnmarshalMapping deserializes a Mapping from bytes.
func UnmarshalMapping(data []byte) (*core.Mapping, error) {
	mapping, _, err := core.MappingMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &mapping, nil
}

// MarshalConceptVector serializes a ConceptVector to bytes.
func MarshalConceptVector(vector *core.ConceptVector) []byte {
	buf := make([]byte, core.ConceptVectorMUS.Size(*vector))
	core.ConceptVectorMUS.Marshal(*vector, buf)
	return buf
}

// UnmarshalConceptVector deserializes a ConceptVector from bytes.
func UnmarshalConceptVector(data []byte) (*core.ConceptVector, error) {
	vector, _, err := core.ConceptVectorMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &vector, nil
}
