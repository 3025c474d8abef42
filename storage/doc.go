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

// Package storage provides the persistence abstraction for crosswalk.
//
// Two repositories back the resolution engine:
//
//   - VectorRepository: the persisted semantic index, one embedding per
//     vocabulary concept, queried by cosine similarity. Built offline by
//     the indexer and read-only while serving queries.
//   - MappingRepository: the append-only store of confirmed local-to-remote
//     equivalences, keyed by local system and code. New evidence only
//     appends targets; nothing is ever removed.
//
// Public constructors return interfaces so backends stay swappable; the
// badger sub-package provides the production implementation and an
// in-memory mode for tests.
//
// All repository implementations must be thread-safe. All methods accept
// context.Context for cancellation.
package storage
