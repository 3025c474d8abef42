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


// Package vocabulary loads the local traditional-medicine code systems and
// serves them as an in-memory, read-only concept repository.
//
// Each backing file is a CodeSystem JSON document with a "concept" list.
// The raw entries carry no system tag; the repository stamps every concept
// with the sub-vocabulary it was loaded from (Ayurveda, Siddha, Unani, ...)
// so that downstream lookups stay system-scoped even though codes collide
// across sub-vocabularies.
//
// Missing or malformed files are logged and skipped; the repository serves
// whatever sources loaded successfully. After Load the repository is
// immutable for the process lifetime.
package vocabulary
