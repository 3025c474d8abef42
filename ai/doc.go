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


// Package ai defines the embedding abstraction used by the semantic matcher
// and the index builder.
//
// The Embedder interface decouples the matchers from any particular model
// host. Two implementations ship with the module:
//
//   - ai/openai: production implementation against OpenAI-compatible
//     endpoints (Ollama, LocalAI, vLLM, api.openai.com)
//   - ai/mock: deterministic test double with no network dependency
//
// Public constructors return the ai.Embedder interface; mock constructors
// return concrete types so tests can inject behavior and assert call counts.
package ai
