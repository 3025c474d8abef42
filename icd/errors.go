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

package icd

import "errors"

var (
	// ErrAuthFailed indicates the token exchange failed. It must never be
	// conflated with an empty search result.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrTimeout indicates a remote call exceeded its deadline. Reported
	// distinctly so callers can offer a retry.
	ErrTimeout = errors.New("request timed out")

	// ErrStatus indicates the remote service answered with a non-2xx status.
	ErrStatus = errors.New("unexpected HTTP status")

	// ErrParse indicates the remote service answered with malformed JSON.
	ErrParse = errors.New("malformed response")

	// ErrCredentialsRequired is returned when the client id or secret is
	// missing from the configuration.
	ErrCredentialsRequired = errors.New("client credentials are required")
)
