// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package model

import "errors"

// Error taxonomy shared by services, stores and handlers. Stores and services
// wrap these with context; callers test with errors.Is.
var (
	// ErrValidation marks a missing or malformed input. No state was changed.
	ErrValidation = errors.New("validation error")
	// ErrStoreUnavailable marks a failed datastore or filesystem call.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrNotFound marks a missing file. Catalog deletes never return it.
	ErrNotFound = errors.New("not found")
)
