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

package services

import (
	"errors"
	"fmt"

	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/model"
)

// storeErr annotates a store failure, making sure it carries
// model.ErrStoreUnavailable even when a backend returned a bare error.
func storeErr(op string, err error) error {
	if errors.Is(err, model.ErrStoreUnavailable) || errors.Is(err, model.ErrNotFound) || errors.Is(err, model.ErrValidation) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %v", op, model.ErrStoreUnavailable, err)
}

func required(field, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s is required", model.ErrValidation, field)
	}
	return nil
}
