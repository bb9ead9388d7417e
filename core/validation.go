// Copyright 2025 The AI-upskilling Authors
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

// DefaultTopK is the number of documents retrieved when a request does not
// specify its own limit.
const DefaultTopK = 3

// Normalize fills in defaults for unset request fields.
// A zero TopK becomes DefaultTopK; negative values are left for Validate
// to reject.
func (r *Request) Normalize() {
	if r.TopK == 0 {
		r.TopK = DefaultTopK
	}
}

// Validate checks a Request according to domain rules.
//
// Validation rules:
//   - Query must contain at least one non-whitespace character
//   - TopK must be positive
//
// NOT validated:
//   - TraceID (empty means "generate one at the pipeline boundary")
func (r *Request) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, ErrEmptyQuery)
	}

	if r.TopK <= 0 {
		return fmt.Errorf("%w: %w: value %d", ErrInvalidRequest, ErrInvalidTopK, r.TopK)
	}

	return nil
}
