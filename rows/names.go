/*
	Copyright 2025 Google Inc.
	Licensed under the Apache License, Version 2.0 (the "License");
	you may not use this file except in compliance with the License.
	You may obtain a copy of the License at
		https://www.apache.org/licenses/LICENSE-2.0
	Unless required by applicable law or agreed to in writing, software
	distributed under the License is distributed on an "AS IS" BASIS,
	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
	See the License for the specific language governing permissions and
	limitations under the License.
*/

package rows

import "fmt"

// NameRegistry disambiguates display names within a single aggregation pass.
// The first occurrence of a name is kept as-is; later occurrences are
// suffixed " (2)", " (3)", and so on.  A NameRegistry must not be shared
// between passes.
type NameRegistry struct {
	counts map[string]int
	used   map[string]struct{}
}

// NewNameRegistry returns a new, empty NameRegistry.
func NewNameRegistry() *NameRegistry {
	return &NameRegistry{
		counts: map[string]int{},
		used:   map[string]struct{}{},
	}
}

// Unique returns a name, derived from the provided raw name, that the
// receiver has not returned before.
func (nr *NameRegistry) Unique(name string) string {
	nr.counts[name]++
	n := nr.counts[name]
	ret := name
	if n > 1 {
		ret = fmt.Sprintf("%s (%d)", name, n)
	}
	// A generated suffix may collide with a literal raw name, e.g. "X (2)"
	// supplied by the host; keep counting until it doesn't.
	for {
		if _, ok := nr.used[ret]; !ok {
			break
		}
		nr.counts[name]++
		ret = fmt.Sprintf("%s (%d)", name, nr.counts[name])
	}
	nr.used[ret] = struct{}{}
	return ret
}
