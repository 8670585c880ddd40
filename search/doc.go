// Copyright 2025 Poiesic Systems
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


// Package search builds scored ensembles of atomic components tier by tier.
//
// Tier 1 holds the scored leaves. Tier k combines members of tiers i and
// k-i under every configured binary operator, canonicalizes each candidate,
// drops candidates whose canonical key is already in the tier, and accepts
// a candidate only if its score beats both operands by the configured
// minimum increase. Unary operators are then applied once to each accepted
// expression that is not already a negation.
//
// Candidates of one tier are scored concurrently on a worker pool; tiers
// are built strictly in increasing order. Results are ranked by score
// descending with ties broken by canonical key.
package search
