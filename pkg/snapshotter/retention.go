// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package snapshotter

import (
	"slices"

	"github.com/NVIDIA/disksnap/pkg/compute"
)

// PlanRetention orders snapshots newest first by provider creation time and
// keeps the first limit of them. Snapshots with equal creation times keep
// their listing order; snapshots without a creation time sort last.
// A limit of zero or less keeps everything.
func PlanRetention(snaps []*compute.Snapshot, limit int) *PrunePlan {
	sorted := slices.Clone(snaps)
	slices.SortStableFunc(sorted, func(a, b *compute.Snapshot) int {
		az, bz := a.TimeCreated.IsZero(), b.TimeCreated.IsZero()
		switch {
		case az && bz:
			return 0
		case az:
			return 1
		case bz:
			return -1
		}
		return b.TimeCreated.Compare(a.TimeCreated)
	})

	if limit <= 0 || limit >= len(sorted) {
		return &PrunePlan{Retained: sorted, Discarded: []*compute.Snapshot{}}
	}
	return &PrunePlan{Retained: sorted[:limit], Discarded: sorted[limit:]}
}
