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

// Package header provides the common document header for disksnap output.
//
// Run reports written with --output start with a kind, an apiVersion, and a
// metadata map so that archived reports can be told apart and versioned:
//
//	kind: SnapshotReport
//	apiVersion: disksnap.nvidia.com/v1alpha1
//	metadata:
//	  disk: data-disk
//	  resourceGroup: rg1
//	  timestamp: "2024-03-05T14:07:09Z"
//	  version: v1.0.0
//
// Embed Header inline and build it with functional options:
//
//	type Report struct {
//	    header.Header `json:",inline" yaml:",inline"`
//	    ...
//	}
//
//	r.Header = *header.New(
//	    header.WithKind(header.KindSnapshotReport),
//	    header.WithAPIVersion(APIVersion),
//	    header.WithMetadata("disk", diskName),
//	)
package header
