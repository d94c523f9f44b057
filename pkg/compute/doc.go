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

// Package compute wraps the Azure Compute management operations disksnap needs
// behind a small Client interface.
//
// ARMClient talks to Azure Resource Manager through armcompute. FakeClient is an
// in-memory implementation with call counters and error injection for tests of
// dependent packages. Provider failures are returned as structured errors:
// 404 as NOT_FOUND, 401 and 403 as UNAUTHORIZED, 429 as RATE_LIMIT_EXCEEDED,
// 503 as SERVICE_UNAVAILABLE, anything else as INTERNAL.
package compute
