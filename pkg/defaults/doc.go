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

// Package defaults provides centralized configuration constants for disksnap.
//
// Timeouts, polling intervals and batch delete tuning used by the credential
// resolver, the Azure compute adapter and the CLI live here so they can be
// adjusted in one place.
//
// # Usage
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.CredentialTimeout)
//	defer cancel()
//
// # Guidelines
//
//   - Credential providers: 30s per provider attempt, 5s for managed identity
//   - Whole run: no limit unless --timeout is set
//   - Long-running operation polling: every 5s
//   - Batch delete: at most 8 deletes in flight, 4 submissions per second
package defaults
