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

package defaults

import "time"

// Credential timeouts for token acquisition.
const (
	// CredentialTimeout bounds a single provider's token request.
	// A provider that does not answer in time is treated as unavailable.
	CredentialTimeout = 30 * time.Second

	// ManagedIdentityTokenTimeout bounds the managed identity token request.
	// Hosts without an instance metadata endpoint fail it quickly.
	ManagedIdentityTokenTimeout = 5 * time.Second
)

// Azure management-plane timings.
const (
	// PollFrequency is the interval between status polls of long-running
	// create and delete operations.
	PollFrequency = 5 * time.Second
)

// Batch delete tuning.
const (
	// DeleteConcurrency is the maximum number of snapshot deletes in flight.
	DeleteConcurrency = 8

	// DeleteRatePerSecond paces delete request submission to stay below
	// the management API write throttling limits.
	DeleteRatePerSecond = 4

	// DeleteBurst is the token bucket burst for delete submission.
	DeleteBurst = 4
)

// Metrics export.
const (
	// MetricsPushTimeout bounds the Pushgateway request after a run.
	MetricsPushTimeout = 10 * time.Second
)
