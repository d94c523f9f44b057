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

// Package credential resolves Azure credentials for disksnap.
//
// Resolution walks an explicit, ordered list of Providers. Each provider either
// cannot be constructed on this host (missing environment variables, no managed
// identity endpoint, no CLI login) or yields a credential that is asked for a
// token with the management scope. The first provider that returns a token wins;
// later providers are never consulted.
//
// The token request carries only the scope. The tenant is pinned when a
// provider builds its credential, so a domain-form tenant does not conflict
// with the GUID an environment service principal was configured with. Each
// request is bounded by Resolver.Timeout unless the provider sets its own;
// managed identity uses defaults.ManagedIdentityTokenTimeout.
//
// The default chain is:
//
//  1. environment: AZURE_TENANT_ID / AZURE_CLIENT_ID / AZURE_CLIENT_SECRET (or certificate)
//  2. workload-identity: federated token file projected into the pod
//  3. managed-identity: IMDS or App Service identity endpoint
//  4. azure-cli: cached `az login` session
//  5. azure-developer-cli: cached `azd auth login` session
//
// Tests inject their own Providers to exercise the chain without network access:
//
//	r := &credential.Resolver{
//	    Providers: []credential.Provider{credential.StaticProvider("fake", cred)},
//	}
//	tc, err := r.Resolve(ctx)
package credential
