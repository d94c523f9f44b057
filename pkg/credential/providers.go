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

package credential

import (
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"

	"github.com/NVIDIA/disksnap/pkg/defaults"
)

// FuncProvider adapts a constructor function to Provider.
type FuncProvider struct {
	ProviderName string
	New          func() (azcore.TokenCredential, error)

	// Timeout overrides the resolver's token request bound when positive.
	Timeout time.Duration
}

// Name implements Provider.
func (p FuncProvider) Name() string { return p.ProviderName }

// Credential implements Provider.
func (p FuncProvider) Credential() (azcore.TokenCredential, error) { return p.New() }

// TokenTimeout returns the provider's own token request bound, or zero.
func (p FuncProvider) TokenTimeout() time.Duration { return p.Timeout }

// StaticProvider wraps an already constructed credential.
func StaticProvider(name string, cred azcore.TokenCredential) Provider {
	return FuncProvider{
		ProviderName: name,
		New:          func() (azcore.TokenCredential, error) { return cred, nil },
	}
}

// DefaultProviders returns the ambient credential chain, in order:
// service principal from environment variables, workload identity,
// managed identity, Azure CLI and Azure Developer CLI.
func DefaultProviders(tenantID string) []Provider {
	return []Provider{
		FuncProvider{
			ProviderName: "environment",
			New: func() (azcore.TokenCredential, error) {
				return azidentity.NewEnvironmentCredential(nil)
			},
		},
		FuncProvider{
			ProviderName: "workload-identity",
			New: func() (azcore.TokenCredential, error) {
				return azidentity.NewWorkloadIdentityCredential(&azidentity.WorkloadIdentityCredentialOptions{
					TenantID: tenantID,
				})
			},
		},
		FuncProvider{
			ProviderName: "managed-identity",
			New: func() (azcore.TokenCredential, error) {
				return azidentity.NewManagedIdentityCredential(nil)
			},
			Timeout: defaults.ManagedIdentityTokenTimeout,
		},
		FuncProvider{
			ProviderName: "azure-cli",
			New: func() (azcore.TokenCredential, error) {
				return azidentity.NewAzureCLICredential(&azidentity.AzureCLICredentialOptions{
					TenantID: tenantID,
				})
			},
		},
		FuncProvider{
			ProviderName: "azure-developer-cli",
			New: func() (azcore.TokenCredential, error) {
				return azidentity.NewAzureDeveloperCLICredential(&azidentity.AzureDeveloperCLICredentialOptions{
					TenantID: tenantID,
				})
			},
		},
	}
}
