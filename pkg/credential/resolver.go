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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"

	"github.com/NVIDIA/disksnap/pkg/defaults"
	apperrors "github.com/NVIDIA/disksnap/pkg/errors"
)

// Scope is the audience of every token requested for management calls.
const Scope = "https://management.azure.com/.default"

// Provider is one credential source in the resolution chain.
// Credential returns an error when the source is not configured on this host.
type Provider interface {
	Name() string
	Credential() (azcore.TokenCredential, error)
}

// tokenTimeouter is implemented by providers that need a token request bound
// other than the resolver's.
type tokenTimeouter interface {
	TokenTimeout() time.Duration
}

// Resolver tries Providers in order and keeps the first one able to issue a
// token for Scope.
type Resolver struct {
	Providers []Provider
	TenantID  string

	// Timeout bounds each provider's token request unless the provider sets
	// its own. Zero uses defaults.CredentialTimeout.
	Timeout time.Duration
}

// NewResolver returns a Resolver over the default provider chain for tenantID.
func NewResolver(tenantID string) *Resolver {
	return &Resolver{
		Providers: DefaultProviders(tenantID),
		TenantID:  tenantID,
	}
}

// Resolve returns the credential of the first provider that yields a token.
// Failures of individual providers are collected; when none succeeds the
// result is an UNAUTHORIZED error carrying all of them.
func (r *Resolver) Resolve(ctx context.Context) (azcore.TokenCredential, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = defaults.CredentialTimeout
	}

	var errs []error
	for _, p := range r.Providers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cred, err := p.Credential()
		if err != nil {
			slog.Debug("credential source unavailable", "provider", p.Name(), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}

		bound := timeout
		if pt, ok := p.(tokenTimeouter); ok && pt.TokenTimeout() > 0 {
			bound = pt.TokenTimeout()
		}

		// Tenant is pinned at construction, not per request.
		tctx, cancel := context.WithTimeout(ctx, bound)
		_, err = cred.GetToken(tctx, policy.TokenRequestOptions{
			Scopes: []string{Scope},
		})
		cancel()
		if err != nil {
			slog.Debug("credential source failed to issue token", "provider", p.Name(), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}

		slog.Info("authenticated", "provider", p.Name(), "tenant", r.TenantID)
		return cred, nil
	}

	if len(errs) == 0 {
		errs = append(errs, errors.New("no credential providers configured"))
	}
	return nil, apperrors.WrapWithContext(apperrors.ErrCodeUnauthorized,
		"no credential source could authenticate", errors.Join(errs...),
		map[string]any{"tenantID": r.TenantID, "attempted": len(r.Providers)})
}
