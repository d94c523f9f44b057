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

package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/google/uuid"

	"github.com/NVIDIA/disksnap/pkg/compute"
	"github.com/NVIDIA/disksnap/pkg/credential"
	"github.com/NVIDIA/disksnap/pkg/snapshotter"
)

type credentialResolver interface {
	Resolve(ctx context.Context) (azcore.TokenCredential, error)
}

// deps holds everything a command touches outside the process, so tests can
// substitute fakes and count calls.
type deps struct {
	newResolver func(tenantID string) credentialResolver
	newClient   func(subscriptionID string, cred azcore.TokenCredential, opts ...compute.Option) (compute.Client, error)
	pushMetrics func(ctx context.Context, url, job string, grouping map[string]string) error
	clock       func() time.Time
	newRunID    func() string
	out         io.Writer
	errOut      io.Writer
}

func defaultDeps() *deps {
	return &deps{
		newResolver: func(tenantID string) credentialResolver {
			return credential.NewResolver(tenantID)
		},
		newClient: func(subscriptionID string, cred azcore.TokenCredential, opts ...compute.Option) (compute.Client, error) {
			c, err := compute.NewARMClient(subscriptionID, cred, opts...)
			if err != nil {
				return nil, err
			}
			return c, nil
		},
		pushMetrics: snapshotter.PushMetrics,
		clock:       time.Now,
		newRunID:    uuid.NewString,
		out:         os.Stdout,
		errOut:      os.Stderr,
	}
}
