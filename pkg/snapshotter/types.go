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
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/NVIDIA/disksnap/pkg/compute"
	apperrors "github.com/NVIDIA/disksnap/pkg/errors"
	"github.com/NVIDIA/disksnap/pkg/header"
	"github.com/NVIDIA/disksnap/pkg/naming"
)

// Snapshotter defines the snapshot-and-prune workflow for one managed disk.
type Snapshotter interface {
	Run(ctx context.Context, opts Options) (*Report, error)
}

// Options identifies the disk to snapshot and how to name, store and retain
// its snapshots.
type Options struct {
	SubscriptionID string
	ResourceGroup  string
	DiskName       string

	// NameFormat is a composite format with the disk name in slot 0 and the
	// UTC time in slot 1. Empty uses naming.DefaultFormat.
	NameFormat string

	// RetainLimit is the number of newest snapshots kept in ResourceGroup.
	// Zero disables pruning.
	RetainLimit int

	// SKU is the snapshot storage type. Empty uses Standard_LRS.
	SKU compute.SKU
}

// WithDefaults returns a copy of o with empty optional fields filled in.
func (o Options) WithDefaults() Options {
	if o.NameFormat == "" {
		o.NameFormat = naming.DefaultFormat
	}
	if o.SKU == "" {
		o.SKU = compute.SKUStandardLRS
	}
	return o
}

// Validate checks required fields, the retention limit, the SKU and the name
// format without contacting Azure.
func (o Options) Validate() error {
	var missing []string
	if strings.TrimSpace(o.SubscriptionID) == "" {
		missing = append(missing, "subscriptionId")
	}
	if strings.TrimSpace(o.ResourceGroup) == "" {
		missing = append(missing, "resourceGroup")
	}
	if strings.TrimSpace(o.DiskName) == "" {
		missing = append(missing, "diskName")
	}
	if len(missing) > 0 {
		return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("missing required option(s): %s", strings.Join(missing, ", ")),
			map[string]any{"missing": missing})
	}

	if o.RetainLimit < 0 {
		return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("retain limit must be zero or positive, got %d", o.RetainLimit),
			map[string]any{"retainLimit": o.RetainLimit})
	}

	if _, err := compute.ParseSKU(string(o.SKU)); err != nil {
		return err
	}

	if _, err := naming.SnapshotName(o.NameFormat, o.DiskName, time.Time{}); err != nil {
		return err
	}

	return nil
}

// DiskID returns the fully-qualified resource ID of the target disk.
func (o Options) DiskID() string {
	return compute.DiskID(o.SubscriptionID, o.ResourceGroup, o.DiskName)
}

// PrunePlan partitions a resource group's snapshots by the retention limit.
type PrunePlan struct {
	Retained  []*compute.Snapshot `json:"retained" yaml:"retained"`
	Discarded []*compute.Snapshot `json:"discarded" yaml:"discarded"`
}

// DiscardedIDs returns the resource IDs of the discarded snapshots in plan order.
func (p *PrunePlan) DiscardedIDs() []string {
	ids := make([]string, 0, len(p.Discarded))
	for _, s := range p.Discarded {
		ids = append(ids, s.ID)
	}
	return ids
}

// APIVersion is the schema version written in run report headers.
const APIVersion = "disksnap.nvidia.com/v1alpha1"

// Report summarizes one run.
type Report struct {
	header.Header `json:",inline" yaml:",inline"`

	RunID         string            `json:"runID" yaml:"runID"`
	DiskID        string            `json:"diskID" yaml:"diskID"`
	Snapshot      *compute.Snapshot `json:"snapshot,omitempty" yaml:"snapshot,omitempty"`
	CreateElapsed string            `json:"createElapsed,omitempty" yaml:"createElapsed,omitempty"`
	RetainLimit   int               `json:"retainLimit" yaml:"retainLimit"`
	Retained      []string          `json:"retained,omitempty" yaml:"retained,omitempty"`
	Discarded     []string          `json:"discarded,omitempty" yaml:"discarded,omitempty"`
	PruneElapsed  string            `json:"pruneElapsed,omitempty" yaml:"pruneElapsed,omitempty"`
}
