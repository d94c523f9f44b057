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

package compute

import (
	"context"
	"fmt"
	"time"
)

// Disk is the subset of a managed disk needed to snapshot it.
type Disk struct {
	ID            string `json:"id" yaml:"id"`
	Name          string `json:"name" yaml:"name"`
	Location      string `json:"location" yaml:"location"`
	ResourceGroup string `json:"resourceGroup" yaml:"resourceGroup"`
}

// Snapshot is a snapshot resource as reported by the provider.
type Snapshot struct {
	ID            string    `json:"id" yaml:"id"`
	Name          string    `json:"name" yaml:"name"`
	Location      string    `json:"location" yaml:"location"`
	ResourceGroup string    `json:"resourceGroup" yaml:"resourceGroup"`
	SKU           SKU       `json:"sku,omitempty" yaml:"sku,omitempty"`
	TimeCreated   time.Time `json:"timeCreated" yaml:"timeCreated"`
}

// SnapshotRequest describes a full-copy snapshot of SourceDiskID.
type SnapshotRequest struct {
	Name          string
	Location      string
	ResourceGroup string
	SourceDiskID  string
	SKU           SKU
}

// Client is the set of management operations the snapshotter relies on.
// Every call blocks until the provider reports the operation complete.
type Client interface {
	// GetDisk fetches a managed disk by its fully-qualified resource ID.
	GetDisk(ctx context.Context, diskID string) (*Disk, error)

	// CreateSnapshot creates a snapshot and waits for provisioning to finish.
	CreateSnapshot(ctx context.Context, req *SnapshotRequest) (*Snapshot, error)

	// ListSnapshots returns every snapshot in a resource group.
	ListSnapshots(ctx context.Context, resourceGroup string) ([]*Snapshot, error)

	// DeleteSnapshots deletes snapshots by resource ID and waits for all deletions.
	DeleteSnapshots(ctx context.Context, snapshotIDs []string) error
}

// DiskID builds the fully-qualified resource ID of a managed disk.
func DiskID(subscriptionID, resourceGroup, diskName string) string {
	return fmt.Sprintf("/subscriptions/%s/resourceGroups/%s/providers/Microsoft.Compute/disks/%s",
		subscriptionID, resourceGroup, diskName)
}
