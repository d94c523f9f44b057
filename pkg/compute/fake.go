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
	"strings"
	"sync"
	"time"

	apperrors "github.com/NVIDIA/disksnap/pkg/errors"
)

// FakeClient is an in-memory Client for tests. Snapshots created through it
// are appended to Snapshots so later listings observe them. Set the *Err
// fields to make the corresponding call fail.
type FakeClient struct {
	mu sync.Mutex

	Disks     map[string]*Disk
	Snapshots []*Snapshot

	// Now stamps TimeCreated on created snapshots. Defaults to time.Now.
	Now func() time.Time

	GetDiskErr         error
	CreateSnapshotErr  error
	ListSnapshotsErr   error
	DeleteSnapshotsErr error

	GetDiskCalls         int
	CreateSnapshotCalls  int
	ListSnapshotsCalls   int
	DeleteSnapshotsCalls int

	CreatedRequests []*SnapshotRequest
	DeletedIDs      [][]string
}

var _ Client = (*FakeClient)(nil)

// NewFakeClient returns a FakeClient that knows about the given disks.
func NewFakeClient(disks ...*Disk) *FakeClient {
	f := &FakeClient{Disks: make(map[string]*Disk, len(disks))}
	for _, d := range disks {
		f.Disks[d.ID] = d
	}
	return f
}

// Calls returns the total number of calls made against the fake.
func (f *FakeClient) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.GetDiskCalls + f.CreateSnapshotCalls + f.ListSnapshotsCalls + f.DeleteSnapshotsCalls
}

// GetDisk implements Client.
func (f *FakeClient) GetDisk(_ context.Context, diskID string) (*Disk, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.GetDiskCalls++

	if f.GetDiskErr != nil {
		return nil, f.GetDiskErr
	}
	d, ok := f.Disks[diskID]
	if !ok {
		return nil, apperrors.NewWithContext(apperrors.ErrCodeNotFound,
			"managed disk not found", map[string]any{"diskID": diskID})
	}
	cp := *d
	return &cp, nil
}

// CreateSnapshot implements Client.
func (f *FakeClient) CreateSnapshot(_ context.Context, req *SnapshotRequest) (*Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CreateSnapshotCalls++

	if f.CreateSnapshotErr != nil {
		return nil, f.CreateSnapshotErr
	}
	cp := *req
	f.CreatedRequests = append(f.CreatedRequests, &cp)

	now := time.Now
	if f.Now != nil {
		now = f.Now
	}

	snap := &Snapshot{
		ID:            fakeSnapshotID(req.SourceDiskID, req.ResourceGroup, req.Name),
		Name:          req.Name,
		Location:      req.Location,
		ResourceGroup: req.ResourceGroup,
		SKU:           req.SKU,
		TimeCreated:   now().UTC(),
	}
	f.Snapshots = append(f.Snapshots, snap)

	out := *snap
	return &out, nil
}

// ListSnapshots implements Client.
func (f *FakeClient) ListSnapshots(_ context.Context, resourceGroup string) ([]*Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListSnapshotsCalls++

	if f.ListSnapshotsErr != nil {
		return nil, f.ListSnapshotsErr
	}
	var out []*Snapshot
	for _, s := range f.Snapshots {
		if s.ResourceGroup == resourceGroup {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

// DeleteSnapshots implements Client.
func (f *FakeClient) DeleteSnapshots(_ context.Context, snapshotIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeleteSnapshotsCalls++

	ids := append([]string(nil), snapshotIDs...)
	f.DeletedIDs = append(f.DeletedIDs, ids)

	if f.DeleteSnapshotsErr != nil {
		return f.DeleteSnapshotsErr
	}

	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := f.Snapshots[:0]
	for _, s := range f.Snapshots {
		if !drop[s.ID] {
			kept = append(kept, s)
		}
	}
	f.Snapshots = kept
	return nil
}

// fakeSnapshotID derives a snapshot ID in the subscription of the source disk.
func fakeSnapshotID(sourceDiskID, resourceGroup, name string) string {
	sub := "00000000-0000-0000-0000-000000000000"
	if rest, ok := strings.CutPrefix(sourceDiskID, "/subscriptions/"); ok {
		if s, _, found := strings.Cut(rest, "/"); found && s != "" {
			sub = s
		}
	}
	return fmt.Sprintf("/subscriptions/%s/resourceGroups/%s/providers/Microsoft.Compute/snapshots/%s",
		sub, resourceGroup, name)
}
