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
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/compute/armcompute/v6"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	"k8s.io/utils/ptr"

	"github.com/NVIDIA/disksnap/pkg/defaults"
	apperrors "github.com/NVIDIA/disksnap/pkg/errors"
)

const (
	diskResourceType     = "Microsoft.Compute/disks"
	snapshotResourceType = "Microsoft.Compute/snapshots"
)

// ARMClient implements Client on top of the Azure Resource Manager compute SDK.
// It is scoped to a single subscription.
type ARMClient struct {
	subscriptionID    string
	disks             *armcompute.DisksClient
	snapshots         *armcompute.SnapshotsClient
	pollFrequency     time.Duration
	deleteConcurrency int
	deleteLimiter     *rate.Limiter
	clientOptions     *arm.ClientOptions
}

var _ Client = (*ARMClient)(nil)

// Option configures an ARMClient.
type Option func(*ARMClient)

// WithPollFrequency sets the polling interval for long-running operations.
func WithPollFrequency(d time.Duration) Option {
	return func(c *ARMClient) {
		if d > 0 {
			c.pollFrequency = d
		}
	}
}

// WithDeleteConcurrency caps the number of snapshot deletes in flight.
func WithDeleteConcurrency(n int) Option {
	return func(c *ARMClient) {
		if n > 0 {
			c.deleteConcurrency = n
		}
	}
}

// WithDeleteRate paces delete submissions with a token bucket.
func WithDeleteRate(perSecond rate.Limit, burst int) Option {
	return func(c *ARMClient) {
		c.deleteLimiter = rate.NewLimiter(perSecond, burst)
	}
}

// WithClientOptions overrides the ARM pipeline options (cloud, transport, retries).
func WithClientOptions(o *arm.ClientOptions) Option {
	return func(c *ARMClient) {
		c.clientOptions = o
	}
}

// NewARMClient builds a compute client for subscriptionID authenticated with cred.
func NewARMClient(subscriptionID string, cred azcore.TokenCredential, opts ...Option) (*ARMClient, error) {
	c := &ARMClient{
		subscriptionID:    subscriptionID,
		pollFrequency:     defaults.PollFrequency,
		deleteConcurrency: defaults.DeleteConcurrency,
		deleteLimiter:     rate.NewLimiter(rate.Limit(defaults.DeleteRatePerSecond), defaults.DeleteBurst),
	}
	for _, opt := range opts {
		opt(c)
	}

	factory, err := armcompute.NewClientFactory(subscriptionID, cred, c.clientOptions)
	if err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeInternal,
			"failed to create compute client", err,
			map[string]any{"subscriptionID": subscriptionID})
	}
	c.disks = factory.NewDisksClient()
	c.snapshots = factory.NewSnapshotsClient()

	return c, nil
}

// GetDisk fetches a managed disk by its fully-qualified resource ID.
func (c *ARMClient) GetDisk(ctx context.Context, diskID string) (*Disk, error) {
	rid, err := parseResourceID(diskID, diskResourceType)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(rid.SubscriptionID, c.subscriptionID) {
		return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			"disk is outside the client subscription",
			map[string]any{"diskID": diskID, "subscriptionID": c.subscriptionID})
	}

	slog.Debug("fetching managed disk", "id", diskID)

	resp, err := c.disks.Get(ctx, rid.ResourceGroupName, rid.Name, nil)
	if err != nil {
		return nil, classify(err, "failed to get managed disk", map[string]any{"diskID": diskID})
	}

	disk := &Disk{
		ID:            ptr.Deref(resp.ID, diskID),
		Name:          ptr.Deref(resp.Name, rid.Name),
		Location:      ptr.Deref(resp.Location, ""),
		ResourceGroup: rid.ResourceGroupName,
	}
	if got, perr := arm.ParseResourceID(disk.ID); perr == nil {
		disk.ResourceGroup = got.ResourceGroupName
	}

	return disk, nil
}

// CreateSnapshot creates a full-copy snapshot of req.SourceDiskID and polls
// until provisioning completes.
func (c *ARMClient) CreateSnapshot(ctx context.Context, req *SnapshotRequest) (*Snapshot, error) {
	if req == nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "snapshot request is required")
	}

	sku := armcompute.SnapshotStorageAccountTypes(req.SKU)
	body := armcompute.Snapshot{
		Location: ptr.To(req.Location),
		SKU:      &armcompute.SnapshotSKU{Name: &sku},
		Properties: &armcompute.SnapshotProperties{
			CreationData: &armcompute.CreationData{
				CreateOption:     ptr.To(armcompute.DiskCreateOptionCopy),
				SourceResourceID: ptr.To(req.SourceDiskID),
			},
		},
	}

	errCtx := map[string]any{
		"snapshot":      req.Name,
		"resourceGroup": req.ResourceGroup,
		"sourceDiskID":  req.SourceDiskID,
	}

	poller, err := c.snapshots.BeginCreateOrUpdate(ctx, req.ResourceGroup, req.Name, body, nil)
	if err != nil {
		return nil, classify(err, "failed to start snapshot creation", errCtx)
	}

	resp, err := poller.PollUntilDone(ctx, &runtime.PollUntilDoneOptions{Frequency: c.pollFrequency})
	if err != nil {
		return nil, classify(err, "snapshot creation did not complete", errCtx)
	}

	snap := toSnapshot(&resp.Snapshot)
	if snap.ResourceGroup == "" {
		snap.ResourceGroup = req.ResourceGroup
	}
	return snap, nil
}

// ListSnapshots drains the resource group listing into a single slice.
func (c *ARMClient) ListSnapshots(ctx context.Context, resourceGroup string) ([]*Snapshot, error) {
	pager := c.snapshots.NewListByResourceGroupPager(resourceGroup, nil)

	var out []*Snapshot
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, classify(err, "failed to list snapshots",
				map[string]any{"resourceGroup": resourceGroup})
		}
		for _, s := range page.Value {
			if s == nil {
				continue
			}
			out = append(out, toSnapshot(s))
		}
	}

	slog.Debug("listed snapshots", "resourceGroup", resourceGroup, "count", len(out))
	return out, nil
}

// DeleteSnapshots deletes every snapshot in snapshotIDs and waits for all of
// them. Individual failures do not stop the remaining deletions; they are
// returned together once every delete has settled.
func (c *ARMClient) DeleteSnapshots(ctx context.Context, snapshotIDs []string) error {
	if len(snapshotIDs) == 0 {
		return nil
	}

	var (
		mu     sync.Mutex
		errs   []error
		failed []string
	)

	var g errgroup.Group
	g.SetLimit(c.deleteConcurrency)

	for _, id := range snapshotIDs {
		g.Go(func() error {
			if err := c.deleteSnapshot(ctx, id); err != nil {
				slog.Warn("snapshot delete failed", "id", id, "error", err)
				mu.Lock()
				errs = append(errs, err)
				failed = append(failed, id)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(errs) == 0 {
		return nil
	}

	code := apperrors.CodeOf(errs[0])
	if code == "" {
		code = apperrors.ErrCodeInternal
	}
	return apperrors.WrapWithContext(code,
		fmt.Sprintf("failed to delete %d of %d snapshot(s)", len(errs), len(snapshotIDs)),
		errors.Join(errs...),
		map[string]any{"failed": failed})
}

func (c *ARMClient) deleteSnapshot(ctx context.Context, id string) error {
	rid, err := parseResourceID(id, snapshotResourceType)
	if err != nil {
		return err
	}

	if c.deleteLimiter != nil {
		if err := c.deleteLimiter.Wait(ctx); err != nil {
			return classify(err, "delete throttled", map[string]any{"snapshotID": id})
		}
	}

	slog.Debug("deleting snapshot", "id", id)

	poller, err := c.snapshots.BeginDelete(ctx, rid.ResourceGroupName, rid.Name, nil)
	if err != nil {
		return classify(err, "failed to start snapshot deletion", map[string]any{"snapshotID": id})
	}
	if _, err := poller.PollUntilDone(ctx, &runtime.PollUntilDoneOptions{Frequency: c.pollFrequency}); err != nil {
		return classify(err, "snapshot deletion did not complete", map[string]any{"snapshotID": id})
	}
	return nil
}

func parseResourceID(id, resourceType string) (*arm.ResourceID, error) {
	rid, err := arm.ParseResourceID(id)
	if err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeInvalidRequest,
			"invalid resource ID", err, map[string]any{"id": id})
	}
	if !strings.EqualFold(rid.ResourceType.String(), resourceType) {
		return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("resource ID is not a %s", resourceType),
			map[string]any{"id": id, "type": rid.ResourceType.String()})
	}
	return rid, nil
}

func toSnapshot(s *armcompute.Snapshot) *Snapshot {
	snap := &Snapshot{
		ID:       ptr.Deref(s.ID, ""),
		Name:     ptr.Deref(s.Name, ""),
		Location: ptr.Deref(s.Location, ""),
	}
	if s.SKU != nil && s.SKU.Name != nil {
		snap.SKU = SKU(*s.SKU.Name)
	}
	if s.Properties != nil && s.Properties.TimeCreated != nil {
		snap.TimeCreated = *s.Properties.TimeCreated
	}
	if rid, err := arm.ParseResourceID(snap.ID); err == nil {
		snap.ResourceGroup = rid.ResourceGroupName
	}
	return snap
}

// classify maps an SDK error onto a structured error code, keeping the cause.
func classify(err error, message string, errCtx map[string]any) error {
	if errCtx == nil {
		errCtx = map[string]any{}
	}

	code := apperrors.ErrCodeInternal

	var respErr *azcore.ResponseError
	var authErr *azidentity.AuthenticationFailedError
	switch {
	case errors.As(err, &respErr):
		errCtx["statusCode"] = respErr.StatusCode
		errCtx["errorCode"] = respErr.ErrorCode
		switch respErr.StatusCode {
		case http.StatusNotFound:
			code = apperrors.ErrCodeNotFound
		case http.StatusUnauthorized, http.StatusForbidden:
			code = apperrors.ErrCodeUnauthorized
		case http.StatusTooManyRequests:
			code = apperrors.ErrCodeRateLimitExceeded
		case http.StatusServiceUnavailable:
			code = apperrors.ErrCodeUnavailable
		}
	case errors.As(err, &authErr):
		code = apperrors.ErrCodeUnauthorized
	case errors.Is(err, context.DeadlineExceeded):
		code = apperrors.ErrCodeTimeout
	}

	return apperrors.WrapWithContext(code, message, err, errCtx)
}
