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
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/NVIDIA/disksnap/pkg/compute"
	apperrors "github.com/NVIDIA/disksnap/pkg/errors"
	"github.com/NVIDIA/disksnap/pkg/header"
	"github.com/NVIDIA/disksnap/pkg/naming"
)

// DiskSnapshotter snapshots one managed disk and prunes older snapshots in
// its resource group. Every cloud call is awaited before the next one starts.
type DiskSnapshotter struct {
	// Client performs the management operations.
	Client compute.Client

	// Out receives human-readable progress lines. If nil, os.Stdout is used.
	Out io.Writer

	// Clock supplies the instant used in snapshot names. If nil, time.Now is used.
	Clock func() time.Time

	// RunID correlates log records and the report of one invocation.
	RunID string

	// Version is recorded in the report header.
	Version string
}

var _ Snapshotter = (*DiskSnapshotter)(nil)

// Run creates a snapshot of the disk described by opts and, when
// opts.RetainLimit is positive, prunes the resource group down to that many
// snapshots. A failure at any step aborts the remaining steps; a prune
// failure leaves the new snapshot in place.
func (d *DiskSnapshotter) Run(ctx context.Context, opts Options) (*Report, error) {
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	status := "error"
	defer func() {
		snapshotRunTotal.WithLabelValues(status).Inc()
	}()

	report := &Report{
		Header:      *d.reportHeader(opts),
		RunID:       d.RunID,
		DiskID:      opts.DiskID(),
		RetainLimit: opts.RetainLimit,
	}

	snap, elapsed, err := d.Create(ctx, opts)
	if err != nil {
		return report, err
	}
	report.Snapshot = snap
	report.CreateElapsed = elapsed.String()

	if opts.RetainLimit > 0 {
		plan, pruneElapsed, err := d.Prune(ctx, opts.ResourceGroup, opts.RetainLimit)
		if plan != nil {
			for _, s := range plan.Retained {
				report.Retained = append(report.Retained, s.ID)
			}
			report.Discarded = plan.DiscardedIDs()
		}
		if pruneElapsed > 0 {
			report.PruneElapsed = pruneElapsed.String()
		}
		if err != nil {
			return report, err
		}
	}

	status = "success"
	return report, nil
}

// Create resolves the disk, generates the snapshot name and creates the
// snapshot in the disk's region and resource group. A missing disk fails
// before any create request is sent.
func (d *DiskSnapshotter) Create(ctx context.Context, opts Options) (*compute.Snapshot, time.Duration, error) {
	opts = opts.WithDefaults()
	diskID := opts.DiskID()
	log := slog.With("run_id", d.RunID, "disk", diskID)

	disk, err := d.Client.GetDisk(ctx, diskID)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrCodeNotFound) {
			return nil, 0, apperrors.WrapWithContext(apperrors.ErrCodeNotFound,
				"managed disk not found", err, map[string]any{"diskID": diskID})
		}
		return nil, 0, err
	}
	log.Debug("resolved managed disk", "location", disk.Location, "resourceGroup", disk.ResourceGroup)

	name, err := naming.SnapshotName(opts.NameFormat, opts.DiskName, d.now())
	if err != nil {
		return nil, 0, err
	}

	fmt.Fprintf(d.out(), "Creating snapshot '%s'...\n", name)

	start := time.Now()
	snap, err := d.Client.CreateSnapshot(ctx, &compute.SnapshotRequest{
		Name:          name,
		Location:      disk.Location,
		ResourceGroup: disk.ResourceGroup,
		SourceDiskID:  disk.ID,
		SKU:           opts.SKU,
	})
	elapsed := time.Since(start)
	if err != nil {
		log.Error("snapshot creation failed", "snapshot", name, "error", err)
		return nil, elapsed, err
	}

	snapshotCreateDuration.Observe(elapsed.Seconds())
	fmt.Fprintf(d.out(), "Done creating snapshot in %s.\n", roundElapsed(elapsed))
	log.Info("snapshot created", "snapshot", snap.ID, "sku", opts.SKU, "elapsed", elapsed)

	return snap, elapsed, nil
}

// Prune lists the snapshots of resourceGroup, keeps the retainLimit newest and
// deletes the rest in a single batch call. Nothing is listed when retainLimit
// is zero or less, and nothing is deleted when the discard set is empty.
func (d *DiskSnapshotter) Prune(ctx context.Context, resourceGroup string, retainLimit int) (*PrunePlan, time.Duration, error) {
	if retainLimit <= 0 {
		return nil, 0, nil
	}
	log := slog.With("run_id", d.RunID, "resourceGroup", resourceGroup)

	existing, err := d.Client.ListSnapshots(ctx, resourceGroup)
	if err != nil {
		return nil, 0, err
	}

	plan := PlanRetention(existing, retainLimit)
	snapshotsRetained.Set(float64(len(plan.Retained)))
	log.Debug("retention planned", "existing", len(existing),
		"retained", len(plan.Retained), "discarded", len(plan.Discarded))

	if len(plan.Discarded) == 0 {
		return plan, 0, nil
	}

	fmt.Fprintf(d.out(), "Retaining %d snapshot(s) and discarding %d snapshot(s)...\n",
		retainLimit, len(plan.Discarded))

	start := time.Now()
	err = d.Client.DeleteSnapshots(ctx, plan.DiscardedIDs())
	elapsed := time.Since(start)
	if err != nil {
		log.Error("snapshot pruning failed", "error", err)
		return plan, elapsed, err
	}

	snapshotPruneDuration.Observe(elapsed.Seconds())
	snapshotsDeleted.Add(float64(len(plan.Discarded)))
	fmt.Fprintf(d.out(), "Done discarding snapshot(s) in %s.\n", roundElapsed(elapsed))
	log.Info("snapshots pruned", "discarded", len(plan.Discarded), "elapsed", elapsed)

	return plan, elapsed, nil
}

func (d *DiskSnapshotter) reportHeader(opts Options) *header.Header {
	hopts := []header.Option{
		header.WithKind(header.KindSnapshotReport),
		header.WithAPIVersion(APIVersion),
		header.WithMetadata("timestamp", d.now().Format(time.RFC3339)),
		header.WithMetadata("disk", opts.DiskName),
		header.WithMetadata("resourceGroup", opts.ResourceGroup),
	}
	if d.Version != "" {
		hopts = append(hopts, header.WithMetadata("version", d.Version))
	}
	return header.New(hopts...)
}

func (d *DiskSnapshotter) out() io.Writer {
	if d.Out == nil {
		return os.Stdout
	}
	return d.Out
}

func (d *DiskSnapshotter) now() time.Time {
	if d.Clock == nil {
		return time.Now().UTC()
	}
	return d.Clock().UTC()
}

func roundElapsed(d time.Duration) time.Duration {
	if d < time.Millisecond {
		return d
	}
	return d.Round(time.Millisecond)
}
