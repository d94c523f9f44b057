// Package snapshotter creates point-in-time snapshots of Azure managed disks
// and prunes older snapshots according to a retention limit.
//
// # Overview
//
// A run resolves the source disk, creates a snapshot named from a composite
// format, and, when a retain limit is set, lists the snapshots of the resource
// group and deletes everything beyond the newest N. Progress is written to an
// io.Writer as human-readable lines; structured records go to slog.
//
// # Core Types
//
// Snapshotter: Interface for a single snapshot run
//
//	type Snapshotter interface {
//	    Run(ctx context.Context, opts Options) (*Report, error)
//	}
//
// DiskSnapshotter: Production implementation backed by a compute.Client
//
//	type DiskSnapshotter struct {
//	    Client compute.Client     // Management operations
//	    Out    io.Writer          // Progress lines (default os.Stdout)
//	    Clock  func() time.Time   // Name timestamp source (default time.Now)
//	    RunID  string             // Correlation ID
//	}
//
// # Usage
//
//	s := &snapshotter.DiskSnapshotter{Client: client, RunID: uuid.NewString()}
//
//	report, err := s.Run(ctx, snapshotter.Options{
//	    SubscriptionID: sub,
//	    ResourceGroup:  "rg1",
//	    DiskName:       "data-disk",
//	    RetainLimit:    7,
//	})
//
// # Retention
//
// PlanRetention orders snapshots newest first by creation time. Snapshots
// with equal times keep the order returned by the provider, and snapshots
// without a creation time sort last. The first N are retained. Pruning
// covers every snapshot in the resource group, not only those of the source
// disk, and the snapshot just created counts toward N.
//
// # Failure Handling
//
// Validation errors are returned before any provider call. A missing disk
// stops the run before a snapshot is created. A pruning failure leaves the
// new snapshot in place and is returned alongside a partial Report.
//
// # Metrics
//
//	disksnap_snapshot_create_duration_seconds   histogram
//	disksnap_snapshot_prune_duration_seconds    histogram
//	disksnap_runs_total{status}                 counter
//	disksnap_snapshots_deleted_total            counter
//	disksnap_snapshots_retained                 gauge
//
// PushMetrics sends them to a Prometheus Pushgateway at the end of a run.
package snapshotter
