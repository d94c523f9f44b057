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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

var (
	// Snapshot lifecycle metrics
	snapshotCreateDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "disksnap_snapshot_create_duration_seconds",
			Help:    "Time taken to create a snapshot, including provisioning",
			Buckets: []float64{5, 15, 30, 60, 120, 300, 600, 1800},
		},
	)

	snapshotPruneDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "disksnap_snapshot_prune_duration_seconds",
			Help:    "Time taken to delete discarded snapshots",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300},
		},
	)

	snapshotRunTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "disksnap_runs_total",
			Help: "Total number of snapshot runs",
		},
		[]string{"status"}, // success or error
	)

	snapshotsDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "disksnap_snapshots_deleted_total",
			Help: "Total number of snapshots deleted by retention pruning",
		},
	)

	snapshotsRetained = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "disksnap_snapshots_retained",
			Help: "Number of snapshots kept by the last retention pass",
		},
	)
)

// PushMetrics sends the default registry to a Prometheus Pushgateway under
// job, grouped by the given labels.
func PushMetrics(ctx context.Context, url, job string, grouping map[string]string) error {
	p := push.New(url, job).Gatherer(prometheus.DefaultGatherer)
	for k, v := range grouping {
		p = p.Grouping(k, v)
	}
	if err := p.PushContext(ctx); err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", url, err)
	}
	return nil
}
