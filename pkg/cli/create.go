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
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"
	"golang.org/x/time/rate"

	"github.com/NVIDIA/disksnap/pkg/compute"
	"github.com/NVIDIA/disksnap/pkg/defaults"
	apperrors "github.com/NVIDIA/disksnap/pkg/errors"
	"github.com/NVIDIA/disksnap/pkg/naming"
	"github.com/NVIDIA/disksnap/pkg/serializer"
	"github.com/NVIDIA/disksnap/pkg/snapshotter"
)

const (
	flagTenantID          = "tenantId"
	flagSubscriptionID    = "subscriptionId"
	flagResourceGroup     = "resourceGroup"
	flagDiskName          = "diskName"
	flagNameFormat        = "snapshotNameFormat"
	flagRetainLimit       = "retainLimit"
	flagSKU               = "skuType"
	flagOutput            = "output"
	flagOutputFormat      = "output-format"
	flagTimeout           = "timeout"
	flagDeleteConcurrency = "delete-concurrency"
	flagDeleteRate        = "delete-rate"
	flagPushgateway       = "pushgateway"

	metricsJob = "disksnap"
)

// createCmdOptions holds the parsed and validated options of the create command.
type createCmdOptions struct {
	tenantID          string
	snapshot          snapshotter.Options
	output            string
	outputFormat      serializer.Format
	timeout           time.Duration
	deleteConcurrency int
	deleteRate        float64
	pushgateway       string
}

func parseCreateCmdOptions(cmd *cli.Command) (*createCmdOptions, error) {
	opts := &createCmdOptions{
		tenantID: strings.TrimSpace(cmd.String(flagTenantID)),
		snapshot: snapshotter.Options{
			SubscriptionID: strings.TrimSpace(cmd.String(flagSubscriptionID)),
			ResourceGroup:  strings.TrimSpace(cmd.String(flagResourceGroup)),
			DiskName:       strings.TrimSpace(cmd.String(flagDiskName)),
			NameFormat:     cmd.String(flagNameFormat),
			RetainLimit:    cmd.Int(flagRetainLimit),
		},
		output:            strings.TrimSpace(cmd.String(flagOutput)),
		timeout:           cmd.Duration(flagTimeout),
		deleteConcurrency: cmd.Int(flagDeleteConcurrency),
		deleteRate:        cmd.Float(flagDeleteRate),
		pushgateway:       strings.TrimSpace(cmd.String(flagPushgateway)),
	}

	required := []struct {
		flag  string
		value string
	}{
		{flagTenantID, opts.tenantID},
		{flagSubscriptionID, opts.snapshot.SubscriptionID},
		{flagResourceGroup, opts.snapshot.ResourceGroup},
		{flagDiskName, opts.snapshot.DiskName},
	}
	var missing []string
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, "--"+r.flag)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("missing required flag(s): %s", strings.Join(missing, ", ")),
			map[string]any{"missing": missing})
	}

	if _, err := uuid.Parse(opts.snapshot.SubscriptionID); err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeInvalidRequest,
			"subscription ID must be a GUID", err,
			map[string]any{"subscriptionId": opts.snapshot.SubscriptionID})
	}

	sku, err := compute.ParseSKU(cmd.String(flagSKU))
	if err != nil {
		return nil, err
	}
	opts.snapshot.SKU = sku

	format, err := serializer.ParseFormat(cmd.String(flagOutputFormat))
	if err != nil {
		return nil, err
	}
	opts.outputFormat = format

	if opts.timeout < 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("--%s must be zero or positive, got %s", flagTimeout, opts.timeout))
	}
	if opts.deleteConcurrency < 1 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("--%s must be at least 1, got %d", flagDeleteConcurrency, opts.deleteConcurrency))
	}
	if opts.deleteRate <= 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("--%s must be positive, got %g", flagDeleteRate, opts.deleteRate))
	}

	if err := opts.snapshot.Validate(); err != nil {
		return nil, err
	}

	return opts, nil
}

func createCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:                  "create",
		EnableShellCompletion: true,
		Usage:                 "Snapshot a managed disk and prune older snapshots",
		Description: `Create a full-copy snapshot of an Azure managed disk in the disk's region and
resource group, then optionally delete older snapshots so that only the newest
--retainLimit remain in the resource group.

Credentials are resolved in order from environment service principal variables,
workload identity, managed identity, the Azure CLI, and the Azure Developer CLI.
The first source that can issue a management token is used.

# Snapshot Names

--snapshotNameFormat is a composite format. {0} is the disk name and {1} the
current UTC time, which accepts custom date/time patterns:

  {0}-snapshot-{1:yy-MM-dd.hh.mm.ss}   (default, hh is the 12-hour clock)
  {0}-{1:yyyyMMddHHmmss}
  nightly-{0}-{1:yyyy-MM-dd}

# Retention

When --retainLimit is greater than zero, every snapshot in --resourceGroup is
ordered by creation time and all but the newest N are deleted, including
snapshots of other disks. The snapshot just created counts toward N.

# Examples

Snapshot a disk without pruning:
  disksnap create -t contoso.onmicrosoft.com -s <subscription> -g rg1 -n data-disk

Keep the seven newest snapshots on premium storage:
  disksnap create -t <tenant> -s <subscription> -g rg1 -n data-disk -l 7 -k Premium_LRS

Write a run report and push metrics:
  disksnap create -t <tenant> -s <subscription> -g rg1 -n data-disk -l 7 \
    --output report.yaml --pushgateway http://pushgateway:9091`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagTenantID,
				Aliases: []string{"t"},
				Usage:   "Azure AD tenant ID or domain (required)",
				Sources: cli.EnvVars("DISKSNAP_TENANT_ID"),
			},
			&cli.StringFlag{
				Name:    flagSubscriptionID,
				Aliases: []string{"s"},
				Usage:   "Azure subscription ID (required)",
				Sources: cli.EnvVars("DISKSNAP_SUBSCRIPTION_ID"),
			},
			&cli.StringFlag{
				Name:    flagResourceGroup,
				Aliases: []string{"g"},
				Usage:   "Resource group of the disk, also the retention scope (required)",
				Sources: cli.EnvVars("DISKSNAP_RESOURCE_GROUP"),
			},
			&cli.StringFlag{
				Name:    flagDiskName,
				Aliases: []string{"n"},
				Usage:   "Name of the managed disk to snapshot (required)",
				Sources: cli.EnvVars("DISKSNAP_DISK_NAME"),
			},
			&cli.StringFlag{
				Name:    flagNameFormat,
				Aliases: []string{"f"},
				Usage:   "Composite format for the snapshot name, {0} disk name, {1} UTC time",
				Value:   naming.DefaultFormat,
				Sources: cli.EnvVars("DISKSNAP_SNAPSHOT_NAME_FORMAT"),
			},
			&cli.IntFlag{
				Name:    flagRetainLimit,
				Aliases: []string{"l"},
				Usage:   "Number of newest snapshots to keep in the resource group, 0 disables pruning",
				Value:   0,
				Sources: cli.EnvVars("DISKSNAP_RETAIN_LIMIT"),
			},
			&cli.StringFlag{
				Name:    flagSKU,
				Aliases: []string{"k"},
				Usage:   fmt.Sprintf("Snapshot storage type (%s)", strings.Join(compute.SupportedSKUs(), ", ")),
				Value:   string(compute.SKUStandardLRS),
				Sources: cli.EnvVars("DISKSNAP_SKU_TYPE"),
			},
			&cli.StringFlag{
				Name:    flagOutput,
				Aliases: []string{"o"},
				Usage:   "Path of a run report file (default: no report)",
			},
			&cli.StringFlag{
				Name:  flagOutputFormat,
				Usage: fmt.Sprintf("Run report format (%s)", strings.Join(serializer.SupportedFormats(), ", ")),
				Value: string(serializer.FormatYAML),
			},
			&cli.DurationFlag{
				Name:    flagTimeout,
				Usage:   "Upper bound for the whole run, 0 for no limit",
				Sources: cli.EnvVars("DISKSNAP_TIMEOUT"),
			},
			&cli.IntFlag{
				Name:  flagDeleteConcurrency,
				Usage: "Maximum snapshot deletes in flight while pruning",
				Value: defaults.DeleteConcurrency,
			},
			&cli.FloatFlag{
				Name:  flagDeleteRate,
				Usage: "Snapshot delete requests submitted per second while pruning",
				Value: defaults.DeleteRatePerSecond,
			},
			&cli.StringFlag{
				Name:    flagPushgateway,
				Usage:   "Prometheus Pushgateway URL to push run metrics to",
				Sources: cli.EnvVars("DISKSNAP_PUSHGATEWAY_URL"),
			},
		},
		OnUsageError: func(_ context.Context, cmd *cli.Command, err error, _ bool) error {
			_ = cli.ShowSubcommandHelp(cmd)
			return apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "invalid command-line usage", err)
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts, err := parseCreateCmdOptions(cmd)
			if err != nil {
				_ = cli.ShowSubcommandHelp(cmd)
				return err
			}
			return runCreate(ctx, d, opts)
		},
	}
}

func runCreate(ctx context.Context, d *deps, opts *createCmdOptions) error {
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	runID := d.newRunID()
	log := slog.With("run_id", runID)
	log.Info("starting snapshot run",
		"disk", opts.snapshot.DiskID(),
		"retainLimit", opts.snapshot.RetainLimit,
		"sku", opts.snapshot.SKU)

	cred, err := d.newResolver(opts.tenantID).Resolve(ctx)
	if err != nil {
		return err
	}

	client, err := d.newClient(opts.snapshot.SubscriptionID, cred,
		compute.WithDeleteConcurrency(opts.deleteConcurrency),
		compute.WithDeleteRate(rate.Limit(opts.deleteRate), defaults.DeleteBurst))
	if err != nil {
		return err
	}

	s := &snapshotter.DiskSnapshotter{
		Client:  client,
		Out:     d.out,
		Clock:   d.clock,
		RunID:   runID,
		Version: version,
	}

	report, runErr := s.Run(ctx, opts.snapshot)

	if opts.output != "" && report != nil {
		if err := writeReport(ctx, opts, report); err != nil {
			if runErr == nil {
				return err
			}
			log.Error("failed to write run report", "path", opts.output, "error", err)
		}
	}

	if opts.pushgateway != "" {
		pushCtx, pushCancel := context.WithTimeout(context.WithoutCancel(ctx), defaults.MetricsPushTimeout)
		err := d.pushMetrics(pushCtx, opts.pushgateway, metricsJob, map[string]string{
			"resource_group": opts.snapshot.ResourceGroup,
			"disk":           opts.snapshot.DiskName,
		})
		pushCancel()
		if err != nil {
			log.Warn("metrics push failed", "url", opts.pushgateway, "error", err)
		}
	}

	return runErr
}

func writeReport(ctx context.Context, opts *createCmdOptions, report *snapshotter.Report) error {
	w, err := serializer.NewFileWriterOrStdout(opts.outputFormat, opts.output)
	if err != nil {
		return err
	}
	if err := w.Serialize(ctx, report); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
