// Package cli implements the command-line interface for the disksnap tool.
//
// # Overview
//
// disksnap creates point-in-time snapshots of Azure managed disks and keeps
// the number of snapshots in a resource group bounded. It is meant to be run
// from cron, a CI job, or a Kubernetes CronJob with workload identity.
//
// # Commands
//
// create - Snapshot a disk and optionally prune:
//
//	disksnap create -t TENANT -s SUBSCRIPTION -g GROUP -n DISK [-f FORMAT] [-l N] [-k SKU]
//
// Validates all input first; any validation failure prints usage and exits
// before credentials are resolved or the management API is contacted.
//
// # Flags
//
//	--tenantId, -t            Azure AD tenant (required)
//	--subscriptionId, -s      Subscription GUID (required)
//	--resourceGroup, -g       Resource group of the disk and retention scope (required)
//	--diskName, -n            Managed disk name (required)
//	--snapshotNameFormat, -f  Composite name format (default {0}-snapshot-{1:yy-MM-dd.hh.mm.ss})
//	--retainLimit, -l         Newest snapshots to keep, 0 disables pruning (default 0)
//	--skuType, -k             Standard_LRS or Premium_LRS (default Standard_LRS)
//	--output, -o              Run report path
//	--output-format           Run report format: yaml, json, table (default yaml)
//	--timeout                 Upper bound for the run, 0 for none (default 0)
//	--delete-concurrency      Deletes in flight while pruning (default 8)
//	--delete-rate             Delete submissions per second while pruning (default 4)
//	--pushgateway             Prometheus Pushgateway URL
//
// # Environment Variables
//
//	LOG_LEVEL                       Logging verbosity (debug, info, warn, error)
//	DISKSNAP_TENANT_ID              --tenantId
//	DISKSNAP_SUBSCRIPTION_ID        --subscriptionId
//	DISKSNAP_RESOURCE_GROUP         --resourceGroup
//	DISKSNAP_DISK_NAME              --diskName
//	DISKSNAP_SNAPSHOT_NAME_FORMAT   --snapshotNameFormat
//	DISKSNAP_RETAIN_LIMIT           --retainLimit
//	DISKSNAP_SKU_TYPE               --skuType
//	DISKSNAP_TIMEOUT                --timeout
//	DISKSNAP_PUSHGATEWAY_URL        --pushgateway
//
// Credential sources read their usual variables (AZURE_CLIENT_ID,
// AZURE_CLIENT_SECRET, AZURE_FEDERATED_TOKEN_FILE, and so on).
//
// # Exit Codes
//
//	0    Success
//	1    Provider or general failure
//	2    Invalid arguments
//	3    No credential source succeeded, or access denied
//	4    Disk not found
//	130  Interrupted
//
// # Architecture
//
// The CLI uses the urfave/cli/v3 framework and delegates to specialized packages:
//   - pkg/credential - Credential chain resolution
//   - pkg/compute - Azure Compute management operations
//   - pkg/snapshotter - Snapshot creation and retention
//   - pkg/serializer - Run report output
//   - pkg/logging - Structured logging
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/NVIDIA/disksnap/pkg/cli.version=1.0.0'"
package cli
