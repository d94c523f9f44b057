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
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/NVIDIA/disksnap/pkg/defaults"
	apperrors "github.com/NVIDIA/disksnap/pkg/errors"
)

const (
	testSub   = "11111111-2222-3333-4444-555555555555"
	testRG    = "rg1"
	testDisk  = "d1"
	testToken = "test-token"
)

type staticCredential struct{}

func (staticCredential) GetToken(context.Context, policy.TokenRequestOptions) (azcore.AccessToken, error) {
	return azcore.AccessToken{Token: testToken, ExpiresOn: time.Now().Add(time.Hour)}, nil
}

// routeTransport answers ARM requests from a method+path table.
type routeTransport struct {
	mu       sync.Mutex
	routes   map[string]func(*http.Request) (int, string)
	requests []string
}

func (rt *routeTransport) Do(req *http.Request) (*http.Response, error) {
	key := req.Method + " " + req.URL.Path

	rt.mu.Lock()
	rt.requests = append(rt.requests, key)
	handler, ok := rt.routes[key]
	rt.mu.Unlock()

	status, body := http.StatusNotFound, `{"error":{"code":"ResourceNotFound","message":"not found"}}`
	if ok {
		status, body = handler(req)
	}

	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    req,
	}, nil
}

func (rt *routeTransport) count(prefix string) int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	n := 0
	for _, r := range rt.requests {
		if strings.HasPrefix(r, prefix) {
			n++
		}
	}
	return n
}

func newTestClient(t *testing.T, rt *routeTransport) *ARMClient {
	t.Helper()
	c, err := NewARMClient(testSub, staticCredential{},
		WithPollFrequency(10*time.Millisecond),
		WithDeleteConcurrency(2),
		WithClientOptions(&arm.ClientOptions{
			ClientOptions: policy.ClientOptions{
				Transport: rt,
				Retry:     policy.RetryOptions{MaxRetries: -1},
			},
		}))
	require.NoError(t, err)
	return c
}

func diskPath() string {
	return DiskID(testSub, testRG, testDisk)
}

func snapshotPath(name string) string {
	return "/subscriptions/" + testSub + "/resourceGroups/" + testRG + "/providers/Microsoft.Compute/snapshots/" + name
}

func TestNewARMClient_Options(t *testing.T) {
	c, err := NewARMClient(testSub, staticCredential{},
		WithDeleteConcurrency(5),
		WithDeleteRate(2, 3),
		WithPollFrequency(0))
	require.NoError(t, err)

	assert.Equal(t, 5, c.deleteConcurrency)
	assert.Equal(t, rate.Limit(2), c.deleteLimiter.Limit())
	assert.Equal(t, 3, c.deleteLimiter.Burst())
	assert.Equal(t, defaults.PollFrequency, c.pollFrequency)
}

func TestNewARMClient_DefaultDeletePacing(t *testing.T) {
	c, err := NewARMClient(testSub, staticCredential{})
	require.NoError(t, err)

	assert.Equal(t, defaults.DeleteConcurrency, c.deleteConcurrency)
	assert.Equal(t, rate.Limit(defaults.DeleteRatePerSecond), c.deleteLimiter.Limit())
	assert.Equal(t, defaults.DeleteBurst, c.deleteLimiter.Burst())
}

func TestDiskID(t *testing.T) {
	got := DiskID("sub", "rg", "disk")
	assert.Equal(t, "/subscriptions/sub/resourceGroups/rg/providers/Microsoft.Compute/disks/disk", got)
}

func TestARMClient_GetDisk(t *testing.T) {
	rt := &routeTransport{routes: map[string]func(*http.Request) (int, string){
		"GET " + diskPath(): func(*http.Request) (int, string) {
			return http.StatusOK, `{"id":"` + diskPath() + `","name":"d1","location":"eastus"}`
		},
	}}
	c := newTestClient(t, rt)

	disk, err := c.GetDisk(context.Background(), diskPath())
	require.NoError(t, err)
	assert.Equal(t, diskPath(), disk.ID)
	assert.Equal(t, "d1", disk.Name)
	assert.Equal(t, "eastus", disk.Location)
	assert.Equal(t, testRG, disk.ResourceGroup)
}

func TestARMClient_GetDiskNotFound(t *testing.T) {
	rt := &routeTransport{routes: map[string]func(*http.Request) (int, string){}}
	c := newTestClient(t, rt)

	_, err := c.GetDisk(context.Background(), diskPath())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.CodeOf(err))
}

func TestARMClient_GetDiskInvalidID(t *testing.T) {
	rt := &routeTransport{routes: map[string]func(*http.Request) (int, string){}}
	c := newTestClient(t, rt)

	tests := []string{
		"not-a-resource-id",
		snapshotPath("s1"),
		DiskID("99999999-2222-3333-4444-555555555555", testRG, testDisk),
	}
	for _, id := range tests {
		t.Run(id, func(t *testing.T) {
			_, err := c.GetDisk(context.Background(), id)
			require.Error(t, err)
			assert.Equal(t, apperrors.ErrCodeInvalidRequest, apperrors.CodeOf(err))
		})
	}
	assert.Zero(t, rt.count("GET"), "no request should reach the transport")
}

func TestARMClient_CreateSnapshot(t *testing.T) {
	var sentBody string
	rt := &routeTransport{routes: map[string]func(*http.Request) (int, string){
		"PUT " + snapshotPath("d1-snap"): func(r *http.Request) (int, string) {
			b, _ := io.ReadAll(r.Body)
			sentBody = string(b)
			return http.StatusOK, `{"id":"` + snapshotPath("d1-snap") + `","name":"d1-snap","location":"eastus",` +
				`"sku":{"name":"Premium_LRS"},` +
				`"properties":{"provisioningState":"Succeeded","timeCreated":"2024-03-05T14:07:09Z"}}`
		},
	}}
	c := newTestClient(t, rt)

	snap, err := c.CreateSnapshot(context.Background(), &SnapshotRequest{
		Name:          "d1-snap",
		Location:      "eastus",
		ResourceGroup: testRG,
		SourceDiskID:  diskPath(),
		SKU:           SKUPremiumLRS,
	})
	require.NoError(t, err)

	assert.Equal(t, snapshotPath("d1-snap"), snap.ID)
	assert.Equal(t, SKUPremiumLRS, snap.SKU)
	assert.Equal(t, testRG, snap.ResourceGroup)
	assert.Equal(t, time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC), snap.TimeCreated.UTC())

	assert.Contains(t, sentBody, `"createOption":"Copy"`)
	assert.Contains(t, sentBody, `"sourceResourceId":"`+diskPath()+`"`)
	assert.Contains(t, sentBody, `"Premium_LRS"`)
}

func TestARMClient_ListSnapshots(t *testing.T) {
	listPath := "/subscriptions/" + testSub + "/resourceGroups/" + testRG + "/providers/Microsoft.Compute/snapshots"
	rt := &routeTransport{routes: map[string]func(*http.Request) (int, string){
		"GET " + listPath: func(*http.Request) (int, string) {
			return http.StatusOK, `{"value":[` +
				`{"id":"` + snapshotPath("a") + `","name":"a","properties":{"timeCreated":"2024-01-01T00:00:00Z"}},` +
				`{"id":"` + snapshotPath("b") + `","name":"b","properties":{"timeCreated":"2024-01-02T00:00:00Z"}}` +
				`]}`
		},
	}}
	c := newTestClient(t, rt)

	snaps, err := c.ListSnapshots(context.Background(), testRG)
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, "a", snaps[0].Name)
	assert.Equal(t, testRG, snaps[1].ResourceGroup)
	assert.True(t, snaps[1].TimeCreated.After(snaps[0].TimeCreated))
}

func TestARMClient_DeleteSnapshots(t *testing.T) {
	ok := func(*http.Request) (int, string) { return http.StatusOK, "" }
	rt := &routeTransport{routes: map[string]func(*http.Request) (int, string){
		"DELETE " + snapshotPath("a"): ok,
		"DELETE " + snapshotPath("b"): ok,
	}}
	c := newTestClient(t, rt)

	err := c.DeleteSnapshots(context.Background(), []string{snapshotPath("a"), snapshotPath("b")})
	require.NoError(t, err)
	assert.Equal(t, 2, rt.count("DELETE"))
}

func TestARMClient_DeleteSnapshotsPartialFailure(t *testing.T) {
	rt := &routeTransport{routes: map[string]func(*http.Request) (int, string){
		"DELETE " + snapshotPath("a"): func(*http.Request) (int, string) { return http.StatusOK, "" },
		"DELETE " + snapshotPath("b"): func(*http.Request) (int, string) {
			return http.StatusForbidden, `{"error":{"code":"AuthorizationFailed","message":"denied"}}`
		},
	}}
	c := newTestClient(t, rt)

	err := c.DeleteSnapshots(context.Background(), []string{snapshotPath("a"), snapshotPath("b")})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeUnauthorized, apperrors.CodeOf(err))
	assert.Contains(t, err.Error(), "failed to delete 1 of 2 snapshot(s)")
	assert.Equal(t, 2, rt.count("DELETE"), "a failed delete must not stop the others")
}

func TestARMClient_DeleteSnapshotsEmpty(t *testing.T) {
	rt := &routeTransport{routes: map[string]func(*http.Request) (int, string){}}
	c := newTestClient(t, rt)

	require.NoError(t, c.DeleteSnapshots(context.Background(), nil))
	assert.Zero(t, rt.count(""))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   apperrors.ErrorCode
	}{
		{"not found", http.StatusNotFound, apperrors.ErrCodeNotFound},
		{"unauthorized", http.StatusUnauthorized, apperrors.ErrCodeUnauthorized},
		{"forbidden", http.StatusForbidden, apperrors.ErrCodeUnauthorized},
		{"throttled", http.StatusTooManyRequests, apperrors.ErrCodeRateLimitExceeded},
		{"unavailable", http.StatusServiceUnavailable, apperrors.ErrCodeUnavailable},
		{"conflict", http.StatusConflict, apperrors.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, "https://management.azure.com/x", nil)
			respErr := &azcore.ResponseError{
				StatusCode:  tt.status,
				ErrorCode:   "Code",
				RawResponse: &http.Response{StatusCode: tt.status, Request: req, Body: http.NoBody},
			}
			err := classify(respErr, "op failed", nil)
			assert.Equal(t, tt.want, apperrors.CodeOf(err))
		})
	}

	t.Run("deadline", func(t *testing.T) {
		err := classify(context.DeadlineExceeded, "op failed", nil)
		assert.Equal(t, apperrors.ErrCodeTimeout, apperrors.CodeOf(err))
	})
}
