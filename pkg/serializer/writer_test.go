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

package serializer

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "github.com/NVIDIA/disksnap/pkg/errors"
)

type testReport struct {
	RunID     string    `json:"runID" yaml:"runID"`
	Discarded []string  `json:"discarded" yaml:"discarded"`
	Created   time.Time `json:"created" yaml:"created"`
}

const testRunID = "run-1"

func sampleReport() testReport {
	return testReport{
		RunID:     testRunID,
		Discarded: []string{"snap-a", "snap-b"},
		Created:   time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC),
	}
}

func TestWriter_SerializeJSON(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatJSON, &buf)

	if err := writer.Serialize(context.Background(), sampleReport()); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	var result testReport
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to unmarshal JSON: %v", err)
	}
	if result.RunID != testRunID || len(result.Discarded) != 2 {
		t.Errorf("Unexpected data: %+v", result)
	}
	if !result.Created.Equal(sampleReport().Created) {
		t.Errorf("Created = %v, want %v", result.Created, sampleReport().Created)
	}
}

func TestWriter_SerializeYAML(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatYAML, &buf)

	if err := writer.Serialize(context.Background(), sampleReport()); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	var result testReport
	if err := yaml.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to unmarshal YAML: %v", err)
	}
	if result.RunID != testRunID || result.Discarded[1] != "snap-b" {
		t.Errorf("Unexpected data: %+v", result)
	}
	if !strings.Contains(buf.String(), "runID: run-1") {
		t.Errorf("expected yaml tag names in output, got:\n%s", buf.String())
	}
}

func TestWriter_SerializeTable(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatTable, &buf)

	if err := writer.Serialize(context.Background(), sampleReport()); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "FIELD") || !strings.Contains(output, "VALUE") {
		t.Error("Expected table header not found")
	}
	for _, want := range []string{"Discarded.[0]", "Discarded.[1]", "RunID", "2024-03-05T14:07:09Z"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in table output:\n%s", want, output)
		}
	}
}

func TestWriter_SerializeTable_EmptyData(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatTable, &buf)

	if err := writer.Serialize(context.Background(), []testReport{}); err != nil {
		t.Fatalf("Serialize empty slice failed: %v", err)
	}
	if !strings.Contains(buf.String(), "<empty>") {
		t.Errorf("Expected '<empty>' in output for empty data, got: %s", buf.String())
	}
}

func TestWriter_SerializeTable_NilValues(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatTable, &buf)

	type withNil struct {
		Name     string
		Snapshot *testReport
	}

	if err := writer.Serialize(context.Background(), withNil{Name: "d1"}); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Snapshot") {
		t.Error("Expected nil field 'Snapshot' in output")
	}
}

func TestNewWriter_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(Format("invalid"), &buf)

	if err := writer.Serialize(context.Background(), sampleReport()); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	var result testReport
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to unmarshal as JSON: %v", err)
	}
}

func TestWriter_Close(t *testing.T) {
	writer := NewStdoutWriter(FormatJSON)
	if err := writer.Close(); err != nil {
		t.Errorf("Close on stdout writer should not error: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Errorf("Multiple Close calls should not error: %v", err)
	}
}

func TestNewFileWriterOrStdout_EmptyPath(t *testing.T) {
	for _, path := range []string{"", "  ", "\t", "\n"} {
		writer, err := NewFileWriterOrStdout(FormatJSON, path)
		if err != nil {
			t.Fatalf("unexpected error for empty path %q: %v", path, err)
		}
		if writer.output != os.Stdout {
			t.Errorf("expected stdout writer for path %q", path)
		}
		if err := writer.Close(); err != nil {
			t.Errorf("Close failed for empty path writer: %v", err)
		}
	}
}

func TestNewFileWriterOrStdout_Success(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")

	writer, err := NewFileWriterOrStdout(FormatJSON, path)
	if err != nil {
		t.Fatalf("NewFileWriterOrStdout failed: %v", err)
	}
	if err := writer.Serialize(context.Background(), sampleReport()); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read output file: %v", err)
	}

	var result testReport
	if err := json.Unmarshal(content, &result); err != nil {
		t.Fatalf("Failed to unmarshal file content: %v", err)
	}
	if result.RunID != testRunID {
		t.Errorf("Unexpected data in file: %+v", result)
	}
}

func TestNewFileWriterOrStdout_InvalidPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "report.json")

	_, err := NewFileWriterOrStdout(FormatJSON, path)
	if err == nil {
		t.Fatal("expected error for a path in a missing directory")
	}
	if got := apperrors.CodeOf(err); got != apperrors.ErrCodeInvalidRequest {
		t.Errorf("CodeOf() = %q, want %q", got, apperrors.ErrCodeInvalidRequest)
	}
}

func TestFormat_IsUnknown(t *testing.T) {
	tests := []struct {
		format Format
		want   bool
	}{
		{FormatJSON, false},
		{FormatYAML, false},
		{FormatTable, false},
		{Format("invalid"), true},
		{Format("xml"), true},
		{Format(""), true},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			if got := tt.format.IsUnknown(); got != tt.want {
				t.Errorf("Format(%q).IsUnknown() = %v, want %v", tt.format, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"YAML", FormatYAML, false},
		{" table ", FormatTable, false},
		{"xml", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if err != nil && apperrors.CodeOf(err) != apperrors.ErrCodeInvalidRequest {
				t.Errorf("ParseFormat(%q) code = %q", tt.in, apperrors.CodeOf(err))
			}
		})
	}
}
