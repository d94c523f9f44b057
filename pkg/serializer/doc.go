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

// Package serializer writes run reports in JSON, YAML, or table form.
//
// # Supported Formats
//
// JSON:
//   - Machine-parseable, indented
//   - Standard encoding/json package
//
// YAML:
//   - Human-readable with preserved structure
//   - gopkg.in/yaml.v3 package
//
// Table:
//   - Flattened FIELD/VALUE rows for terminal viewing
//   - Nested fields joined with dots, slice elements indexed as [i]
//
// # Usage
//
//	w, err := serializer.NewFileWriterOrStdout(serializer.FormatYAML, "report.yaml")
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//
//	if err := w.Serialize(ctx, report); err != nil {
//	    return err
//	}
//
// An empty path writes to stdout. ParseFormat validates user-supplied format
// names and returns an INVALID_REQUEST structured error for unknown ones.
package serializer
