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
	"fmt"
	"strings"

	apperrors "github.com/NVIDIA/disksnap/pkg/errors"
)

// SKU is the storage account type used to store a snapshot.
type SKU string

const (
	// SKUStandardLRS stores the snapshot on standard locally-redundant storage.
	SKUStandardLRS SKU = "Standard_LRS"
	// SKUPremiumLRS stores the snapshot on premium locally-redundant storage.
	SKUPremiumLRS SKU = "Premium_LRS"
)

var supportedSKUs = []SKU{SKUStandardLRS, SKUPremiumLRS}

// String returns the SKU as it appears on the wire.
func (s SKU) String() string {
	return string(s)
}

// SupportedSKUs returns the accepted --skuType values.
func SupportedSKUs() []string {
	out := make([]string, 0, len(supportedSKUs))
	for _, s := range supportedSKUs {
		out = append(out, string(s))
	}
	return out
}

// ParseSKU resolves a user-supplied SKU name. Only the exact wire values
// are accepted.
func ParseSKU(s string) (SKU, error) {
	for _, sku := range supportedSKUs {
		if s == string(sku) {
			return sku, nil
		}
	}
	return "", apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
		fmt.Sprintf("unsupported snapshot SKU %q (supported values: %s)", s, strings.Join(SupportedSKUs(), ", ")),
		map[string]any{"sku": s})
}
