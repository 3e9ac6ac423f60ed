// Copyright (C) 2024  Markbud sp. z o.o.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeItemStatus(t *testing.T) {
	for name, testCase := range map[string]struct {
		flags    FlagSet
		expected ItemStatus
	}{
		"no flags": {
			flags:    0,
			expected: ItemStatusOK,
		},
		"mesh only": {
			flags:    FlagSet(0).With(FlagRequiresMesh),
			expected: ItemStatusWaiting,
		},
		"missing file": {
			flags:    FlagSet(0).With(FlagMissingFile),
			expected: ItemStatusBlocked,
		},
		"unconfirmed dimensions": {
			flags:    FlagSet(0).With(FlagDimensionsUnconfirmed),
			expected: ItemStatusBlocked,
		},
		"unconfirmed drawing": {
			flags:    FlagSet(0).With(FlagDrawingUnconfirmed),
			expected: ItemStatusBlocked,
		},
		"mesh and missing file": {
			flags:    FlagSet(0).With(FlagRequiresMesh).With(FlagMissingFile),
			expected: ItemStatusBlocked,
		},
		"exclusion beats blocking": {
			flags:    FlagSet(0).With(FlagExcludeFromProduction).With(FlagMissingFile),
			expected: ItemStatusExcluded,
		},
		"cosmetic flags stay ok": {
			flags:    FlagSet(0).With(FlagSpecialHandle).With(FlagCustomColor),
			expected: ItemStatusOK,
		},
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, testCase.expected, ComputeItemStatus(testCase.flags))
		})
	}
}

func TestComputeDeliveryStatus(t *testing.T) {
	for name, testCase := range map[string]struct {
		statuses []ItemStatus
		expected DeliveryStatus
	}{
		"empty": {
			statuses: nil,
			expected: DeliveryStatusReady,
		},
		"all ok": {
			statuses: []ItemStatus{ItemStatusOK, ItemStatusOK},
			expected: DeliveryStatusReady,
		},
		"waiting escalates to conditional": {
			statuses: []ItemStatus{ItemStatusOK, ItemStatusWaiting},
			expected: DeliveryStatusConditional,
		},
		"blocked wins over waiting": {
			statuses: []ItemStatus{ItemStatusOK, ItemStatusBlocked, ItemStatusWaiting},
			expected: DeliveryStatusBlocked,
		},
		"excluded does not elevate": {
			statuses: []ItemStatus{ItemStatusExcluded, ItemStatusOK},
			expected: DeliveryStatusReady,
		},
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, testCase.expected, ComputeDeliveryStatus(testCase.statuses))
		})
	}
}
