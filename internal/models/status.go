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

// ItemStatus is the production status of a single mail item.
type ItemStatus string

const (
	// ItemStatusOK is an item without blocking annotations.
	ItemStatusOK ItemStatus = "ok"
	// ItemStatusBlocked is an item that cannot go into production yet.
	ItemStatusBlocked ItemStatus = "blocked"
	// ItemStatusWaiting is an item waiting for a mesh.
	ItemStatusWaiting ItemStatus = "waiting"
	// ItemStatusExcluded is an item withdrawn from production.
	ItemStatusExcluded ItemStatus = "excluded"
)

// DeliveryStatus is the aggregated status of all items of a delivery.
type DeliveryStatus string

const (
	// DeliveryStatusReady is a delivery with no blocking or waiting items.
	DeliveryStatusReady DeliveryStatus = "ready"
	// DeliveryStatusConditional is a delivery with waiting, but no blocked items.
	DeliveryStatusConditional DeliveryStatus = "conditional"
	// DeliveryStatusBlocked is a delivery with at least one blocked item.
	DeliveryStatusBlocked DeliveryStatus = "blocked"
)

// blockingFlags are the flags that put an item on hold until the partner resolves them.
const blockingFlags = FlagSet(FlagMissingFile) |
	FlagSet(FlagUnconfirmed) |
	FlagSet(FlagDimensionsUnconfirmed) |
	FlagSet(FlagDrawingUnconfirmed)

// ComputeItemStatus maps a flag set to an item status. Exclusion beats blocking,
// blocking beats waiting, waiting beats ok.
func ComputeItemStatus(flags FlagSet) ItemStatus {
	switch {
	case flags.Has(FlagExcludeFromProduction):
		return ItemStatusExcluded
	case flags.HasAny(blockingFlags):
		return ItemStatusBlocked
	case flags.Has(FlagRequiresMesh):
		return ItemStatusWaiting
	default:
		return ItemStatusOK
	}
}

// ComputeDeliveryStatus maps the statuses of all items of a delivery to the
// delivery status. Excluded items do not elevate the delivery on their own.
func ComputeDeliveryStatus(statuses []ItemStatus) DeliveryStatus {
	delivery := DeliveryStatusReady

	for _, status := range statuses {
		switch status {
		case ItemStatusBlocked:
			return DeliveryStatusBlocked
		case ItemStatusWaiting:
			delivery = DeliveryStatusConditional
		}
	}

	return delivery
}
