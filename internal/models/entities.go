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
	"database/sql"
)

// MailListEntity is the entity for the "mail_lists" table. One row is one
// immutable version of a delivery batch parsed from a partner mail.
type MailListEntity struct {
	ID            int64          `db:"id"`
	DeliveryCode  string         `db:"delivery_code"`
	DeliveryDay   int64          `db:"delivery_day"`
	DeliveryIndex int            `db:"delivery_index"`
	Version       int            `db:"version"`
	IsUpdate      bool           `db:"is_update"`
	ClientLabel   sql.NullString `db:"client_label"`
	RawMail       string         `db:"raw_mail"`
	ArchiveID     sql.NullString `db:"archive_id"`
	DeliveryID    sql.NullInt64  `db:"delivery_id"`
	CreatedAt     int64          `db:"created_at"`
	DeletedAt     sql.NullInt64  `db:"deleted_at"`
}

// IsDeleted checks whether the mail list carries a tombstone.
func (m *MailListEntity) IsDeleted() bool {
	return m.DeletedAt.Valid
}

// MailItemEntity is the entity for the "mail_items" table. Flags are flattened
// into one column each.
type MailItemEntity struct {
	ID                    int64          `db:"id"`
	MailListID            int64          `db:"mail_list_id"`
	Position              int            `db:"position"`
	ProjectNumber         string         `db:"project_number"`
	Quantity              int            `db:"quantity"`
	RawNotes              string         `db:"raw_notes"`
	RequiresMesh          bool           `db:"requires_mesh"`
	MissingFile           bool           `db:"missing_file"`
	Unconfirmed           bool           `db:"unconfirmed"`
	DimensionsUnconfirmed bool           `db:"dimensions_unconfirmed"`
	DrawingUnconfirmed    bool           `db:"drawing_unconfirmed"`
	ExcludeFromProduction bool           `db:"exclude_from_production"`
	SpecialHandle         bool           `db:"special_handle"`
	CustomColor           sql.NullString `db:"custom_color"`
	ItemStatus            ItemStatus     `db:"item_status"`
	OrderID               sql.NullInt64  `db:"order_id"`
	OrderNotFound         bool           `db:"order_not_found"`
	DeletedAt             sql.NullInt64  `db:"deleted_at"`
}

// IsDeleted checks whether the item carries a tombstone.
func (m *MailItemEntity) IsDeleted() bool {
	return m.DeletedAt.Valid
}

// Flags reassembles the flag set from the flattened columns.
func (m *MailItemEntity) Flags() FlagSet {
	var flags FlagSet

	for flag, present := range map[ItemFlag]bool{
		FlagRequiresMesh:          m.RequiresMesh,
		FlagMissingFile:           m.MissingFile,
		FlagUnconfirmed:           m.Unconfirmed,
		FlagDimensionsUnconfirmed: m.DimensionsUnconfirmed,
		FlagDrawingUnconfirmed:    m.DrawingUnconfirmed,
		FlagExcludeFromProduction: m.ExcludeFromProduction,
		FlagSpecialHandle:         m.SpecialHandle,
		FlagCustomColor:           m.CustomColor.Valid,
	} {
		if present {
			flags = flags.With(flag)
		}
	}

	return flags
}

// SetFlags flattens a flag set into the boolean columns and recomputes the
// item status.
func (m *MailItemEntity) SetFlags(flags FlagSet) {
	m.RequiresMesh = flags.Has(FlagRequiresMesh)
	m.MissingFile = flags.Has(FlagMissingFile)
	m.Unconfirmed = flags.Has(FlagUnconfirmed)
	m.DimensionsUnconfirmed = flags.Has(FlagDimensionsUnconfirmed)
	m.DrawingUnconfirmed = flags.Has(FlagDrawingUnconfirmed)
	m.ExcludeFromProduction = flags.Has(FlagExcludeFromProduction)
	m.SpecialHandle = flags.Has(FlagSpecialHandle)

	if !flags.Has(FlagCustomColor) {
		m.CustomColor = sql.NullString{}
	}

	m.ItemStatus = ComputeItemStatus(flags)
}

// OrderEntity is the entity for the "orders" table. The project column may
// bundle several project numbers separated by commas.
type OrderEntity struct {
	ID           int64  `db:"id"`
	OrderNumber  string `db:"order_number"`
	Client       string `db:"client"`
	Project      string `db:"project"`
	Status       string `db:"status"`
	DeliveryDate int64  `db:"delivery_date"`
}

// DeliveryEntity is the entity for the "deliveries" table.
type DeliveryEntity struct {
	ID             int64          `db:"id"`
	DeliveryNumber string         `db:"delivery_number"`
	DeliveryDay    int64          `db:"delivery_day"`
	Status         DeliveryStatus `db:"status"`
	CreatedAt      int64          `db:"created_at"`
	DeletedAt      sql.NullInt64  `db:"deleted_at"`
}

// IsDeleted checks whether the delivery carries a tombstone.
func (d *DeliveryEntity) IsDeleted() bool {
	return d.DeletedAt.Valid
}

// DecisionEntity is the entity for the "decisions" audit table. Every manual
// corrective action appends one row.
type DecisionEntity struct {
	ID         int64  `db:"id"`
	EntityType string `db:"entity_type"`
	EntityID   int64  `db:"entity_id"`
	Action     string `db:"action"`
	Actor      string `db:"actor"`
	Metadata   string `db:"metadata"`
	CreatedAt  int64  `db:"created_at"`
}
