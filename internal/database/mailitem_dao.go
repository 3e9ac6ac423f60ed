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

package database

import (
	"context"

	"github.com/krzysztof-prog/markbud/internal/models"
)

// MailItemDao is a data access object for all mail item related queries.
type MailItemDao interface {
	// Insert inserts a new mail item and fills in its id.
	Insert(context.Context, Queryer, *models.MailItemEntity) error
	// Update updates an existing mail item.
	Update(context.Context, Queryer, *models.MailItemEntity) error
	// FindByID returns a mail item regardless of its tombstone, so corrective
	// actions can restore deleted items.
	FindByID(context.Context, Queryer, int64) (*models.MailItemEntity, error)
	// FindByMailList returns all non-deleted items of a mail list in position order.
	FindByMailList(context.Context, Queryer, int64) ([]models.MailItemEntity, error)
}

// mailItemDao is the sqlite implementation of MailItemDao.
type mailItemDao struct{}

// NewMailItemDao creates a new MailItemDao.
func NewMailItemDao() MailItemDao {
	return mailItemDao{}
}

func (mailItemDao) Insert(ctx context.Context, q Queryer, item *models.MailItemEntity) error {
	const query = `
		insert into "mail_items" (
			"mail_list_id" ,
			"position" ,
			"project_number" ,
			"quantity" ,
			"raw_notes" ,
			"requires_mesh" ,
			"missing_file" ,
			"unconfirmed" ,
			"dimensions_unconfirmed" ,
			"drawing_unconfirmed" ,
			"exclude_from_production" ,
			"special_handle" ,
			"custom_color" ,
			"item_status" ,
			"order_id" ,
			"order_not_found" ,
			"deleted_at"
		) values (
			:mail_list_id ,
			:position ,
			:project_number ,
			:quantity ,
			:raw_notes ,
			:requires_mesh ,
			:missing_file ,
			:unconfirmed ,
			:dimensions_unconfirmed ,
			:drawing_unconfirmed ,
			:exclude_from_production ,
			:special_handle ,
			:custom_color ,
			:item_status ,
			:order_id ,
			:order_not_found ,
			:deleted_at
		) ;
	`

	result, err := execNamed(ctx, q, query, item)
	if err != nil {
		return err
	}

	item.ID, err = result.LastInsertId()
	return err
}

func (mailItemDao) Update(ctx context.Context, q Queryer, item *models.MailItemEntity) error {
	const query = `
		update "mail_items"
		set "position"                = :position ,
			"quantity"                = :quantity ,
			"raw_notes"               = :raw_notes ,
			"requires_mesh"           = :requires_mesh ,
			"missing_file"            = :missing_file ,
			"unconfirmed"             = :unconfirmed ,
			"dimensions_unconfirmed"  = :dimensions_unconfirmed ,
			"drawing_unconfirmed"     = :drawing_unconfirmed ,
			"exclude_from_production" = :exclude_from_production ,
			"special_handle"          = :special_handle ,
			"custom_color"            = :custom_color ,
			"item_status"             = :item_status ,
			"order_id"                = :order_id ,
			"order_not_found"         = :order_not_found ,
			"deleted_at"              = :deleted_at
		where "id" = :id ;
	`

	result, err := execNamed(ctx, q, query, item)
	if err != nil {
		return err
	}

	return ensureRowsAffected(result)
}

func (mailItemDao) FindByID(ctx context.Context, q Queryer, id int64) (*models.MailItemEntity, error) {
	const query = `
		select *
		from "mail_items"
		where "id" = $1 ;
	`

	var item models.MailItemEntity

	if err := selectOne(ctx, q, &item, query, id); err != nil {
		return nil, err
	}

	return &item, nil
}

func (mailItemDao) FindByMailList(
	ctx context.Context,
	q Queryer,
	mailListID int64,
) ([]models.MailItemEntity, error) {
	const query = `
		select *
		from "mail_items"
		where "mail_list_id" = $1
		  and "deleted_at" is null
		order by "position" asc ;
	`

	var itemSlice []models.MailItemEntity

	if err := selectSlice(ctx, q, &itemSlice, query, mailListID); err != nil {
		return nil, err
	}

	return itemSlice, nil
}
