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

// DeliveryDao is a data access object for all delivery aggregate related queries.
type DeliveryDao interface {
	// Insert inserts a new delivery and fills in its id.
	Insert(context.Context, Queryer, *models.DeliveryEntity) error
	// FindByID returns one non-deleted delivery.
	FindByID(context.Context, Queryer, int64) (*models.DeliveryEntity, error)
	// FindByDay returns all non-deleted deliveries of a calendar day in
	// ascending creation order.
	FindByDay(context.Context, Queryer, int64) ([]models.DeliveryEntity, error)
	// UpdateStatus stores a recalculated delivery status.
	UpdateStatus(context.Context, Queryer, int64, models.DeliveryStatus) error
	// AddOrder links an order to a delivery. Linking twice is not an error.
	AddOrder(context.Context, Queryer, int64, int64) error
}

// deliveryDao is the sqlite implementation of DeliveryDao.
type deliveryDao struct{}

// NewDeliveryDao creates a new DeliveryDao.
func NewDeliveryDao() DeliveryDao {
	return deliveryDao{}
}

func (deliveryDao) Insert(ctx context.Context, q Queryer, delivery *models.DeliveryEntity) error {
	const query = `
		insert into "deliveries" (
			"delivery_number" ,
			"delivery_day" ,
			"status" ,
			"created_at" ,
			"deleted_at"
		) values (
			:delivery_number ,
			:delivery_day ,
			:status ,
			:created_at ,
			:deleted_at
		) ;
	`

	result, err := execNamed(ctx, q, query, delivery)
	if err != nil {
		return err
	}

	delivery.ID, err = result.LastInsertId()
	return err
}

func (deliveryDao) FindByID(ctx context.Context, q Queryer, id int64) (*models.DeliveryEntity, error) {
	const query = `
		select *
		from "deliveries"
		where "id" = $1
		  and "deleted_at" is null ;
	`

	var delivery models.DeliveryEntity

	if err := selectOne(ctx, q, &delivery, query, id); err != nil {
		return nil, err
	}

	return &delivery, nil
}

func (deliveryDao) FindByDay(
	ctx context.Context,
	q Queryer,
	day int64,
) ([]models.DeliveryEntity, error) {
	const query = `
		select *
		from "deliveries"
		where "delivery_day" = $1
		  and "deleted_at" is null
		order by "created_at" asc, "id" asc ;
	`

	var deliverySlice []models.DeliveryEntity

	if err := selectSlice(ctx, q, &deliverySlice, query, day); err != nil {
		return nil, err
	}

	return deliverySlice, nil
}

func (deliveryDao) UpdateStatus(
	ctx context.Context,
	q Queryer,
	id int64,
	status models.DeliveryStatus,
) error {
	const query = `
		update "deliveries"
		set "status" = $1
		where "id" = $2
		  and "deleted_at" is null ;
	`

	result, err := execPositional(ctx, q, query, status, id)
	if err != nil {
		return err
	}

	return ensureRowsAffected(result)
}

func (deliveryDao) AddOrder(ctx context.Context, q Queryer, deliveryID, orderID int64) error {
	const query = `
		insert or ignore into "delivery_orders" (
			"delivery_id" ,
			"order_id"
		) values ( $1, $2 ) ;
	`

	_, err := execPositional(ctx, q, query, deliveryID, orderID)
	return err
}
