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

// Package deliveries maintains the delivery aggregates that group stored mail
// list versions and linked production orders per calendar day.
package deliveries

import (
	"context"
	"time"

	"github.com/krzysztof-prog/markbud/internal/database"
	"github.com/krzysztof-prog/markbud/internal/dates"
	"github.com/krzysztof-prog/markbud/internal/log"
	"github.com/krzysztof-prog/markbud/internal/models"
)

// Resolver finds or creates the delivery aggregate behind a delivery code and
// links mail list versions to it.
type Resolver struct {
	conn        database.Conn
	mailListDao database.MailListDao
	deliveryDao database.DeliveryDao
	clock       func() time.Time
}

// NewResolver creates a new Resolver.
func NewResolver(
	conn database.Conn,
	mailListDao database.MailListDao,
	deliveryDao database.DeliveryDao,
) *Resolver {
	return &Resolver{
		conn:        conn,
		mailListDao: mailListDao,
		deliveryDao: deliveryDao,
		clock:       time.Now,
	}
}

// Resolve links a stored mail list to its delivery aggregate. An earlier
// version of the same delivery code wins first, then the ordinal position
// among the existing deliveries of the same day, and only if neither exists a
// new delivery is created.
func (r *Resolver) Resolve(
	ctx context.Context,
	mailListID int64,
	rawCode string,
) (*models.DeliveryEntity, error) {
	ctx = log.WithDeliveryCode(ctx, rawCode)

	location, err := dates.Location()
	if err != nil {
		return nil, err
	}

	code, err := models.ParseDeliveryCode(rawCode, location)
	if err != nil {
		return nil, err
	}

	delivery, err := r.findExisting(ctx, rawCode, code)
	if err != nil {
		return nil, err
	}

	if delivery == nil {
		delivery = &models.DeliveryEntity{
			DeliveryNumber: rawCode,
			DeliveryDay:    code.Day.Unix(),
			Status:         models.DeliveryStatusReady,
			CreatedAt:      r.clock().Unix(),
		}

		if err := r.deliveryDao.Insert(ctx, r.conn, delivery); err != nil {
			return nil, err
		}

		log.InfoContext(ctx).
			Int64("delivery", delivery.ID).
			Msg("created delivery")
	}

	if err := r.mailListDao.LinkDelivery(ctx, r.conn, mailListID, delivery.ID); err != nil {
		return nil, err
	}

	return delivery, nil
}

// findExisting looks for a delivery to reuse. Older versions of the same code
// point at the right delivery directly; otherwise the ordinal index of the
// code selects among the deliveries already present on that day.
func (r *Resolver) findExisting(
	ctx context.Context,
	rawCode string,
	code models.DeliveryCode,
) (*models.DeliveryEntity, error) {
	linked, err := r.findLinked(ctx, rawCode)
	if err != nil || linked != nil {
		return linked, err
	}

	sameDay, err := r.deliveryDao.FindByDay(ctx, r.conn, code.Day.Unix())
	if err != nil {
		return nil, err
	}

	if code.Index <= len(sameDay) {
		return &sameDay[code.Index-1], nil
	}

	return nil, nil
}

func (r *Resolver) findLinked(
	ctx context.Context,
	rawCode string,
) (*models.DeliveryEntity, error) {
	versions, err := r.mailListDao.FindVersions(ctx, r.conn, rawCode)
	if err != nil {
		return nil, err
	}

	for i := len(versions) - 1; i >= 0; i-- {
		if !versions[i].DeliveryID.Valid {
			continue
		}

		delivery, err := r.deliveryDao.FindByID(ctx, r.conn, versions[i].DeliveryID.Int64)
		if database.IsErrNoRows(err) {
			// The linked delivery was deleted in the meantime.
			continue
		}

		if err != nil {
			return nil, err
		}

		return delivery, nil
	}

	return nil, nil
}

// AddOrder links a production order to a delivery. Linking the same order
// twice is not an error.
func (r *Resolver) AddOrder(ctx context.Context, deliveryID, orderID int64) error {
	if _, err := r.deliveryDao.FindByID(ctx, r.conn, deliveryID); err != nil {
		if database.IsErrNoRows(err) {
			return models.NotFoundError{Entity: "delivery", Key: formatID(deliveryID)}
		}

		return err
	}

	return r.deliveryDao.AddOrder(ctx, r.conn, deliveryID, orderID)
}
