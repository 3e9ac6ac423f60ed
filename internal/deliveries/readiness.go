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

package deliveries

import (
	"context"
	"strconv"

	"github.com/krzysztof-prog/markbud/internal/database"
	"github.com/krzysztof-prog/markbud/internal/log"
	"github.com/krzysztof-prog/markbud/internal/models"
)

// Recalculator recomputes the aggregated status of a delivery after its items
// changed, either through a new stored version or a manual decision.
type Recalculator interface {
	RecalculateIfNeeded(ctx context.Context, deliveryID int64) error
}

type recalculator struct {
	conn        database.Conn
	mailListDao database.MailListDao
	mailItemDao database.MailItemDao
	deliveryDao database.DeliveryDao
}

// NewRecalculator creates a new Recalculator.
func NewRecalculator(
	conn database.Conn,
	mailListDao database.MailListDao,
	mailItemDao database.MailItemDao,
	deliveryDao database.DeliveryDao,
) Recalculator {
	return &recalculator{
		conn:        conn,
		mailListDao: mailListDao,
		mailItemDao: mailItemDao,
		deliveryDao: deliveryDao,
	}
}

// RecalculateIfNeeded recomputes the delivery status from the items of the
// latest version of every linked delivery code and persists it when it
// actually changed.
func (r *recalculator) RecalculateIfNeeded(ctx context.Context, deliveryID int64) error {
	delivery, err := r.deliveryDao.FindByID(ctx, r.conn, deliveryID)
	if err != nil {
		if database.IsErrNoRows(err) {
			return models.NotFoundError{Entity: "delivery", Key: formatID(deliveryID)}
		}

		return err
	}

	mailLists, err := r.mailListDao.FindByDelivery(ctx, r.conn, deliveryID)
	if err != nil {
		return err
	}

	var statuses []models.ItemStatus

	for _, mailList := range mailLists {
		items, err := r.mailItemDao.FindByMailList(ctx, r.conn, mailList.ID)
		if err != nil {
			return err
		}

		for _, item := range items {
			statuses = append(statuses, item.ItemStatus)
		}
	}

	status := models.ComputeDeliveryStatus(statuses)
	if status == delivery.Status {
		return nil
	}

	log.InfoContext(ctx).
		Int64("delivery", deliveryID).
		Str("from", string(delivery.Status)).
		Str("to", string(status)).
		Msg("delivery status changed")

	return r.deliveryDao.UpdateStatus(ctx, r.conn, deliveryID, status)
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
