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

// Package decisions applies manual operator corrections to stored mail items.
// Every correction mutates the item and appends an audit row in the same
// transaction, so the log can never disagree with the data.
package decisions

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/krzysztof-prog/markbud/internal/database"
	"github.com/krzysztof-prog/markbud/internal/deliveries"
	"github.com/krzysztof-prog/markbud/internal/log"
	"github.com/krzysztof-prog/markbud/internal/models"
)

// Action names as persisted in the audit log.
const (
	ActionRemoveItem   = "remove_item"
	ActionRestoreItem  = "restore_item"
	ActionRejectItem   = "reject_item"
	ActionConfirmItem  = "confirm_item"
	ActionAcceptChange = "accept_change"
)

const entityTypeMailItem = "mail_item"

// Service applies operator decisions to mail items.
type Service struct {
	conn         database.Conn
	mailListDao  database.MailListDao
	mailItemDao  database.MailItemDao
	decisionDao  database.DecisionDao
	recalculator deliveries.Recalculator
	clock        func() time.Time
}

// NewService creates a new Service.
func NewService(
	conn database.Conn,
	mailListDao database.MailListDao,
	mailItemDao database.MailItemDao,
	decisionDao database.DecisionDao,
	recalculator deliveries.Recalculator,
) *Service {
	return &Service{
		conn:         conn,
		mailListDao:  mailListDao,
		mailItemDao:  mailItemDao,
		decisionDao:  decisionDao,
		recalculator: recalculator,
		clock:        time.Now,
	}
}

// RemoveItem marks an item as deleted without destroying it, so it can still
// be restored and still appears in the audit trail.
func (s *Service) RemoveItem(ctx context.Context, itemID int64, actor string) error {
	return s.apply(ctx, itemID, actor, ActionRemoveItem, func(item *models.MailItemEntity) error {
		if item.IsDeleted() {
			return models.ValidationError{Field: "item", Reason: "item is already removed"}
		}

		item.DeletedAt.Int64 = s.clock().Unix()
		item.DeletedAt.Valid = true
		return nil
	})
}

// RestoreItem clears the tombstone of a removed item.
func (s *Service) RestoreItem(ctx context.Context, itemID int64, actor string) error {
	return s.apply(ctx, itemID, actor, ActionRestoreItem, func(item *models.MailItemEntity) error {
		if !item.IsDeleted() {
			return models.ValidationError{Field: "item", Reason: "item is not removed"}
		}

		item.DeletedAt.Int64 = 0
		item.DeletedAt.Valid = false
		return nil
	})
}

// RejectItem withdraws an item from production.
func (s *Service) RejectItem(ctx context.Context, itemID int64, actor string) error {
	return s.apply(ctx, itemID, actor, ActionRejectItem, func(item *models.MailItemEntity) error {
		item.SetFlags(item.Flags().With(models.FlagExcludeFromProduction))
		return nil
	})
}

// ConfirmItem clears the whole unconfirmed flag family on behalf of the
// partner and recomputes the item status.
func (s *Service) ConfirmItem(ctx context.Context, itemID int64, actor string) error {
	return s.apply(ctx, itemID, actor, ActionConfirmItem, func(item *models.MailItemEntity) error {
		item.SetFlags(item.Flags().
			Without(models.FlagUnconfirmed).
			Without(models.FlagDimensionsUnconfirmed).
			Without(models.FlagDrawingUnconfirmed))

		return nil
	})
}

// AcceptChange records that the operator has seen and accepted a diff change
// for an item. The item itself is not modified.
func (s *Service) AcceptChange(ctx context.Context, itemID int64, actor string) error {
	return s.apply(ctx, itemID, actor, ActionAcceptChange, nil)
}

// apply runs one decision: load the item, mutate it, persist item and audit
// row in a single transaction and recalculate the delivery afterwards.
func (s *Service) apply(
	ctx context.Context,
	itemID int64,
	actor string,
	action string,
	mutate func(*models.MailItemEntity) error,
) error {
	ctx = log.WithActor(ctx, actor)

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return err
	}

	defer tx.Rollback()

	item, err := s.mailItemDao.FindByID(ctx, tx, itemID)
	if err != nil {
		if database.IsErrNoRows(err) {
			return models.NotFoundError{Entity: "mail item", Key: strconv.FormatInt(itemID, 10)}
		}

		return err
	}

	if mutate != nil {
		if err := mutate(item); err != nil {
			return err
		}

		if err := s.mailItemDao.Update(ctx, tx, item); err != nil {
			return err
		}
	}

	decision := models.DecisionEntity{
		EntityType: entityTypeMailItem,
		EntityID:   itemID,
		Action:     action,
		Actor:      actor,
		Metadata:   itemMetadata(item),
		CreatedAt:  s.clock().Unix(),
	}

	if err := s.decisionDao.Insert(ctx, tx, &decision); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	log.InfoContext(ctx).
		Int64("item", itemID).
		Str("action", action).
		Msg("applied decision")

	return s.recalculate(ctx, item.MailListID)
}

// recalculate refreshes the delivery status if the item's mail list is linked
// to a delivery.
func (s *Service) recalculate(ctx context.Context, mailListID int64) error {
	mailList, err := s.mailListDao.FindByID(ctx, s.conn, mailListID)
	if err != nil {
		return err
	}

	if !mailList.DeliveryID.Valid {
		return nil
	}

	return s.recalculator.RecalculateIfNeeded(ctx, mailList.DeliveryID.Int64)
}

func itemMetadata(item *models.MailItemEntity) string {
	metadata, err := json.Marshal(map[string]string{
		"projectNumber": item.ProjectNumber,
		"status":        string(item.ItemStatus),
	})

	if err != nil {
		return fmt.Sprintf("{%q: %q}", "projectNumber", item.ProjectNumber)
	}

	return string(metadata)
}

// History returns the audit log of one item in the order the decisions were
// taken.
func (s *Service) History(ctx context.Context, itemID int64) ([]models.DecisionEntity, error) {
	return s.decisionDao.FindByEntity(ctx, s.conn, entityTypeMailItem, itemID)
}
