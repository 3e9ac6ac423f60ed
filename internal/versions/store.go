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

// Package versions persists parsed mails as immutable, monotonically numbered
// versions per delivery code and computes diffs between them.
package versions

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/krzysztof-prog/markbud/internal/database"
	"github.com/krzysztof-prog/markbud/internal/dates"
	"github.com/krzysztof-prog/markbud/internal/enrichment"
	"github.com/krzysztof-prog/markbud/internal/log"
	"github.com/krzysztof-prog/markbud/internal/models"
	"github.com/krzysztof-prog/markbud/internal/parser"
)

// SavedMail is one stored version of a delivery code together with its items.
type SavedMail struct {
	MailList models.MailListEntity
	Items    []models.MailItemEntity
}

// Store writes parsed mails to the database. Writes to the same delivery code
// are serialized with a per-code lock; the unique (delivery_code, version)
// index backs the lock up in case another process writes concurrently, in
// which case the insert is retried once with a fresh version number.
type Store struct {
	conn        database.Conn
	mailListDao database.MailListDao
	mailItemDao database.MailItemDao
	locks       *locks
	clock       func() time.Time
}

// NewStore creates a new Store.
func NewStore(
	conn database.Conn,
	mailListDao database.MailListDao,
	mailItemDao database.MailItemDao,
) *Store {
	return &Store{
		conn:        conn,
		mailListDao: mailListDao,
		mailItemDao: mailItemDao,
		locks:       newLocks(),
		clock:       time.Now,
	}
}

// Save stores every delivery of a parsed mail as a new version. Deliveries
// without a delivery code are skipped with a log entry, because no version
// chain can exist without a code. If the mail contains no storable delivery
// at all, a ValidationError is returned instead.
func (s *Store) Save(
	ctx context.Context,
	mail *parser.ParsedMail,
	matches *enrichment.Enrichment,
	rawMail string,
	archiveID string,
) ([]SavedMail, error) {
	location, err := dates.Location()
	if err != nil {
		return nil, err
	}

	var saved []SavedMail

	for _, delivery := range mail.Deliveries {
		if delivery.DeliveryCode == "" {
			log.WarnContext(ctx).
				Int("deliveryIndex", delivery.DeliveryIndex).
				Msg("skipping delivery without a delivery code")

			continue
		}

		code, err := models.ParseDeliveryCode(delivery.DeliveryCode, location)
		if err != nil {
			return nil, err
		}

		one, err := s.saveDelivery(ctx, mail, &delivery, code, matches, rawMail, archiveID)
		if err != nil {
			return nil, err
		}

		saved = append(saved, *one)
	}

	if len(saved) == 0 {
		return nil, models.ValidationError{
			Field:  "deliveryCode",
			Reason: "mail contains no delivery with a delivery code",
		}
	}

	return saved, nil
}

func (s *Store) saveDelivery(
	ctx context.Context,
	mail *parser.ParsedMail,
	delivery *parser.ParsedDelivery,
	code models.DeliveryCode,
	matches *enrichment.Enrichment,
	rawMail string,
	archiveID string,
) (*SavedMail, error) {
	ctx = log.WithDeliveryCode(ctx, delivery.DeliveryCode)

	s.locks.acquire(delivery.DeliveryCode)
	defer s.locks.release(delivery.DeliveryCode)

	saved, err := s.insertVersion(ctx, mail, delivery, code, matches, rawMail, archiveID)
	if database.IsErrUnique(err) {
		log.WarnContext(ctx).Msg("version collided with a concurrent write, retrying")
		saved, err = s.insertVersion(ctx, mail, delivery, code, matches, rawMail, archiveID)
	}

	if err != nil {
		return nil, fmt.Errorf("could not store version of %q: %w", delivery.DeliveryCode, err)
	}

	log.InfoContext(ctx).
		Int("version", saved.MailList.Version).
		Int("items", len(saved.Items)).
		Msg("stored mail list version")

	return saved, nil
}

func (s *Store) insertVersion(
	ctx context.Context,
	mail *parser.ParsedMail,
	delivery *parser.ParsedDelivery,
	code models.DeliveryCode,
	matches *enrichment.Enrichment,
	rawMail string,
	archiveID string,
) (*SavedMail, error) {
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return nil, err
	}

	defer tx.Rollback()

	version, err := s.mailListDao.FindMaxVersion(ctx, tx, delivery.DeliveryCode)
	if err != nil {
		return nil, err
	}

	mailList := models.MailListEntity{
		DeliveryCode:  delivery.DeliveryCode,
		DeliveryDay:   code.Day.Unix(),
		DeliveryIndex: code.Index,
		Version:       version + 1,
		IsUpdate:      mail.IsUpdate,
		RawMail:       rawMail,
		CreatedAt:     s.clock().Unix(),
	}

	if delivery.ClientLabel != "" {
		mailList.ClientLabel = sql.NullString{String: delivery.ClientLabel, Valid: true}
	}

	if archiveID != "" {
		mailList.ArchiveID = sql.NullString{String: archiveID, Valid: true}
	}

	if err := s.mailListDao.Insert(ctx, tx, &mailList); err != nil {
		return nil, err
	}

	saved := SavedMail{MailList: mailList}

	for _, item := range delivery.Items {
		entity := buildItemEntity(mailList.ID, item, matches)

		if err := s.mailItemDao.Insert(ctx, tx, entity); err != nil {
			return nil, err
		}

		saved.Items = append(saved.Items, *entity)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &saved, nil
}

func buildItemEntity(
	mailListID int64,
	item parser.ParsedItem,
	matches *enrichment.Enrichment,
) *models.MailItemEntity {
	entity := models.MailItemEntity{
		MailListID:    mailListID,
		Position:      item.Position,
		ProjectNumber: item.ProjectNumber,
		Quantity:      item.Quantity,
		RawNotes:      item.RawNotes,
	}

	if item.CustomColor != "" {
		entity.CustomColor = sql.NullString{String: item.CustomColor, Valid: true}
	}

	entity.SetFlags(item.Flags)

	if matches != nil {
		if match, ok := matches.MatchFor(item.ProjectNumber); ok {
			entity.OrderID = sql.NullInt64{Int64: match.Order.ID, Valid: true}
		} else {
			entity.OrderNotFound = true
		}
	}

	return &entity
}
