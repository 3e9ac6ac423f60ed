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

package versions

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/krzysztof-prog/markbud/internal/database"
	"github.com/krzysztof-prog/markbud/internal/dates"
	"github.com/krzysztof-prog/markbud/internal/models"
)

// ItemRef identifies one diffed item, so a caller can navigate from a diff
// entry to the mail item it must act on. Matched orders are carried along;
// DateMismatch is set when the matched order is scheduled for a different
// calendar day than the delivery.
type ItemRef struct {
	ItemID        int64  `json:"itemId"`
	ProjectNumber string `json:"projectNumber"`
	OrderNumber   string `json:"orderNumber,omitempty"`
	DateMismatch  string `json:"dateMismatch,omitempty"`
}

// Change is one field of one item that differs between two versions.
type Change struct {
	ItemRef

	Field string `json:"field"`
	From  string `json:"from"`
	To    string `json:"to"`
}

// Diff describes what happened to a delivery code between two versions. Items
// are keyed by project number; an item present in both versions with differing
// fields produces one Change per field.
type Diff struct {
	DeliveryCode string    `json:"deliveryCode"`
	FromVersion  int       `json:"fromVersion"`
	ToVersion    int       `json:"toVersion"`
	Added        []ItemRef `json:"added"`
	Removed      []ItemRef `json:"removed"`
	Changed      []Change  `json:"changed"`
	Warnings     []string  `json:"warnings"`
}

// Engine computes diffs between stored versions of a delivery code.
type Engine struct {
	conn        database.Conn
	mailListDao database.MailListDao
	mailItemDao database.MailItemDao
	orderDao    database.OrderDao
}

// NewEngine creates a new Engine.
func NewEngine(
	conn database.Conn,
	mailListDao database.MailListDao,
	mailItemDao database.MailItemDao,
	orderDao database.OrderDao,
) *Engine {
	return &Engine{
		conn:        conn,
		mailListDao: mailListDao,
		mailItemDao: mailItemDao,
		orderDao:    orderDao,
	}
}

// Diff compares two versions of a delivery code. Added and changed items whose
// matched order is scheduled for a different calendar day than the delivery
// produce a warning, because the partner may have moved an item between days
// without moving the order.
func (e *Engine) Diff(ctx context.Context, code string, fromVersion, toVersion int) (*Diff, error) {
	_, fromItems, err := e.loadVersion(ctx, code, fromVersion)
	if err != nil {
		return nil, err
	}

	to, toItems, err := e.loadVersion(ctx, code, toVersion)
	if err != nil {
		return nil, err
	}

	diff := Diff{
		DeliveryCode: code,
		FromVersion:  fromVersion,
		ToVersion:    toVersion,
	}

	fromByProject := itemsByProject(fromItems)
	toByProject := itemsByProject(toItems)

	for _, item := range toItems {
		before, ok := fromByProject[projectKey(item.ProjectNumber)]
		if !ok {
			ref, err := e.describeItem(ctx, &diff, &item, to)
			if err != nil {
				return nil, err
			}

			diff.Added = append(diff.Added, ref)
			continue
		}

		changes := compareItems(before, &item)
		if len(changes) == 0 {
			continue
		}

		ref, err := e.describeItem(ctx, &diff, &item, to)
		if err != nil {
			return nil, err
		}

		for i := range changes {
			changes[i].ItemRef = ref
		}

		diff.Changed = append(diff.Changed, changes...)
	}

	for _, item := range fromItems {
		if _, ok := toByProject[projectKey(item.ProjectNumber)]; !ok {
			// No date check for removed items, they are no longer planned.
			ref, err := e.describeItem(ctx, &diff, &item, nil)
			if err != nil {
				return nil, err
			}

			diff.Removed = append(diff.Removed, ref)
		}
	}

	return &diff, nil
}

func (e *Engine) loadVersion(
	ctx context.Context,
	code string,
	version int,
) (*models.MailListEntity, []models.MailItemEntity, error) {
	mailList, err := e.mailListDao.FindByCodeAndVersion(ctx, e.conn, code, version)
	if database.IsErrNoRows(err) {
		return nil, nil, models.NotFoundError{
			Entity: "mail list version",
			Key:    fmt.Sprintf("%s v%d", code, version),
		}
	}

	if err != nil {
		return nil, nil, err
	}

	items, err := e.mailItemDao.FindByMailList(ctx, e.conn, mailList.ID)
	if err != nil {
		return nil, nil, err
	}

	return mailList, items, nil
}

// describeItem builds the diff entry of one item. When the containing version
// is given and the matched order is scheduled for a different calendar day
// than the delivery, the mismatch is annotated on the entry and additionally
// surfaced as a diff warning.
func (e *Engine) describeItem(
	ctx context.Context,
	diff *Diff,
	item *models.MailItemEntity,
	mailList *models.MailListEntity,
) (ItemRef, error) {
	ref := ItemRef{
		ItemID:        item.ID,
		ProjectNumber: item.ProjectNumber,
	}

	if !item.OrderID.Valid {
		return ref, nil
	}

	order, err := e.orderDao.FindByID(ctx, e.conn, item.OrderID.Int64)
	if err != nil {
		return ref, err
	}

	ref.OrderNumber = order.OrderNumber

	if mailList == nil {
		return ref, nil
	}

	location, err := dates.Location()
	if err != nil {
		return ref, err
	}

	orderDay := dates.FromUnixDay(order.DeliveryDate, location)
	deliveryDay := dates.FromUnixDay(mailList.DeliveryDay, location)

	if !dates.SameDay(orderDay, deliveryDay, location) {
		ref.DateMismatch = fmt.Sprintf(
			"order %s for project %s is scheduled for %s, not %s",
			order.OrderNumber, item.ProjectNumber,
			dates.FormatISO(orderDay), dates.FormatISO(deliveryDay))

		diff.Warnings = append(diff.Warnings, ref.DateMismatch)
	}

	return ref, nil
}

func compareItems(before, after *models.MailItemEntity) []Change {
	var changes []Change

	if before.Quantity != after.Quantity {
		changes = append(changes, Change{
			Field: "quantity",
			From:  strconv.Itoa(before.Quantity),
			To:    strconv.Itoa(after.Quantity),
		})
	}

	if before.ItemStatus != after.ItemStatus {
		changes = append(changes, Change{
			Field: "status",
			From:  string(before.ItemStatus),
			To:    string(after.ItemStatus),
		})
	}

	if before.CustomColor.String != after.CustomColor.String {
		changes = append(changes, Change{
			Field: "color",
			From:  before.CustomColor.String,
			To:    after.CustomColor.String,
		})
	}

	return changes
}

func itemsByProject(items []models.MailItemEntity) map[string]*models.MailItemEntity {
	byProject := make(map[string]*models.MailItemEntity, len(items))

	for i := range items {
		byProject[projectKey(items[i].ProjectNumber)] = &items[i]
	}

	return byProject
}

func projectKey(number string) string {
	return strings.ToUpper(number)
}
