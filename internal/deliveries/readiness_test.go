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
	"fmt"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/suite"

	"github.com/krzysztof-prog/markbud/internal/database"
	"github.com/krzysztof-prog/markbud/internal/models"
)

func TestRecalculatorTestSuite(t *testing.T) {
	suite.Run(t, new(RecalculatorTestSuite))
}

type RecalculatorTestSuite struct {
	suite.Suite

	ctx          context.Context
	conn         database.Conn
	mailListDao  database.MailListDao
	mailItemDao  database.MailItemDao
	deliveryDao  database.DeliveryDao
	recalculator Recalculator
}

func (s *RecalculatorTestSuite) SetupTest() {
	viper.Set("storage.database.filename", ":memory:")
	viper.Set("storage.database.journalmode", "memory")

	conn, err := database.OpenConnection()
	s.Require().NoError(err)

	s.ctx = context.Background()
	s.conn = conn
	s.mailListDao = database.NewMailListDao()
	s.mailItemDao = database.NewMailItemDao()
	s.deliveryDao = database.NewDeliveryDao()
	s.recalculator = NewRecalculator(conn, s.mailListDao, s.mailItemDao, s.deliveryDao)
}

func (s *RecalculatorTestSuite) TearDownTest() {
	s.Require().NoError(s.conn.Close())
}

func (s *RecalculatorTestSuite) seedDelivery(statuses ...models.ItemStatus) int64 {
	delivery := models.DeliveryEntity{
		DeliveryNumber: "15.06.2026_I",
		DeliveryDay:    1750000000,
		Status:         models.DeliveryStatusReady,
		CreatedAt:      1750000000,
	}

	s.Require().NoError(s.deliveryDao.Insert(s.ctx, s.conn, &delivery))

	mailList := models.MailListEntity{
		DeliveryCode:  "15.06.2026_I",
		DeliveryDay:   1750000000,
		DeliveryIndex: 1,
		Version:       1,
		RawMail:       "raw",
		CreatedAt:     1750000000,
	}

	s.Require().NoError(s.mailListDao.Insert(s.ctx, s.conn, &mailList))
	s.Require().NoError(s.mailListDao.LinkDelivery(s.ctx, s.conn, mailList.ID, delivery.ID))

	for i, status := range statuses {
		s.Require().NoError(s.mailItemDao.Insert(s.ctx, s.conn, &models.MailItemEntity{
			MailListID:    mailList.ID,
			Position:      i + 1,
			ProjectNumber: fmt.Sprintf("D%d", 1001+i),
			Quantity:      1,
			ItemStatus:    status,
		}))
	}

	return delivery.ID
}

func (s *RecalculatorTestSuite) assertStatus(deliveryID int64, expected models.DeliveryStatus) {
	delivery, err := s.deliveryDao.FindByID(s.ctx, s.conn, deliveryID)
	s.Require().NoError(err)
	s.Assert().Equal(expected, delivery.Status)
}

func (s *RecalculatorTestSuite) TestBlockedItemBlocksDelivery() {
	id := s.seedDelivery(models.ItemStatusOK, models.ItemStatusBlocked)

	s.Require().NoError(s.recalculator.RecalculateIfNeeded(s.ctx, id))
	s.assertStatus(id, models.DeliveryStatusBlocked)
}

func (s *RecalculatorTestSuite) TestWaitingItemMakesDeliveryConditional() {
	id := s.seedDelivery(models.ItemStatusOK, models.ItemStatusWaiting)

	s.Require().NoError(s.recalculator.RecalculateIfNeeded(s.ctx, id))
	s.assertStatus(id, models.DeliveryStatusConditional)
}

func (s *RecalculatorTestSuite) TestExcludedItemsDoNotElevate() {
	id := s.seedDelivery(models.ItemStatusOK, models.ItemStatusExcluded)

	s.Require().NoError(s.recalculator.RecalculateIfNeeded(s.ctx, id))
	s.assertStatus(id, models.DeliveryStatusReady)
}

func (s *RecalculatorTestSuite) TestUnchangedStatusIsNotRewritten() {
	id := s.seedDelivery(models.ItemStatusOK)

	s.Require().NoError(s.recalculator.RecalculateIfNeeded(s.ctx, id))
	s.assertStatus(id, models.DeliveryStatusReady)
}

func (s *RecalculatorTestSuite) TestMissingDelivery() {
	err := s.recalculator.RecalculateIfNeeded(s.ctx, 999)
	s.Assert().True(models.IsNotFoundError(err))
}
