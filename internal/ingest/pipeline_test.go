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

package ingest

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/suite"

	"github.com/krzysztof-prog/markbud/internal/archive"
	"github.com/krzysztof-prog/markbud/internal/database"
	"github.com/krzysztof-prog/markbud/internal/dates"
	"github.com/krzysztof-prog/markbud/internal/deliveries"
	"github.com/krzysztof-prog/markbud/internal/enrichment"
	"github.com/krzysztof-prog/markbud/internal/models"
	"github.com/krzysztof-prog/markbud/internal/parser"
	"github.com/krzysztof-prog/markbud/internal/versions"
)

func TestPipelineTestSuite(t *testing.T) {
	suite.Run(t, new(PipelineTestSuite))
}

type PipelineTestSuite struct {
	suite.Suite

	ctx      context.Context
	conn     database.Conn
	archive  *archive.Archive
	pipeline *Pipeline
}

func (s *PipelineTestSuite) SetupTest() {
	viper.Set("storage.database.filename", ":memory:")
	viper.Set("storage.database.journalmode", "memory")
	viper.Set("storage.archive.foldername", s.T().TempDir())

	conn, err := database.OpenConnection()
	s.Require().NoError(err)

	blobs, err := archive.NewArchive()
	s.Require().NoError(err)

	var (
		mailListDao = database.NewMailListDao()
		mailItemDao = database.NewMailItemDao()
		orderDao    = database.NewOrderDao()
		deliveryDao = database.NewDeliveryDao()
	)

	s.ctx = context.Background()
	s.conn = conn
	s.archive = blobs
	s.pipeline = NewPipeline(
		blobs,
		parser.NewParser(),
		enrichment.NewEnricher(conn, orderDao),
		versions.NewStore(conn, mailListDao, mailItemDao),
		deliveries.NewResolver(conn, mailListDao, deliveryDao),
		deliveries.NewRecalculator(conn, mailListDao, mailItemDao, deliveryDao),
	)
}

func (s *PipelineTestSuite) TearDownTest() {
	s.Require().NoError(s.conn.Close())
}

func (s *PipelineTestSuite) day(year int, month time.Month, day int) int64 {
	location, err := dates.Location()
	s.Require().NoError(err)

	return time.Date(year, month, day, 0, 0, 0, 0, location).Unix()
}

func (s *PipelineTestSuite) TestProcessEndToEnd() {
	order := models.OrderEntity{
		OrderNumber:  "Z-1",
		Client:       "client1",
		Project:      "D1001",
		Status:       "open",
		DeliveryDate: s.day(2026, time.June, 15),
	}

	s.Require().NoError(database.NewOrderDao().Insert(s.ctx, s.conn, &order))

	const raw = `Dostawa na 15.06.2026
D1001 x2 brak pliku
D1002 siatka`

	saved, err := s.pipeline.Process(s.ctx, raw)
	s.Require().NoError(err)
	s.Require().Len(saved, 1)

	mailList := saved[0].MailList
	s.Assert().Equal("15.06.2026_I", mailList.DeliveryCode)
	s.Assert().Equal(1, mailList.Version)
	s.Assert().Equal(raw, mailList.RawMail)
	s.Require().True(mailList.ArchiveID.Valid)

	items := saved[0].Items
	s.Require().Len(items, 2)
	s.Assert().Equal(models.ItemStatusBlocked, items[0].ItemStatus)
	s.Assert().Equal(order.ID, items[0].OrderID.Int64)
	s.Assert().Equal(models.ItemStatusWaiting, items[1].ItemStatus)
	s.Assert().True(items[1].OrderNotFound)

	// The raw mail must be retrievable from the archive.
	r, err := s.archive.Open(mailList.ArchiveID.String)
	s.Require().NoError(err)

	archived, err := io.ReadAll(r)
	s.Require().NoError(err)
	s.Assert().Equal(raw, string(archived))
	s.Require().NoError(r.Close())

	// The delivery aggregate exists, is blocked and carries the matched order.
	stored, err := database.NewMailListDao().FindLatestByCode(s.ctx, s.conn, "15.06.2026_I")
	s.Require().NoError(err)
	s.Require().True(stored.DeliveryID.Valid)

	delivery, err := database.NewDeliveryDao().FindByID(s.ctx, s.conn, stored.DeliveryID.Int64)
	s.Require().NoError(err)
	s.Assert().Equal(models.DeliveryStatusBlocked, delivery.Status)
}

func (s *PipelineTestSuite) TestProcessSecondMailBumpsVersion() {
	const raw = `Dostawa na 15.06.2026
D1001 x2`

	_, err := s.pipeline.Process(s.ctx, raw)
	s.Require().NoError(err)

	saved, err := s.pipeline.Process(s.ctx, raw)
	s.Require().NoError(err)
	s.Require().Len(saved, 1)
	s.Assert().Equal(2, saved[0].MailList.Version)

	// Both versions point at the same delivery.
	versionSlice, err := database.NewMailListDao().FindVersions(s.ctx, s.conn, "15.06.2026_I")
	s.Require().NoError(err)
	s.Require().Len(versionSlice, 2)
	s.Assert().Equal(versionSlice[0].DeliveryID, versionSlice[1].DeliveryID)
}

func (s *PipelineTestSuite) TestProcessMailWithoutDate() {
	_, err := s.pipeline.Process(s.ctx, "D1001 x2")
	s.Assert().True(models.IsValidationError(err))
}
