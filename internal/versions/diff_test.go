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
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/suite"

	"github.com/krzysztof-prog/markbud/internal/database"
	"github.com/krzysztof-prog/markbud/internal/dates"
	"github.com/krzysztof-prog/markbud/internal/enrichment"
	"github.com/krzysztof-prog/markbud/internal/models"
	"github.com/krzysztof-prog/markbud/internal/parser"
)

func TestEngineTestSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

type EngineTestSuite struct {
	suite.Suite

	ctx    context.Context
	conn   database.Conn
	store  *Store
	engine *Engine
}

func (s *EngineTestSuite) SetupTest() {
	viper.Set("storage.database.filename", ":memory:")
	viper.Set("storage.database.journalmode", "memory")

	conn, err := database.OpenConnection()
	s.Require().NoError(err)

	s.ctx = context.Background()
	s.conn = conn
	s.store = NewStore(conn, database.NewMailListDao(), database.NewMailItemDao())
	s.engine = NewEngine(conn,
		database.NewMailListDao(), database.NewMailItemDao(), database.NewOrderDao())
}

func (s *EngineTestSuite) TearDownTest() {
	s.Require().NoError(s.conn.Close())
}

func (s *EngineTestSuite) saveVersion(items ...parser.ParsedItem) {
	s.saveVersionMatched(nil, items...)
}

func (s *EngineTestSuite) saveVersionMatched(
	matches *enrichment.Enrichment,
	items ...parser.ParsedItem,
) {
	mail := parser.ParsedMail{
		Deliveries: []parser.ParsedDelivery{
			{
				DeliveryCode:  "15.06.2026_I",
				DeliveryIndex: 1,
				Items:         items,
			},
		},
	}

	_, err := s.store.Save(s.ctx, &mail, matches, "raw", "")
	s.Require().NoError(err)
}

func item(position int, project string, quantity int) parser.ParsedItem {
	return parser.ParsedItem{
		Position:      position,
		ProjectNumber: project,
		Quantity:      quantity,
	}
}

func (s *EngineTestSuite) TestDiffAddedRemovedChanged() {
	s.saveVersion(
		item(1, "D1001", 1),
		item(2, "D1002", 1),
		item(3, "D1003", 2))

	s.saveVersion(
		item(1, "D1002", 3),
		item(2, "D1003", 2),
		item(3, "D1004", 1))

	diff, err := s.engine.Diff(s.ctx, "15.06.2026_I", 1, 2)
	s.Require().NoError(err)

	s.Require().Len(diff.Added, 1)
	s.Assert().Equal("D1004", diff.Added[0].ProjectNumber)
	s.Assert().NotZero(diff.Added[0].ItemID)

	s.Require().Len(diff.Removed, 1)
	s.Assert().Equal("D1001", diff.Removed[0].ProjectNumber)
	s.Assert().NotZero(diff.Removed[0].ItemID)

	s.Require().Len(diff.Changed, 1)

	change := diff.Changed[0]
	s.Assert().Equal("D1002", change.ProjectNumber)
	s.Assert().NotZero(change.ItemID)
	s.Assert().Equal("quantity", change.Field)
	s.Assert().Equal("1", change.From)
	s.Assert().Equal("3", change.To)

	s.Assert().Empty(diff.Warnings)
}

// Every diff entry has to lead back to the stored item it talks about, so an
// operator can act on it directly.
func (s *EngineTestSuite) TestDiffEntriesReferenceStoredItems() {
	s.saveVersion(item(1, "D1001", 1))
	s.saveVersion(
		item(1, "D1001", 2),
		item(2, "D1002", 1))

	diff, err := s.engine.Diff(s.ctx, "15.06.2026_I", 1, 2)
	s.Require().NoError(err)

	s.Require().Len(diff.Added, 1)
	s.Require().Len(diff.Changed, 1)

	mailItemDao := database.NewMailItemDao()

	added, err := mailItemDao.FindByID(s.ctx, s.conn, diff.Added[0].ItemID)
	s.Require().NoError(err)
	s.Assert().Equal("D1002", added.ProjectNumber)

	changed, err := mailItemDao.FindByID(s.ctx, s.conn, diff.Changed[0].ItemID)
	s.Require().NoError(err)
	s.Assert().Equal("D1001", changed.ProjectNumber)
	s.Assert().Equal(2, changed.Quantity)
}

func (s *EngineTestSuite) TestDiffStatusChange() {
	s.saveVersion(item(1, "D1001", 1))

	flagged := item(1, "D1001", 1)
	flagged.Flags = models.FlagSet(0).With(models.FlagMissingFile)
	s.saveVersion(flagged)

	diff, err := s.engine.Diff(s.ctx, "15.06.2026_I", 1, 2)
	s.Require().NoError(err)

	s.Require().Len(diff.Changed, 1)
	s.Assert().Equal("status", diff.Changed[0].Field)
	s.Assert().Equal("ok", diff.Changed[0].From)
	s.Assert().Equal("blocked", diff.Changed[0].To)
}

func (s *EngineTestSuite) TestDiffMissingVersion() {
	s.saveVersion(item(1, "D1001", 1))

	_, err := s.engine.Diff(s.ctx, "15.06.2026_I", 1, 2)
	s.Assert().True(models.IsNotFoundError(err))

	_, err = s.engine.Diff(s.ctx, "16.06.2026_I", 1, 1)
	s.Assert().True(models.IsNotFoundError(err))
}

func (s *EngineTestSuite) TestDiffWarnsOnOrderDayMismatch() {
	location, err := dates.Location()
	s.Require().NoError(err)

	order := models.OrderEntity{
		OrderNumber:  "Z-9",
		Client:       "client1",
		Project:      "D1004",
		Status:       "open",
		DeliveryDate: time.Date(2026, 6, 16, 0, 0, 0, 0, location).Unix(),
	}

	s.Require().NoError(database.NewOrderDao().Insert(s.ctx, s.conn, &order))

	s.saveVersion(item(1, "D1001", 1))

	matches := &enrichment.Enrichment{
		Matches: map[string]enrichment.OrderMatch{
			"D1004": {Order: order},
		},
	}

	s.saveVersionMatched(matches,
		item(1, "D1001", 1),
		item(2, "D1004", 1))

	diff, err := s.engine.Diff(s.ctx, "15.06.2026_I", 1, 2)
	s.Require().NoError(err)

	const mismatch = "order Z-9 for project D1004 is scheduled for 2026-06-16, not 2026-06-15"

	s.Require().Len(diff.Added, 1)
	s.Assert().Equal("D1004", diff.Added[0].ProjectNumber)
	s.Assert().Equal("Z-9", diff.Added[0].OrderNumber)
	s.Assert().Equal(mismatch, diff.Added[0].DateMismatch)

	s.Require().Len(diff.Warnings, 1)
	s.Assert().Equal(mismatch, diff.Warnings[0])
}
