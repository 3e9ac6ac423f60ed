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

package parser

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krzysztof-prog/markbud/internal/models"
)

func newTestParser(t *testing.T, now time.Time) *Parser {
	t.Helper()
	viper.Set("mail.timezone", "Europe/Warsaw")

	parser := NewParser()
	parser.now = func() time.Time { return now }

	return parser
}

func TestParseScenarioWithoutDate(t *testing.T) {
	parser := newTestParser(t, time.Date(2026, time.January, 10, 12, 0, 0, 0, time.UTC))

	mail, err := parser.Parse("Klient nr 1\nD1001 x2 brak pliku\nKlient nr 2\nD2002 poproszę o siatkę")
	require.NoError(t, err)

	assert.Equal(t, DateSourceNotFound, mail.DeliveryDate.Source)
	assert.Equal(t, ConfidenceLow, mail.DeliveryDate.Confidence)
	assert.Empty(t, mail.DeliveryDate.Suggested)
	assert.NotEmpty(t, mail.Warnings)

	require.Len(t, mail.Deliveries, 2)

	first := mail.Deliveries[0]
	require.Len(t, first.Items, 1)
	assert.Equal(t, "Klient nr 1", first.ClientLabel)
	assert.Equal(t, "D1001", first.Items[0].ProjectNumber)
	assert.Equal(t, 2, first.Items[0].Quantity)
	assert.Equal(t, models.ItemStatusBlocked, models.ComputeItemStatus(first.Items[0].Flags))

	second := mail.Deliveries[1]
	require.Len(t, second.Items, 1)
	assert.Equal(t, "D2002", second.Items[0].ProjectNumber)
	assert.Equal(t, models.ItemStatusWaiting, models.ComputeItemStatus(second.Items[0].Flags))
}

func TestParseDerivesDeliveryCodes(t *testing.T) {
	parser := newTestParser(t, time.Date(2026, time.January, 10, 12, 0, 0, 0, time.UTC))

	text := strings.Join([]string{
		"Dostawa na 15.02",
		"Klient nr 1",
		"D1001",
		"Klient nr 2",
		"D2001",
	}, "\n")

	mail, err := parser.Parse(text)
	require.NoError(t, err)

	assert.Equal(t, "2026-02-15", mail.DeliveryDate.Suggested)
	assert.Equal(t, DateSourceParsed, mail.DeliveryDate.Source)
	assert.Equal(t, ConfidenceHigh, mail.DeliveryDate.Confidence)

	require.Len(t, mail.Deliveries, 2)
	assert.Equal(t, "15.02.2026_I", mail.Deliveries[0].DeliveryCode)
	assert.Equal(t, "15.02.2026_II", mail.Deliveries[1].DeliveryCode)
}

func TestParseAmbiguousDateLowersConfidence(t *testing.T) {
	parser := newTestParser(t, time.Date(2026, time.January, 10, 12, 0, 0, 0, time.UTC))

	mail, err := parser.Parse("na 15.02 albo na 16.02\nD1001")
	require.NoError(t, err)

	assert.Equal(t, DateSourceParsed, mail.DeliveryDate.Source)
	assert.Equal(t, ConfidenceLow, mail.DeliveryDate.Confidence)
	assert.Equal(t, "2026-02-15", mail.DeliveryDate.Suggested)
	assert.Contains(t, mail.Warnings, "multiple delivery date candidates found, using the first")
}

func TestParseIsUpdateHeuristic(t *testing.T) {
	parser := newTestParser(t, time.Date(2026, time.January, 10, 12, 0, 0, 0, time.UTC))

	mail, err := parser.Parse("AKTUALIZACJA dostawy na 15.02\nD1001")
	require.NoError(t, err)
	assert.True(t, mail.IsUpdate)

	mail, err = parser.Parse("dostawa na 15.02\nD1001")
	require.NoError(t, err)
	assert.False(t, mail.IsUpdate)
}

func TestParseEmptySectionWarns(t *testing.T) {
	parser := newTestParser(t, time.Date(2026, time.January, 10, 12, 0, 0, 0, time.UTC))

	mail, err := parser.Parse("na 15.02\nKlient nr 1\nnic dzisiaj")
	require.NoError(t, err)

	require.Len(t, mail.Deliveries, 1)
	assert.Empty(t, mail.Deliveries[0].Items)
	assert.Contains(t, mail.Warnings, "no items found in section Klient nr 1")
}

func TestParseIsDeterministic(t *testing.T) {
	parser := newTestParser(t, time.Date(2026, time.January, 10, 12, 0, 0, 0, time.UTC))

	text := strings.Join([]string{
		"Dostawa na 15.02",
		"Klient nr 2",
		"D2001 x4 RAL 9005",
		"D2003 brak pliku",
		"Klient nr 1",
		"D1001 poproszę o siatkę",
		"ZALEGŁE (klient nr 2)",
		"D2099 niepotwierdzone",
	}, "\n")

	first, err := parser.Parse(text)
	require.NoError(t, err)

	second, err := parser.Parse(text)
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)

	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)

	assert.Equal(t, firstJSON, secondJSON)
}

func TestParsePositionContiguity(t *testing.T) {
	parser := newTestParser(t, time.Date(2026, time.January, 10, 12, 0, 0, 0, time.UTC))

	text := strings.Join([]string{
		"Klient nr 1",
		"D1001",
		"D1003",
		"D1001 x2",
		"D1002",
	}, "\n")

	mail, err := parser.Parse(text)
	require.NoError(t, err)
	require.Len(t, mail.Deliveries, 1)

	for i, item := range mail.Deliveries[0].Items {
		assert.Equal(t, i+1, item.Position)
	}
}

func TestParseBacklogJoinsClientDelivery(t *testing.T) {
	parser := newTestParser(t, time.Date(2026, time.January, 10, 12, 0, 0, 0, time.UTC))

	text := strings.Join([]string{
		"na 15.02",
		"Klient nr 1",
		"D1001",
		"ZALEGŁE (klient nr 1)",
		"D1099",
	}, "\n")

	mail, err := parser.Parse(text)
	require.NoError(t, err)

	require.Len(t, mail.Deliveries, 1)
	require.Len(t, mail.Deliveries[0].Items, 2)
	assert.Equal(t, "D1001", mail.Deliveries[0].Items[0].ProjectNumber)
	assert.Equal(t, "D1099", mail.Deliveries[0].Items[1].ProjectNumber)
}
