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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSectionsWithoutMarkers(t *testing.T) {
	text := "D1001 x2\nD1002 x3"

	sections := splitSections(text)
	require.Len(t, sections, 1)

	assert.Zero(t, sections[0].clientNumber)
	assert.Empty(t, sections[0].label)
	assert.Equal(t, text, sections[0].text)
}

func TestSplitSectionsOrdersByOffset(t *testing.T) {
	text := strings.Join([]string{
		"Klient nr 2",
		"D2001",
		"Klient nr 1",
		"D1001",
	}, "\n")

	sections := splitSections(text)
	require.Len(t, sections, 2)

	assert.Equal(t, 2, sections[0].clientNumber)
	assert.Equal(t, "Klient nr 2", sections[0].label)
	assert.Contains(t, sections[0].text, "D2001")

	assert.Equal(t, 1, sections[1].clientNumber)
	assert.Contains(t, sections[1].text, "D1001")
	assert.NotContains(t, sections[1].text, "D2001")
}

func TestSplitSectionsMergesBacklog(t *testing.T) {
	text := strings.Join([]string{
		"Klient nr 1",
		"D1001",
		"Klient nr 2",
		"D2001",
		"ZALEGŁE (klient nr 1)",
		"D1099",
	}, "\n")

	sections := splitSections(text)
	require.Len(t, sections, 2)

	assert.Equal(t, 1, sections[0].clientNumber)
	assert.Contains(t, sections[0].text, "D1001")
	assert.Contains(t, sections[0].text, "D1099")

	assert.Equal(t, 2, sections[1].clientNumber)
	assert.NotContains(t, sections[1].text, "D1099")
}

func TestSplitSectionsBacklogOnlyClientsComeLast(t *testing.T) {
	text := strings.Join([]string{
		"ZALEGŁE (klient nr 9)",
		"D9001",
		"Klient nr 1",
		"D1001",
	}, "\n")

	sections := splitSections(text)
	require.Len(t, sections, 2)

	assert.Equal(t, 1, sections[0].clientNumber)
	assert.Equal(t, 9, sections[1].clientNumber)
	assert.Contains(t, sections[1].text, "D9001")
}

func TestFindMarkersSkipsClientInsideBacklog(t *testing.T) {
	text := "ZALEGŁE (klient nr 3)\nD3001"

	markers := findMarkers(text)
	require.Len(t, markers, 1)

	assert.True(t, markers[0].backlog)
	assert.Equal(t, 3, markers[0].client)
}
