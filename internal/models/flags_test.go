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

package models

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlagSetOperations(t *testing.T) {
	var flags FlagSet

	assert.True(t, flags.IsEmpty())

	flags = flags.With(FlagMissingFile).With(FlagRequiresMesh)
	assert.True(t, flags.Has(FlagMissingFile))
	assert.True(t, flags.Has(FlagRequiresMesh))
	assert.False(t, flags.Has(FlagUnconfirmed))

	flags = flags.Without(FlagMissingFile)
	assert.False(t, flags.Has(FlagMissingFile))
	assert.True(t, flags.Has(FlagRequiresMesh))

	union := flags.Union(FlagSet(0).With(FlagCustomColor))
	assert.True(t, union.Has(FlagRequiresMesh))
	assert.True(t, union.Has(FlagCustomColor))
}

func TestFlagSetString(t *testing.T) {
	flags := FlagSet(0).With(FlagCustomColor).With(FlagRequiresMesh)
	assert.Equal(t, "REQUIRES_MESH|CUSTOM_COLOR", flags.String())
}

func TestMailItemEntityFlagsRoundTrip(t *testing.T) {
	item := MailItemEntity{
		CustomColor: sql.NullString{String: "RAL 7016", Valid: true},
	}

	flags := FlagSet(0).
		With(FlagMissingFile).
		With(FlagRequiresMesh).
		With(FlagCustomColor)

	item.SetFlags(flags)

	assert.True(t, item.MissingFile)
	assert.True(t, item.RequiresMesh)
	assert.Equal(t, ItemStatusBlocked, item.ItemStatus)
	assert.Equal(t, flags, item.Flags())
}

func TestMailItemEntitySetFlagsClearsColor(t *testing.T) {
	item := MailItemEntity{
		CustomColor: sql.NullString{String: "RAL 9005", Valid: true},
	}

	item.SetFlags(FlagSet(0).With(FlagSpecialHandle))

	assert.False(t, item.CustomColor.Valid)
	assert.Equal(t, ItemStatusOK, item.ItemStatus)
}
