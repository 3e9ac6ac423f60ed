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

// Package dates is the single zone-normalization path for all delivery date
// math. Every comparison of delivery days must go through this package, so
// that a mail parsed just before midnight and an order stored just after
// cannot disagree about the calendar day.
package dates

import (
	"time"

	"github.com/spf13/viper"
)

func init() {
	viper.SetDefault("mail.timezone", "Europe/Warsaw")
}

// Location returns the canonical timezone from the configuration.
func Location() (*time.Location, error) {
	return time.LoadLocation(viper.GetString("mail.timezone"))
}

// Midnight normalizes a point in time to midnight of its calendar day in the
// canonical timezone.
func Midnight(t time.Time, location *time.Location) time.Time {
	local := t.In(location)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, location)
}

// SameDay checks whether two points in time fall on the same calendar day in
// the canonical timezone.
func SameDay(a, b time.Time, location *time.Location) bool {
	return Midnight(a, location).Equal(Midnight(b, location))
}

// FromUnixDay converts a persisted unix timestamp back to the midnight of its
// calendar day.
func FromUnixDay(sec int64, location *time.Location) time.Time {
	return Midnight(time.Unix(sec, 0), location)
}

// FormatISO renders a day as an ISO-8601 date string.
func FormatISO(t time.Time) string {
	return t.Format("2006-01-02")
}
