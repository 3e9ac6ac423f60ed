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
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// deliveryCodePattern is the wire format of a delivery code. The format is a
// contract with the UI layer and must not change.
var deliveryCodePattern = regexp.MustCompile(`^(\d{2})\.(\d{2})\.(\d{4})_([IVX]+)$`)

// romanNumerals maps the ordinal index of a delivery within one day. Ten
// deliveries per day is the partner's hard ceiling.
var romanNumerals = []string{"I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX", "X"}

// DeliveryCode is the composite key "DD.MM.YYYY_<roman>" identifying one
// logical delivery batch and its ordinal position among same-day deliveries.
type DeliveryCode struct {
	Day   time.Time
	Index int
}

// ParseDeliveryCode validates and decomposes a delivery code. The day is
// resolved to midnight in the given location.
func ParseDeliveryCode(raw string, location *time.Location) (DeliveryCode, error) {
	groups := deliveryCodePattern.FindStringSubmatch(raw)
	if groups == nil {
		return DeliveryCode{}, ValidationError{
			Field:  "deliveryCode",
			Reason: fmt.Sprintf("%q does not match DD.MM.YYYY_<roman>", raw),
		}
	}

	day, _ := strconv.Atoi(groups[1])
	month, _ := strconv.Atoi(groups[2])
	year, _ := strconv.Atoi(groups[3])

	index, err := parseRomanIndex(groups[4])
	if err != nil {
		return DeliveryCode{}, err
	}

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, location)
	if date.Day() != day || date.Month() != time.Month(month) {
		return DeliveryCode{}, ValidationError{
			Field:  "deliveryCode",
			Reason: fmt.Sprintf("%q is not a calendar date", raw),
		}
	}

	return DeliveryCode{Day: date, Index: index}, nil
}

// FormatDeliveryCode builds the textual delivery code for a day and a 1-based
// ordinal index.
func FormatDeliveryCode(day time.Time, index int) (string, error) {
	if index < 1 || index > len(romanNumerals) {
		return "", ValidationError{
			Field:  "deliveryIndex",
			Reason: fmt.Sprintf("index %d is out of range 1..%d", index, len(romanNumerals)),
		}
	}

	return fmt.Sprintf("%02d.%02d.%04d_%s",
		day.Day(), day.Month(), day.Year(), romanNumerals[index-1]), nil
}

func (c DeliveryCode) String() string {
	code, err := FormatDeliveryCode(c.Day, c.Index)
	if err != nil {
		return ""
	}

	return code
}

func parseRomanIndex(roman string) (int, error) {
	for i, numeral := range romanNumerals {
		if numeral == roman {
			return i + 1, nil
		}
	}

	return 0, ValidationError{
		Field:  "deliveryCode",
		Reason: fmt.Sprintf("unknown roman numeral %q", roman),
	}
}
