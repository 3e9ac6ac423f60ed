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
	"strconv"
	"time"

	"github.com/krzysztof-prog/markbud/internal/dates"
)

// yearInferenceGraceDays is how far in the past a year-less date may lie
// before it is assumed to mean next year. The partner regularly announces
// deliveries a few weeks late, hence the grace period.
const yearInferenceGraceDays = 60

// extractedDate is the result of scanning a mail for delivery date phrases.
type extractedDate struct {
	date       time.Time
	found      bool
	candidates int
}

// extractDeliveryDate collects all date phrases and uses the first one. When
// the phrase has no year, the year is inferred relative to now: a candidate
// more than the grace period in the past rolls over to the next year.
func extractDeliveryDate(text string, now time.Time, location *time.Location) extractedDate {
	var result extractedDate

	for _, groups := range deliveryDatePattern.FindAllStringSubmatch(text, -1) {
		day, _ := strconv.Atoi(groups[1])
		month, _ := strconv.Atoi(groups[2])

		if day < 1 || day > 31 || month < 1 || month > 12 {
			continue
		}

		var date time.Time

		if groups[3] != "" {
			year, _ := strconv.Atoi(groups[3])
			date = time.Date(year, time.Month(month), day, 0, 0, 0, 0, location)
		} else {
			date = inferYear(day, month, now, location)
		}

		if date.Day() != day || date.Month() != time.Month(month) {
			// Not a calendar date, eg. "31.02". Drop the candidate entirely.
			continue
		}

		result.candidates++

		if !result.found {
			result.date = date
			result.found = true
		}
	}

	return result
}

func inferYear(day, month int, now time.Time, location *time.Location) time.Time {
	var (
		today     = dates.Midnight(now, location)
		candidate = time.Date(today.Year(), time.Month(month), day, 0, 0, 0, 0, location)
		cutoff    = today.AddDate(0, 0, -yearInferenceGraceDays)
	)

	if candidate.Before(cutoff) {
		return candidate.AddDate(1, 0, 0)
	}

	return candidate
}
