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
	"fmt"
	"strconv"
	"strings"
)

// unrecognizedResidualLimit is the length above which leftover line text
// without any recognized flag is reported as an unrecognized annotation.
const unrecognizedResidualLimit = 5

// parseItems extracts and deduplicates the line items of one section. Every
// project number found on a line claims the entire line as its notes. Items
// repeating a project number are merged: flags union, maximum quantity, first
// non-empty color.
func parseItems(text string) ([]ParsedItem, []string) {
	acc := newItemAccumulator()

	for _, line := range strings.Split(text, "\n") {
		numbers := uniqueProjectNumbers(line)
		if len(numbers) == 0 {
			continue
		}

		flags, customColor := detectFlags(line)
		quantity := parseQuantity(line)

		for _, number := range numbers {
			acc.add(ParsedItem{
				ProjectNumber: number,
				Quantity:      quantity,
				RawNotes:      line,
				Flags:         flags,
				CustomColor:   customColor,
			})
		}
	}

	items := acc.ordered()

	var warnings []string

	for _, item := range items {
		if !item.Flags.IsEmpty() {
			continue
		}

		if residual := stripBoilerplate(item.RawNotes); len(residual) > unrecognizedResidualLimit {
			warnings = append(warnings,
				fmt.Sprintf("unrecognized annotation for item %s: %q", item.ProjectNumber, residual))
		}
	}

	return items, warnings
}

func uniqueProjectNumbers(line string) []string {
	var (
		numbers []string
		seen    = make(map[string]bool)
	)

	for _, number := range projectNumberPattern.FindAllString(line, -1) {
		if !seen[number] {
			seen[number] = true
			numbers = append(numbers, number)
		}
	}

	return numbers
}

func parseQuantity(line string) int {
	if groups := quantityPattern.FindStringSubmatch(line); groups != nil {
		if quantity, err := strconv.Atoi(groups[1]); err == nil && quantity >= 1 {
			return quantity
		}
	}

	return 1
}

// stripBoilerplate removes all recognized tokens from a raw notes line, so
// that only text the rule table could not explain remains.
func stripBoilerplate(notes string) string {
	notes = projectNumberPattern.ReplaceAllString(notes, " ")
	notes = quantityPattern.ReplaceAllString(notes, " ")
	notes = ralColorPattern.ReplaceAllString(notes, " ")
	notes = boilerplatePattern.ReplaceAllString(notes, " ")

	return strings.TrimSpace(strings.Join(strings.Fields(notes), " "))
}

// itemAccumulator is an insertion-ordered map of items keyed by project
// number. Native map iteration order is not deterministic, so the key order
// is tracked explicitly.
type itemAccumulator struct {
	index map[string]int
	items []ParsedItem
}

func newItemAccumulator() *itemAccumulator {
	return &itemAccumulator{
		index: make(map[string]int),
	}
}

func (a *itemAccumulator) add(item ParsedItem) {
	i, ok := a.index[item.ProjectNumber]
	if !ok {
		a.index[item.ProjectNumber] = len(a.items)
		a.items = append(a.items, item)
		return
	}

	existing := &a.items[i]
	existing.Flags = existing.Flags.Union(item.Flags)

	if item.Quantity > existing.Quantity {
		existing.Quantity = item.Quantity
	}

	if existing.CustomColor == "" {
		existing.CustomColor = item.CustomColor
	}

	if item.RawNotes != existing.RawNotes {
		existing.RawNotes += "\n" + item.RawNotes
	}
}

// ordered returns all items renumbered 1..N in first-seen order.
func (a *itemAccumulator) ordered() []ParsedItem {
	for i := range a.items {
		a.items[i].Position = i + 1
	}

	return a.items
}
