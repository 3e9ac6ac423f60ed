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
	"regexp"

	"github.com/krzysztof-prog/markbud/internal/models"
)

// The partner writes free text, not a grammar. These patterns encode the known
// message conventions; anything they do not catch becomes a warning, never an
// error.
var (
	// projectNumberPattern matches canonical project keys, eg. "D1234".
	projectNumberPattern = regexp.MustCompile(`\b[A-Z]\d{3,5}\b`)

	// quantityPattern matches the first quantity token, eg. "x2".
	quantityPattern = regexp.MustCompile(`(?i)\bx\s?(\d+)\b`)

	// ralColorPattern matches explicit color codes, eg. "RAL 7016" or "RAL7016".
	ralColorPattern = regexp.MustCompile(`(?i)\bRAL\s*(\d{4})\b`)

	// meshStemPattern matches any inflection of "siatka" (mesh).
	meshStemPattern = regexp.MustCompile(`(?i)siatk`)

	// deliveryDatePattern matches date phrases like "na 24.06" or "na 24.06.2026".
	deliveryDatePattern = regexp.MustCompile(`(?i)\bna\s+(\d{1,2})\.(\d{1,2})(?:\.(\d{4}))?`)

	// clientMarkerPattern matches section headers like "Klient nr 3".
	clientMarkerPattern = regexp.MustCompile(`(?i)klient\s+nr\s+(\d+)`)

	// backlogMarkerPattern matches backlog headers like "ZALEGŁE (klient nr 3)".
	backlogMarkerPattern = regexp.MustCompile(`(?i)zaległe\s*\(\s*klient\s+nr\s+(\d+)\s*\)`)

	// updateKeywordPattern decides the isUpdate heuristic.
	updateKeywordPattern = regexp.MustCompile(`(?i)aktualizacja|korekta|zmiana`)

	// boilerplatePattern matches tokens that carry no annotation value: list
	// labels, ordinals, bare numbers with a dot and stray hyphens.
	boilerplatePattern = regexp.MustCompile(`(?i)\b(lp|nr|adnotacje|siatka)\b\.?|\b\d+\.|-+`)
)

// flagRule binds a text pattern to an item flag. Rules run top to bottom; a
// rule is skipped when one of its suppressing flags is already present.
type flagRule struct {
	name         string
	pattern      *regexp.Regexp
	flag         models.ItemFlag
	suppressedBy models.FlagSet
}

// flagRules is the partner convention table. Order matters: the generic
// "unconfirmed" rule must run after the specific dimension and drawing rules,
// which suppress it.
var flagRules = []flagRule{
	{
		name:    "missing-file",
		pattern: regexp.MustCompile(`(?i)brak\s+plik`),
		flag:    models.FlagMissingFile,
	},
	{
		name:    "dimensions-unconfirmed",
		pattern: regexp.MustCompile(`(?i)wymiar\S*\s+(?:do\s+potwierdzenia|niepotwierdzon\S*)|niepotwierdzon\S*\s+wymiar`),
		flag:    models.FlagDimensionsUnconfirmed,
	},
	{
		name:    "drawing-unconfirmed",
		pattern: regexp.MustCompile(`(?i)rysun\S*\s+(?:do\s+potwierdzenia|niepotwierdzon\S*)|niepotwierdzon\S*\s+rysun`),
		flag:    models.FlagDrawingUnconfirmed,
	},
	{
		name:    "unconfirmed",
		pattern: regexp.MustCompile(`(?i)niepotwierdzon|do\s+potwierdzenia`),
		flag:    models.FlagUnconfirmed,
		suppressedBy: models.FlagSet(models.FlagDimensionsUnconfirmed) |
			models.FlagSet(models.FlagDrawingUnconfirmed),
	},
	{
		name:    "exclude-from-production",
		pattern: regexp.MustCompile(`(?i)nie\s+produkowa|wycofan|anulowan`),
		flag:    models.FlagExcludeFromProduction,
	},
	{
		name:    "special-handle",
		pattern: regexp.MustCompile(`(?i)pochwyt`),
		flag:    models.FlagSpecialHandle,
	},
}

// detectFlags runs the rule table over one line. The mesh stem check is
// independent of the table and runs after it, as does the color pattern.
func detectFlags(line string) (models.FlagSet, string) {
	var flags models.FlagSet

	for _, rule := range flagRules {
		if flags.HasAny(rule.suppressedBy) {
			continue
		}

		if rule.pattern.MatchString(line) {
			flags = flags.With(rule.flag)
		}
	}

	if meshStemPattern.MatchString(line) {
		flags = flags.With(models.FlagRequiresMesh)
	}

	var customColor string

	if groups := ralColorPattern.FindStringSubmatch(line); groups != nil {
		flags = flags.With(models.FlagCustomColor)
		customColor = "RAL " + groups[1]
	}

	return flags, customColor
}
