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

// Package enrichment matches parsed mail items against the production order
// table. Matching is advisory: a missing order never fails the pipeline, it
// only surfaces as a warning and marks the item as unmatched.
package enrichment

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/krzysztof-prog/markbud/internal/database"
	"github.com/krzysztof-prog/markbud/internal/log"
	"github.com/krzysztof-prog/markbud/internal/models"
	"github.com/krzysztof-prog/markbud/internal/parser"
)

// OrderMatch is the resolved production order for one project number. A single
// order may bundle several project numbers; the siblings are the other numbers
// sharing the same order.
type OrderMatch struct {
	Order           models.OrderEntity
	SiblingProjects []string
}

// Enrichment is the result of matching one parsed mail against the order table.
// Matches is keyed by the upper-cased project number.
type Enrichment struct {
	Matches  map[string]OrderMatch
	Warnings []string
}

// MatchFor returns the match for a project number, if any.
func (e *Enrichment) MatchFor(projectNumber string) (OrderMatch, bool) {
	match, ok := e.Matches[strings.ToUpper(projectNumber)]
	return match, ok
}

// Enricher looks up production orders for parsed mail items.
type Enricher struct {
	conn     database.Conn
	orderDao database.OrderDao
}

// NewEnricher creates a new Enricher.
func NewEnricher(conn database.Conn, orderDao database.OrderDao) *Enricher {
	return &Enricher{
		conn:     conn,
		orderDao: orderDao,
	}
}

// Enrich matches every project number of a parsed mail against the order
// table. The database query only narrows the candidate set by substring; the
// authoritative match is a case-insensitive comparison against the comma
// separated tokens of the order's project column, so "D100" never matches an
// order for "D1001".
func (e *Enricher) Enrich(ctx context.Context, mail *parser.ParsedMail) (*Enrichment, error) {
	numbers := collectProjectNumbers(mail)

	candidates, err := e.orderDao.FindCandidatesByProjectNumbers(ctx, e.conn, numbers)
	if err != nil {
		return nil, fmt.Errorf("could not query order candidates: %w", err)
	}

	enrichment := Enrichment{
		Matches: make(map[string]OrderMatch),
	}

	var missing []string

	for _, number := range numbers {
		match, ok := matchCandidate(number, candidates)
		if !ok {
			missing = append(missing, number)
			continue
		}

		enrichment.Matches[strings.ToUpper(number)] = match
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		enrichment.Warnings = append(enrichment.Warnings,
			fmt.Sprintf("orders not found for projects: %s", strings.Join(missing, ", ")))
	}

	log.DebugContext(ctx).
		Int("projects", len(numbers)).
		Int("matched", len(enrichment.Matches)).
		Int("missing", len(missing)).
		Msg("enriched parsed mail")

	return &enrichment, nil
}

// collectProjectNumbers gathers the distinct project numbers of a mail in
// order of first appearance.
func collectProjectNumbers(mail *parser.ParsedMail) []string {
	var (
		seen    = make(map[string]bool)
		numbers []string
	)

	for _, delivery := range mail.Deliveries {
		for _, item := range delivery.Items {
			key := strings.ToUpper(item.ProjectNumber)

			if !seen[key] {
				seen[key] = true
				numbers = append(numbers, item.ProjectNumber)
			}
		}
	}

	return numbers
}

// matchCandidate finds the first order whose project tokens contain the
// number. Candidates are ordered by id, so the oldest order wins when several
// contain the same number.
func matchCandidate(number string, candidates []models.OrderEntity) (OrderMatch, bool) {
	needle := strings.ToUpper(number)

	for _, candidate := range candidates {
		tokens := splitProjects(candidate.Project)

		for _, token := range tokens {
			if strings.ToUpper(token) != needle {
				continue
			}

			return OrderMatch{
				Order:           candidate,
				SiblingProjects: siblingsOf(tokens, token),
			}, true
		}
	}

	return OrderMatch{}, false
}

// splitProjects splits the comma separated project column into trimmed tokens.
func splitProjects(project string) []string {
	var tokens []string

	for _, token := range strings.Split(project, ",") {
		if token = strings.TrimSpace(token); token != "" {
			tokens = append(tokens, token)
		}
	}

	return tokens
}

func siblingsOf(tokens []string, matched string) []string {
	var siblings []string

	for _, token := range tokens {
		if token != matched {
			siblings = append(siblings, token)
		}
	}

	return siblings
}
