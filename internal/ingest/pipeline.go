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

// Package ingest pulls partner mails from a mailbox and runs them through the
// processing pipeline: archive, parse, enrich, store, resolve.
package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/krzysztof-prog/markbud/internal/archive"
	"github.com/krzysztof-prog/markbud/internal/deliveries"
	"github.com/krzysztof-prog/markbud/internal/enrichment"
	"github.com/krzysztof-prog/markbud/internal/log"
	"github.com/krzysztof-prog/markbud/internal/parser"
	"github.com/krzysztof-prog/markbud/internal/versions"
)

// Pipeline processes one raw mail end to end. The raw text is archived first,
// so even a mail the parser cannot make sense of is never lost.
type Pipeline struct {
	archive      *archive.Archive
	parser       *parser.Parser
	enricher     *enrichment.Enricher
	store        *versions.Store
	resolver     *deliveries.Resolver
	recalculator deliveries.Recalculator
}

// NewPipeline creates a new Pipeline.
func NewPipeline(
	archive *archive.Archive,
	parser *parser.Parser,
	enricher *enrichment.Enricher,
	store *versions.Store,
	resolver *deliveries.Resolver,
	recalculator deliveries.Recalculator,
) *Pipeline {
	return &Pipeline{
		archive:      archive,
		parser:       parser,
		enricher:     enricher,
		store:        store,
		resolver:     resolver,
		recalculator: recalculator,
	}
}

// Process archives, parses, enriches and stores one raw mail and attaches the
// stored versions to their delivery aggregates.
func (p *Pipeline) Process(ctx context.Context, raw string) ([]versions.SavedMail, error) {
	archiveID, err := p.archive.Store(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("could not archive mail: %w", err)
	}

	ctx = log.WithMail(ctx, archiveID)

	parsed, err := p.parser.Parse(raw)
	if err != nil {
		return nil, err
	}

	for _, warning := range parsed.Warnings {
		log.WarnContext(ctx).
			Str("warning", warning).
			Msg("mail parsed with warning")
	}

	matches, err := p.enricher.Enrich(ctx, parsed)
	if err != nil {
		return nil, err
	}

	saved, err := p.store.Save(ctx, parsed, matches, raw, archiveID)
	if err != nil {
		return nil, err
	}

	for _, one := range saved {
		if err := p.attachDelivery(ctx, &one); err != nil {
			return nil, err
		}
	}

	return saved, nil
}

// attachDelivery links a stored version to its delivery, links all matched
// orders and refreshes the delivery status.
func (p *Pipeline) attachDelivery(ctx context.Context, saved *versions.SavedMail) error {
	delivery, err := p.resolver.Resolve(ctx, saved.MailList.ID, saved.MailList.DeliveryCode)
	if err != nil {
		return err
	}

	for _, item := range saved.Items {
		if !item.OrderID.Valid {
			continue
		}

		if err := p.resolver.AddOrder(ctx, delivery.ID, item.OrderID.Int64); err != nil {
			return err
		}
	}

	return p.recalculator.RecalculateIfNeeded(ctx, delivery.ID)
}
