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

// Package parser turns free-text delivery mails from the logistics partner
// into structured deliveries. Parsing is deterministic and stateless; it never
// rejects a mail, problems accumulate as warnings in the result.
package parser

import (
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/krzysztof-prog/markbud/internal/dates"
	"github.com/krzysztof-prog/markbud/internal/models"
)

// Parser parses partner mails. It is safe for concurrent use.
type Parser struct {
	now func() time.Time
}

// NewParser creates a new mail parser.
func NewParser() *Parser {
	return &Parser{now: time.Now}
}

// Parse parses one mail. The only possible error is an unloadable timezone
// configuration; everything about the text itself becomes warnings.
func (p *Parser) Parse(text string) (*ParsedMail, error) {
	location, err := dates.Location()
	if err != nil {
		return nil, err
	}

	text = norm.NFC.String(text)

	var mail ParsedMail

	extracted := extractDeliveryDate(text, p.now(), location)
	mail.DeliveryDate = p.describeDate(extracted, &mail)
	mail.IsUpdate = updateKeywordPattern.MatchString(text)

	for i, sec := range splitSections(text) {
		delivery := ParsedDelivery{
			DeliveryIndex: i + 1,
			ClientLabel:   sec.label,
		}

		if extracted.found {
			code, err := models.FormatDeliveryCode(extracted.date, delivery.DeliveryIndex)
			if err != nil {
				mail.warn(err.Error())
			} else {
				delivery.DeliveryCode = code
			}
		}

		items, warnings := parseItems(sec.text)
		delivery.Items = items
		mail.Warnings = append(mail.Warnings, warnings...)

		if len(items) == 0 {
			if sec.label == "" {
				mail.warn("no items found in mail")
			} else {
				mail.warn("no items found in section " + sec.label)
			}
		}

		mail.Deliveries = append(mail.Deliveries, delivery)
	}

	return &mail, nil
}

func (p *Parser) describeDate(extracted extractedDate, mail *ParsedMail) ParsedDate {
	if !extracted.found {
		mail.warn("no delivery date found in mail text")

		return ParsedDate{
			Source:     DateSourceNotFound,
			Confidence: ConfidenceLow,
		}
	}

	confidence := ConfidenceHigh

	if extracted.candidates != 1 {
		confidence = ConfidenceLow
		mail.warn("multiple delivery date candidates found, using the first")
	}

	return ParsedDate{
		Suggested:  dates.FormatISO(extracted.date),
		Source:     DateSourceParsed,
		Confidence: confidence,
	}
}

func (m *ParsedMail) warn(message string) {
	m.Warnings = append(m.Warnings, message)
}
