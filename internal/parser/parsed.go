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
	"github.com/krzysztof-prog/markbud/internal/models"
)

// DateSource indicates where the suggested delivery date came from.
type DateSource string

const (
	// DateSourceParsed means the date was found in the mail text.
	DateSourceParsed DateSource = "parsed"
	// DateSourceNotFound means the mail contained no recognizable date phrase.
	DateSourceNotFound DateSource = "not_found"
)

// DateConfidence indicates how trustworthy the suggested date is.
type DateConfidence string

const (
	// ConfidenceHigh means exactly one date candidate was found.
	ConfidenceHigh DateConfidence = "high"
	// ConfidenceLow means zero or several date candidates were found.
	ConfidenceLow DateConfidence = "low"
)

// ParsedDate is the delivery date suggestion extracted from a mail.
type ParsedDate struct {
	Suggested  string         `json:"suggested"`
	Source     DateSource     `json:"source"`
	Confidence DateConfidence `json:"confidence"`
}

// ParsedItem is one deduplicated line item of a delivery.
type ParsedItem struct {
	Position      int            `json:"position"`
	ProjectNumber string         `json:"projectNumber"`
	Quantity      int            `json:"quantity"`
	RawNotes      string         `json:"rawNotes"`
	Flags         models.FlagSet `json:"flags"`
	CustomColor   string         `json:"customColor,omitempty"`
}

// ParsedDelivery is one delivery batch parsed from a mail, usually one per
// client section.
type ParsedDelivery struct {
	DeliveryCode  string       `json:"deliveryCode"`
	DeliveryIndex int          `json:"deliveryIndex"`
	ClientLabel   string       `json:"clientLabel,omitempty"`
	Items         []ParsedItem `json:"items"`
}

// ParsedMail is the aggregate result of parsing one partner mail. Parsing
// never fails on malformed content; problems surface as warnings.
type ParsedMail struct {
	DeliveryDate ParsedDate       `json:"deliveryDate"`
	IsUpdate     bool             `json:"isUpdate"`
	Deliveries   []ParsedDelivery `json:"deliveries"`
	Warnings     []string         `json:"warnings"`
}
