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
	"sort"
	"strconv"
	"strings"
)

// section is one logical per-client bucket of mail text. Main and backlog
// sub-sections of the same client are already concatenated.
type section struct {
	clientNumber int
	label        string
	text         string
}

// marker is one "Klient nr N" or "ZALEGŁE (klient nr N)" occurrence.
type marker struct {
	offset  int
	client  int
	backlog bool
}

// splitSections partitions the mail text into per-client buckets. A section
// spans from its marker to the next marker or the end of text. Backlog
// sections join the bucket of their client; clients that only ever appear in
// backlog markers are appended after all regular clients. Without any markers
// the whole text is one implicit section.
func splitSections(text string) []section {
	markers := findMarkers(text)

	if len(markers) == 0 {
		return []section{{text: text}}
	}

	var (
		buckets      = make(map[int][]string)
		mainOrder    []int
		backlogOrder []int
		seenMain     = make(map[int]bool)
		seenBacklog  = make(map[int]bool)
	)

	for i, m := range markers {
		end := len(text)
		if i+1 < len(markers) {
			end = markers[i+1].offset
		}

		buckets[m.client] = append(buckets[m.client], text[m.offset:end])

		if m.backlog {
			if !seenBacklog[m.client] {
				seenBacklog[m.client] = true
				backlogOrder = append(backlogOrder, m.client)
			}
		} else {
			if !seenMain[m.client] {
				seenMain[m.client] = true
				mainOrder = append(mainOrder, m.client)
			}
		}
	}

	order := mainOrder
	for _, client := range backlogOrder {
		if !seenMain[client] {
			order = append(order, client)
		}
	}

	sections := make([]section, 0, len(order))

	for _, client := range order {
		sections = append(sections, section{
			clientNumber: client,
			label:        fmt.Sprintf("Klient nr %d", client),
			text:         strings.Join(buckets[client], "\n"),
		})
	}

	return sections
}

// findMarkers locates all section markers ordered by offset. A plain client
// marker inside a backlog marker is not counted twice.
func findMarkers(text string) []marker {
	var (
		markers  []marker
		occupied [][2]int
	)

	for _, match := range backlogMarkerPattern.FindAllStringSubmatchIndex(text, -1) {
		client, _ := strconv.Atoi(text[match[2]:match[3]])

		markers = append(markers, marker{offset: match[0], client: client, backlog: true})
		occupied = append(occupied, [2]int{match[0], match[1]})
	}

	for _, match := range clientMarkerPattern.FindAllStringSubmatchIndex(text, -1) {
		if insideAny(match[0], occupied) {
			continue
		}

		client, _ := strconv.Atoi(text[match[2]:match[3]])
		markers = append(markers, marker{offset: match[0], client: client})
	}

	sort.Slice(markers, func(i, j int) bool {
		return markers[i].offset < markers[j].offset
	})

	return markers
}

func insideAny(offset int, ranges [][2]int) bool {
	for _, r := range ranges {
		if offset >= r[0] && offset < r[1] {
			return true
		}
	}

	return false
}
