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
	"encoding/json"
	"fmt"
	"strings"
)

// ItemFlag is a single annotation recognized on a mail item line.
type ItemFlag uint8

const (
	// FlagRequiresMesh marks items that need a mosquito mesh before production.
	FlagRequiresMesh ItemFlag = 1 << iota
	// FlagMissingFile marks items without a machining file.
	FlagMissingFile
	// FlagUnconfirmed marks items the partner has not confirmed yet.
	FlagUnconfirmed
	// FlagDimensionsUnconfirmed marks items with unconfirmed dimensions.
	FlagDimensionsUnconfirmed
	// FlagDrawingUnconfirmed marks items with an unconfirmed drawing.
	FlagDrawingUnconfirmed
	// FlagExcludeFromProduction marks items withdrawn from production.
	FlagExcludeFromProduction
	// FlagSpecialHandle marks items with a non-standard handle.
	FlagSpecialHandle
	// FlagCustomColor marks items with an explicit RAL color.
	FlagCustomColor
)

var flagNames = map[ItemFlag]string{
	FlagRequiresMesh:          "REQUIRES_MESH",
	FlagMissingFile:           "MISSING_FILE",
	FlagUnconfirmed:           "UNCONFIRMED",
	FlagDimensionsUnconfirmed: "DIMENSIONS_UNCONFIRMED",
	FlagDrawingUnconfirmed:    "DRAWING_UNCONFIRMED",
	FlagExcludeFromProduction: "EXCLUDE_FROM_PRODUCTION",
	FlagSpecialHandle:         "SPECIAL_HANDLE",
	FlagCustomColor:           "CUSTOM_COLOR",
}

// allFlags lists every flag in declaration order for deterministic iteration.
var allFlags = []ItemFlag{
	FlagRequiresMesh,
	FlagMissingFile,
	FlagUnconfirmed,
	FlagDimensionsUnconfirmed,
	FlagDrawingUnconfirmed,
	FlagExcludeFromProduction,
	FlagSpecialHandle,
	FlagCustomColor,
}

func (f ItemFlag) String() string {
	return flagNames[f]
}

// FlagSet is a set of item flags.
type FlagSet uint8

// Has checks whether every flag of other is contained in the set.
func (s FlagSet) Has(other ItemFlag) bool {
	return s&FlagSet(other) != 0
}

// HasAny checks whether at least one flag of other is contained in the set.
func (s FlagSet) HasAny(other FlagSet) bool {
	return s&other != 0
}

// With returns the set with flag added.
func (s FlagSet) With(flag ItemFlag) FlagSet {
	return s | FlagSet(flag)
}

// Without returns the set with flag removed.
func (s FlagSet) Without(flag ItemFlag) FlagSet {
	return s &^ FlagSet(flag)
}

// Union returns the set union of both flag sets.
func (s FlagSet) Union(other FlagSet) FlagSet {
	return s | other
}

// IsEmpty checks whether no flag is set.
func (s FlagSet) IsEmpty() bool {
	return s == 0
}

func (s FlagSet) String() string {
	return strings.Join(s.Names(), "|")
}

// Names lists the contained flags in declaration order.
func (s FlagSet) Names() []string {
	names := make([]string, 0, len(allFlags))

	for _, flag := range allFlags {
		if s.Has(flag) {
			names = append(names, flag.String())
		}
	}

	return names
}

// MarshalJSON renders the set as an array of flag names.
func (s FlagSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Names())
}

// UnmarshalJSON parses an array of flag names.
func (s *FlagSet) UnmarshalJSON(data []byte) error {
	var names []string

	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}

	var flags FlagSet

	for _, name := range names {
		flag, err := flagByName(name)
		if err != nil {
			return err
		}

		flags = flags.With(flag)
	}

	*s = flags
	return nil
}

func flagByName(name string) (ItemFlag, error) {
	for flag, flagName := range flagNames {
		if flagName == name {
			return flag, nil
		}
	}

	return 0, fmt.Errorf("unknown item flag %q", name)
}
