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

package main

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/krzysztof-prog/markbud/internal/ingest"
)

// parseCommand runs a single mail through the ingestion pipeline and prints
// the stored versions as json. The mail is read from the filename argument or
// from stdin, if no filename is given.
type parseCommand struct {
	Pipeline *ingest.Pipeline

	filename string `wire:"-"`
}

func (c *parseCommand) run() error {
	text, err := c.readInput()
	if err != nil {
		return err
	}

	saved, err := c.Pipeline.Process(context.Background(), string(text))
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	return encoder.Encode(saved)
}

func (c *parseCommand) readInput() ([]byte, error) {
	if c.filename == "" {
		return io.ReadAll(os.Stdin)
	}

	return os.ReadFile(c.filename)
}
