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
	"github.com/krzysztof-prog/markbud/internal/ingest"
	"github.com/krzysztof-prog/markbud/internal/log"
)

type startCommand struct {
	Worker *ingest.Worker
}

func (c *startCommand) run() error {
	c.Worker.WakeUp()

	log.Info().Msg("markbud is running")
	<-make(chan bool)

	return nil
}
