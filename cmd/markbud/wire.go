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

//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/krzysztof-prog/markbud/internal/archive"
	"github.com/krzysztof-prog/markbud/internal/database"
	"github.com/krzysztof-prog/markbud/internal/decisions"
	"github.com/krzysztof-prog/markbud/internal/deliveries"
	"github.com/krzysztof-prog/markbud/internal/enrichment"
	"github.com/krzysztof-prog/markbud/internal/ingest"
	"github.com/krzysztof-prog/markbud/internal/parser"
	"github.com/krzysztof-prog/markbud/internal/shell"
	"github.com/krzysztof-prog/markbud/internal/versions"
)

var wireSet = wire.NewSet(
	wire.Struct(new(startCommand), "*"),
	wire.Struct(new(parseCommand), "Pipeline"),
	wire.Struct(new(shellCommand), "*"),

	archive.WireSet,
	database.WireSet,
	decisions.WireSet,
	deliveries.WireSet,
	enrichment.WireSet,
	ingest.WireSet,
	parser.WireSet,
	shell.WireSet,
	versions.WireSet,
)

func newStartCommand() (*startCommand, error) {
	panic(wire.Build(wireSet))
}

func newParseCommand() (*parseCommand, error) {
	panic(wire.Build(wireSet))
}

func newShellCommand() (*shellCommand, error) {
	panic(wire.Build(wireSet))
}
