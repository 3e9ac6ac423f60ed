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

package log

import (
	"context"

	"github.com/rs/zerolog"
)

type fieldMail struct{}
type fieldDeliveryCode struct{}
type fieldActor struct{}
type fieldCommand struct{}

// WithMail adds the archive id of the mail being processed to the context.
func WithMail(ctx context.Context, mail string) context.Context {
	return context.WithValue(ctx, fieldMail{}, mail)
}

// WithDeliveryCode adds the delivery code to the context.
func WithDeliveryCode(ctx context.Context, code string) context.Context {
	return context.WithValue(ctx, fieldDeliveryCode{}, code)
}

// WithActor adds the acting operator to the context.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, fieldActor{}, actor)
}

// WithCommand adds the command name to the context.
func WithCommand(ctx context.Context, command string) context.Context {
	return context.WithValue(ctx, fieldCommand{}, command)
}

// appendContextFields adds defined fields in the context to the log event.
func appendContextFields(ctx context.Context, event *zerolog.Event) *zerolog.Event {
	if mail, ok := ctx.Value(fieldMail{}).(string); ok {
		event.Str("mail", mail)
	}

	if code, ok := ctx.Value(fieldDeliveryCode{}).(string); ok {
		event.Str("deliveryCode", code)
	}

	if actor, ok := ctx.Value(fieldActor{}).(string); ok {
		event.Str("actor", actor)
	}

	if command, ok := ctx.Value(fieldCommand{}).(string); ok {
		event.Str("command", command)
	}

	return event
}
