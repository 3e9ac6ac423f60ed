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

package ingest

import (
	"context"
	"sync"
	"time"

	"github.com/spf13/viper"

	"github.com/krzysztof-prog/markbud/internal/log"
	"github.com/krzysztof-prog/markbud/internal/versions"
)

func init() {
	viper.SetDefault("ingest.interval", time.Minute*2)
}

// Processor runs one raw mail through the processing pipeline.
type Processor interface {
	Process(ctx context.Context, raw string) ([]versions.SavedMail, error)
}

// Worker polls the Source in the background. A failing mail is logged and
// skipped; the next poll happens after `ingest.interval` either way.
type Worker struct {
	Source    Source
	Processor Processor

	lock  sync.Mutex  `wire:"-"`
	alarm *time.Timer `wire:"-"`
	busy  bool        `wire:"-"`
}

// WakeUp triggers an immediate poll unless one is already running.
func (w *Worker) WakeUp() {
	w.lock.Lock()
	defer w.lock.Unlock()

	if w.alarm != nil {
		w.alarm.Stop()
		w.alarm = nil
	}

	if !w.busy {
		w.busy = true
		go w.work()
	}
}

func (w *Worker) sleep(d time.Duration) {
	w.alarm = time.AfterFunc(d, w.WakeUp)
}

func (w *Worker) work() {
	ctx := context.Background()

	mails, err := w.Source.FetchUnread()
	if err != nil {
		log.Error().
			Err(err).
			Msg("could not fetch mails")
	}

	for _, raw := range mails {
		if _, err := w.Processor.Process(ctx, raw); err != nil {
			log.ErrorContext(ctx).
				Err(err).
				Msg("could not process mail")
		}
	}

	w.lock.Lock()
	defer w.lock.Unlock()

	w.busy = false
	w.sleep(viper.GetDuration("ingest.interval"))
}
