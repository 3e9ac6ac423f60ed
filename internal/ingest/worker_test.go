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
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"

	"github.com/krzysztof-prog/markbud/internal/versions"
)

// sourceStub hands out each batch of mails exactly once.
type sourceStub struct {
	mu      sync.Mutex
	batches [][]string
	err     error
}

func (s *sourceStub) FetchUnread() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}

	if len(s.batches) == 0 {
		return nil, nil
	}

	batch := s.batches[0]
	s.batches = s.batches[1:]
	return batch, nil
}

type processorStub struct {
	mu        sync.Mutex
	processed []string
	err       error
}

func (p *processorStub) Process(_ context.Context, raw string) ([]versions.SavedMail, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.processed = append(p.processed, raw)
	return nil, p.err
}

func (p *processorStub) snapshot() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]string(nil), p.processed...)
}

func TestWorkerProcessesFetchedMails(t *testing.T) {
	viper.Set("ingest.interval", time.Hour)

	var (
		source    = &sourceStub{batches: [][]string{{"first", "second"}}}
		processor = &processorStub{}
		worker    = Worker{Source: source, Processor: processor}
	)

	worker.WakeUp()

	assert.Eventually(t, func() bool {
		return len(processor.snapshot()) == 2
	}, time.Second, time.Millisecond*10)

	assert.Equal(t, []string{"first", "second"}, processor.snapshot())
}

func TestWorkerContinuesAfterProcessingError(t *testing.T) {
	viper.Set("ingest.interval", time.Hour)

	var (
		source    = &sourceStub{batches: [][]string{{"bad", "good"}}}
		processor = &processorStub{err: errors.New("parse exploded")}
		worker    = Worker{Source: source, Processor: processor}
	)

	worker.WakeUp()

	assert.Eventually(t, func() bool {
		return len(processor.snapshot()) == 2
	}, time.Second, time.Millisecond*10)
}

func TestWorkerSurvivesSourceError(t *testing.T) {
	viper.Set("ingest.interval", time.Millisecond*20)

	var (
		source    = &sourceStub{err: errors.New("imap unreachable")}
		processor = &processorStub{}
		worker    = Worker{Source: source, Processor: processor}
	)

	worker.WakeUp()

	// The worker must go back to sleep instead of crashing or spinning.
	time.Sleep(time.Millisecond * 50)

	source.mu.Lock()
	source.err = nil
	source.batches = [][]string{{"late"}}
	source.mu.Unlock()

	assert.Eventually(t, func() bool {
		return len(processor.snapshot()) == 1
	}, time.Second, time.Millisecond*10)
}
