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

package versions

import "sync"

// locks serializes version writes per delivery code. Acquire blocks until the
// code is free, unlike a try-lock, because two mails for the same code must
// both be stored, just not at the same time.
type locks struct {
	entries map[string]*entry
	mu      sync.Mutex
}

type entry struct {
	mu   sync.Mutex
	refs int
}

func newLocks() *locks {
	return &locks{
		entries: make(map[string]*entry),
	}
}

func (l *locks) acquire(key string) {
	l.mu.Lock()

	e, ok := l.entries[key]
	if !ok {
		e = &entry{}
		l.entries[key] = e
	}

	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
}

func (l *locks) release(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e := l.entries[key]
	e.mu.Unlock()

	if e.refs--; e.refs == 0 {
		delete(l.entries, key)
	}
}
