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

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocksSerializeSameKey(t *testing.T) {
	const goroutines = 16

	var (
		l       = newLocks()
		wg      sync.WaitGroup
		counter int
	)

	wg.Add(goroutines)

	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()

			l.acquire("15.06.2026_I")
			defer l.release("15.06.2026_I")

			// Not atomic on purpose. The lock must make this safe.
			counter++
		}()
	}

	wg.Wait()

	assert.Equal(t, goroutines, counter)
	assert.Empty(t, l.entries)
}

func TestLocksIndependentKeys(t *testing.T) {
	l := newLocks()

	l.acquire("15.06.2026_I")

	done := make(chan struct{})

	go func() {
		// A different key must not block.
		l.acquire("15.06.2026_II")
		l.release("15.06.2026_II")
		close(done)
	}()

	<-done

	l.release("15.06.2026_I")
	assert.Empty(t, l.entries)
}
