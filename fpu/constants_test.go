// This file is part of fpu68k.
//
// fpu68k is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// fpu68k is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with fpu68k.  If not, see <https://www.gnu.org/licenses/>.

package fpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go68k/fpu68k/fpu/kernel"
	"github.com/go68k/fpu68k/internal/bus"
)

// TestConstantROMPi pins the canonical pi entry's exact bit pattern
// (scenario S1: FMOVECR loading pi must produce a specific, checkable
// result, not merely "something close to pi").
func TestConstantROMPi(t *testing.T) {
	pi := constantROM[0x00]
	assert.Equal(t, uint16(0x4000), pi.exp)
	assert.Equal(t, uint32(0xC90FDAA2), pi.hi)
	assert.Equal(t, uint32(0x2168C235), pi.lo)
	assert.True(t, pi.inexact)
}

func TestUndefinedSlotsDoNotPanic(t *testing.T) {
	mem := bus.New(64)
	f := New(Model68881, kernel.New(), mem)

	for offset := uint8(1); offset <= 0x0A; offset++ {
		assert.NotPanics(t, func() {
			f.undefinedSlot(offset)
		})
	}
}
