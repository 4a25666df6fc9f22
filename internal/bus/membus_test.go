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

package bus_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go68k/fpu68k/internal/bus"
)

func TestReadWriteRoundTrip(t *testing.T) {
	m := bus.New(256)

	out := m.WriteLong(4, 0xDEADBEEF)
	require.False(t, out.Faulted)

	v, out := m.ReadLong(4)
	require.False(t, out.Faulted)
	assert.Equal(t, uint32(0xDEADBEEF), v)
}

func TestOutOfBoundsFaults(t *testing.T) {
	m := bus.New(16)

	_, out := m.ReadLong(14)
	assert.True(t, out.Faulted)
}

func TestRegisters(t *testing.T) {
	m := bus.New(16)
	m.SetDataRegister(3, 42)
	m.SetAddressRegister(7, 0x1000)

	assert.Equal(t, uint32(42), m.DataRegister(3))
	assert.Equal(t, uint32(0x1000), m.AddressRegister(7))
}

func TestRaiseExceptionRecorded(t *testing.T) {
	m := bus.New(16)
	m.RaiseException(48)
	m.RaiseException(54)

	assert.Equal(t, []int{48, 54}, m.RaisedExceptions())
}
