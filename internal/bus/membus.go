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

// Package bus implements fpu.HostBus over a flat byte slice, for use by the
// fpu package's own test suites and by cmd/fpudbg. It has no MMU, no bus
// error regions and no real 68k register file behind it: DataRegister and
// AddressRegister are just two more arrays, which is enough to drive
// addressing modes and FMOVEM/FDBcc operand flow without a whole CPU core.
package bus

import "github.com/go68k/fpu68k/fpu"

// vectorBusError is the vector a Memory access reports on an out-of-bounds
// reference, standing in for a real 68k bus error.
const vectorBusError = 2

// Memory is a fixed-size, zero-initialised address space with 32-bit
// address registers and data registers alongside it.
type Memory struct {
	mem  []byte
	d, a [8]uint32
	pc   uint32
	sp   uint32

	raised []int
	fixup  fpu.MMUFixup
}

// New returns a Memory of the given size, addresses 0..size-1.
func New(size int) *Memory {
	return &Memory{mem: make([]byte, size)}
}

func (m *Memory) bounds(addr uint32, n int) bool {
	return int(addr)+n <= len(m.mem) && addr < uint32(len(m.mem))
}

func (m *Memory) ReadByte(addr uint32) (uint8, fpu.Outcome) {
	if !m.bounds(addr, 1) {
		return 0, fpu.Outcome{Faulted: true, Vector: vectorBusError}
	}
	return m.mem[addr], fpu.Outcome{}
}

func (m *Memory) ReadWord(addr uint32) (uint16, fpu.Outcome) {
	if !m.bounds(addr, 2) {
		return 0, fpu.Outcome{Faulted: true, Vector: vectorBusError}
	}
	return uint16(m.mem[addr])<<8 | uint16(m.mem[addr+1]), fpu.Outcome{}
}

func (m *Memory) ReadLong(addr uint32) (uint32, fpu.Outcome) {
	if !m.bounds(addr, 4) {
		return 0, fpu.Outcome{Faulted: true, Vector: vectorBusError}
	}
	return uint32(m.mem[addr])<<24 | uint32(m.mem[addr+1])<<16 | uint32(m.mem[addr+2])<<8 | uint32(m.mem[addr+3]), fpu.Outcome{}
}

func (m *Memory) WriteByte(addr uint32, v uint8) fpu.Outcome {
	if !m.bounds(addr, 1) {
		return fpu.Outcome{Faulted: true, Vector: vectorBusError}
	}
	m.mem[addr] = v
	return fpu.Outcome{}
}

func (m *Memory) WriteWord(addr uint32, v uint16) fpu.Outcome {
	if !m.bounds(addr, 2) {
		return fpu.Outcome{Faulted: true, Vector: vectorBusError}
	}
	m.mem[addr], m.mem[addr+1] = byte(v>>8), byte(v)
	return fpu.Outcome{}
}

func (m *Memory) WriteLong(addr uint32, v uint32) fpu.Outcome {
	if !m.bounds(addr, 4) {
		return fpu.Outcome{Faulted: true, Vector: vectorBusError}
	}
	m.mem[addr] = byte(v >> 24)
	m.mem[addr+1] = byte(v >> 16)
	m.mem[addr+2] = byte(v >> 8)
	m.mem[addr+3] = byte(v)
	return fpu.Outcome{}
}

func (m *Memory) DataRegister(n uint8) uint32      { return m.d[n&7] }
func (m *Memory) SetDataRegister(n uint8, v uint32) { m.d[n&7] = v }
func (m *Memory) AddressRegister(n uint8) uint32    { return m.a[n&7] }
func (m *Memory) SetAddressRegister(n uint8, v uint32) { m.a[n&7] = v }

func (m *Memory) PC() uint32     { return m.pc }
func (m *Memory) SetPC(v uint32) { m.pc = v }

func (m *Memory) StackPointer() uint32     { return m.sp }
func (m *Memory) SetStackPointer(v uint32) { m.sp = v }

// RaiseException just records the vector for a test to assert against;
// there is no real trap handler behind this bus.
func (m *Memory) RaiseException(vector int) { m.raised = append(m.raised, vector) }

// RaisedExceptions returns every vector RaiseException has recorded, in
// order, for tests to inspect.
func (m *Memory) RaisedExceptions() []int { return m.raised }

// SetMMUFixup lets a test stage the effective address a simulated page
// fault should report through FSAVE's BUSY frame.
func (m *Memory) SetMMUFixup(addr uint32) { m.fixup = fpu.MMUFixup{EffectiveAddress: addr, Valid: true} }

func (m *Memory) MMUFixup() fpu.MMUFixup { return m.fixup }

// LoadBytes copies data into the address space starting at addr, for a
// test or the inspector to seed a program or operand.
func (m *Memory) LoadBytes(addr uint32, data []byte) {
	copy(m.mem[addr:], data)
}
