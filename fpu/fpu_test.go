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

package fpu_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go68k/fpu68k/fpu"
	"github.com/go68k/fpu68k/fpu/kernel"
	"github.com/go68k/fpu68k/internal/bus"
)

// TestFMOVECRPi is scenario S1: FMOVECR of offset 0 must load the exact pi
// bit pattern into the destination register, end to end through Execute.
func TestFMOVECRPi(t *testing.T) {
	mem := bus.New(64)
	f := fpu.New(fpu.Model68881, kernel.New(), mem)

	const dest = 3
	iword := uint16(dest)<<7 | 0x5C00 // FMOVECR, offset 0 (pi)

	out := f.Execute(0x2000, 0xF200, iword)
	require.False(t, out.Faulted)

	got := f.Register(dest)
	assert.False(t, got.Sign)
	assert.Equal(t, uint16(0x4000), got.Exponent)
	assert.Equal(t, uint64(0xC90FDAA22168C235), got.Mantissa)
	assert.True(t, f.FPSR().Z() == false)
}

// TestFADDRegisterToRegister exercises the dyadic arithmetic path and the
// condition codes it leaves behind.
func TestFADDRegisterToRegister(t *testing.T) {
	mem := bus.New(64)
	f := fpu.New(fpu.Model68881, kernel.New(), mem)

	// load 1.0 (constant-ROM offset 0x32, 10^0) into FP0 and FP1
	loadOne := func(dest uint8) {
		iword := uint16(dest)<<7 | 0x5C00 | 0x32
		out := f.Execute(0x1000, 0xF200, iword)
		require.False(t, out.Faulted)
	}
	loadOne(0)
	loadOne(1)

	// FADD FP1,FP0: R/M=0 (register source), source FP1, dest FP0, opFADD
	iword := uint16(1)<<10 | uint16(0)<<7 | 0x22
	out := f.Execute(0x1004, 0xF200, iword)
	require.False(t, out.Faulted)

	result := f.Register(0)
	k := kernel.New()
	assert.InDelta(t, 2.0, k.ToDoubleExtended(result), 1e-6)
}

// TestUnimplementedOpcodeRecordsFault confirms the unimplemented-opcode
// path records the opcode's address in the fault log without faulting the
// instruction. (The UNIMP frame it leaves behind is covered by
// TestUnimpFrameSizesByRevision.)
func TestUnimplementedOpcodeRecordsFault(t *testing.T) {
	mem := bus.New(64)
	f := fpu.New(fpu.Model68040, kernel.New(), mem)

	out := f.Execute(0x3000, 0xF380, 0x0000) // opcode group 6 (bits 8-6 = 110): not implemented
	require.False(t, out.Faulted)

	entries := f.Faults().Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, uint32(0x3000), entries[0].InstructionAddr)
}
