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

// Outcome is the result of a single bus access: either the access went
// through, or it didn't and the host CPU needs to take over with vector as
// an access-fault exception instead of the FPU continuing the instruction.
// It replaces a longjmp back to the 68k's own exception handling with an
// explicit, checkable value every codec call has to look at.
type Outcome struct {
	Faulted bool
	Vector  int
}

// ok is the zero-value successful Outcome.
var ok = Outcome{}

func faulted(vector int) Outcome { return Outcome{Faulted: true, Vector: vector} }

// MMUFixup carries the extra state a 68040/68060 FSAVE must snapshot so a
// page fault mid-instruction can be retried after FRESTORE: the effective
// address computation the operation was using when it trapped.
type MMUFixup struct {
	EffectiveAddress uint32
	Valid            bool
}

// HostBus is everything the FPU core needs from the host 68k CPU and its
// memory system: integer register access for EA calculation operands,
// raw memory access for operand loads/stores and FSAVE/FRESTORE frame I/O,
// and the ability to push the coprocessor into the CPU's own exception
// delivery once the Exception Controller decides a trap is due.
//
// Every access method returns an Outcome instead of an error so that a bus
// fault partway through a multi-word access (an extended operand straddling
// a page boundary, say) is reported exactly once, at the point of failure,
// without the caller needing to unwind anything itself.
type HostBus interface {
	ReadByte(addr uint32) (uint8, Outcome)
	ReadWord(addr uint32) (uint16, Outcome)
	ReadLong(addr uint32) (uint32, Outcome)
	WriteByte(addr uint32, v uint8) Outcome
	WriteWord(addr uint32, v uint16) Outcome
	WriteLong(addr uint32, v uint32) Outcome

	DataRegister(n uint8) uint32
	SetDataRegister(n uint8, v uint32)
	AddressRegister(n uint8) uint32
	SetAddressRegister(n uint8, v uint32)

	PC() uint32
	SetPC(addr uint32)

	// StackPointer and SetStackPointer address the active (supervisor,
	// while the coprocessor is being serviced) stack pointer, for pushing
	// and popping exception and FSAVE/FRESTORE frame words.
	StackPointer() uint32
	SetStackPointer(addr uint32)

	// RaiseException hands control to the host CPU's own exception
	// delivery for the given vector number, once the Exception Controller
	// has decided a pending exception must actually be taken.
	RaiseException(vector int)

	// MMUFixup reports the in-flight effective address an interrupted
	// memory operation was using, for a 68040/68060 BUSY frame to capture.
	MMUFixup() MMUFixup
}
