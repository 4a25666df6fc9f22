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

// cpGenOpclass reads the general "CpGEN" extension word's top 3 bits,
// which is how Motorola's own decode actually distinguishes arithmetic
// (opclass 0 or 2), FMOVE to memory (opclass 3) and FMOVEM (opclass 6 or
// 7) from each other: they all share the one F200/F2xx first word, with
// only the extension word telling them apart. Opclass 4/5 (control
// register move) is folded into opclass 0/2's memory-format side by
// dispatchGeneral/dispatchMoveToMemory's own field layout, since the
// control registers (FPCR/FPSR/FPIAR) are addressed with the same
// register-list encoding FMOVEM uses; dispatchMoveMultiple tells them
// apart by its own register-mask field.
func cpGenOpclass(iword uint16) uint16 { return (iword >> 13) & 7 }

// dispatch decodes and runs one F-line instruction. opcode is the full
// first F-line word (0xF2xx and friends); iword is its mandatory extension
// word (ignored by the classes that don't use one).
//
// Bits 8-6 of the main opcode word select which CpXXX instruction group
// this is, the same way a real coprocessor's dispatch table does: 000 is
// CpGEN (general arithmetic, FMOVE-to-memory, FMOVEM and control-register
// move, sub-selected by the extension word's opclass field above), 01x is
// FBcc (which consumes the rest of the word itself for its condition and
// size, so no further EA field exists), and the remaining buckets (FDBcc/
// FScc/FTRAPcc and FSAVE/FRESTORE) are disjoint from the EA's own mode/reg
// fields (bits 5-0) so they can never alias an addressing mode the way the
// previous opcode&0x7F scheme did.
func (f *FPU) dispatch(opcode, iword uint16) Outcome {
	eaMode := uint8((opcode >> 3) & 7)
	eaReg := uint8(opcode & 7)
	group := (opcode >> 6) & 7

	switch {
	case group == 0: // CpGEN
		switch cpGenOpclass(iword) {
		case 0, 2:
			return f.dispatchGeneral(eaMode, eaReg, iword)
		case 3:
			return f.dispatchMoveToMemory(eaMode, eaReg, iword)
		case 4, 5:
			return f.dispatchGeneral(eaMode, eaReg, iword) // control-register move shares FMOVE's opmode 0 path
		case 6, 7:
			return f.dispatchMoveMultiple(eaMode, eaReg, iword)
		}
		f.logUnimplemented(opcode, iword)
		return ok

	case opcode&0x180 == 0x080: // FBcc: bits 8-7 == 01
		return f.dispatchBranch(opcode, iword)

	case group == 1: // FDBcc/FScc/FTRAPcc
		return f.dispatchDBccSccTrapcc(opcode, iword)

	case group == 4: // FSAVE
		return f.dispatchSave(eaMode, eaReg)

	case group == 5: // FRESTORE
		return f.dispatchRestore(eaMode, eaReg)

	default:
		f.logUnimplemented(opcode, iword)
		return ok
	}
}

// operandAddress resolves the small set of addressing modes this
// dispatcher needs an effective address for: address-register indirect,
// postincrement, predecrement and absolute long. Register-direct and
// immediate are handled by their callers directly since they never touch
// the bus the same way.
func (f *FPU) operandAddress(eaMode, eaReg uint8, size int) (addr uint32, postAdjust func(), out Outcome) {
	switch eaMode {
	case 2: // (An)
		return f.bus.AddressRegister(eaReg), func() {}, ok

	case 3: // (An)+
		a := f.bus.AddressRegister(eaReg)
		return a, func() { f.bus.SetAddressRegister(eaReg, a+uint32(size)) }, ok

	case 4: // -(An)
		a := f.bus.AddressRegister(eaReg) - uint32(size)
		f.bus.SetAddressRegister(eaReg, a)
		return a, func() {}, ok

	case 7:
		if eaReg == 1 { // absolute long
			w, out := f.bus.ReadLong(f.bus.PC())
			if out.Faulted {
				return 0, func() {}, out
			}
			f.bus.SetPC(f.bus.PC() + 4)
			return w, func() {}, ok
		}
		fallthrough

	default:
		return 0, func() {}, faulted(vectorIllegalInstruction)
	}
}

// vectorIllegalInstruction is raised when the dispatcher is asked to
// resolve an addressing mode it doesn't support for the FPU's operand set
// (this emulation supports the memory-indirect modes needed by the spec's
// scenarios; register-relative and memory-indirect-with-index are not
// modelled).
const vectorIllegalInstruction = 4

// loadSource resolves an F-line source operand, including the one EA the
// bus-address-based operandAddress can never represent: data-register
// direct. Only byte/word/long/single ever arrive in a Dn (the 68k encodes no
// other format there); address-register direct is not a valid FP source at
// all and falls through to operandAddressOrRegister's own illegal-access
// path.
func (f *FPU) loadSource(eaMode, eaReg uint8, format Format, kfactor int8) (Extended, func(), Outcome) {
	if eaMode == 0 { // Dn
		v := f.bus.DataRegister(eaReg)
		switch format {
		case FormatByte:
			return integerToExtended(int64(int8(v))), func() {}, ok
		case FormatWord:
			return integerToExtended(int64(int16(v))), func() {}, ok
		case FormatLong:
			return integerToExtended(int64(int32(v))), func() {}, ok
		case FormatSingle:
			return f.kernel.FromSingle(v), func() {}, ok
		default:
			return Extended{}, func() {}, faulted(vectorIllegalInstruction)
		}
	}

	addr, postAdjust, out := f.operandAddressOrRegister(eaMode, eaReg, format.size())
	if out.Faulted {
		return Extended{}, func() {}, out
	}
	v, out := f.loadOperand(addr, format, kfactor)
	return v, postAdjust, out
}

// storeDestination is loadSource's mirror for FMOVE Fp,<ea> and FScc: a Dn
// destination is written in place, merging into the register's low bytes
// for byte/word so the untouched high bytes survive, the same way a real
// 68k data-register-direct destination behaves for any instruction.
func (f *FPU) storeDestination(eaMode, eaReg uint8, format Format, v Extended, kfactor int8) (func(), Outcome) {
	if eaMode == 0 { // Dn
		switch format {
		case FormatByte:
			mag, out := f.integerStoreValue(v)
			if out.Faulted {
				return func() {}, out
			}
			f.bus.SetDataRegister(eaReg, (f.bus.DataRegister(eaReg) &^ 0xFF) | uint32(uint8(mag)))
		case FormatWord:
			mag, out := f.integerStoreValue(v)
			if out.Faulted {
				return func() {}, out
			}
			f.bus.SetDataRegister(eaReg, (f.bus.DataRegister(eaReg) &^ 0xFFFF) | uint32(uint16(mag)))
		case FormatLong:
			mag, out := f.integerStoreValue(v)
			if out.Faulted {
				return func() {}, out
			}
			f.bus.SetDataRegister(eaReg, uint32(mag))
		case FormatSingle:
			f.bus.SetDataRegister(eaReg, f.kernel.ToSingle(v))
		default:
			return func() {}, faulted(vectorIllegalInstruction)
		}
		return func() {}, ok
	}

	addr, postAdjust, out := f.operandAddressOrRegister(eaMode, eaReg, format.size())
	if out.Faulted {
		return func() {}, out
	}
	if out := f.storeOperand(addr, format, v, kfactor); out.Faulted {
		return func() {}, out
	}
	return postAdjust, ok
}
