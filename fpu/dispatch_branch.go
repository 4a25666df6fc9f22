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

// dispatchBranch implements FBcc: the 6-bit condition lives in the main
// opcode word's low bits (not the extension word, since FBcc never has
// one beyond the displacement itself), and bit 6 of that same word selects
// the long-displacement form, read as a further extension long.
func (f *FPU) dispatchBranch(opcode, iword uint16) Outcome {
	cond := Condition(opcode & 0x3F)
	longForm := opcode&0x40 != 0

	base := f.regs.fpiar
	var displacement int32
	if longForm {
		d, out := f.bus.ReadLong(f.bus.PC())
		if out.Faulted {
			return out
		}
		f.bus.SetPC(f.bus.PC() + 4)
		displacement = int32(d)
	} else {
		displacement = int32(int16(iword))
	}

	result, aborted := f.evaluateCondition(cond)
	if aborted {
		return ok
	}
	if result {
		f.bus.SetPC(uint32(int64(base) + int64(displacement)))
	}
	return ok
}

// dispatchDBccSccTrapcc multiplexes FDBcc, FScc and FTRAPcc, distinguished
// by the EA field the generic decode already split out: FDBcc always
// targets a data register (eaMode 1), FTRAPcc never resolves an EA at all
// (eaReg 2-4 select its immediate-operand size), everything else is FScc
// writing a boolean byte to its EA.
func (f *FPU) dispatchDBccSccTrapcc(opcode, iword uint16) Outcome {
	cond := Condition(iword & 0x3F)
	eaMode := uint8((opcode >> 3) & 7)
	eaReg := uint8(opcode & 7)

	switch {
	case eaMode == 1: // FDBcc
		disp, out := f.bus.ReadWord(f.bus.PC())
		if out.Faulted {
			return out
		}
		f.bus.SetPC(f.bus.PC() + 2)

		result, aborted := f.evaluateCondition(cond)
		if aborted {
			return ok
		}
		if result {
			return ok
		}
		counter := int16(f.bus.DataRegister(eaReg))
		counter--
		f.bus.SetDataRegister(eaReg, uint32(uint16(counter)))
		if counter != -1 {
			f.bus.SetPC(uint32(int64(f.regs.fpiar) + int64(int16(disp))))
		}
		return ok

	case eaMode == 7 && eaReg >= 2 && eaReg <= 4: // FTRAPcc
		size := [5]int{2: 0, 3: 2, 4: 4}[eaReg]
		f.bus.SetPC(f.bus.PC() + uint32(size))
		result, aborted := f.evaluateCondition(cond)
		if aborted {
			return ok
		}
		if result {
			f.bus.RaiseException(7) // TRAPcc vector
		}
		return ok

	default: // FScc
		if eaMode == 0 { // Dn: merge into the register's low byte only
			result, aborted := f.evaluateCondition(cond)
			if aborted {
				return ok
			}
			var v uint32
			if result {
				v = 0xFF
			}
			f.bus.SetDataRegister(eaReg, (f.bus.DataRegister(eaReg) &^ 0xFF) | v)
			return ok
		}

		addr, postAdjust, out := f.operandAddressOrRegister(eaMode, eaReg, 1)
		if out.Faulted {
			return out
		}
		result, aborted := f.evaluateCondition(cond)
		if aborted {
			return ok
		}
		var v uint8
		if result {
			v = 0xFF
		}
		if out := f.bus.WriteByte(addr, v); out.Faulted {
			return out
		}
		postAdjust()
		return ok
	}
}

func (f *FPU) dispatchSave(eaMode, eaReg uint8) Outcome {
	addr, postAdjust, out := f.operandAddress(eaMode, eaReg, 4)
	if out.Faulted {
		return out
	}
	n, out := f.Save(addr)
	if out.Faulted {
		return out
	}
	if eaMode == 4 { // predecrement already reserved the frame's first long; back up over the rest
		f.bus.SetAddressRegister(eaReg, f.bus.AddressRegister(eaReg)-uint32(n-4))
	}
	postAdjust()
	return ok
}

func (f *FPU) dispatchRestore(eaMode, eaReg uint8) Outcome {
	addr, postAdjust, out := f.operandAddress(eaMode, eaReg, 4)
	if out.Faulted {
		return out
	}
	n, out := f.Restore(addr)
	if out.Faulted {
		return out
	}
	postAdjust()
	if eaMode == 3 { // postincrement already advanced past the first long only
		f.bus.SetAddressRegister(eaReg, f.bus.AddressRegister(eaReg)+uint32(n-4))
	}
	return ok
}
