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

// FMOVEM's extension word shape: bit 13 selects data registers (list form)
// vs control registers (FPCR/FPSR/FPIAR), bit 11 selects load vs store,
// and for the data-register form bit 12 selects a static register list in
// the extension word's low byte (bit clear) or a register list read from
// the data register named by bits 6-4 (bit set).
const (
	movemControlBit = 1 << 13
	movemLoadBit    = 1 << 11
	movemDynamicBit = 1 << 12
)

// Control-register selector bits, bits 12-10 of the extension word when
// movemControlBit is set: any combination may be requested in one
// instruction, always in FPCR, FPSR, FPIAR order regardless of which are
// selected.
const (
	movemFPCR  = 1 << 12
	movemFPSR  = 1 << 11
	movemFPIAR = 1 << 10
)

func (f *FPU) dispatchMoveMultiple(eaMode, eaReg uint8, iword uint16) Outcome {
	if iword&movemControlBit != 0 {
		return f.dispatchMoveControl(eaMode, eaReg, iword)
	}
	return f.dispatchMoveDataRegisters(eaMode, eaReg, iword)
}

func (f *FPU) dispatchMoveControl(eaMode, eaReg uint8, iword uint16) Outcome {
	load := iword&movemLoadBit != 0
	var regs []uint16
	if iword&movemFPCR != 0 {
		regs = append(regs, movemFPCR)
	}
	if iword&movemFPSR != 0 {
		regs = append(regs, movemFPSR)
	}
	if iword&movemFPIAR != 0 {
		regs = append(regs, movemFPIAR)
	}

	for _, r := range regs {
		addr, postAdjust, out := f.operandAddress(eaMode, eaReg, 4)
		if out.Faulted {
			return out
		}
		if load {
			v, out := f.bus.ReadLong(addr)
			if out.Faulted {
				return out
			}
			switch r {
			case movemFPCR:
				f.setFPCR(uint16(v))
			case movemFPSR:
				f.regs.fpsr.SetValue(v)
			case movemFPIAR:
				f.regs.fpiar = v
			}
		} else {
			var v uint32
			switch r {
			case movemFPCR:
				v = uint32(f.regs.fpcr.Value())
			case movemFPSR:
				v = f.regs.fpsr.Value()
			case movemFPIAR:
				v = f.regs.fpiar
			}
			if out := f.bus.WriteLong(addr, v); out.Faulted {
				return out
			}
		}
		postAdjust()
	}
	return ok
}

func (f *FPU) dispatchMoveDataRegisters(eaMode, eaReg uint8, iword uint16) Outcome {
	load := iword&movemLoadBit != 0

	var list uint8
	if iword&movemDynamicBit != 0 {
		dReg := uint8((iword >> 4) & 7)
		list = uint8(f.bus.DataRegister(dReg))
	} else {
		list = uint8(iword & 0xFF)
	}

	// predecrement addressing walks the list from FP0 to FP7 so the first
	// register pushed ends up deepest in memory; every other mode walks
	// FP7 down to FP0, matching the real FMOVEM ordering rule.
	order := [8]uint8{7, 6, 5, 4, 3, 2, 1, 0}
	if eaMode == 4 {
		order = [8]uint8{0, 1, 2, 3, 4, 5, 6, 7}
	}

	for _, n := range order {
		if list&(1<<n) == 0 {
			continue
		}
		addr, postAdjust, out := f.operandAddress(eaMode, eaReg, FormatExtended.size())
		if out.Faulted {
			return out
		}
		if load {
			v, out := f.loadExtended(addr)
			if out.Faulted {
				return out
			}
			f.regs.set(n, v)
		} else {
			if out := f.storeExtended(addr, f.regs.get(n)); out.Faulted {
				return out
			}
		}
		postAdjust()
	}
	return ok
}
