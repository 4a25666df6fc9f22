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

// dispatchMoveToMemory implements FMOVE Fp,<ea>: the extension word's
// bits 12-10 name the destination format (any of the seven Format values,
// with FormatPacked taking a static k-factor, and code 7 selecting packed
// with a dynamic k-factor), bits 9-7 the source register.
func (f *FPU) dispatchMoveToMemory(eaMode, eaReg uint8, iword uint16) Outcome {
	format := Format((iword >> 10) & 7)
	src := uint8((iword >> 7) & 7)

	dynamicK := format == 7
	if dynamicK {
		format = FormatPacked
	}

	var kfactor int8
	if format == FormatPacked {
		if dynamicK { // dynamic k-factor in a data register
			dReg := uint8((iword >> 4) & 7)
			kfactor = int8(f.bus.DataRegister(dReg))
		} else {
			kfactor = int8(iword & 0x7F)
			if kfactor&0x40 != 0 {
				kfactor |= ^int8(0x7F) // sign-extend the 7-bit static k-factor
			}
		}
	}

	value := f.regs.get(src)
	postAdjust, out := f.storeDestination(eaMode, eaReg, format, value, kfactor)
	if out.Faulted {
		return out
	}
	postAdjust()

	f.foldKernelStatus()
	f.checkArithmeticException()
	return ok
}
