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

// numRegisters is the size of the floating-point data register file, FP0-FP7.
const numRegisters = 8

// resetNaN is the pattern every FPn is set to on a hard reset: a
// non-signaling NaN with every mantissa bit set, matching the value the
// silicon's own power-on self-test leaves behind.
var resetNaN = Extended{Sign: false, Exponent: 0x7FFF, Mantissa: 0xFFFFFFFFFFFFFFFF}

// registerFile holds the eight extended-precision data registers plus the
// three control registers (FPCR, FPSR, FPIAR) that travel with them.
type registerFile struct {
	fp   [numRegisters]Extended
	fpcr FPCR
	fpsr FPSR
	fpiar uint32
}

func (r *registerFile) reset() {
	for i := range r.fp {
		r.fp[i] = resetNaN
	}
	r.fpcr = FPCR{}
	r.fpsr = FPSR{}
	r.fpiar = 0
}

func (r *registerFile) get(n uint8) Extended  { return r.fp[n&7] }
func (r *registerFile) set(n uint8, v Extended) { r.fp[n&7] = v }
