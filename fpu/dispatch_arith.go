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

// Opmodes of the "general" instruction class: monadic and dyadic
// arithmetic, FMOVE between registers or from memory, FMOVECR and the two
// comparison instructions. Mirrors Motorola's own 7-bit opmode field.
const (
	opFMOVE    = 0x00
	opFINT     = 0x01
	opFINTRZ   = 0x03
	opFSQRT    = 0x04
	opFABS     = 0x18
	opFNEG     = 0x1A
	opFGETEXP  = 0x1E
	opFGETMAN  = 0x1F
	opFDIV     = 0x20
	opFMOD     = 0x21
	opFADD     = 0x22
	opFMUL     = 0x23
	opFSGLDIV  = 0x24
	opFREM     = 0x25
	opFSCALE   = 0x26
	opFSGLMUL  = 0x27
	opFSUB     = 0x28
	opFCMP     = 0x38
	opFTST     = 0x3A
)

// dispatchGeneral decodes the general instruction class's extension word:
// bit 14 is R/M (0 = source is a register, 1 = source is memory in the
// format named by bits 13-10), bits 9-7 are the destination register, and
// bits 6-0 are the opmode.
//
// fmovecrPattern/fmovecrMask pick out FMOVECR from the same extension word:
// format 7 (bits 12-10) is reserved everywhere else, so the chip repurposes
// R/M=1, format=7 as "the low 6 bits are a constant-ROM offset, not a
// source specifier".
const (
	fmovecrMask    = 0xFC00
	fmovecrPattern = 0x5C00
)

func (f *FPU) dispatchGeneral(eaMode, eaReg uint8, iword uint16) Outcome {
	dest := uint8((iword >> 7) & 7)

	if iword&fmovecrMask == fmovecrPattern {
		offset := uint8(iword & 0x3F)
		result := f.loadConstant(offset)
		f.regs.set(dest, f.unaryOp(result))
		return ok
	}

	regToReg := iword&0x4000 == 0
	opmode := uint8(iword & 0x7F)

	var src Extended
	if regToReg {
		src = f.regs.get(uint8((iword >> 10) & 7))
	} else {
		format := Format((iword >> 10) & 7)
		kfactor := int8(iword & 0x7F)
		loaded, postAdjust, out := f.loadSource(eaMode, eaReg, format, kfactor)
		if out.Faulted {
			return out
		}
		postAdjust()
		src = loaded
	}

	switch opmode &^ 0x40 { // bit 6 forces single/double precision for the duration of the op; precision override not modelled
	case opFMOVE:
		f.regs.set(dest, f.unaryOp(f.kernel.Move(src)))

	case opFINT:
		f.regs.set(dest, f.unaryOp(f.roundToInteger(src, f.regs.fpcr.RoundMode())))

	case opFINTRZ:
		f.regs.set(dest, f.unaryOp(f.roundToInteger(src, RoundZero)))

	case opFSQRT:
		f.regs.set(dest, f.unaryOp(f.kernel.Sqrt(src)))

	case opFABS:
		f.regs.set(dest, f.unaryOp(f.kernel.Abs(src)))

	case opFNEG:
		f.regs.set(dest, f.unaryOp(f.kernel.Neg(src)))

	case opFGETEXP:
		f.regs.set(dest, f.unaryOp(fgetexp(src)))

	case opFGETMAN:
		f.regs.set(dest, f.unaryOp(fgetman(src)))

	case opFDIV, opFSGLDIV:
		f.regs.set(dest, f.unaryOp(f.kernel.Div(f.regs.get(dest), src)))

	case opFMOD:
		q, _ := f.kernel.Mod(f.regs.get(dest), src)
		f.regs.set(dest, f.unaryOp(q))

	case opFADD:
		f.regs.set(dest, f.unaryOp(f.kernel.Add(f.regs.get(dest), src)))

	case opFMUL, opFSGLMUL:
		f.regs.set(dest, f.unaryOp(f.kernel.Mul(f.regs.get(dest), src)))

	case opFREM:
		r, qbyte := f.kernel.Rem(f.regs.get(dest), src)
		f.regs.fpsr.setQuotient(f.regs.get(dest).Sign != src.Sign, qbyte)
		f.regs.set(dest, f.unaryOp(r))

	case opFSCALE:
		f.regs.set(dest, f.unaryOp(f.kernel.Scale(f.regs.get(dest), src)))

	case opFSUB:
		f.regs.set(dest, f.unaryOp(f.kernel.Sub(f.regs.get(dest), src)))

	case opFCMP:
		n, z := f.kernel.Compare(f.regs.get(dest), src)
		f.compareResult(n, z, src)

	case opFTST:
		n, z := f.kernel.Compare(Extended{}, src)
		f.compareResult(n, z, src)

	default:
		f.logUnimplemented(0, iword)
	}
	return ok
}

// compareResult sets FPSR's condition codes from a compare without
// touching any register, and without running the full arithmetic-exception
// gate: FCMP/FTST only ever raise BSUN, through evaluateCondition, never an
// arithmetic vector.
func (f *FPU) compareResult(n, z bool, operand Extended) {
	f.foldKernelStatus()
	nan := f.kernel.IsNaN(operand)
	inf := f.kernel.IsInfinity(operand)
	f.regs.fpsr.setConditionCodes(n, z, inf, nan)
}

// roundToInteger implements FINT/FINTRZ: round src's magnitude to an
// integer per mode, flagging INEX2 if any fractional bits were discarded.
// A value with no fractional bits (including zero) is already its own
// result and passes through unrounded, matching FINT being a no-op on an
// operand that's already integral.
func (f *FPU) roundToInteger(src Extended, mode RoundMode) Extended {
	if src.Exponent == 0 {
		return src
	}
	if int(src.Exponent)-16383-63 >= 0 {
		return src
	}
	mag, inexact := roundToIntegerExtended(src, mode)
	if inexact {
		f.regs.fpsr.orExceptionStatus(excINEX2)
	}
	if mag == 0 {
		return Extended{Sign: src.Sign}
	}
	return integerToExtended(mag)
}

// fgetexp implements FGETEXP: the source's unbiased exponent, as a signed
// magnitude carrying the source's own sign (not the exponent's).
func fgetexp(src Extended) Extended {
	if src.Exponent == 0 && src.Mantissa == 0 {
		return Extended{Sign: src.Sign}
	}
	exp := int64(src.Exponent) - 16383
	if exp < 0 {
		exp = -exp
	}
	result := integerToExtended(exp)
	result.Sign = src.Sign
	return result
}

// fgetman implements FGETMAN: the source's mantissa normalized into
// [1,2), carrying the source's own sign. An extended significand already
// carries its explicit integer bit, so normalizing to [1,2) is just
// rebiasing the exponent to zero unbiased (16383) without touching the
// mantissa bits at all.
func fgetman(src Extended) Extended {
	if src.Exponent == 0 && src.Mantissa == 0 {
		return Extended{Sign: src.Sign}
	}
	return Extended{Sign: src.Sign, Exponent: 16383, Mantissa: src.Mantissa}
}

// operandAddressOrRegister resolves an EA for an operand held in memory or
// in the instruction stream: immediate (mode 7, register 4) is taken from
// PC, which it advances past the operand; every other mode goes to
// operandAddress. Data-register direct is handled by the callers before
// they get here.
func (f *FPU) operandAddressOrRegister(eaMode, eaReg uint8, size int) (uint32, func(), Outcome) {
	if eaMode == 7 && eaReg == 4 { // immediate: operand follows in the instruction stream
		addr := f.bus.PC()
		f.bus.SetPC(addr + uint32(size))
		return addr, func() {}, ok
	}
	return f.operandAddress(eaMode, eaReg, size)
}
