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

// romConstant is one defined FMOVECR slot: its bit pattern plus, for the
// constants that aren't exactly representable, the rounding correction
// FMOVECR applies per current rounding mode once INEX2 has been flagged.
type romConstant struct {
	exp       uint16
	hi, lo    uint32
	inexact   bool
	roundOff  [4]int8 // indexed by RoundMode: nearest, zero, minus-inf, plus-inf
}

// constantROM holds the defined FMOVECR slots: offset 0x00 and 0x0B-0x0F in
// the first bank, 0x30-0x3F in the fourth. Every other offset in the 6-bit
// source-specifier field is an undefined slot (undefinedSlot).
var constantROM = map[uint8]romConstant{
	0x00: {0x4000, 0xc90fdaa2, 0x2168c235, true, [4]int8{0, -1, -1, 0}},  // pi
	0x0B: {0x3ffd, 0x9a209a84, 0xfbcff798, true, [4]int8{0, 0, 0, 1}},    // log10(2)
	0x0C: {0x4000, 0xadf85458, 0xa2bb4a9a, true, [4]int8{0, 0, 0, 1}},    // e
	0x0D: {0x3fff, 0xb8aa3b29, 0x5c17f0bc, true, [4]int8{0, -1, -1, 0}},  // log2(e)
	0x0E: {0x3ffd, 0xde5bd8a9, 0x37287195, false, [4]int8{}},             // log10(e)
	0x0F: {0x0000, 0x00000000, 0x00000000, false, [4]int8{}},             // 0.0
	0x30: {0x3ffe, 0xb17217f7, 0xd1cf79ac, true, [4]int8{0, -1, -1, 0}},  // ln(2)
	0x31: {0x4000, 0x935d8ddd, 0xaaa8ac17, true, [4]int8{0, -1, -1, 0}},  // ln(10)
	0x32: {0x3fff, 0x80000000, 0x00000000, false, [4]int8{}},             // 10^0
	0x33: {0x4002, 0xa0000000, 0x00000000, false, [4]int8{}},             // 10^1
	0x34: {0x4005, 0xc8000000, 0x00000000, false, [4]int8{}},             // 10^2
	0x35: {0x400c, 0x9c400000, 0x00000000, false, [4]int8{}},             // 10^4
	0x36: {0x4019, 0xbebc2000, 0x00000000, false, [4]int8{}},             // 10^8
	0x37: {0x4034, 0x8e1bc9bf, 0x04000000, false, [4]int8{}},             // 10^16
	0x38: {0x4069, 0x9dc5ada8, 0x2b70b59e, true, [4]int8{0, -1, -1, 0}},  // 10^32
	0x39: {0x40d3, 0xc2781f49, 0xffcfa6d5, true, [4]int8{0, 0, 0, 1}},    // 10^64
	0x3A: {0x41a8, 0x93ba47c9, 0x80e98ce0, true, [4]int8{0, -1, -1, 0}},  // 10^128
	0x3B: {0x4351, 0xaa7eebfb, 0x9df9de8e, true, [4]int8{0, -1, -1, 0}},  // 10^256
	0x3C: {0x46a3, 0xe319a0ae, 0xa60e91c7, true, [4]int8{0, -1, -1, 0}},  // 10^512
	0x3D: {0x4d48, 0xc9767586, 0x81750c17, true, [4]int8{0, 0, 0, 1}},    // 10^1024
	0x3E: {0x5a92, 0x9e8b3b5d, 0xc53d5de5, true, [4]int8{0, -1, -1, 0}},  // 10^2048
	0x3F: {0x7525, 0xc4605202, 0x8a20979b, true, [4]int8{0, -1, -1, 0}},  // 10^4096
}

// undefinedConstant is the fixed (if arbitrary) pattern offsets 0x01-0x0A
// read back; every other undefined offset (0x10-0x2F) collapses to slot 0
// (loadConstant masks the offset to 6 bits first, so 0x40-0x7F alias
// 0x00-0x3F rather than slot 0), matching the 68881/68882's own
// constant-ROM addressing (only the low bits of the offset are decoded, so
// every unimplemented address aliases one of these eleven patterns).
var undefinedConstant = [11]struct{ exp uint16; hi, lo uint32 }{
	{0x4000, 0x00000000, 0x00000000},
	{0x4001, 0xfe000682, 0x00000000},
	{0x4001, 0xffc00503, 0x80000000},
	{0x2000, 0x7fffffff, 0x00000000},
	{0x0000, 0xffffffff, 0xffffffff},
	{0x3c00, 0xffffffff, 0xfffff800},
	{0x3f80, 0xffffff00, 0x00000000},
	{0x0001, 0xf65d8d9c, 0x00000000},
	{0x7fff, 0x001e0000, 0x00000000},
	{0x43ff, 0x000e0000, 0x00000000},
	{0x407f, 0x00060000, 0x00000000},
}

// loadConstant implements FMOVECR's source-specifier lookup end to end,
// including the inexact/rounding machinery Motorola's constant ROM applies:
// an inexact defined slot flags INEX2 and nudges its low mantissa word by the
// current rounding mode's correction before precision-rounding the result;
// an undefined slot reproduces the chip's own documented quirks instead of
// returning a clean zero.
func (f *FPU) loadConstant(offset uint8) Extended {
	offset &= 0x3F
	mode := f.regs.fpcr.RoundMode()
	prec := f.regs.fpcr.Precision()

	entry, known := constantROM[offset]
	if !known {
		return f.undefinedSlot(offset)
	}

	lo := entry.lo
	if entry.inexact {
		f.regs.fpsr.orExceptionStatus(excINEX2)
		lo = uint32(int64(lo) + int64(entry.roundOff[mode]))
	}
	v := Extended{Exponent: entry.exp, Mantissa: uint64(entry.hi)<<32 | uint64(lo)}
	v = f.roundToPrecision(v, prec)
	f.setConditionCodesFrom(v)
	return v
}

// undefinedSlot reproduces fpu_get_constant's "default" branch for offsets
// 0x01-0x0A and every other undecoded offset: most of them round the same
// fixed pattern to the current precision with no further side effect, but
// entries 1, 2 and 7 additionally nudge the middle mantissa word by 0x80 at
// single precision in some rounding modes, and entries 3 and 7 OR the I or
// NaN condition code in on top of the codes the result itself sets.
func (f *FPU) undefinedSlot(offset uint8) Extended {
	idx := offset
	if int(idx) >= len(undefinedConstant) {
		idx = 0
	}
	entry := undefinedConstant[idx]
	mode := f.regs.fpcr.RoundMode()
	prec := f.regs.fpcr.Precision()

	var midAdjust int64
	var ccBits uint32
	checkMidAdjust := false

	switch idx {
	case 1:
		checkMidAdjust = true
	case 2:
		if prec == PrecisionSingle && mode == RoundPlusInfinity {
			midAdjust = -1
		}
	case 3:
		if prec == PrecisionSingle && (mode == RoundNearest || mode == RoundPlusInfinity) {
			ccBits = ccI
		} else {
			ccBits = ccNAN
		}
	case 7:
		ccBits = ccNAN
		checkMidAdjust = true
	}
	if checkMidAdjust && prec == PrecisionSingle {
		switch mode {
		case RoundNearest:
			midAdjust = -1
		case RoundZero, RoundMinusInfinity:
			midAdjust = 1
		}
	}

	v := Extended{Exponent: entry.exp, Mantissa: uint64(entry.hi)<<32 | uint64(entry.lo)}
	v = f.roundToPrecision(v, prec)
	if midAdjust != 0 {
		v.Mantissa = uint64(int64(v.Mantissa) + midAdjust*0x80*0x100000000)
	}
	f.setConditionCodesFrom(v)
	if ccBits != 0 {
		f.regs.fpsr.value |= ccBits
	}
	return v
}

// roundToPrecision narrows v through the kernel's single/double codec and
// back, the same round trip a memory store to that format performs, so that
// FMOVECR honours FPCR's rounding precision exactly as loadOperand does.
func (f *FPU) roundToPrecision(v Extended, p Precision) Extended {
	switch p {
	case PrecisionSingle:
		return f.kernel.FromSingle(f.kernel.ToSingle(v))
	case PrecisionDouble:
		return f.kernel.FromDouble(f.kernel.ToDouble(v))
	default:
		return v
	}
}
