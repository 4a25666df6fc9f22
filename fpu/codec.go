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

import "github.com/go68k/fpu68k/faultlog"

// Format names the seven data formats an F-line instruction's source
// specifier can select for a memory operand.
type Format uint8

// Valid Format values, numbered the way the source-specifier field encodes
// them.
const (
	FormatLong     Format = 0
	FormatSingle   Format = 1
	FormatExtended Format = 2
	FormatPacked   Format = 3
	FormatWord     Format = 4
	FormatDouble   Format = 5
	FormatByte     Format = 6
)

func (f Format) size() int {
	switch f {
	case FormatByte:
		return 1
	case FormatWord:
		return 2
	case FormatLong, FormatSingle:
		return 4
	case FormatDouble:
		return 8
	case FormatExtended, FormatPacked:
		return 12
	default:
		return 0
	}
}

// vectorUnimplementedDatatype is the 68040/68060 software-emulation vector
// for an operand the hardware itself never decodes: packed-decimal always,
// plus denormalized and unnormalized extended operands on these two models.
const vectorUnimplementedDatatype = 55

// isSingleDenormal/isDoubleDenormal test the IEEE-754 bit pattern directly,
// before it ever reaches the kernel: FromSingle/FromDouble round-trip
// through float64, which renormalizes a subnormal input into an ordinary
// normal Extended, so the denormal tag can only be read off the original
// encoded exponent field (all zero, fraction nonzero).
func isSingleDenormal(bits uint32) bool {
	return bits&0x7F800000 == 0 && bits&0x007FFFFF != 0
}

func isDoubleDenormal(bits uint64) bool {
	return bits&0x7FF0000000000000 == 0 && bits&0x000FFFFFFFFFFFFF != 0
}

// unimplementedDatatype traps src's load: it latches the operand tag and the
// sign+exponent word a real fp_unimp_datatype capture reports (the bias-
// adjusted implicit exponent for a denormalized single/double, the raw
// sign+exponent word otherwise) into the pending BUSY/EXCP frame state, logs
// the fault and raises vector 55.
func (f *FPU) unimplementedDatatype(stag uint8, src Extended, isSingleSize bool) Outcome {
	var et0 uint32
	switch stag {
	case 5: // single/double denormal
		if isSingleSize {
			et0 = 0x3F800000
		} else {
			et0 = 0x3C000000
		}
	default:
		if src.Sign {
			et0 |= 0x80000000
		}
		et0 |= uint32(src.Exponent) << 16
	}
	f.busy = busyState{active: true, stag: stag, et0: et0, fpiarcu: f.regs.fpiar}
	f.faults.Record("FPU", faultlog.UnimplementedDatatype, f.regs.fpiar, uint32(stag))
	return faulted(vectorUnimplementedDatatype)
}

// loadOperand reads size bytes from addr in the given format and decodes
// them into an Extended, consulting the kernel for any format narrower than
// extended. On a 68040/68060, a packed operand always traps to software
// emulation (the hardware never implements the decimal-string format at
// all), and a denormalized or unnormalized operand traps the same way once
// it has been decoded far enough to classify it.
func (f *FPU) loadOperand(addr uint32, format Format, kfactor int8) (Extended, Outcome) {
	switch format {
	case FormatByte:
		v, out := f.bus.ReadByte(addr)
		if out.Faulted {
			return Extended{}, out
		}
		return integerToExtended(int64(int8(v))), ok

	case FormatWord:
		v, out := f.bus.ReadWord(addr)
		if out.Faulted {
			return Extended{}, out
		}
		return integerToExtended(int64(int16(v))), ok

	case FormatLong:
		v, out := f.bus.ReadLong(addr)
		if out.Faulted {
			return Extended{}, out
		}
		return integerToExtended(int64(int32(v))), ok

	case FormatSingle:
		v, out := f.bus.ReadLong(addr)
		if out.Faulted {
			return Extended{}, out
		}
		if f.cfg.PackedIsUnimplemented && isSingleDenormal(v) {
			return Extended{}, f.unimplementedDatatype(5, f.kernel.FromSingle(v), true)
		}
		return f.kernel.FromSingle(v), ok

	case FormatDouble:
		hi, out := f.bus.ReadLong(addr)
		if out.Faulted {
			return Extended{}, out
		}
		lo, out := f.bus.ReadLong(addr + 4)
		if out.Faulted {
			return Extended{}, out
		}
		bits := uint64(hi)<<32 | uint64(lo)
		if f.cfg.PackedIsUnimplemented && isDoubleDenormal(bits) {
			return Extended{}, f.unimplementedDatatype(5, f.kernel.FromDouble(bits), false)
		}
		return f.kernel.FromDouble(bits), ok

	case FormatExtended:
		v, out := f.loadExtended(addr)
		if out.Faulted {
			return Extended{}, out
		}
		switch {
		case f.cfg.PackedIsUnimplemented && f.kernel.IsUnnormal(v):
			return Extended{}, f.unimplementedDatatype(4, v, false)
		case f.cfg.PackedIsUnimplemented && f.kernel.IsDenormal(v):
			return Extended{}, f.unimplementedDatatype(4, v, false)
		}
		return v, ok

	case FormatPacked:
		if f.cfg.PackedIsUnimplemented {
			return Extended{}, f.unimplementedDatatype(7, Extended{}, false)
		}
		var words [3]uint32
		for i := 0; i < 3; i++ {
			v, out := f.bus.ReadLong(addr + uint32(i*4))
			if out.Faulted {
				return Extended{}, out
			}
			words[i] = v
		}
		return f.kernel.FromPacked(words), ok

	default:
		return Extended{}, ok
	}
}

// loadExtended reads the three-long extended wire format: a sign+exponent
// word (with 16 bits of padding the hardware leaves unspecified), then the
// 64-bit mantissa across two more longs.
func (f *FPU) loadExtended(addr uint32) (Extended, Outcome) {
	w0, out := f.bus.ReadLong(addr)
	if out.Faulted {
		return Extended{}, out
	}
	hi, out := f.bus.ReadLong(addr + 4)
	if out.Faulted {
		return Extended{}, out
	}
	lo, out := f.bus.ReadLong(addr + 8)
	if out.Faulted {
		return Extended{}, out
	}
	return Extended{
		Sign:     w0&0x80000000 != 0,
		Exponent: uint16((w0 >> 16) & 0x7FFF),
		Mantissa: uint64(hi)<<32 | uint64(lo),
	}, ok
}

func (f *FPU) storeExtended(addr uint32, v Extended) Outcome {
	var w0 uint32
	if v.Sign {
		w0 |= 0x80000000
	}
	w0 |= (uint32(v.Exponent) & 0x7FFF) << 16

	if out := f.bus.WriteLong(addr, w0); out.Faulted {
		return out
	}
	if out := f.bus.WriteLong(addr+4, uint32(v.Mantissa>>32)); out.Faulted {
		return out
	}
	return f.bus.WriteLong(addr+8, uint32(v.Mantissa))
}

// integerStoreValue rounds v to an integer per mode, flags INEX2 if any bits
// were discarded, and on the 68040 (never the 68060, where the check doesn't
// exist) faults the store, after the value has been computed but before
// anything is written, if FPSR's exception-status byte holds SNAN or OPERR.
// The rounding step itself sets neither bit (a NaN or out-of-range source is
// not detected here), so the check sees only bits already in that byte.
func (f *FPU) integerStoreValue(v Extended) (int64, Outcome) {
	mag, inexact := roundToIntegerExtended(v, f.regs.fpcr.RoundMode())
	if inexact {
		f.regs.fpsr.orExceptionStatus(excINEX2)
		f.regs.fpsr.accrue()
	}
	if f.cfg.Model == Model68040 {
		status := f.regs.fpsr.exceptionStatus()
		if status&uint16(excSNAN|excOPERR) != 0 {
			return mag, faulted(exceptionVector(uint8(status >> 8)))
		}
	}
	return mag, ok
}

// storeOperand narrows v to format and writes it at addr, rounding through
// the kernel for anything narrower than extended.
func (f *FPU) storeOperand(addr uint32, format Format, v Extended, kfactor int8) Outcome {
	switch format {
	case FormatByte, FormatWord, FormatLong:
		mag, out := f.integerStoreValue(v)
		if out.Faulted {
			return out
		}
		switch format {
		case FormatByte:
			return f.bus.WriteByte(addr, uint8(mag))
		case FormatWord:
			return f.bus.WriteWord(addr, uint16(mag))
		default:
			return f.bus.WriteLong(addr, uint32(mag))
		}

	case FormatSingle:
		return f.bus.WriteLong(addr, f.kernel.ToSingle(v))

	case FormatDouble:
		bits := f.kernel.ToDouble(v)
		if out := f.bus.WriteLong(addr, uint32(bits>>32)); out.Faulted {
			return out
		}
		return f.bus.WriteLong(addr+4, uint32(bits))

	case FormatExtended:
		return f.storeExtended(addr, v)

	case FormatPacked:
		words := f.kernel.ToPacked(v, kfactor)
		for i, w := range words {
			if out := f.bus.WriteLong(addr+uint32(i*4), w); out.Faulted {
				return out
			}
		}
		return ok

	default:
		return ok
	}
}

// integerToExtended sign-extends an integer operand into extended
// precision directly: this is pure bit placement, not arithmetic, so it
// does not go through the kernel.
func integerToExtended(v int64) Extended {
	if v == 0 {
		return Extended{}
	}
	sign := v < 0
	u := uint64(v)
	if sign {
		u = uint64(-v)
	}

	shift := 0
	for u&0x8000000000000000 == 0 {
		u <<= 1
		shift++
	}
	return Extended{Sign: sign, Exponent: uint16(16383 + 63 - shift), Mantissa: u}
}

// roundToIntegerExtended rounds v's magnitude to an integer per mode,
// reporting whether any bits were discarded in the process (the source of an
// integer store's or FINT's INEX2). Values whose exponent already places
// every mantissa bit at or above the binary point round exactly.
func roundToIntegerExtended(v Extended, mode RoundMode) (result int64, inexact bool) {
	if v.Exponent == 0 && v.Mantissa == 0 {
		return 0, false
	}
	shift := int(v.Exponent) - 16383 - 63

	var mag uint64
	switch {
	case shift >= 0:
		mag = v.Mantissa << uint(shift)

	case shift > -64:
		lostBits := uint(-shift)
		mag = v.Mantissa >> lostBits
		lost := v.Mantissa & (uint64(1)<<lostBits - 1)
		if lost != 0 {
			inexact = true
			mag = roundMagnitude(mag, lost, lostBits, mode, v.Sign)
		}

	default:
		if v.Mantissa != 0 {
			inexact = true
			mag = roundMagnitude(0, v.Mantissa, 64, mode, v.Sign)
		}
	}

	if v.Sign {
		return -int64(mag), inexact
	}
	return int64(mag), inexact
}

// roundMagnitude applies one IEEE rounding mode to a truncated magnitude
// given the bits that were discarded and how many of them there were.
func roundMagnitude(mag, lost uint64, lostBits uint, mode RoundMode, sign bool) uint64 {
	halfway := uint64(1) << (lostBits - 1)
	switch mode {
	case RoundZero:
		return mag
	case RoundNearest:
		if lost > halfway || (lost == halfway && mag&1 != 0) {
			return mag + 1
		}
		return mag
	case RoundMinusInfinity:
		if sign {
			return mag + 1
		}
		return mag
	case RoundPlusInfinity:
		if !sign {
			return mag + 1
		}
		return mag
	default:
		return mag
	}
}
