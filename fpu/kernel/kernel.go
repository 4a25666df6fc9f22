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

package kernel

import (
	"math"

	"github.com/go68k/fpu68k/fpu"
)

// status bits, positioned to match fpu's own FPSR exception-status byte
// (bits 15-8) so fpu.FPU can OR Status's return value straight into FPSR.
const (
	statusSNAN  uint16 = 1 << 14
	statusOPERR uint16 = 1 << 13
	statusOVFL  uint16 = 1 << 12
	statusUNFL  uint16 = 1 << 11
	statusDZ    uint16 = 1 << 10
	statusINEX2 uint16 = 1 << 9
)

// Reference is the standard-library-backed implementation of fpu.Kernel.
// The zero value is not ready to use; call New.
type Reference struct {
	precision fpu.Precision
	round     fpu.RoundMode

	status uint16

	roundedSnap, unroundedSnap fpu.Snapshot
}

// New returns a Reference kernel with default rounding (extended precision,
// round to nearest), matching FPCR's reset value.
func New() *Reference {
	return &Reference{}
}

func (k *Reference) SetMode(p fpu.Precision, r fpu.RoundMode) {
	k.precision = p
	k.round = r
}

func (k *Reference) Status() uint16 { return k.status }
func (k *Reference) ClearStatus()   { k.status = 0 }

func (k *Reference) Snapshot() (rounded, unrounded fpu.Snapshot) {
	return k.roundedSnap, k.unroundedSnap
}

func (k *Reference) Restore(rounded, unrounded fpu.Snapshot) {
	k.roundedSnap, k.unroundedSnap = rounded, unrounded
}

func (k *Reference) saveSnapshot(result fpu.Extended) {
	k.roundedSnap = fpu.Snapshot{Exponent: result.Exponent, Hi: uint32(result.Mantissa >> 32), Lo: uint32(result.Mantissa)}
	k.unroundedSnap = k.roundedSnap
}

// finish classifies the float64 computation outcome into the sticky
// status bits a real kernel would raise, and rounds it to the configured
// precision before handing it back as an Extended.
func (k *Reference) finish(f float64, divByZero bool) fpu.Extended {
	switch {
	case divByZero:
		k.status |= statusDZ
	case math.IsNaN(f):
		k.status |= statusOPERR
	case math.IsInf(f, 0):
		k.status |= statusOVFL
	case f != 0 && math.Abs(f) < math.SmallestNonzeroFloat64*(1<<52):
		k.status |= statusUNFL
	}

	result := k.round64(f)
	k.saveSnapshot(result)
	return result
}

// round64 narrows f to the kernel's configured precision. Extended and
// Double precision still go through float64 underneath (see package doc)
// and are converted as they are; only Single narrows further, setting INEX2
// when the float32 value differs from f.
func (k *Reference) round64(f float64) fpu.Extended {
	switch k.precision {
	case fpu.PrecisionSingle:
		rounded := float64(float32(f))
		if rounded != f {
			k.status |= statusINEX2
		}
		return fromFloat64(rounded)
	case fpu.PrecisionDouble:
		return fromFloat64(f)
	default:
		return fromFloat64(f)
	}
}

func (k *Reference) Add(a, b fpu.Extended) fpu.Extended {
	return k.finish(toFloat64(a)+toFloat64(b), false)
}

func (k *Reference) Sub(a, b fpu.Extended) fpu.Extended {
	return k.finish(toFloat64(a)-toFloat64(b), false)
}

func (k *Reference) Mul(a, b fpu.Extended) fpu.Extended {
	return k.finish(toFloat64(a)*toFloat64(b), false)
}

func (k *Reference) Div(a, b fpu.Extended) fpu.Extended {
	bf := toFloat64(b)
	if bf == 0 && !isNaN(a) {
		return k.finish(math.Inf(signOf(toFloat64(a), bf)), true)
	}
	return k.finish(toFloat64(a)/bf, false)
}

func signOf(a, b float64) int {
	if (a < 0) != (b < 0 || math.Signbit(b)) {
		return -1
	}
	return 1
}

func (k *Reference) Sqrt(a fpu.Extended) fpu.Extended {
	af := toFloat64(a)
	if af < 0 {
		k.status |= statusOPERR
		return fromFloat64(math.NaN())
	}
	return k.finish(math.Sqrt(af), false)
}

func (k *Reference) Abs(a fpu.Extended) fpu.Extended {
	r := a
	r.Sign = false
	return r
}

func (k *Reference) Neg(a fpu.Extended) fpu.Extended {
	r := a
	r.Sign = !r.Sign
	return r
}

func (k *Reference) Move(a fpu.Extended) fpu.Extended { return a }

func (k *Reference) Scale(a, b fpu.Extended) fpu.Extended {
	return k.finish(math.Ldexp(toFloat64(a), int(toFloat64(b))), false)
}

func (k *Reference) Mod(a, b fpu.Extended) (fpu.Extended, uint8) {
	af, bf := toFloat64(a), toFloat64(b)
	q := math.Trunc(af / bf)
	r := af - q*bf
	return k.finish(r, false), uint8(int64(q) & 0x7F)
}

func (k *Reference) Rem(a, b fpu.Extended) (fpu.Extended, uint8) {
	af, bf := toFloat64(a), toFloat64(b)
	q := math.Round(af / bf)
	r := af - q*bf
	return k.finish(r, false), uint8(int64(q) & 0x7F)
}

func (k *Reference) ToSingle(a fpu.Extended) uint32 {
	return math.Float32bits(float32(toFloat64(a)))
}

func (k *Reference) FromSingle(bits uint32) fpu.Extended {
	return fromFloat64(float64(math.Float32frombits(bits)))
}

func (k *Reference) ToDouble(a fpu.Extended) uint64 {
	return math.Float64bits(toFloat64(a))
}

func (k *Reference) FromDouble(bits uint64) fpu.Extended {
	return fromFloat64(math.Float64frombits(bits))
}

func (k *Reference) IsZero(a fpu.Extended) bool          { return isZero(a) }
func (k *Reference) IsNaN(a fpu.Extended) bool           { return isNaN(a) }
func (k *Reference) IsSignalingNaN(a fpu.Extended) bool  { return isSignalingNaN(a) }
func (k *Reference) IsInfinity(a fpu.Extended) bool      { return isInfinity(a) }
func (k *Reference) IsUnnormal(a fpu.Extended) bool      { return isUnnormal(a) }
func (k *Reference) IsDenormal(a fpu.Extended) bool      { return isDenormal(a) }

// FromDoubleExtended and ToDoubleExtended are convenience wrappers around
// the package's internal float64 bridge, for callers (tests, cmd/fpudbg)
// that want to hand the kernel a native Go float rather than building a
// fpu.Extended or an IEEE double bit pattern by hand.
func (k *Reference) FromDoubleExtended(f float64) fpu.Extended { return fromFloat64(f) }
func (k *Reference) ToDoubleExtended(a fpu.Extended) float64   { return toFloat64(a) }

func (k *Reference) Compare(a, b fpu.Extended) (n, z bool) {
	af, bf := toFloat64(a), toFloat64(b)
	return af < bf, af == bf
}
