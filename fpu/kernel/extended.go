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

const extendedBias = 16383
const extendedMaxExp = 0x7FFF

// explicitBit is the extended format's defining feature relative to
// single/double: the integer bit above the fraction is stored, not implied.
const explicitBit uint64 = 1 << 63

func isZero(v fpu.Extended) bool { return v.Exponent == 0 && v.Mantissa == 0 }

func isInfOrNaN(v fpu.Extended) bool { return v.Exponent == extendedMaxExp }

func isInfinity(v fpu.Extended) bool {
	return isInfOrNaN(v) && v.Mantissa == explicitBit
}

func isNaN(v fpu.Extended) bool {
	return isInfOrNaN(v) && v.Mantissa != explicitBit && v.Mantissa&explicitBit != 0
}

func isSignalingNaN(v fpu.Extended) bool {
	// a quiet NaN has the bit directly below the explicit integer bit set;
	// a signaling NaN does not, but still has some fraction bit set.
	return isNaN(v) && v.Mantissa&(explicitBit>>1) == 0
}

func isUnnormal(v fpu.Extended) bool {
	return v.Exponent != 0 && v.Exponent != extendedMaxExp && v.Mantissa&explicitBit == 0
}

func isDenormal(v fpu.Extended) bool {
	return v.Exponent == 0 && v.Mantissa != 0
}

// toFloat64 widens v to the nearest float64, losing precision below
// float64's 53-bit mantissa. Infinity round-trips exactly; every NaN widens
// to math.NaN(), so its payload and signaling bit are lost; denormals
// and unnormals are flushed through math.Ldexp, which silently renormalises
// them the way a software kernel's internal normalisation step would.
func toFloat64(v fpu.Extended) float64 {
	if isNaN(v) {
		if isSignalingNaN(v) {
			return math.NaN()
		}
		return math.NaN()
	}
	if isInfinity(v) {
		if v.Sign {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}
	if isZero(v) {
		if v.Sign {
			return math.Copysign(0, -1)
		}
		return 0
	}

	mantissa := float64(v.Mantissa) / float64(uint64(1)<<63) // in [1, 2), explicit integer bit included
	exp := int(v.Exponent) - extendedBias
	f := math.Ldexp(mantissa, exp)
	if v.Sign {
		f = -f
	}
	return f
}

// fromFloat64 narrows f into an Extended, reconstructing the explicit
// integer bit that float64's implicit-bit format doesn't carry.
func fromFloat64(f float64) fpu.Extended {
	switch {
	case math.IsNaN(f):
		return fpu.Extended{Exponent: extendedMaxExp, Mantissa: explicitBit | (explicitBit >> 1) | 1}
	case math.IsInf(f, 1):
		return fpu.Extended{Exponent: extendedMaxExp, Mantissa: explicitBit}
	case math.IsInf(f, -1):
		return fpu.Extended{Sign: true, Exponent: extendedMaxExp, Mantissa: explicitBit}
	case f == 0:
		return fpu.Extended{Sign: math.Signbit(f)}
	}

	sign := f < 0
	af := math.Abs(f)
	mantissa, exp := math.Frexp(af) // af == mantissa * 2^exp, mantissa in [0.5, 1)

	biased := exp - 1 + extendedBias
	bits := uint64(mantissa * float64(uint64(1)<<63) * 2)

	return fpu.Extended{Sign: sign, Exponent: uint16(biased), Mantissa: bits}
}
