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
	"strconv"
	"strings"

	"github.com/go68k/fpu68k/fpu"
)

// ToPacked renders a as a packed-BCD triple: word 0 carries the overall
// sign, the exponent's sign, the three-digit decimal exponent and the first
// mantissa digit; words 1-2 carry the next 16 mantissa digits, one per
// nibble. The value is rounded to |kfactor| significant digits whatever
// kfactor's sign (0 or more than 17 means 17); a negative kfactor is not
// read as a count of digits after the decimal point.
func (k *Reference) ToPacked(a fpu.Extended, kfactor int8) [3]uint32 {
	f := toFloat64(a)

	var words [3]uint32
	if math.IsNaN(f) || math.IsInf(f, 0) {
		words[0] = 0x7FFF0000
		if f < 0 {
			words[0] |= 1 << 31
		}
		return words
	}
	if a.Sign {
		words[0] |= 1 << 31
	}

	digits := kfactor
	if digits < 0 {
		digits = -digits
	}
	if digits == 0 || digits > 17 {
		digits = 17
	}

	mantissa := strconv.FormatFloat(math.Abs(f), 'e', int(digits)-1, 64)
	parts := strings.SplitN(mantissa, "e", 2)
	exp, _ := strconv.Atoi(parts[1])
	intDigit := parts[0][0:1]
	fracDigits := strings.Replace(parts[0][2:], ".", "", 1)
	allDigits := intDigit + fracDigits

	if exp < 0 {
		words[0] |= 1 << 30
		exp = -exp
	}
	words[0] |= uint32(exp%10) << 16
	words[0] |= uint32((exp/10)%10) << 20
	words[0] |= uint32((exp/100)%10) << 24

	if len(allDigits) > 0 {
		words[0] |= uint32(allDigits[0]-'0') << 0
	}
	rest := allDigits[min(1, len(allDigits)):]
	for i := 0; i < 16 && i < len(rest); i++ {
		nibble := uint32(rest[i] - '0')
		if i < 8 {
			words[1] |= nibble << uint((7-i)*4)
		} else {
			words[2] |= nibble << uint((15-i)*4)
		}
	}
	return words
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// FromPacked parses a packed-BCD triple back into an Extended.
func (k *Reference) FromPacked(words [3]uint32) fpu.Extended {
	sign := words[0]&(1<<31) != 0
	expSign := words[0]&(1<<30) != 0

	exp := int((words[0]>>16)&0xF) + 10*int((words[0]>>20)&0xF) + 100*int((words[0]>>24)&0xF)
	if expSign {
		exp = -exp
	}

	var digits strings.Builder
	digits.WriteByte(byte('0' + (words[0] & 0xF)))
	for i := 7; i >= 0; i-- {
		digits.WriteByte(byte('0' + ((words[1] >> uint(i*4)) & 0xF)))
	}
	for i := 7; i >= 0; i-- {
		digits.WriteByte(byte('0' + ((words[2] >> uint(i*4)) & 0xF)))
	}

	text := digits.String()[0:1] + "." + digits.String()[1:] + "e" + strconv.Itoa(exp)
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		f = 0
	}
	if sign {
		f = -f
	}
	return fromFloat64(f)
}
