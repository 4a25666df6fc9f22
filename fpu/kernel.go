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

// Extended is the 96-bit-aligned, 80-bit significant representation every
// floating-point register holds: a sign, a 15-bit biased exponent and a
// 64-bit mantissa with an explicit integer bit. It is the currency the
// dispatcher and the codec trade in; only the codec ever looks inside it to
// cross into a narrower wire format.
type Extended struct {
	Sign     bool
	Exponent uint16 // 15 bits, bias 16383
	Mantissa uint64 // explicit integer bit is Mantissa's bit 63
}

// Precision selects the rounding precision FPCR.PREC and a handful of
// instructions (FSGLMUL, packed conversions) demand.
type Precision uint8

// Valid Precision values, matching FPCR bits 7-6.
const (
	PrecisionExtended Precision = iota
	PrecisionSingle
	PrecisionDouble
	precisionReserved
)

// RoundMode selects the IEEE rounding mode, FPCR bits 5-4.
type RoundMode uint8

// Valid RoundMode values.
const (
	RoundNearest RoundMode = iota
	RoundZero
	RoundMinusInfinity
	RoundPlusInfinity
)

// Snapshot is the kernel's internal working state after an operation: the
// rounded or unrounded intermediate result's exponent and mantissa words.
type Snapshot struct {
	Exponent uint16
	Hi, Lo   uint32
}

// Kernel is the reference arithmetic engine the dispatcher delegates every
// IEEE computation to. It is deliberately narrow: no opcode, addressing-mode
// or exception-priority knowledge belongs here, only the numeric primitives
// an F-line instruction ultimately reduces to.
//
// Every operation that can raise a floating-point exception reports it
// through Status rather than a return value or error: the dispatcher reads
// Status once after the call and folds it into FPSR, matching how the
// hardware accumulates exception state as a side effect of the operation
// rather than as a distinguishable failure mode.
type Kernel interface {
	Add(a, b Extended) Extended
	Sub(a, b Extended) Extended
	Mul(a, b Extended) Extended
	Div(a, b Extended) Extended
	Sqrt(a Extended) Extended
	Abs(a Extended) Extended
	Neg(a Extended) Extended
	Move(a Extended) Extended
	Scale(a, b Extended) Extended
	Mod(a, b Extended) (remainder Extended, qbyte uint8)
	Rem(a, b Extended) (remainder Extended, qbyte uint8)

	ToSingle(a Extended) uint32
	FromSingle(bits uint32) Extended
	ToDouble(a Extended) uint64
	FromDouble(bits uint64) Extended
	ToPacked(a Extended, kfactor int8) [3]uint32
	FromPacked(words [3]uint32) Extended

	IsZero(a Extended) bool
	IsNaN(a Extended) bool
	IsSignalingNaN(a Extended) bool
	IsInfinity(a Extended) bool
	IsUnnormal(a Extended) bool
	IsDenormal(a Extended) bool

	Compare(a, b Extended) (n, z bool)

	// SetMode installs the rounding precision and mode every subsequent
	// operation observes, mirroring FPCR being the kernel's only external
	// configuration input.
	SetMode(p Precision, r RoundMode)

	// Status returns the sticky current-exception bits the most recent
	// operation raised, already positioned at FPSR bits 15-8. ClearStatus
	// resets them; the status engine calls it once it has folded the bits
	// into FPSR so the next operation starts from a clean slate.
	Status() uint16
	ClearStatus()

	// Snapshot returns the rounded and unrounded intermediate state of the
	// most recent operation, and Restore puts such a pair back. This
	// package's Save and Restore call neither: a BUSY frame's result words
	// are written as zero and are not read back.
	Snapshot() (rounded, unrounded Snapshot)
	Restore(rounded, unrounded Snapshot)
}
