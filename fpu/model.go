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

// Model names the specific coprocessor chip, or the FPU built into the
// host CPU, being emulated. FSAVE/FRESTORE frame shapes, the undefined
// constant-ROM slots and a handful of nonmaskable-exception rules all
// differ per model, so it is selected once and never changes for the
// lifetime of an *FPU.
type Model uint8

// Valid Model values.
const (
	Model68881 Model = iota
	Model68882
	Model68040
	Model68060
)

func (m Model) String() string {
	switch m {
	case Model68881:
		return "68881"
	case Model68882:
		return "68882"
	case Model68040:
		return "68040"
	case Model68060:
		return "68060"
	default:
		return "unknown"
	}
}

// versionNumber is the value the chip reports in its FSAVE frame ID, one
// per Model, in declaration order.
var versionNumber = [...]uint8{
	Model68881: 0x18,
	Model68882: 0x38,
	Model68040: 0x40,
	Model68060: 0x60,
}

func (m Model) versionID() uint8 { return versionNumber[m] }

// is68040or68060 reports whether m belongs to the integer-FPU generation,
// where OVFL/UNFL are nonmaskable and unnormals/packed are unimplemented
// datatypes handled by software emulation rather than hardware.
func (m Model) is68040or68060() bool {
	return m == Model68040 || m == Model68060
}

// hasIDLEFrame reports whether m's FSAVE ever produces a non-null IDLE frame
// once the coprocessor has executed at least one instruction. Only the 68040
// skips it entirely: its null frame already says everything there is to say.
// The 68060 does still report a distinct (if equally short) idle encoding.
func (m Model) hasIDLEFrame() bool {
	return m != Model68040
}

// Config is the strategy record selected once, at construction, for the
// lifetime of an *FPU: every model-dependent decision the rest of the
// package needs is a field or method lookup here rather than a model switch
// scattered through the dispatcher.
type Config struct {
	Model Model

	// HasFLINEUnimplemented reports whether an unimplemented F-line opcode
	// leaves an UNIMP frame for the next FSAVE (68040/68060). On every
	// model the dispatcher records such an opcode in the fault log and
	// raises no exception vector for it.
	HasFLINEUnimplemented bool

	// PackedIsUnimplemented reports whether loading a packed-decimal
	// operand, or a denormalized or unnormalized one, traps to vector 55
	// for software emulation. Packed stores go through the kernel on every
	// model.
	PackedIsUnimplemented bool

	// NonmaskableOverUnderflow reports whether OVFL/UNFL interrupt
	// regardless of FPCR's enable bits.
	NonmaskableOverUnderflow bool
}

// Select returns the Config for m.
func Select(m Model) Config {
	c := Config{Model: m}
	if m.is68040or68060() {
		c.HasFLINEUnimplemented = true
		c.PackedIsUnimplemented = true
		c.NonmaskableOverUnderflow = true
	}
	return c
}
