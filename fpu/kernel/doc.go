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

// Package kernel is a reference implementation of fpu.Kernel: the raw IEEE
// arithmetic the coprocessor core treats as an external collaborator. It
// exists so the dispatcher has something real to call during tests and so
// cmd/fpudbg can run end to end, not as a cycle- or bit-exact reproduction
// of any particular silicon's rounding behaviour.
//
// Internally every operation widens its Extended operands to float64,
// computes with the standard library's math package, and narrows the
// result back down. That loses precision below a float64's 53-bit
// mantissa, which a real 64-bit-mantissa extended-precision unit would
// keep; nothing in the available reference material supplies an 80-bit
// software float routine to adapt instead; see the project's grounding
// notes for the alternatives considered.
package kernel
