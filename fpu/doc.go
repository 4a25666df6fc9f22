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

// Package fpu emulates the core of the Motorola 68881/68882/68040/68060
// floating-point coprocessor: the F-line instruction dispatcher, the operand
// codec across extended/double/single/packed/integer formats, the FPSR/FPCR
// status machinery, the arithmetic-exception state machine and the
// FSAVE/FRESTORE frame marshaller.
//
// The raw IEEE arithmetic (add/mul/sqrt/...) and the host 68k CPU (register
// file, program counter, effective-address evaluation, memory, exception
// delivery) are external collaborators. They are represented here as the
// Kernel and HostBus interfaces respectively; package fpu/kernel supplies a
// reference implementation of Kernel so the dispatcher is runnable and
// testable without a separately licensed math library.
//
// An *FPU is not safe for concurrent use by multiple goroutines: every entry
// point assumes the host CPU is suspended on the F-line opcode being
// processed, matching the single-threaded cooperative model the coprocessor
// was designed around.
package fpu
