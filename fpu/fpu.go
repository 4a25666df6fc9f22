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

import (
	"github.com/go68k/fpu68k/faultlog"
	"github.com/go68k/fpu68k/internal/logger"
)

// FPU is the coprocessor core: the instruction dispatcher, the operand
// codec, the status/exception machinery and the FSAVE/FRESTORE marshaller,
// all bound to one chip model, one Kernel and one HostBus for their
// lifetime.
//
// An *FPU is not safe for concurrent use by multiple goroutines.
type FPU struct {
	cfg    Config
	kernel Kernel
	bus    HostBus
	faults *faultlog.Log

	regs registerFile

	active        bool // false only immediately after reset or a null FRESTORE
	pendingVector int
	unimplemented bool
	resumePending bool
	busy          busyState

	lastFrameError error
}

// New returns an *FPU for the given model, bound to kernel for arithmetic
// and bus for memory/register access. The register file starts in its
// hard-reset state (every FPn holding the reset NaN pattern, FPCR/FPSR/FPIAR
// zeroed).
func New(model Model, kernel Kernel, bus HostBus) *FPU {
	f := &FPU{
		cfg:    Select(model),
		kernel: kernel,
		bus:    bus,
		faults: faultlog.NewLog(),
	}
	f.regs.reset()
	f.kernel.SetMode(f.regs.fpcr.Precision(), f.regs.fpcr.RoundMode())
	return f
}

// Reset restores the hard-reset register state without otherwise disturbing
// the bound kernel/bus/model.
func (f *FPU) Reset() {
	f.regs.reset()
	f.active = false
	f.pendingVector = 0
	f.unimplemented = false
	f.resumePending = false
	f.busy = busyState{}
	f.kernel.SetMode(f.regs.fpcr.Precision(), f.regs.fpcr.RoundMode())
}

// Model reports the chip model this *FPU was constructed for.
func (f *FPU) Model() Model { return f.cfg.Model }

// Faults returns the fault/diagnostics log accumulated so far.
func (f *FPU) Faults() *faultlog.Log { return f.faults }

// FPCR, FPSR and FPIAR expose the three control registers for inspection
// (cmd/fpudbg) and FMOVE to/from system control register opcodes.
func (f *FPU) FPCR() FPCR     { return f.regs.fpcr }
func (f *FPU) FPSR() FPSR     { return f.regs.fpsr }
func (f *FPU) FPIAR() uint32  { return f.regs.fpiar }
func (f *FPU) Register(n uint8) Extended { return f.regs.get(n) }

// SetRegister pokes FPn directly, bypassing the opcode dispatcher. Meant for
// test setup and cmd/fpudbg, not for anything an emulated 68k program does.
func (f *FPU) SetRegister(n uint8, v Extended) { f.regs.set(n, v) }

func (f *FPU) setFPCR(v uint16) {
	f.regs.fpcr.SetValue(v)
	f.kernel.SetMode(f.regs.fpcr.Precision(), f.regs.fpcr.RoundMode())
}

// SetFPCR is setFPCR exported for cmd/fpudbg: a real 68k program only ever
// reaches FPCR through FMOVE to system control register, which
// dispatch_movem.go's dispatchMoveControl already routes through setFPCR.
func (f *FPU) SetFPCR(v uint16) { f.setFPCR(v) }

// Execute decodes and runs a single F-line instruction whose first
// extension word has already been fetched as iword (the opcode word itself
// is consumed by the caller's own 68k decode loop before handing control
// here, matching the hardware's coprocessor-detects-Fxxx-and-takes-over
// protocol). pc is the address of the F-line opcode word, for FPIAR and for
// any exception frame pushed as a result.
func (f *FPU) Execute(pc uint32, opcode uint16, iword uint16) Outcome {
	f.regs.fpiar = pc
	f.active = true

	out := f.dispatch(opcode, iword)
	if out.Faulted {
		return out
	}

	f.dispatchPending()
	return ok
}

// unaryOp runs a kernel-delegated monadic operation end to end: fold the
// kernel's sticky status into FPSR, set the condition codes from the
// result, and latch any interrupting exception for dispatchPending to take
// once the instruction finishes.
func (f *FPU) unaryOp(result Extended) Extended {
	f.foldKernelStatus()
	f.setConditionCodesFrom(result)
	f.checkArithmeticException()
	return result
}

func (f *FPU) setConditionCodesFrom(v Extended) {
	n := v.Sign
	z := f.kernel.IsZero(v)
	i := f.kernel.IsInfinity(v)
	nan := f.kernel.IsNaN(v)
	f.regs.fpsr.setConditionCodes(n, z, i, nan)
}

// logUnimplemented records an F-line opcode the current model doesn't
// implement in hardware: on the 68040/68060 this is the normal software-
// emulation path (it's why HasFLINEUnimplemented exists at all), on the
// 68881/68882 it means the opcode pattern itself is bogus.
func (f *FPU) logUnimplemented(opcode, iword uint16) {
	f.unimplemented = true
	f.faults.Record("FLINE", faultlog.UnimplementedOpcode, f.regs.fpiar, uint32(opcode)<<16|uint32(iword))
	logger.Log("fpu", "unimplemented F-line opcode")
}
