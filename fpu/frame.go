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
	"github.com/go68k/fpu68k/internal/curated"
	"github.com/go68k/fpu68k/internal/logger"
)

// vectorFormatError is the 68k exception vector FRESTORE raises when the
// frame it reads doesn't match any frame this model knows how to restore.
const vectorFormatError = 14

const faultMalformedFrame = faultlog.MalformedFrame

// frameKind identifies which of the five FSAVE/FRESTORE frame shapes
// applies at the moment FSAVE is executed. The byte layout each kind maps
// to is model-specific: Save/Restore dispatch on f.cfg.Model once they know
// the kind.
type frameKind uint8

const (
	frameNull frameKind = iota
	frameIdle
	frameUnimp
	frameBusy
	frameExcp
)

// frameRev40, frameRev41 are the two 68040/68060 revisions that change the
// 68040 UNIMP frame's length (whether the cmdreg3b block is present).
const (
	frameRev40 uint8 = 0x40
	frameRev41 uint8 = 0x41
)

// busyState is the scratch a trapped instruction captures so it can resume
// (an MMU page fault mid-operand-fetch) or so the host's software-emulation
// handler can see what it needs (an unimplemented-datatype trap): stag/et0
// are the operand tag and the sign+exponent word fp_unimp_datatype reports;
// cmdreg1b/cmdreg3b/fpiarcu/wbt/fixup are the MMU-resume state.
type busyState struct {
	active   bool
	stag     uint8
	et0      uint32
	cmdreg1b uint16
	cmdreg3b uint16
	fpiarcu  uint32
	wbt      [3]uint32
	fixup    MMUFixup
}

// TrapBusy marks the in-flight instruction as needing a BUSY frame on the
// next FSAVE: the model for what a real page fault mid-FP-instruction does,
// exposed so a host CPU emulator (or this package's own tests) can drive
// the resume-after-fault scenario without a real MMU.
func (f *FPU) TrapBusy(cmdreg1b uint16, fixup MMUFixup) {
	f.busy = busyState{active: true, cmdreg1b: cmdreg1b, fpiarcu: f.regs.fpiar, fixup: fixup}
}

func (f *FPU) pendingFrameKind() frameKind {
	switch {
	case !f.active:
		return frameNull
	case f.busy.active:
		return frameBusy
	case f.cfg.HasFLINEUnimplemented && f.unimplemented:
		return frameUnimp
	case f.pendingVector != 0 && !f.cfg.Model.is68040or68060():
		return frameExcp
	case f.cfg.Model.hasIDLEFrame():
		return frameIdle
	default:
		return frameNull
	}
}

// Save performs FSAVE to addr, writing the frame-ID long followed by
// whatever payload the current frame kind carries, and returns the total
// number of bytes written. The shape of every kind beyond NULL differs
// across the four models, so the byte layout is chosen per f.cfg.Model
// rather than shared.
func (f *FPU) Save(addr uint32) (int, Outcome) {
	kind := f.pendingFrameKind()
	version := f.cfg.Model.versionID()

	switch f.cfg.Model {
	case Model68060:
		return f.save68060(addr, kind)
	case Model68040:
		return f.save68040(addr, kind, version)
	default:
		return f.save68881(addr, kind, version)
	}
}

// save68060 writes the 68060's frame: always 12 bytes, NULL/IDLE/EXCP alike,
// differing only in the frame-ID word's low 16 bits and, for a trapped
// datatype, the operand word riding in the first long's high 16 bits.
func (f *FPU) save68060(addr uint32, kind frameKind) (int, Outcome) {
	var frameID uint32
	var eo0, eo1, eo2 uint32

	switch kind {
	case frameNull:
		frameID = 0
	case frameUnimp, frameBusy:
		frameID = 0xE000 | uint32(f.busy.stag&7)
		eo0 = f.busy.et0
		f.busy = busyState{}
		f.unimplemented = false
	default: // idle, or a pending-exception frame folded into idle on this model
		frameID = 0x6000
	}

	word0 := (eo0 & 0xFFFF0000) | frameID
	if out := f.bus.WriteLong(addr, word0); out.Faulted {
		return 0, out
	}
	if out := f.bus.WriteLong(addr+4, eo1); out.Faulted {
		return 0, out
	}
	if out := f.bus.WriteLong(addr+8, eo2); out.Faulted {
		return 0, out
	}
	return 12, ok
}

// save68040 writes the 68040's frame: 4 bytes for NULL (IDLE never arises,
// this model has no hasIDLEFrame), the UNIMP software-emulation frame
// (length depends on the revision's cmdreg3b block), or the 96-byte BUSY
// frame a page fault or unimplemented-datatype trap leaves behind.
func (f *FPU) save68040(addr uint32, kind frameKind, version uint8) (int, Outcome) {
	switch kind {
	case frameUnimp:
		hasCmdreg3b := version >= frameRev41
		payload := 40
		if hasCmdreg3b {
			payload += 8
		}
		id := uint32(version)<<24 | uint32(payload)<<16
		if out := f.bus.WriteLong(addr, id); out.Faulted {
			return 0, out
		}
		off := addr + 4
		if hasCmdreg3b {
			if out := f.bus.WriteLong(off, uint32(f.busy.cmdreg3b)<<16); out.Faulted {
				return 0, out
			}
			if out := f.bus.WriteLong(off+4, 0); out.Faulted {
				return 0, out
			}
			off += 8
		}
		if out := f.writeFrameTail(off); out.Faulted {
			return 0, out
		}
		f.unimplemented = false
		return 4 + payload, ok

	case frameBusy:
		const payload = 92 // total frame size is 4 (id) + 92 = 96 bytes
		id := uint32(version)<<24 | uint32(payload)<<16
		if out := f.bus.WriteLong(addr, id); out.Faulted {
			return 0, out
		}
		off := addr + 4
		words := [11]uint32{
			0, f.busy.fixup.EffectiveAddress, 0, 0, 0,
			f.busy.wbt[0], f.busy.wbt[1], f.busy.wbt[2],
			0, f.busy.fpiarcu, 0,
		}
		for _, w := range words {
			if out := f.bus.WriteLong(off, w); out.Faulted {
				return 0, out
			}
			off += 4
		}
		if out := f.bus.WriteLong(off, uint32(f.busy.cmdreg3b)<<16); out.Faulted {
			return 0, out
		}
		if out := f.bus.WriteLong(off+4, 0); out.Faulted {
			return 0, out
		}
		off += 8
		if out := f.writeFrameTail(off); out.Faulted {
			return 0, out
		}
		f.busy = busyState{}
		return 4 + payload, ok

	default: // null
		return 4, f.bus.WriteLong(addr, 0)
	}
}

// save68881 writes a standalone 68881/68882's frame: 4-byte NULL, the
// model-specific IDLE frame (the 68882 carries an extra 32 bytes of internal
// state the 68881 doesn't), or the 52-byte EXCP frame (48-byte payload) a
// pending exception leaves on either chip.
func (f *FPU) save68881(addr uint32, kind frameKind, version uint8) (int, Outcome) {
	switch kind {
	case frameIdle:
		payload := 0x18
		if f.cfg.Model == Model68882 {
			payload = 0x38
		}
		id := uint32(version)<<24 | uint32(payload)<<16
		if out := f.bus.WriteLong(addr, id); out.Faulted {
			return 0, out
		}
		off := addr + 4
		if out := f.bus.WriteLong(off, 0); out.Faulted { // condition-code byte, always clean here
			return 0, out
		}
		off += 4
		if f.cfg.Model == Model68882 {
			for i := 0; i < 32; i += 4 {
				if out := f.bus.WriteLong(off, 0); out.Faulted {
					return 0, out
				}
				off += 4
			}
		}
		for i := 0; i < 3; i++ { // the chip's own internal operand latch: not modelled, always zero
			if out := f.bus.WriteLong(off, 0); out.Faulted {
				return 0, out
			}
			off += 4
		}
		if out := f.bus.WriteLong(off, 0); out.Faulted { // internal operand register
			return 0, out
		}
		off += 4
		const biuFlags = 0x540EFFFF | 0x08000000
		if out := f.bus.WriteLong(off, biuFlags); out.Faulted {
			return 0, out
		}
		return 4 + payload, ok

	case frameExcp, frameUnimp, frameBusy:
		const payload = 0x30
		id := uint32(version)<<24 | uint32(payload)<<16
		if out := f.bus.WriteLong(addr, id); out.Faulted {
			return 0, out
		}
		for i := 0; i < payload; i += 4 {
			if out := f.bus.WriteLong(addr+4+uint32(i), 0); out.Faulted {
				return 0, out
			}
		}
		f.busy = busyState{}
		f.unimplemented = false
		return 4 + payload, ok

	default: // null
		return 4, f.bus.WriteLong(addr, 0)
	}
}

// writeFrameTail writes the 40-byte block common to the 68040's UNIMP and
// BUSY frames: the trapped operand's tag and the sign+exponent word
// unimplementedDatatype captured, the opcode's extension word, and the rest
// of the unpacked extended operand the interrupted instruction was working
// on (not modelled beyond the first word).
func (f *FPU) writeFrameTail(addr uint32) Outcome {
	words := [10]uint32{
		uint32(f.busy.stag) << 29, uint32(f.busy.cmdreg1b) << 16, f.busy.et0, 0, 0, 0, 0, 0, 0, 0,
	}
	for i, w := range words {
		if out := f.bus.WriteLong(addr+uint32(i*4), w); out.Faulted {
			return out
		}
	}
	return ok
}

// Restore performs FRESTORE from addr: it reads the frame-ID long to learn
// the frame's kind and length, consumes exactly that many bytes, and
// restores whatever state that kind carries.
func (f *FPU) Restore(addr uint32) (int, Outcome) {
	if f.cfg.Model == Model68060 {
		return f.restore68060(addr)
	}

	id, out := f.bus.ReadLong(addr)
	if out.Faulted {
		return 0, out
	}
	payload := int((id >> 16) & 0xFF)
	version := uint8(id >> 24)

	switch {
	case id == 0:
		f.regs.reset()
		f.active = false
		return 4, ok

	case payload == 0x18 || payload == 0x38:
		if !f.cfg.Model.hasIDLEFrame() {
			break
		}
		f.active = true
		return 4 + payload, ok

	case f.cfg.Model.is68040or68060() && payload == 92:
		off := addr + 4
		var words [11]uint32
		for i := range words {
			v, out := f.bus.ReadLong(off)
			if out.Faulted {
				return 0, out
			}
			words[i] = v
			off += 4
		}
		f.busy = busyState{
			active:   true,
			fpiarcu:  words[9],
			fixup:    MMUFixup{EffectiveAddress: words[1], Valid: true},
			cmdreg3b: uint16(0),
		}
		f.regs.fpiar = f.busy.fpiarcu
		// only FPIAR and the fixup's effective address come back from the
		// frame; its tag, operand and intermediate-result words are not read.
		// resumePending records the restore, but Execute does not consult it:
		// nothing re-runs the trapped instruction unless the host issues it again.
		f.resumePending = true
		f.active = true
		return 4 + payload, ok

	case f.cfg.Model.is68040or68060() && (version == frameRev40 || version == frameRev41):
		f.unimplemented = true
		f.active = true
		return 4 + payload, ok

	case payload == 0x30:
		f.active = true
		return 4 + payload, ok
	}

	f.lastFrameError = curated.Errorf("fpu: malformed FRESTORE frame: id %08x", id)
	f.faults.Record("FRESTORE", faultMalformedFrame, f.regs.fpiar, addr)
	logger.Log("fpu", f.lastFrameError)
	return 0, faulted(vectorFormatError)
}

// restore68060 performs FRESTORE for the 68060's uniform 12-byte frame: the
// frame-ID word's low 16 bits classify it (0x0000 null, 0x6000 idle,
// 0xE000|stag a trapped datatype/busy condition) with no length branch at
// all, since every 68060 frame is the same size.
func (f *FPU) restore68060(addr uint32) (int, Outcome) {
	word0, out := f.bus.ReadLong(addr)
	if out.Faulted {
		return 0, out
	}
	if _, out := f.bus.ReadLong(addr + 4); out.Faulted {
		return 0, out
	}
	if _, out := f.bus.ReadLong(addr + 8); out.Faulted {
		return 0, out
	}

	id := word0 & 0xFFFF
	switch {
	case id == 0:
		f.regs.reset()
		f.active = false

	case id&0xE000 == 0xE000:
		f.busy = busyState{active: true, stag: uint8(id & 7), et0: word0 &^ 0xFFFF}
		f.unimplemented = true
		f.active = true

	default: // idle
		f.active = true
	}
	return 12, ok
}
