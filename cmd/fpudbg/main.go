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

// Command fpudbg is an interactive shell over a single FPU core and a small
// backing memory, for poking registers and stepping raw extension words by
// hand without wiring up a whole 68k CPU emulator.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/go68k/fpu68k/fpu"
	"github.com/go68k/fpu68k/fpu/kernel"
	"github.com/go68k/fpu68k/internal/bus"
)

// stdioReadWriter adapts the separate stdin/stdout files term.NewTerminal
// wants as a single io.ReadWriter.
type stdioReadWriter struct {
	r *os.File
	w *os.File
}

func (s stdioReadWriter) Read(p []byte) (int, error)  { return s.r.Read(p) }
func (s stdioReadWriter) Write(p []byte) (int, error) { return s.w.Write(p) }

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return runPlain(os.Stdin, os.Stdout)
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return runPlain(os.Stdin, os.Stdout)
	}
	defer term.Restore(fd, oldState)

	t := term.NewTerminal(stdioReadWriter{os.Stdin, os.Stdout}, "fpu> ")
	t.SetPrompt("fpu> ")

	sh := newShell()
	for {
		line, err := t.ReadLine()
		if err != nil {
			fmt.Fprintln(os.Stdout, "\r")
			return nil
		}
		for _, l := range sh.dispatch(line) {
			fmt.Fprintf(t, "%s\r\n", l)
		}
		if sh.quit {
			return nil
		}
	}
}

// runPlain is the fallback used when stdin isn't a real terminal (piped
// input, a test harness): no raw mode, no line editing, just read/print.
func runPlain(in *os.File, out *os.File) error {
	sh := newShell()
	fmt.Fprint(out, "fpu> ")
	buf := make([]byte, 4096)
	var pending string
	for {
		n, err := in.Read(buf)
		if n > 0 {
			pending += string(buf[:n])
		}
		for {
			idx := strings.IndexByte(pending, '\n')
			if idx < 0 {
				break
			}
			line := strings.TrimRight(pending[:idx], "\r")
			pending = pending[idx+1:]
			for _, l := range sh.dispatch(line) {
				fmt.Fprintln(out, l)
			}
			if sh.quit {
				return nil
			}
			fmt.Fprint(out, "fpu> ")
		}
		if err != nil {
			return nil
		}
	}
}

// shell holds the one FPU core and backing memory a session pokes at.
// Reconstructed fresh with "reset <model>"; everything else mutates it.
type shell struct {
	f    *fpu.FPU
	mem  *bus.Memory
	quit bool
}

func newShell() *shell {
	mem := bus.New(1 << 16)
	return &shell{
		f:   fpu.New(fpu.Model68040, kernel.New(), mem),
		mem: mem,
	}
}

func (sh *shell) dispatch(line string) []string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "quit", "exit":
		sh.quit = true
		return []string{"bye"}

	case "help":
		return []string{
			"reset <68881|68882|68040|68060>",
			"regs",
			"set <n> <float64>",
			"exec <opcode-hex> <extword-hex>",
			"fpcr [hex]",
			"fpsr",
			"faults",
			"save <addr-hex>",
			"restore <addr-hex>",
			"quit",
		}

	case "reset":
		if len(fields) != 2 {
			return []string{"usage: reset <68881|68882|68040|68060>"}
		}
		m, err := parseModel(fields[1])
		if err != nil {
			return []string{err.Error()}
		}
		sh.mem = bus.New(1 << 16)
		sh.f = fpu.New(m, kernel.New(), sh.mem)
		return []string{fmt.Sprintf("reset to %s", m)}

	case "regs":
		k := kernel.New()
		lines := make([]string, 0, 8)
		for n := uint8(0); n < 8; n++ {
			v := sh.f.Register(n)
			lines = append(lines, fmt.Sprintf("fp%d = %v", n, k.ToDoubleExtended(v)))
		}
		return lines

	case "set":
		if len(fields) != 3 {
			return []string{"usage: set <n> <float64>"}
		}
		n, err := strconv.ParseUint(fields[1], 10, 8)
		if err != nil || n > 7 {
			return []string{"register must be 0-7"}
		}
		v, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return []string{err.Error()}
		}
		k := kernel.New()
		sh.f.SetRegister(uint8(n), k.FromDoubleExtended(v))
		return []string{fmt.Sprintf("fp%d = %v", n, v)}

	case "exec":
		if len(fields) != 3 {
			return []string{"usage: exec <opcode-hex> <extword-hex>"}
		}
		opcode, err := strconv.ParseUint(fields[1], 16, 16)
		if err != nil {
			return []string{err.Error()}
		}
		iword, err := strconv.ParseUint(fields[2], 16, 16)
		if err != nil {
			return []string{err.Error()}
		}
		out := sh.f.Execute(sh.mem.PC(), uint16(opcode), uint16(iword))
		if out.Faulted {
			return []string{fmt.Sprintf("fault: vector %d", out.Vector)}
		}
		return []string{"ok"}

	case "fpcr":
		if len(fields) == 2 {
			v, err := strconv.ParseUint(fields[1], 16, 16)
			if err != nil {
				return []string{err.Error()}
			}
			sh.f.SetFPCR(uint16(v))
			return []string{fmt.Sprintf("fpcr = %04x", sh.f.FPCR().Value())}
		}
		return []string{fmt.Sprintf("fpcr = %04x", sh.f.FPCR().Value())}

	case "fpsr":
		return []string{fmt.Sprintf("fpsr = %08x  n=%v z=%v i=%v nan=%v",
			sh.f.FPSR().Value(), sh.f.FPSR().N(), sh.f.FPSR().Z(), sh.f.FPSR().I(), sh.f.FPSR().NAN())}

	case "faults":
		entries := sh.f.Faults().Entries()
		if len(entries) == 0 {
			return []string{"(empty)"}
		}
		lines := make([]string, 0, len(entries))
		for _, e := range entries {
			lines = append(lines, e.String())
		}
		return lines

	case "save":
		addr, err := strconv.ParseUint(fields[1], 16, 32)
		if err != nil {
			return []string{err.Error()}
		}
		n, out := sh.f.Save(uint32(addr))
		if out.Faulted {
			return []string{fmt.Sprintf("fault: vector %d", out.Vector)}
		}
		return []string{fmt.Sprintf("wrote %d bytes", n)}

	case "restore":
		addr, err := strconv.ParseUint(fields[1], 16, 32)
		if err != nil {
			return []string{err.Error()}
		}
		n, out := sh.f.Restore(uint32(addr))
		if out.Faulted {
			return []string{fmt.Sprintf("fault: vector %d", out.Vector)}
		}
		return []string{fmt.Sprintf("read %d bytes", n)}

	default:
		return []string{fmt.Sprintf("unknown command %q, try 'help'", fields[0])}
	}
}

func parseModel(s string) (fpu.Model, error) {
	switch s {
	case "68881":
		return fpu.Model68881, nil
	case "68882":
		return fpu.Model68882, nil
	case "68040":
		return fpu.Model68040, nil
	case "68060":
		return fpu.Model68060, nil
	}
	return 0, fmt.Errorf("unknown model %q", s)
}
