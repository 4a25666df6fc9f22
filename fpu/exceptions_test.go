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
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestExceptionVectorPriority pins the fixed priority order: BSUN always
// wins over every other simultaneously-raised exception, INEX1/INEX2 only
// ever win when nothing else is set.
func TestExceptionVectorPriority(t *testing.T) {
	all := uint8(excBSUN|excSNAN|excOPERR|excOVFL|excUNFL|excDZ|excINEX2|excINEX1) >> 8
	assert.Equal(t, 48, exceptionVector(all))

	withoutBSUN := all &^ uint8(excBSUN>>8)
	assert.Equal(t, 54, exceptionVector(withoutBSUN))

	assert.Equal(t, 49, exceptionVector(uint8(excINEX1>>8)))
	assert.Equal(t, 49, exceptionVector(uint8(excINEX2>>8)))
	assert.Equal(t, 50, exceptionVector(uint8(excDZ>>8)))
	assert.Equal(t, 51, exceptionVector(uint8(excUNFL>>8)))
	assert.Equal(t, 52, exceptionVector(uint8(excOPERR>>8)))
	assert.Equal(t, 53, exceptionVector(uint8(excOVFL>>8)))

	assert.Equal(t, 0, exceptionVector(0))
}

// TestAccruedMonotonicity is testable property 2: once an accrued bit is
// set, clearing the exception-status byte never clears it back.
func TestAccruedMonotonicity(t *testing.T) {
	var s FPSR
	s.orExceptionStatus(excINEX1)
	s.accrue()
	assert.NotZero(t, s.Value()&aeINEX)

	s.clearStatus()
	assert.NotZero(t, s.Value()&aeINEX, "clearStatus must not touch the accrued byte")
}

// TestClearStatusPreservesConditionCodes is testable property: FPSR's
// clear-status operation must not disturb the condition codes computed by
// the most recent compare or arithmetic result.
func TestClearStatusPreservesConditionCodes(t *testing.T) {
	var s FPSR
	s.setConditionCodes(true, false, false, false)
	s.orExceptionStatus(excDZ)

	s.clearStatus()
	assert.True(t, s.N())
	assert.Zero(t, s.Value()&0xFF00)
}
