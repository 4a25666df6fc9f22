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

func TestConditionTruthTable(t *testing.T) {
	cases := []struct {
		cond            Condition
		n, z, unordered bool
		want            bool
	}{
		{CondEQ, false, true, false, true},
		{CondEQ, false, false, false, false},
		{CondOGT, false, false, false, true},
		{CondOGT, false, false, true, false},
		{CondULT, true, false, false, true},
		{CondULT, false, false, true, true},
		{CondUN, false, false, true, true},
		{CondUN, false, false, false, false},
		{CondTrue, false, false, false, true},
		{CondFalse, true, true, true, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.cond.evaluate(c.n, c.z, c.unordered))
	}
}

// TestSignalingPredicateRaisesBSUN: evaluating one of the IEEE-aware
// predicates (0x10-0x1F) against an unordered compare must raise BSUN,
// while its non-signaling twin must not.
func TestSignalingPredicateRaisesBSUN(t *testing.T) {
	var f FPU
	f.regs.fpsr.setConditionCodes(false, false, false, true) // NAN set: unordered
	f.regs.fpcr.SetValue(0xFF00)                             // enable every exception so BSUN latches a vector

	result, aborted := f.evaluateCondition(CondUN)
	assert.True(t, result)
	assert.False(t, aborted)
	assert.Zero(t, f.pendingVector, "the non-signaling predicate must not raise BSUN")

	result, aborted = f.evaluateCondition(CondUN | signalingBit)
	assert.False(t, result)
	assert.True(t, aborted, "the signaling predicate must abort the instruction on an unordered compare")
	assert.Equal(t, 48, f.pendingVector)
}
