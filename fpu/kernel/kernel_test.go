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

package kernel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go68k/fpu68k/fpu"
	"github.com/go68k/fpu68k/fpu/kernel"
)

func TestAddRoundTrips(t *testing.T) {
	k := kernel.New()
	a := k.FromDoubleExtended(1.5)
	b := k.FromDoubleExtended(2.25)

	sum := k.Add(a, b)
	assert.InDelta(t, 3.75, k.ToDoubleExtended(sum), 1e-9)
	assert.Zero(t, k.Status())
}

func TestDivideByZeroSetsDZ(t *testing.T) {
	k := kernel.New()
	a := k.FromDoubleExtended(1.0)
	zero := fpu.Extended{}

	result := k.Div(a, zero)
	require.True(t, k.IsInfinity(result))
	assert.NotZero(t, k.Status())
}

func TestSqrtOfNegativeSetsOperr(t *testing.T) {
	k := kernel.New()
	neg := k.FromDoubleExtended(-4.0)

	result := k.Sqrt(neg)
	assert.True(t, k.IsNaN(result))
	assert.NotZero(t, k.Status())
}

func TestSinglePackedRoundTrip(t *testing.T) {
	k := kernel.New()
	a := k.FromDoubleExtended(1.25)

	bits := k.ToSingle(a)
	back := k.FromSingle(bits)
	assert.InDelta(t, 1.25, k.ToDoubleExtended(back), 1e-6)
}

func TestCompare(t *testing.T) {
	k := kernel.New()
	a := k.FromDoubleExtended(1.0)
	b := k.FromDoubleExtended(2.0)

	n, z := k.Compare(a, b)
	assert.True(t, n)
	assert.False(t, z)
}
