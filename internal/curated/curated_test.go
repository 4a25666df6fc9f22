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

package curated_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go68k/fpu68k/internal/curated"
)

func TestErrorf(t *testing.T) {
	err := curated.Errorf("bad frame: %d", 14)
	assert.EqualError(t, err, "bad frame: 14")
	assert.True(t, curated.IsAny(err))
	assert.True(t, curated.Is(err, "bad frame: %d"))
	assert.False(t, curated.Is(err, "other pattern"))
}

func TestIsAnyOnPlainError(t *testing.T) {
	assert.False(t, curated.IsAny(nil))
}

func TestHasChain(t *testing.T) {
	inner := curated.Errorf("malformed FRESTORE frame")
	outer := curated.Errorf("restore failed: %v", inner)

	assert.True(t, curated.Has(outer, "malformed FRESTORE frame"))
	assert.False(t, curated.Is(outer, "malformed FRESTORE frame"))
}
