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

package faultlog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go68k/fpu68k/faultlog"
)

func TestRecordDeduplicates(t *testing.T) {
	l := faultlog.NewLog()

	l.Record("FLINE", faultlog.UnimplementedOpcode, 0x1000, 0xf200)
	l.Record("FLINE", faultlog.UnimplementedOpcode, 0x1000, 0xf200)
	l.Record("FRESTORE", faultlog.MalformedFrame, 0x2000, 0x0)

	entries := l.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, 2, entries[0].Count)
	assert.Equal(t, 1, entries[1].Count)
}

func TestClear(t *testing.T) {
	l := faultlog.NewLog()
	l.Record("x", faultlog.IllegalAccess, 0, 0)
	l.Clear()
	assert.Empty(t, l.Entries())
}
