// This file is part of m64vcr.
//
// m64vcr is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// m64vcr is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with m64vcr.  If not, see <https://www.gnu.org/licenses/>.

package buttons

import (
	"fmt"
	"strings"
)

// MaxControllers is the number of controller ports on the console.
const MaxControllers = 4

// Controllers describes which controller ports have a controller plugged in
// and what accessories are plugged into those controllers. The bit layout is
// the same as in the movie file header:
//
//	bits 0-3	controller present
//	bits 4-7	memory pak
//	bits 8-11	rumble pak
type Controllers uint32

// Controller1 is the typical configuration: a single controller in the first
// port with no accessories.
const Controller1 Controllers = 0x01

// Present returns true if a controller is plugged into the channel.
func (c Controllers) Present(channel int) bool {
	if channel < 0 || channel >= MaxControllers {
		return false
	}
	return c&(1<<channel) != 0
}

// MemPak returns true if the controller in the channel has a memory pak.
func (c Controllers) MemPak(channel int) bool {
	return c.Present(channel) && c&(1<<(channel+4)) != 0
}

// RumblePak returns true if the controller in the channel has a rumble pak.
func (c Controllers) RumblePak(channel int) bool {
	return c.Present(channel) && c&(1<<(channel+8)) != 0
}

// Count returns the number of controllers present.
func (c Controllers) Count() int {
	n := 0
	for i := 0; i < MaxControllers; i++ {
		if c.Present(i) {
			n++
		}
	}
	return n
}

// Last returns the highest numbered channel with a controller present. Returns
// -1 if no controllers are present.
func (c Controllers) Last() int {
	for i := MaxControllers - 1; i >= 0; i-- {
		if c.Present(i) {
			return i
		}
	}
	return -1
}

// Channels returns the list of channels with a controller present, in order.
func (c Controllers) Channels() []int {
	ch := make([]int, 0, MaxControllers)
	for i := 0; i < MaxControllers; i++ {
		if c.Present(i) {
			ch = append(ch, i)
		}
	}
	return ch
}

// FirstN returns a Controllers value with the first n channels present and no
// accessories.
func FirstN(n int) Controllers {
	if n > MaxControllers {
		n = MaxControllers
	}
	var c Controllers
	for i := 0; i < n; i++ {
		c |= 1 << i
	}
	return c
}

func (c Controllers) String() string {
	s := strings.Builder{}
	for i := 0; i < MaxControllers; i++ {
		if !c.Present(i) {
			continue
		}
		if s.Len() > 0 {
			s.WriteString(", ")
		}
		s.WriteString(fmt.Sprintf("P%d", i+1))
		if c.MemPak(i) {
			s.WriteString("+mempak")
		}
		if c.RumblePak(i) {
			s.WriteString("+rumble")
		}
	}
	if s.Len() == 0 {
		return "none"
	}
	return s.String()
}
