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

// Package buttons defines the state of a single N64 controller for a single
// frame. The state is packed into a 32 bit word, exactly as it is stored in a
// movie file: fourteen digital buttons in the low half and two signed analogue
// axes in the high half.
package buttons

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jetsetilly/m64vcr/errors"
)

// Buttons is the state of one controller for one frame. It is a value type
// and is always copied.
type Buttons uint32

// List of digital buttons.
const (
	RightDPad Buttons = 1 << iota
	LeftDPad
	DownDPad
	UpDPad
	Start
	Z
	B
	A
	RightC
	LeftC
	DownC
	UpC
	R
	L
)

// bits 14 and 15 are reserved. the axes occupy the upper 16 bits
const (
	digitalMask = 0x3fff
	xShift      = 16
	yShift      = 24
)

// order of names is the order of the bits
var names = []string{"dR", "dL", "dD", "dU", "Start", "Z", "B", "A", "cR", "cL", "cD", "cU", "R", "L"}

// Pressed returns true if all the buttons in btn are pressed.
func (b Buttons) Pressed(btn Buttons) bool {
	return b&btn == btn
}

// Digital returns the state of the digital buttons only.
func (b Buttons) Digital() Buttons {
	return b & digitalMask
}

// X returns the position of the analogue stick on the X axis.
func (b Buttons) X() int8 {
	return int8(b >> xShift)
}

// Y returns the position of the analogue stick on the Y axis.
func (b Buttons) Y() int8 {
	return int8(b >> yShift)
}

// WithAxes returns a copy of the Buttons with the analogue stick positions
// replaced.
func (b Buttons) WithAxes(x, y int8) Buttons {
	return b.Digital() | Buttons(uint8(x))<<xShift | Buttons(uint8(y))<<yShift
}

// String returns the buttons in the format accepted by Parse(). No input at
// all is represented by a single hyphen.
func (b Buttons) String() string {
	s := make([]string, 0, len(names)+2)
	for i, n := range names {
		if b&(1<<i) != 0 {
			s = append(s, n)
		}
	}
	if b.X() != 0 {
		s = append(s, fmt.Sprintf("X:%d", b.X()))
	}
	if b.Y() != 0 {
		s = append(s, fmt.Sprintf("Y:%d", b.Y()))
	}
	if len(s) == 0 {
		return "-"
	}
	return strings.Join(s, " ")
}

// Parse the string representation of a controller state. The string is a
// space separated list of button names and axis positions. For example:
//
//	A B Start X:-40 Y:127
//
// Button names are not case-sensitive. An empty string or a single hyphen
// means no input.
func Parse(s string) (Buttons, error) {
	var b Buttons

	for _, tok := range strings.Fields(s) {
		if tok == "-" {
			continue
		}

		if len(tok) > 2 && tok[1] == ':' {
			v, err := strconv.ParseInt(tok[2:], 10, 8)
			if err != nil {
				return 0, errors.Errorf(errors.InvalidArgument, "axis value: %s", tok)
			}
			switch strings.ToUpper(tok[:1]) {
			case "X":
				b = b.WithAxes(int8(v), b.Y())
			case "Y":
				b = b.WithAxes(b.X(), int8(v))
			default:
				return 0, errors.Errorf(errors.InvalidArgument, "unknown axis: %s", tok)
			}
			continue
		}

		found := false
		for i, n := range names {
			if strings.EqualFold(tok, n) {
				b |= 1 << i
				found = true
				break // for loop
			}
		}
		if !found {
			return 0, errors.Errorf(errors.InvalidArgument, "unknown button: %s", tok)
		}
	}

	return b, nil
}
