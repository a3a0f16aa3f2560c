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

package playmode

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/jetsetilly/m64vcr/buttons"
	"github.com/jetsetilly/m64vcr/errors"
	"github.com/jetsetilly/m64vcr/terminal/easyterm"
)

// keys that toggle a button on the first controller
var keyboardButtons = map[rune]buttons.Buttons{
	'w': buttons.UpDPad,
	'a': buttons.LeftDPad,
	's': buttons.DownDPad,
	'd': buttons.RightDPad,
	'i': buttons.UpC,
	'j': buttons.LeftC,
	'k': buttons.DownC,
	'l': buttons.RightC,
	'x': buttons.A,
	'c': buttons.B,
	'z': buttons.Z,
	'e': buttons.L,
	'r': buttons.R,
	' ': buttons.Start,
}

// keys that move the analogue stick of the first controller
var keyboardStick = map[rune][2]int8{
	'H': {-80, 0},
	'L': {80, 0},
	'K': {0, 80},
	'J': {0, -80},
	'G': {0, 0},
}

var keyboardCommands = map[rune]Command{
	'[':             SaveState,
	']':             LoadState,
	'q':             Quit,
	easyterm.KeyEsc: Quit,
}

// KeyboardSource is an InputSource for the first controller that reads key
// presses from an io.Reader, usually a terminal in cbreak mode. Each key press
// toggles a button. The buttons stay pressed until the key is pressed again.
//
// Key presses are read in a separate goroutine and are applied to the input
// at the beginning of the next frame.
type KeyboardSource struct {
	keys chan rune

	crit    sync.Mutex
	held    buttons.Buttons
	command Command
}

// NewKeyboardSource is the preferred method of initialisation for the
// KeyboardSource type. A nil reader is allowed, in which case input can only
// be provided by calling Press().
func NewKeyboardSource(r io.Reader) *KeyboardSource {
	kb := &KeyboardSource{}

	if r != nil {
		kb.keys = make(chan rune, 16)
		go func() {
			defer close(kb.keys)
			br := bufio.NewReader(r)
			for {
				k, _, err := br.ReadRune()
				if err != nil {
					return
				}
				kb.keys <- k
			}
		}()
	}

	return kb
}

// Press applies a single key press. Returns an error if the key has no
// meaning.
func (kb *KeyboardSource) Press(key rune) error {
	kb.crit.Lock()
	defer kb.crit.Unlock()

	if b, ok := keyboardButtons[key]; ok {
		kb.held ^= b
		return nil
	}
	if s, ok := keyboardStick[key]; ok {
		kb.held = kb.held.WithAxes(s[0], s[1])
		return nil
	}
	if c, ok := keyboardCommands[key]; ok {
		kb.command = c
		return nil
	}

	return errors.Errorf(errors.InvalidArgument, "key %q is not mapped", key)
}

// apply all key presses waiting in the channel
func (kb *KeyboardSource) drain() {
	for kb.keys != nil {
		select {
		case k, ok := <-kb.keys:
			if !ok {
				// the reader has closed. treat this like a quit request
				kb.keys = nil
				kb.crit.Lock()
				kb.command = Quit
				kb.crit.Unlock()
				return
			}
			_ = kb.Press(k)
		default:
			return
		}
	}
}

// Poll implements the InputSource interface. Only the first controller
// receives input from the keyboard.
func (kb *KeyboardSource) Poll(channel int) (buttons.Buttons, error) {
	if channel != 0 {
		return 0, nil
	}

	kb.drain()

	kb.crit.Lock()
	defer kb.crit.Unlock()
	return kb.held, nil
}

// Command implements the Commander interface.
func (kb *KeyboardSource) Command() Command {
	kb.crit.Lock()
	defer kb.crit.Unlock()
	c := kb.command
	kb.command = NoCommand
	return c
}

// KeyboardHelp returns a summary of the key mapping, suitable for displaying to
// the user.
func KeyboardHelp() string {
	var s []string
	for k, b := range keyboardButtons {
		n := string(k)
		if k == ' ' {
			n = "space"
		}
		s = append(s, n+"="+b.String())
	}
	sort.Strings(s)

	var c []string
	for k, v := range keyboardStick {
		c = append(c, fmt.Sprintf("%c=%d,%d", k, v[0], v[1]))
	}
	sort.Strings(c)

	return strings.Join(s, " ") + "\nstick: " + strings.Join(c, " ") +
		"\n[=save state ]=load state q or esc=quit"
}
