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
	"fmt"
	"strings"
)

// Command is a request for the Loop from the input source.
type Command int

// List of valid Command values.
const (
	NoCommand Command = iota
	SaveState
	LoadState
	Quit
)

func (c Command) String() string {
	switch c {
	case NoCommand:
		return "none"
	case SaveState:
		return "save state"
	case LoadState:
		return "load state"
	case Quit:
		return "quit"
	}
	return fmt.Sprintf("unknown command (%d)", int(c))
}

// Commander is implemented by input sources that can issue commands. The Loop
// checks for a command at the start of every frame.
type Commander interface {
	// Command returns the pending command and clears it
	Command() Command
}

// Frame describes a frame that has been run by the Loop.
type Frame struct {
	// number of frames run by the Loop before this one
	Number int

	// the frame number in the movie. -1 if no movie is active
	MovieFrame int

	// true if the input came from the movie
	Playback bool

	Input Input

	// the movie ended with this frame
	Ended bool
}

func (f Frame) String() string {
	s := strings.Builder{}
	if f.MovieFrame >= 0 {
		s.WriteString(fmt.Sprintf("%6d ", f.MovieFrame))
	} else {
		s.WriteString("     - ")
	}
	s.WriteString(f.Input.String())
	if f.Ended {
		s.WriteString(" [end]")
	}
	return s.String()
}

// String returns the input in the format used by script files.
func (in Input) String() string {
	// omit trailing channels with no input
	n := len(in)
	for n > 1 && in[n-1] == 0 {
		n--
	}
	s := make([]string, n)
	for i := 0; i < n; i++ {
		s[i] = in[i].String()
	}
	return strings.Join(s, " | ")
}

// FrameFunc is called by the Loop after every frame.
type FrameFunc func(Frame)
