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
	"image"

	"github.com/jetsetilly/m64vcr/buttons"
	"github.com/jetsetilly/m64vcr/vcr"
)

// Input is the state of every controller channel for a single frame.
type Input [buttons.MaxControllers]buttons.Buttons

// Engine is the VCR as seen by the Loop. Satisfied by *vcr.Session.
type Engine interface {
	vcr.Engine
	State() vcr.State
	Mode() vcr.Mode
	UpdateVI()
}

// Machine is the emulated console as seen by the Loop.
type Machine interface {
	// PollInput returns the live input for the channel. Returns io.EOF if
	// there is no more input
	PollInput(channel int) (buttons.Buttons, error)

	// RunFrame runs the emulation for one frame. Returns the number of
	// vertical interrupts that occurred during the frame
	RunFrame(input Input) (int, error)
}

// AudioVideo is implemented by machines that produce output suitable for an
// encoder.
type AudioVideo interface {
	// Video returns the image for the most recent frame
	Video() image.Image

	// Audio returns the audio for the most recent frame. The data is 16 bit
	// stereo, little-endian
	Audio() []byte

	SampleRate() int
}

// Snapshotter is implemented by machines that can save and restore their state
// in memory.
type Snapshotter interface {
	Snapshot() []byte
	Restore(data []byte) error
}

// InputSource provides live input to a Console.
type InputSource interface {
	// Poll returns the input for the channel. Channel zero is always polled
	// first in a frame. Returns io.EOF if there is no more input
	Poll(channel int) (buttons.Buttons, error)
}
