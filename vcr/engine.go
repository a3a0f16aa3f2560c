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

package vcr

import (
	"github.com/jetsetilly/m64vcr/buttons"
	"github.com/jetsetilly/m64vcr/movie"
	"github.com/jetsetilly/m64vcr/notifications"
)

// State of the session.
type State int

// List of valid State values.
const (
	Idle State = iota
	Active
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Active:
		return "active"
	}
	return "unknown state"
}

// Mode of an Active session.
type Mode int

// List of valid Mode values.
const (
	Record Mode = iota
	Playback
)

func (m Mode) String() string {
	switch m {
	case Record:
		return "record"
	case Playback:
		return "playback"
	}
	return "unknown mode"
}

// Engine is the control surface of the VCR.
type Engine interface {
	StartRecording(path string, author string, description string, startType movie.StartType) error
	StartMovie(path string) error
	StopMovie(restart bool) error

	SetKeys(keys buttons.Buttons, channel int) error
	GetKeys(channel int) (buttons.Buttons, bool, error)

	IsPlaying() bool
	IsReadOnly() bool
	SetReadOnly(readOnly bool) bool
	GetCurFrame() int

	CollectSTData() []byte
	LoadMovieData(data []byte) StateStatus

	SetErrorCallback(callback notifications.MsgFunc)
}

// Emulation is the part of the emulator the VCR needs to start a movie from
// the correct state.
type Emulation interface {
	// Reset the console. Called for movies that start from reset or from
	// cleared EEPROM
	Reset() error

	// Save and load a snapshot of the entire emulation. Called for movies that
	// start from a snapshot
	SaveSnapshot(path string) error
	LoadSnapshot(path string) error

	// ROM returns information about the currently loaded ROM
	ROM() movie.ROMInfo
}
