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

package movie

import (
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/jetsetilly/m64vcr/buttons"
	"github.com/jetsetilly/m64vcr/errors"
	"github.com/jetsetilly/m64vcr/inputbuffer"
)

// StartType indicates the state of the emulation at the beginning of the
// movie.
type StartType int

// List of valid StartType values.
const (
	FromSnapshot StartType = iota
	FromReset
	FromEEPROM
)

func (st StartType) String() string {
	switch st {
	case FromSnapshot:
		return "snapshot"
	case FromReset:
		return "reset"
	case FromEEPROM:
		return "eeprom"
	}
	return fmt.Sprintf("unknown start type (%d)", int(st))
}

// Valid returns true if the StartType is one of the listed values.
func (st StartType) Valid() bool {
	return st >= FromSnapshot && st <= FromEEPROM
}

// ParseStartType converts the string returned by StartType.String() back into
// a StartType.
func ParseStartType(s string) (StartType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "snapshot":
		return FromSnapshot, nil
	case "reset":
		return FromReset, nil
	case "eeprom":
		return FromEEPROM, nil
	}
	return 0, errors.Errorf(errors.InvalidArgument, "start type: %s", s)
}

// Maximum number of bytes in the text fields of the movie.
const (
	MaxAuthor      = 222
	MaxDescription = 256
	MaxROMName     = 32
	MaxPluginName  = 64
)

// ROMInfo identifies the ROM a movie was recorded with.
type ROMInfo struct {
	Name    string
	CRC     uint32
	Country uint16
}

func (r ROMInfo) String() string {
	return fmt.Sprintf("%s (crc %08x, country %c)", r.Name, r.CRC, rune(r.Country))
}

// Plugins names the emulator plugins in use when the movie was recorded. The
// names are informational only.
type Plugins struct {
	Video string
	Sound string
	Input string
	RSP   string
}

// Movie is the metadata and input of a single movie. The input is owned by the
// Movie.
type Movie struct {
	// the time the movie was created, in seconds since the epoch. used to match
	// savestate data with a movie
	UID uint32

	Author      string
	Description string
	StartType   StartType

	// number of times a savestate has been loaded while recording
	Rerecords uint32

	// vertical interrupts per second. 60 for NTSC and 50 for PAL
	VIsPerSecond uint8

	// number of vertical interrupts in the movie
	VICount uint32

	// frame cursor. not saved in the movie file but is saved in savestate data
	FrameCount int

	Controllers buttons.Controllers
	ROM         ROMInfo
	Plugins     Plugins

	Input *inputbuffer.Buffer
}

// truncate string to n bytes without splitting a multi-byte rune
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// the most recent UID given to a new movie
var lastUID struct {
	crit sync.Mutex
	uid  uint32
}

// newUID returns the current time in seconds. Movies created within the same
// second of one another in the same process are given consecutive values so
// that no two movies share a UID.
func newUID() uint32 {
	lastUID.crit.Lock()
	defer lastUID.crit.Unlock()

	uid := uint32(time.Now().Unix())
	if uid <= lastUID.uid {
		uid = lastUID.uid + 1
	}
	lastUID.uid = uid
	return uid
}

// New is the preferred method of initialisation for the Movie type. The author
// and description are truncated if they are too long.
func New(author string, description string, startType StartType, controllers buttons.Controllers) (*Movie, error) {
	if !startType.Valid() {
		return nil, errors.New(errors.InvalidArgument, startType)
	}
	if controllers.Count() == 0 {
		return nil, errors.New(errors.InvalidArgument, "no controllers")
	}

	return &Movie{
		UID:          newUID(),
		Author:       truncate(author, MaxAuthor),
		Description:  truncate(description, MaxDescription),
		StartType:    startType,
		VIsPerSecond: 60,
		Controllers:  controllers,
		Input:        inputbuffer.NewBuffer(controllers),
	}, nil
}

// TotalLength returns the number of complete frames in the movie.
func (m *Movie) TotalLength() int {
	return m.Input.Frames()
}

// Duration returns the running time of the movie, based on the number of
// vertical interrupts.
func (m *Movie) Duration() time.Duration {
	if m.VIsPerSecond == 0 {
		return 0
	}
	return time.Duration(m.VICount) * time.Second / time.Duration(m.VIsPerSecond)
}

// SetROM records the ROM information in the movie. The number of vertical
// interrupts per second is also set according to the country code.
func (m *Movie) SetROM(rom ROMInfo) {
	m.ROM = ROMInfo{
		Name:    truncate(rom.Name, MaxROMName),
		CRC:     rom.CRC,
		Country: rom.Country,
	}
	m.VIsPerSecond = VIsPerSecond(rom.Country)
}

// VIsPerSecond returns the vertical interrupt rate for a ROM country code.
func VIsPerSecond(country uint16) uint8 {
	switch country & 0xff {
	case 'D', 'F', 'I', 'P', 'S', 'U', 'X', 'Y':
		return 50
	}
	return 60
}

// Verify the ROM information against the ROM recorded in the movie. Returns a
// list of differences, suitable for presenting to the user. An empty list
// means the ROM is a match.
func (m *Movie) Verify(rom ROMInfo) []string {
	var w []string
	if strings.TrimSpace(m.ROM.Name) != strings.TrimSpace(truncate(rom.Name, MaxROMName)) {
		w = append(w, fmt.Sprintf("movie was recorded with ROM '%s' but current ROM is '%s'", m.ROM.Name, rom.Name))
	}
	if m.ROM.CRC != rom.CRC {
		w = append(w, fmt.Sprintf("movie ROM crc %08x does not match current ROM crc %08x", m.ROM.CRC, rom.CRC))
	}
	if m.ROM.Country != rom.Country {
		w = append(w, fmt.Sprintf("movie ROM country %c does not match current ROM country %c", rune(m.ROM.Country), rune(rom.Country)))
	}
	return w
}

// Clone returns a deep copy of the movie.
func (m *Movie) Clone() *Movie {
	c := *m
	c.Input = m.Input.Clone()
	return &c
}

func (m *Movie) String() string {
	return fmt.Sprintf("%s [%s] %d frames, %d rerecords", m.ROM.Name, m.StartType, m.TotalLength(), m.Rerecords)
}
