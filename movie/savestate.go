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
	"bytes"
	"encoding/binary"

	"github.com/jetsetilly/m64vcr/buttons"
	"github.com/jetsetilly/m64vcr/errors"
	"github.com/jetsetilly/m64vcr/inputbuffer"
)

// number of 32 bit words before the input data in the savestate data
const savestateHeaderWords = 5

// Savestate is the movie data recovered from a savestate.
type Savestate struct {
	UID         uint32
	FrameCount  int
	VICount     uint32
	TotalLength int
	Controllers buttons.Controllers
	Input       *inputbuffer.Buffer
}

// SerializeForSavestate returns the movie data to be stored alongside a
// savestate. The data includes the entire input of the movie, not just the
// input up to the frame count.
func (m *Movie) SerializeForSavestate(frameCount int, viCount uint32) []byte {
	total := m.TotalLength()

	buf := bytes.Buffer{}
	buf.Grow((savestateHeaderWords + total*m.Controllers.Count()) * 4)

	var w [4]byte
	put := func(v uint32) {
		binary.LittleEndian.PutUint32(w[:], v)
		buf.Write(w[:])
	}

	put(m.UID)
	put(uint32(frameCount))
	put(viCount)
	put(uint32(total))
	put(uint32(m.Controllers))

	// writing to a bytes.Buffer never fails
	_ = writeInput(&buf, m.Input, total)

	return buf.Bytes()
}

// ParseSavestate checks and decodes the data created by SerializeForSavestate.
// The data must be exactly the correct length for the number of frames and
// controllers it claims to hold.
func ParseSavestate(data []byte) (*Savestate, error) {
	if len(data) < savestateHeaderWords*4 {
		return nil, errors.New(errors.CorruptFormat, "savestate data", errors.FileTruncated)
	}

	word := func(i int) uint32 {
		return binary.LittleEndian.Uint32(data[i*4:])
	}

	s := &Savestate{
		UID:         word(0),
		FrameCount:  int(word(1)),
		VICount:     word(2),
		TotalLength: int(word(3)),
		Controllers: buttons.Controllers(word(4)),
	}

	n := s.Controllers.Count()
	if n == 0 {
		return nil, errors.New(errors.CorruptFormat, "savestate data", "no controllers")
	}

	if s.FrameCount > s.TotalLength {
		return nil, errors.Errorf(errors.CorruptFormat, "savestate data: frame %d is beyond the end of the movie (%d frames)",
			s.FrameCount, s.TotalLength)
	}

	expected := uint64(savestateHeaderWords+uint64(s.TotalLength)*uint64(n)) * 4
	if uint64(len(data)) != expected {
		return nil, errors.Errorf(errors.CorruptFormat, "savestate data: length is %d bytes but should be %d bytes",
			len(data), expected)
	}

	s.Input = inputbuffer.NewBuffer(s.Controllers)
	err := readInput(bytes.NewReader(data[savestateHeaderWords*4:]), s.Input, s.TotalLength)
	if err != nil {
		return nil, err
	}

	return s, nil
}

// Restore the movie input and cursor from a previously parsed Savestate. The
// controllers in the savestate must match the controllers of the movie.
func (m *Movie) Restore(s *Savestate) error {
	if s.Controllers != m.Controllers {
		return errors.Errorf(errors.CorruptFormat, "savestate data: controllers (%s) do not match movie (%s)",
			s.Controllers, m.Controllers)
	}
	m.Input = s.Input.Clone()
	m.FrameCount = s.FrameCount
	return nil
}

// DeserializeFromSavestate replaces the input of the movie with the input in
// the savestate data and moves the frame cursor to the frame count in the
// savestate data. The movie is unchanged if an error is returned.
func (m *Movie) DeserializeFromSavestate(data []byte) error {
	s, err := ParseSavestate(data)
	if err != nil {
		return err
	}
	return m.Restore(s)
}
