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

package digest

import (
	"crypto/sha1"
	"encoding/binary"
	"fmt"

	"github.com/jetsetilly/m64vcr/buttons"
	"github.com/jetsetilly/m64vcr/errors"
	"github.com/jetsetilly/m64vcr/movie"
)

// the number of bytes for the input of a single frame. one 32 bit word for
// each controller channel
const frameLength = buttons.MaxControllers * 4

// Input is a digest of controller input.
type Input struct {
	digest [sha1.Size]byte

	// the previous digest followed by the input for the current frame
	frame [sha1.Size + frameLength]byte

	frameNum int
}

// NewInput is the preferred method of initialisation for the Input type.
func NewInput() *Input {
	return &Input{}
}

// Hash implements the Digest interface.
func (dig *Input) Hash() string {
	return fmt.Sprintf("%x", dig.digest)
}

// ResetDigest implements the Digest interface.
func (dig *Input) ResetDigest() {
	dig.digest = [sha1.Size]byte{}
	dig.frame = [sha1.Size + frameLength]byte{}
	dig.frameNum = 0
}

// Frames returns the number of frames included in the digest.
func (dig *Input) Frames() int {
	return dig.frameNum
}

// SetKeys sets the input for the channel in the current frame.
func (dig *Input) SetKeys(channel int, keys buttons.Buttons) error {
	if channel < 0 || channel >= buttons.MaxControllers {
		return errors.Errorf(errors.OutOfRange, "digest: channel %d", channel)
	}
	binary.LittleEndian.PutUint32(dig.frame[sha1.Size+channel*4:], uint32(keys))
	return nil
}

// NewFrame adds the current frame to the digest. Input for channels that were
// not set for the frame are zero.
func (dig *Input) NewFrame() {
	// chain fingerprints by copying the value of the last fingerprint to the
	// head of the frame data
	copy(dig.frame[:], dig.digest[:])
	dig.digest = sha1.Sum(dig.frame[:])

	// clear input ready for next frame
	clear(dig.frame[sha1.Size:])

	dig.frameNum++
}

// Movie returns the digest of all the input in a movie.
func Movie(m *movie.Movie) (string, error) {
	dig := NewInput()
	for f := 0; f < m.TotalLength(); f++ {
		for _, c := range m.Controllers.Channels() {
			keys, err := m.Input.Get(c, f)
			if err != nil {
				return "", err
			}
			if err := dig.SetKeys(c, keys); err != nil {
				return "", err
			}
		}
		dig.NewFrame()
	}
	return dig.Hash(), nil
}
