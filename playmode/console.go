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
	"encoding/binary"
	"image"
	"image/color"
	"math/bits"

	"github.com/jetsetilly/m64vcr/buttons"
	"github.com/jetsetilly/m64vcr/errors"
	"github.com/jetsetilly/m64vcr/logger"
	"github.com/jetsetilly/m64vcr/movie"
	"github.com/spf13/afero"
)

// DefaultSampleRate of the audio produced by the Console.
const DefaultSampleRate = 44100

// the Console image has one row for each controller and one column for each
// bit in the lower half of the controller word. each cell is a square of
// videoScale pixels
const (
	videoColumns = 16
	videoScale   = 4
)

// amplitude of the tone produced by the Console
const toneAmplitude = 8000

// size of the data returned by Snapshot()
const snapshotSize = 8 + buttons.MaxControllers*4

// Console is a virtual machine. Running a frame does nothing except remember
// the input for the frame. The input is visualised as a small image and as a
// tone whose pitch depends on the number of buttons pressed on the first
// controller.
//
// Console implements the vcr.Emulation interface and all the interfaces used
// by the Loop.
type Console struct {
	fs     afero.Fs
	rom    movie.ROMInfo
	source InputSource

	frame uint32
	input Input

	// audio oscillator. counted in samples since the last reset
	phase uint32
	rate  int

	video *image.RGBA
	audio []byte
}

// NewConsole is the preferred method of initialisation for the Console type.
// The InputSource can be nil, in which case PollInput() will always return no
// input.
func NewConsole(fs afero.Fs, rom movie.ROMInfo, source InputSource) *Console {
	return &Console{
		fs:     fs,
		rom:    rom,
		source: source,
		rate:   DefaultSampleRate,
		video:  image.NewRGBA(image.Rect(0, 0, videoColumns*videoScale, buttons.MaxControllers*videoScale)),
	}
}

// SetSource changes the InputSource.
func (c *Console) SetSource(source InputSource) {
	c.source = source
}

// FrameNum returns the number of frames run since the last reset.
func (c *Console) FrameNum() int {
	return int(c.frame)
}

// LastInput returns the input for the most recent frame.
func (c *Console) LastInput() Input {
	return c.input
}

// Reset implements the vcr.Emulation interface.
func (c *Console) Reset() error {
	c.frame = 0
	c.phase = 0
	c.input = Input{}
	logger.Log(logger.Allow, "console", "reset")
	return nil
}

// Snapshot implements the Snapshotter interface.
func (c *Console) Snapshot() []byte {
	data := make([]byte, snapshotSize)
	binary.LittleEndian.PutUint32(data[0:], c.frame)
	binary.LittleEndian.PutUint32(data[4:], c.phase)
	for i, b := range c.input {
		binary.LittleEndian.PutUint32(data[8+i*4:], uint32(b))
	}
	return data
}

// Restore implements the Snapshotter interface.
func (c *Console) Restore(data []byte) error {
	if len(data) != snapshotSize {
		return errors.Errorf(errors.CorruptFormat, "console snapshot is %d bytes but should be %d bytes", len(data), snapshotSize)
	}
	c.frame = binary.LittleEndian.Uint32(data[0:])
	c.phase = binary.LittleEndian.Uint32(data[4:])
	for i := range c.input {
		c.input[i] = buttons.Buttons(binary.LittleEndian.Uint32(data[8+i*4:]))
	}
	return nil
}

// SaveSnapshot implements the vcr.Emulation interface.
func (c *Console) SaveSnapshot(path string) error {
	if err := afero.WriteFile(c.fs, path, c.Snapshot(), 0644); err != nil {
		return errors.New(errors.FileError, err)
	}
	logger.Logf(logger.Allow, "console", "snapshot saved to %s", path)
	return nil
}

// LoadSnapshot implements the vcr.Emulation interface.
func (c *Console) LoadSnapshot(path string) error {
	data, err := afero.ReadFile(c.fs, path)
	if err != nil {
		return errors.New(errors.FileError, err)
	}
	if err := c.Restore(data); err != nil {
		return err
	}
	logger.Logf(logger.Allow, "console", "snapshot loaded from %s", path)
	return nil
}

// ROM implements the vcr.Emulation interface.
func (c *Console) ROM() movie.ROMInfo {
	return c.rom
}

// PollInput implements the Machine interface.
func (c *Console) PollInput(channel int) (buttons.Buttons, error) {
	if c.source == nil {
		return 0, nil
	}
	return c.source.Poll(channel)
}

// Command implements the Commander interface. Commands are forwarded from the
// InputSource if it is also a Commander.
func (c *Console) Command() Command {
	if cmd, ok := c.source.(Commander); ok {
		return cmd.Command()
	}
	return NoCommand
}

// RunFrame implements the Machine interface. There is always exactly one
// vertical interrupt per frame.
func (c *Console) RunFrame(input Input) (int, error) {
	c.input = input
	c.frame++
	c.render()
	c.synthesise()
	return 1, nil
}

func (c *Console) render() {
	on := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	off := color.RGBA{A: 0xff}

	for ch, b := range c.input {
		for col := 0; col < videoColumns; col++ {
			px := off
			switch {
			case col < 14:
				if b&(1<<col) != 0 {
					px = on
				}
			case col == 14:
				if b.X() != 0 {
					px = on
				}
			case col == 15:
				if b.Y() != 0 {
					px = on
				}
			}
			for y := 0; y < videoScale; y++ {
				for x := 0; x < videoScale; x++ {
					c.video.SetRGBA(col*videoScale+x, ch*videoScale+y, px)
				}
			}
		}
	}
}

func (c *Console) synthesise() {
	n := c.rate / int(movie.VIsPerSecond(c.rom.Country))
	if cap(c.audio) < n*4 {
		c.audio = make([]byte, n*4)
	}
	c.audio = c.audio[:n*4]

	// pitch rises with the number of buttons held. no buttons is silence
	held := bits.OnesCount32(uint32(c.input[0].Digital()))
	halfPeriod := uint32(0)
	if held > 0 {
		halfPeriod = uint32(c.rate / (110 * (held + 1)) / 2)
	}

	for i := 0; i < n; i++ {
		var v int16
		if halfPeriod > 0 {
			if (c.phase/halfPeriod)%2 == 0 {
				v = toneAmplitude
			} else {
				v = -toneAmplitude
			}
		}
		binary.LittleEndian.PutUint16(c.audio[i*4:], uint16(v))
		binary.LittleEndian.PutUint16(c.audio[i*4+2:], uint16(v))
		c.phase++
	}
}

// Video implements the AudioVideo interface.
func (c *Console) Video() image.Image {
	return c.video
}

// Audio implements the AudioVideo interface. The data is overwritten by the
// next call to RunFrame().
func (c *Console) Audio() []byte {
	return c.audio
}

// SampleRate implements the AudioVideo interface.
func (c *Console) SampleRate() int {
	return c.rate
}

// SetSampleRate changes the rate of the audio produced by the console.
func (c *Console) SetSampleRate(rate int) error {
	if rate <= 0 {
		return errors.Errorf(errors.InvalidArgument, "sample rate %d", rate)
	}
	c.rate = rate
	return nil
}
