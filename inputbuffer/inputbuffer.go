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

// Package inputbuffer stores controller input, indexed by frame number, for
// each controller channel.
//
// The length of a recording is not known in advance so the buffer grows as
// required. Growth happens synchronously inside Append(), before the write
// that would otherwise exceed the capacity. Existing entries keep their
// indices and values.
//
// Values are always copied out of the buffer. There is no way of obtaining a
// reference to the storage, so a resize can never invalidate anything held by
// the caller.
package inputbuffer

import (
	"github.com/jetsetilly/m64vcr/buttons"
	"github.com/jetsetilly/m64vcr/errors"
)

// the capacity allocated to a channel on the first Append()
const initialCapacity = 256

// DefaultMaxFrames is the maximum number of frames a channel can hold unless
// changed with SetMaxFrames(). At 60 frames per second this is a little over
// 3 days of input.
const DefaultMaxFrames = 1 << 24

// Buffer is the input for every present controller channel.
//
// Buffer is not safe for concurrent use.
type Buffer struct {
	controllers buttons.Controllers
	maxFrames   int
	channels    [buttons.MaxControllers][]buttons.Buttons
}

// NewBuffer is the preferred method of initialisation for the Buffer type.
// Only channels marked as present in the controllers argument can be written
// to.
func NewBuffer(controllers buttons.Controllers) *Buffer {
	return &Buffer{
		controllers: controllers,
		maxFrames:   DefaultMaxFrames,
	}
}

// Controllers returns the controllers the buffer was created for.
func (buf *Buffer) Controllers() buttons.Controllers {
	return buf.controllers
}

// SetMaxFrames changes the maximum number of frames a channel can hold. A
// value of zero or less restores the default.
func (buf *Buffer) SetMaxFrames(max int) {
	if max <= 0 {
		max = DefaultMaxFrames
	}
	buf.maxFrames = max
}

func (buf *Buffer) checkChannel(channel int) error {
	if channel < 0 || channel >= buttons.MaxControllers {
		return errors.Errorf(errors.OutOfRange, "channel %d", channel)
	}
	if !buf.controllers.Present(channel) {
		return errors.Errorf(errors.InvalidArgument, "no controller in channel %d", channel)
	}
	return nil
}

// Get returns the input for the channel at the frame. The frame must be less
// than the length of the channel.
func (buf *Buffer) Get(channel int, frame int) (buttons.Buttons, error) {
	if err := buf.checkChannel(channel); err != nil {
		return 0, err
	}
	ch := buf.channels[channel]
	if frame < 0 || frame >= len(ch) {
		return 0, errors.Errorf(errors.OutOfRange, "frame %d of channel %d (length %d)", frame, channel, len(ch))
	}
	return ch[frame], nil
}

// Append input to the next frame of the channel.
func (buf *Buffer) Append(channel int, b buttons.Buttons) error {
	if err := buf.checkChannel(channel); err != nil {
		return err
	}

	ch := buf.channels[channel]
	if len(ch) == cap(ch) {
		if err := buf.grow(channel, len(ch)+1); err != nil {
			return err
		}
		ch = buf.channels[channel]
	}

	buf.channels[channel] = append(ch, b)
	return nil
}

// grow the channel so that it has a capacity of at least n frames. capacity is
// doubled until it is large enough, but never beyond the maximum number of
// frames
func (buf *Buffer) grow(channel int, n int) error {
	if n > buf.maxFrames {
		return errors.Errorf(errors.OutOfMemory, "channel %d cannot hold more than %d frames", channel, buf.maxFrames)
	}

	ch := buf.channels[channel]

	c := cap(ch)
	if c < initialCapacity {
		c = initialCapacity
	}
	for c < n {
		c *= 2
	}
	if c > buf.maxFrames {
		c = buf.maxFrames
	}

	nch := make([]buttons.Buttons, len(ch), c)
	copy(nch, ch)
	buf.channels[channel] = nch

	return nil
}

// Reserve makes sure the channel can hold at least the number of frames
// without any further growth.
func (buf *Buffer) Reserve(channel int, frames int) error {
	if err := buf.checkChannel(channel); err != nil {
		return err
	}
	if frames <= cap(buf.channels[channel]) {
		return nil
	}
	return buf.grow(channel, frames)
}

// Len returns the number of frames recorded for the channel. Returns zero for
// channels that are not present.
func (buf *Buffer) Len(channel int) int {
	if channel < 0 || channel >= buttons.MaxControllers {
		return 0
	}
	return len(buf.channels[channel])
}

// Cap returns the number of frames the channel can hold before it must grow.
func (buf *Buffer) Cap(channel int) int {
	if channel < 0 || channel >= buttons.MaxControllers {
		return 0
	}
	return cap(buf.channels[channel])
}

// Frames returns the number of complete frames in the buffer. A frame is
// complete when every present channel has input for it.
func (buf *Buffer) Frames() int {
	frames := -1
	for _, c := range buf.controllers.Channels() {
		if frames == -1 || len(buf.channels[c]) < frames {
			frames = len(buf.channels[c])
		}
	}
	if frames == -1 {
		return 0
	}
	return frames
}

// Truncate discards every frame from frame onwards, in every channel. Capacity
// is unchanged.
//
// Truncate is used when a recording is resumed from an earlier point. It should
// never be used during a contiguous recording.
func (buf *Buffer) Truncate(frame int) {
	if frame < 0 {
		frame = 0
	}
	for i := range buf.channels {
		if frame < len(buf.channels[i]) {
			buf.channels[i] = buf.channels[i][:frame]
		}
	}
}

// Clone returns a deep copy of the buffer.
func (buf *Buffer) Clone() *Buffer {
	c := &Buffer{
		controllers: buf.controllers,
		maxFrames:   buf.maxFrames,
	}
	for i := range buf.channels {
		if buf.channels[i] != nil {
			c.channels[i] = make([]buttons.Buttons, len(buf.channels[i]), cap(buf.channels[i]))
			copy(c.channels[i], buf.channels[i])
		}
	}
	return c
}
