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
	"context"
	"io"
	"time"

	"github.com/jetsetilly/m64vcr/buttons"
	"github.com/jetsetilly/m64vcr/digest"
	"github.com/jetsetilly/m64vcr/encoder"
	"github.com/jetsetilly/m64vcr/logger"
	"github.com/jetsetilly/m64vcr/vcr"
)

// Loop runs frames of a Machine under the control of a VCR Engine. The Loop is
// not safe for concurrent use.
type Loop struct {
	engine  Engine
	machine Machine

	// optional
	encoder *encoder.Encoder
	digest  *digest.Input
	onFrame FrameFunc

	// the sample rate most recently given to the encoder
	sampleRate int

	// frames per second. zero means as fast as possible
	fps int

	// number of frames run
	frames int

	slot *slot

	// every frame is logged when the switch is on
	Trace logger.Switch
}

// NewLoop is the preferred method of initialisation for the Loop type.
func NewLoop(engine Engine, machine Machine) *Loop {
	return &Loop{
		engine:  engine,
		machine: machine,
	}
}

// AttachEncoder sets the encoder that will receive the output of the machine.
// The machine must implement the AudioVideo interface. Only frames run while
// the encoder is active are encoded.
func (l *Loop) AttachEncoder(enc *encoder.Encoder) {
	l.encoder = enc
	l.sampleRate = 0
}

// AttachDigest sets the digest that will receive the input of every frame.
func (l *Loop) AttachDigest(dig *digest.Input) {
	l.digest = dig
}

// SetFrameHook sets the function called after every frame. A nil value
// removes the hook.
func (l *Loop) SetFrameHook(f FrameFunc) {
	l.onFrame = f
}

// SetFPS limits the speed of the Run() function. A value of zero or less
// removes the limit.
func (l *Loop) SetFPS(fps int) {
	l.fps = max(fps, 0)
}

// Frames returns the number of frames run by the loop.
func (l *Loop) Frames() int {
	return l.frames
}

// Step runs a single frame. Returns false if the loop should not continue,
// either because the movie has ended, the input has ended or the input source
// has requested the loop to quit.
func (l *Loop) Step() (bool, error) {
	if c, ok := l.machine.(Commander); ok {
		switch c.Command() {
		case Quit:
			logger.Log(logger.Allow, "playmode", "quit requested")
			return false, nil
		case SaveState:
			if err := l.SaveState(); err != nil {
				logger.Log(logger.Allow, "playmode", err)
			}
		case LoadState:
			if err := l.LoadState(); err != nil {
				logger.Log(logger.Allow, "playmode", err)
			}
		}
	}

	active := l.engine.State() == vcr.Active

	f := Frame{
		Number:     l.frames,
		MovieFrame: l.engine.GetCurFrame(),
		Playback:   active && l.engine.Mode() == vcr.Playback,
	}

	if f.Playback {
		for ch := 0; ch < buttons.MaxControllers; ch++ {
			keys, ended, err := l.engine.GetKeys(ch)
			if err != nil {
				return false, err
			}
			f.Input[ch] = keys
			if ended {
				f.Ended = true
				break // for loop
			}
		}
	} else {
		for ch := 0; ch < buttons.MaxControllers; ch++ {
			keys, err := l.machine.PollInput(ch)
			if err != nil {
				if err == io.EOF {
					logger.Log(logger.Allow, "playmode", "end of input")
					if active {
						return false, l.engine.StopMovie(false)
					}
					return false, nil
				}
				return false, err
			}
			f.Input[ch] = keys
			if active {
				if err := l.engine.SetKeys(keys, ch); err != nil {
					return false, err
				}
			}
		}
	}

	vis, err := l.machine.RunFrame(f.Input)
	if err != nil {
		return false, err
	}
	for i := 0; i < vis; i++ {
		l.engine.UpdateVI()
	}

	if l.digest != nil {
		for ch, keys := range f.Input {
			if err := l.digest.SetKeys(ch, keys); err != nil {
				return false, err
			}
		}
		l.digest.NewFrame()
	}

	l.encode()

	logger.Log(&l.Trace, "frame", f)

	if l.onFrame != nil {
		l.onFrame(f)
	}

	l.frames++

	return !f.Ended, nil
}

func (l *Loop) encode() {
	if l.encoder == nil || !l.encoder.IsActive() {
		return
	}

	av, ok := l.machine.(AudioVideo)
	if !ok {
		return
	}

	if r := av.SampleRate(); r != l.sampleRate {
		l.encoder.SetSampleRate(r)
		l.sampleRate = r
	}
	l.encoder.PushVideo(av.Video())
	l.encoder.PushAudio(av.Audio())
}

// Run frames until Step() returns false or until the number of frames has been
// run. A value of zero or less for frames means there is no limit. Cancelling
// the context stops the loop without error.
//
// Returns the number of frames run.
func (l *Loop) Run(ctx context.Context, frames int) (int, error) {
	var tick <-chan time.Time
	if l.fps > 0 {
		t := time.NewTicker(time.Second / time.Duration(l.fps))
		defer t.Stop()
		tick = t.C
	}

	start := l.frames
	for frames <= 0 || l.frames-start < frames {
		select {
		case <-ctx.Done():
			logger.Logf(logger.Allow, "playmode", "interrupted after %d frames", l.frames-start)
			return l.frames - start, nil
		default:
		}

		cont, err := l.Step()
		if err != nil {
			return l.frames - start, err
		}
		if !cont {
			break // for loop
		}

		if tick != nil {
			select {
			case <-ctx.Done():
			case <-tick:
			}
		}
	}

	return l.frames - start, nil
}

// make sure the Loop can be driven by a VCR session
var _ Engine = (*vcr.Session)(nil)
