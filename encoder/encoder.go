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

// Package encoder records the audio and video output of the emulation while a
// movie plays. The Encoder type serialises access to a Backend, which does the
// actual encoding. Encoder is safe for concurrent use, so audio can be pushed
// from a different goroutine to video.
//
// Failures while pushing audio or video do not stop the encoder. They are
// reported as notifications.
package encoder

import (
	"fmt"
	"image"
	"sync"

	"github.com/jetsetilly/m64vcr/errors"
	"github.com/jetsetilly/m64vcr/logger"
	"github.com/jetsetilly/m64vcr/notifications"
)

// Format of the encoded output.
type Format int

// List of valid Format values.
const (
	FormatWAV Format = iota
)

func (f Format) String() string {
	switch f {
	case FormatWAV:
		return "wav"
	}
	return fmt.Sprintf("unknown format (%d)", int(f))
}

// Backend implementations encode audio and video to a file.
type Backend interface {
	// Init prepares the backend to encode to the file at path
	Init(path string, format Format) error

	// Free finishes encoding and releases the file. If discard is true the
	// file is deleted
	Free(discard bool) error

	PushVideo(frame image.Image) error
	SetSampleRate(rate int) error

	// PushAudio adds audio data. The data is 16 bit stereo, little-endian
	PushAudio(data []byte) error
}

// Encoder serialises access to a Backend.
type Encoder struct {
	crit    sync.Mutex
	backend Backend
	active  bool
	notify  notifications.Notifier
}

// NewEncoder is the preferred method of initialisation for the Encoder type.
// If notify is nil then the process-wide notification channel is used.
func NewEncoder(backend Backend, notify notifications.Notifier) *Encoder {
	if notify == nil {
		notify = notifications.Central()
	}
	return &Encoder{
		backend: backend,
		notify:  notify,
	}
}

// IsActive returns true if the encoder has been started and not yet stopped.
func (enc *Encoder) IsActive() bool {
	enc.crit.Lock()
	defer enc.crit.Unlock()
	return enc.active
}

// Start encoding to the file at path.
func (enc *Encoder) Start(path string, format Format) error {
	enc.crit.Lock()
	defer enc.crit.Unlock()

	if enc.active {
		return errors.New(errors.AlreadyActive, "encoder")
	}

	if err := enc.backend.Init(path, format); err != nil {
		return err
	}
	enc.active = true

	logger.Logf(logger.Allow, "encoder", "started %s (%s)", path, format)

	return nil
}

// Stop encoding. If discard is true the output is deleted. The encoder is no
// longer active even if an error is returned.
func (enc *Encoder) Stop(discard bool) error {
	enc.crit.Lock()
	defer enc.crit.Unlock()

	if !enc.active {
		return nil
	}

	err := enc.backend.Free(discard)
	enc.active = false

	logger.Logf(logger.Allow, "encoder", "stopped (discard=%v)", discard)

	return err
}

// Shutdown stops the encoder, keeping any output.
func (enc *Encoder) Shutdown() {
	if err := enc.Stop(false); err != nil {
		logger.Log(logger.Allow, "encoder", err)
	}
}

// PushVideo adds a frame of video. Has no effect if the encoder is not active.
func (enc *Encoder) PushVideo(frame image.Image) {
	enc.crit.Lock()
	defer enc.crit.Unlock()

	if !enc.active {
		return
	}

	if err := enc.backend.PushVideo(frame); err != nil {
		enc.failed("backend video push failed", err)
	}
}

// SetSampleRate sets the sample rate of the audio. Has no effect if the
// encoder is not active.
func (enc *Encoder) SetSampleRate(rate int) {
	enc.crit.Lock()
	defer enc.crit.Unlock()

	if !enc.active {
		return
	}

	if err := enc.backend.SetSampleRate(rate); err != nil {
		enc.failed("backend sample rate change failed", err)
	}
}

// PushAudio adds audio data. Has no effect if the encoder is not active.
func (enc *Encoder) PushAudio(data []byte) {
	enc.crit.Lock()
	defer enc.crit.Unlock()

	if !enc.active {
		return
	}

	if err := enc.backend.PushAudio(data); err != nil {
		enc.failed("backend audio push failed", err)
	}
}

func (enc *Encoder) failed(msg string, err error) {
	logger.Logf(logger.Allow, "encoder", "%s: %v", msg, err)
	enc.notify.Notify(notifications.LevelError, msg)
}
