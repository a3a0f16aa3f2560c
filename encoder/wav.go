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

package encoder

import (
	"encoding/binary"
	"image"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/jetsetilly/m64vcr/errors"
	"github.com/spf13/afero"
)

// DefaultSampleRate is used if SetSampleRate() is not called before the
// first audio is pushed.
const DefaultSampleRate = 44100

const (
	wavBitDepth = 16
	wavChannels = 2

	// format code for uncompressed PCM in the WAV fmt chunk
	wavPCMFormat = 1
)

// WAVBackend encodes audio to a WAV file. Video is ignored.
type WAVBackend struct {
	fs   afero.Fs
	path string
	file afero.File
	enc  *wav.Encoder
	rate int

	// number of sample frames written
	samples int
}

// NewWAVBackend is the preferred method of initialisation for the WAVBackend
// type.
func NewWAVBackend(fs afero.Fs) *WAVBackend {
	return &WAVBackend{
		fs:   fs,
		rate: DefaultSampleRate,
	}
}

// Init implements the Backend interface.
func (b *WAVBackend) Init(path string, format Format) error {
	if format != FormatWAV {
		return errors.New(errors.InvalidArgument, format)
	}
	if b.file != nil {
		return errors.New(errors.AlreadyActive, b.path)
	}

	f, err := b.fs.Create(path)
	if err != nil {
		return errors.New(errors.FileError, err)
	}

	b.path = path
	b.file = f
	b.enc = nil
	b.samples = 0

	return nil
}

// Free implements the Backend interface.
func (b *WAVBackend) Free(discard bool) error {
	if b.file == nil {
		return nil
	}

	var err error

	// a file with no audio still needs the WAV header and an empty data chunk
	if b.enc == nil {
		err = b.write(nil)
	}
	if cerr := b.enc.Close(); cerr != nil && err == nil {
		err = errors.New(errors.FileError, cerr)
	}
	if cerr := b.file.Close(); cerr != nil && err == nil {
		err = errors.New(errors.FileError, cerr)
	}

	if discard {
		if rerr := b.fs.Remove(b.path); rerr != nil && err == nil {
			err = errors.New(errors.FileError, rerr)
		}
	}

	b.file = nil
	b.enc = nil

	return err
}

// PushVideo implements the Backend interface.
func (b *WAVBackend) PushVideo(_ image.Image) error {
	return nil
}

// SetSampleRate implements the Backend interface. The sample rate cannot be
// changed once audio has been pushed.
func (b *WAVBackend) SetSampleRate(rate int) error {
	if rate <= 0 {
		return errors.Errorf(errors.InvalidArgument, "sample rate %d", rate)
	}
	if b.enc != nil && rate != b.rate {
		return errors.Errorf(errors.InvalidState, "sample rate cannot change from %d to %d", b.rate, rate)
	}
	b.rate = rate
	return nil
}

// PushAudio implements the Backend interface.
func (b *WAVBackend) PushAudio(data []byte) error {
	if b.file == nil {
		return errors.New(errors.InvalidState, "wav backend not initialised")
	}
	if len(data)%(wavChannels*wavBitDepth/8) != 0 {
		return errors.Errorf(errors.InvalidArgument, "audio data length (%d) is not a whole number of samples", len(data))
	}

	ints := make([]int, len(data)/2)
	for i := range ints {
		ints[i] = int(int16(binary.LittleEndian.Uint16(data[i*2:])))
	}

	if err := b.write(ints); err != nil {
		return err
	}

	b.samples += len(ints) / wavChannels

	return nil
}

// write samples to the file, creating the wav encoder if necessary. the
// sample rate is fixed from this point on
func (b *WAVBackend) write(ints []int) error {
	if b.enc == nil {
		b.enc = wav.NewEncoder(b.file, b.rate, wavBitDepth, wavChannels, wavPCMFormat)
	}

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: wavChannels,
			SampleRate:  b.rate,
		},
		SourceBitDepth: wavBitDepth,
		Data:           ints,
	}

	if err := b.enc.Write(buf); err != nil {
		return errors.New(errors.FileError, err)
	}

	return nil
}

// Samples returns the number of stereo samples written since Init().
func (b *WAVBackend) Samples() int {
	return b.samples
}
