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
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"os"

	"github.com/jetsetilly/m64vcr/buttons"
	"github.com/jetsetilly/m64vcr/errors"
	"github.com/jetsetilly/m64vcr/inputbuffer"
	"github.com/jetsetilly/m64vcr/logger"
	"github.com/spf13/afero"
)

// Magic is the first four bytes of every movie file.
const Magic = "M64\x1a"

// Version is the only version of the file format supported.
const Version = 3

// HeaderSize is the size of the movie file header. The input data begins
// immediately afterwards.
const HeaderSize = 0x400

// offsets of fields in the header
const (
	offMagic        = 0x000
	offVersion      = 0x004
	offUID          = 0x008
	offVICount      = 0x00c
	offRerecords    = 0x010
	offVIsPerSecond = 0x014
	offNumControl   = 0x015
	offSamples      = 0x018
	offStartType    = 0x01c
	offControllers  = 0x020
	offROMName      = 0x0c4
	offROMCRC       = 0x0e4
	offCountry      = 0x0e8
	offVideoPlugin  = 0x122
	offSoundPlugin  = 0x162
	offInputPlugin  = 0x1a2
	offRSPPlugin    = 0x1e2
	offAuthor       = 0x222
	offDescription  = 0x300
)

// values of start type as stored in the file
const (
	fileFromSnapshot = 1
	fileFromReset    = 2
	fileFromEEPROM   = 4
)

func (st StartType) toFile() uint16 {
	switch st {
	case FromReset:
		return fileFromReset
	case FromEEPROM:
		return fileFromEEPROM
	}
	return fileFromSnapshot
}

func startTypeFromFile(v uint16) (StartType, error) {
	switch v {
	case fileFromSnapshot:
		return FromSnapshot, nil
	case fileFromReset:
		return FromReset, nil
	case fileFromEEPROM:
		return FromEEPROM, nil
	}
	return 0, errors.Errorf(errors.CorruptFormat, "unknown start type (%d)", v)
}

// read a NUL padded string field
func getString(hdr []byte, offset int, size int) string {
	f := hdr[offset : offset+size]
	if i := bytes.IndexByte(f, 0); i >= 0 {
		f = f[:i]
	}
	return string(f)
}

// write a NUL padded string field. the string is truncated if necessary
func putString(hdr []byte, offset int, size int, s string) {
	copy(hdr[offset:offset+size], truncate(s, size))
}

// ReadFile reads a movie file from the filesystem.
func ReadFile(fs afero.Fs, path string) (*Movie, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, errors.New(errors.FileError, err)
	}
	defer f.Close()

	m, err := Read(f)
	if err != nil {
		return nil, err
	}

	logger.Logf(logger.Allow, "movie", "read %s (%d frames)", path, m.TotalLength())

	return m, nil
}

// Read a movie from an io.Reader.
func Read(r io.Reader) (*Movie, error) {
	var hdr [HeaderSize]byte

	_, err := io.ReadFull(r, hdr[:])
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, errors.New(errors.CorruptFormat, errors.FileTruncated)
		}
		return nil, errors.New(errors.FileError, err)
	}

	if string(hdr[offMagic:offMagic+len(Magic)]) != Magic {
		return nil, errors.New(errors.CorruptFormat, "not a movie file")
	}

	version := binary.LittleEndian.Uint32(hdr[offVersion:])
	if version != Version {
		return nil, errors.Errorf(errors.CorruptFormat, "unsupported version (%d)", version)
	}

	startType, err := startTypeFromFile(binary.LittleEndian.Uint16(hdr[offStartType:]))
	if err != nil {
		return nil, err
	}

	controllers := buttons.Controllers(binary.LittleEndian.Uint32(hdr[offControllers:]))
	numControllers := controllers.Count()
	if numControllers == 0 {
		return nil, errors.New(errors.CorruptFormat, "no controllers")
	}
	if int(hdr[offNumControl]) != numControllers {
		return nil, errors.Errorf(errors.CorruptFormat, "controller count (%d) does not match controller flags (%s)",
			hdr[offNumControl], controllers)
	}

	samples := int(binary.LittleEndian.Uint32(hdr[offSamples:]))
	if samples%numControllers != 0 {
		return nil, errors.Errorf(errors.CorruptFormat, "sample count (%d) is not a multiple of the number of controllers (%d)",
			samples, numControllers)
	}
	frames := samples / numControllers

	m := &Movie{
		UID:          binary.LittleEndian.Uint32(hdr[offUID:]),
		VICount:      binary.LittleEndian.Uint32(hdr[offVICount:]),
		Rerecords:    binary.LittleEndian.Uint32(hdr[offRerecords:]),
		VIsPerSecond: hdr[offVIsPerSecond],
		StartType:    startType,
		Controllers:  controllers,
		ROM: ROMInfo{
			Name:    getString(hdr[:], offROMName, MaxROMName),
			CRC:     binary.LittleEndian.Uint32(hdr[offROMCRC:]),
			Country: binary.LittleEndian.Uint16(hdr[offCountry:]),
		},
		Plugins: Plugins{
			Video: getString(hdr[:], offVideoPlugin, MaxPluginName),
			Sound: getString(hdr[:], offSoundPlugin, MaxPluginName),
			Input: getString(hdr[:], offInputPlugin, MaxPluginName),
			RSP:   getString(hdr[:], offRSPPlugin, MaxPluginName),
		},
		Author:      getString(hdr[:], offAuthor, MaxAuthor),
		Description: getString(hdr[:], offDescription, MaxDescription),
		Input:       inputbuffer.NewBuffer(controllers),
	}

	err = readInput(r, m.Input, frames)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// the most frames reserved in the input buffer before any input has been
// read. the frame count in a header is not trusted until the input is read
const maxReserve = 1 << 16

// read the specified number of frames into the input buffer. the buffer is
// reserved up to maxReserve frames before reading begins and grows as
// required after that
func readInput(r io.Reader, buf *inputbuffer.Buffer, frames int) error {
	channels := buf.Controllers().Channels()

	for _, c := range channels {
		if err := buf.Reserve(c, min(frames, maxReserve)); err != nil {
			return err
		}
	}

	br := bufio.NewReader(r)
	var w [4]byte

	for f := 0; f < frames; f++ {
		for _, c := range channels {
			if _, err := io.ReadFull(br, w[:]); err != nil {
				if err == io.EOF || err == io.ErrUnexpectedEOF {
					return errors.Errorf(errors.CorruptFormat, "%s: input ends at frame %d of %d", errors.FileTruncated, f, frames)
				}
				return errors.New(errors.FileError, err)
			}
			if err := buf.Append(c, buttons.Buttons(binary.LittleEndian.Uint32(w[:]))); err != nil {
				return err
			}
		}
	}

	return nil
}

// WriteFile writes the movie to the filesystem. Any existing file is
// overwritten.
func (m *Movie) WriteFile(fs afero.Fs, path string) error {
	f, err := fs.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.New(errors.FileError, err)
	}

	err = m.Write(f)
	if err != nil {
		_ = f.Close()
		return err
	}

	err = f.Close()
	if err != nil {
		return errors.New(errors.FileError, err)
	}

	logger.Logf(logger.Allow, "movie", "wrote %s (%d frames)", path, m.TotalLength())

	return nil
}

// Header returns the movie file header for the movie in its current state.
func (m *Movie) Header() []byte {
	hdr := make([]byte, HeaderSize)

	copy(hdr[offMagic:], Magic)
	binary.LittleEndian.PutUint32(hdr[offVersion:], Version)
	binary.LittleEndian.PutUint32(hdr[offUID:], m.UID)
	binary.LittleEndian.PutUint32(hdr[offVICount:], m.VICount)
	binary.LittleEndian.PutUint32(hdr[offRerecords:], m.Rerecords)
	hdr[offVIsPerSecond] = m.VIsPerSecond
	hdr[offNumControl] = uint8(m.Controllers.Count())
	binary.LittleEndian.PutUint32(hdr[offSamples:], uint32(m.TotalLength()*m.Controllers.Count()))
	binary.LittleEndian.PutUint16(hdr[offStartType:], m.StartType.toFile())
	binary.LittleEndian.PutUint32(hdr[offControllers:], uint32(m.Controllers))

	putString(hdr, offROMName, MaxROMName, m.ROM.Name)
	binary.LittleEndian.PutUint32(hdr[offROMCRC:], m.ROM.CRC)
	binary.LittleEndian.PutUint16(hdr[offCountry:], m.ROM.Country)

	putString(hdr, offVideoPlugin, MaxPluginName, m.Plugins.Video)
	putString(hdr, offSoundPlugin, MaxPluginName, m.Plugins.Sound)
	putString(hdr, offInputPlugin, MaxPluginName, m.Plugins.Input)
	putString(hdr, offRSPPlugin, MaxPluginName, m.Plugins.RSP)

	putString(hdr, offAuthor, MaxAuthor, m.Author)
	putString(hdr, offDescription, MaxDescription, m.Description)

	return hdr
}

// Write the movie to an io.Writer.
func (m *Movie) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.Write(m.Header()); err != nil {
		return errors.New(errors.FileError, err)
	}

	if err := writeInput(bw, m.Input, m.TotalLength()); err != nil {
		return err
	}

	if err := bw.Flush(); err != nil {
		return errors.New(errors.FileError, err)
	}

	return nil
}

func writeInput(w io.Writer, buf *inputbuffer.Buffer, frames int) error {
	channels := buf.Controllers().Channels()
	var b [4]byte

	for f := 0; f < frames; f++ {
		for _, c := range channels {
			v, err := buf.Get(c, f)
			if err != nil {
				return err
			}
			binary.LittleEndian.PutUint32(b[:], uint32(v))
			if _, err := w.Write(b[:]); err != nil {
				return errors.New(errors.FileError, err)
			}
		}
	}

	return nil
}
