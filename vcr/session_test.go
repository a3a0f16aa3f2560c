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

package vcr_test

import (
	"fmt"
	"image"
	"strings"
	"testing"

	"github.com/jetsetilly/m64vcr/buttons"
	"github.com/jetsetilly/m64vcr/encoder"
	"github.com/jetsetilly/m64vcr/errors"
	"github.com/jetsetilly/m64vcr/logger"
	"github.com/jetsetilly/m64vcr/movie"
	"github.com/jetsetilly/m64vcr/notifications"
	"github.com/jetsetilly/m64vcr/prefs"
	"github.com/jetsetilly/m64vcr/test"
	"github.com/jetsetilly/m64vcr/vcr"
	"github.com/spf13/afero"
)

type mockEmulation struct {
	fs     afero.Fs
	rom    movie.ROMInfo
	resets int
	saved  []string
	loaded []string

	// returned by SaveSnapshot() if not nil
	saveErr error
}

func (e *mockEmulation) Reset() error {
	e.resets++
	return nil
}

func (e *mockEmulation) SaveSnapshot(path string) error {
	e.saved = append(e.saved, path)
	if e.saveErr != nil {
		return e.saveErr
	}
	return afero.WriteFile(e.fs, path, []byte("snapshot"), 0644)
}

func (e *mockEmulation) LoadSnapshot(path string) error {
	e.loaded = append(e.loaded, path)
	if ok, _ := afero.Exists(e.fs, path); !ok {
		return fmt.Errorf("no snapshot")
	}
	return nil
}

func (e *mockEmulation) ROM() movie.ROMInfo {
	return e.rom
}

type messages struct {
	levels []notifications.Level
	text   []string
}

func (m *messages) callback(level notifications.Level, msg string) bool {
	m.levels = append(m.levels, level)
	m.text = append(m.text, msg)
	return true
}

func (m *messages) count(level notifications.Level) int {
	n := 0
	for _, l := range m.levels {
		if l == level {
			n++
		}
	}
	return n
}

func newSession(t *testing.T, fs afero.Fs, emulation vcr.Emulation) (*vcr.Session, *messages) {
	t.Helper()

	// the preferences file is created in the local resource directory
	test.DemandSuccess(t, fs.MkdirAll(".m64vcr", 0700))

	s, err := vcr.NewSession(fs, emulation)
	test.DemandSuccess(t, err)

	msgs := &messages{}
	s.SetErrorCallback(msgs.callback)

	return s, msgs
}

// record frames of input to controller 1. the input for each frame is the
// frame number plus one
func recordFrames(t *testing.T, s *vcr.Session, from int, to int) {
	t.Helper()
	for i := from; i < to; i++ {
		test.DemandSuccess(t, s.SetKeys(buttons.Buttons(i+1), 0), i)
	}
}

func TestEngine(t *testing.T) {
	s, _ := newSession(t, afero.NewMemMapFs(), nil)
	test.ExpectImplements[vcr.Engine](t, s)
	test.ExpectEquality(t, s.State(), vcr.Idle)
	test.ExpectEquality(t, s.GetCurFrame(), -1)
	test.ExpectFailure(t, s.IsPlaying())
	test.ExpectSuccess(t, s.Movie() == nil)
}

func TestRecordAndPlayback(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, _ := newSession(t, fs, nil)

	patterns := []buttons.Buttons{
		buttons.A,
		buttons.B | buttons.Start,
		buttons.Z.WithAxes(10, -10),
	}

	test.DemandSuccess(t, s.StartRecording("a.mov", "Alice", "test", 0))
	test.ExpectSuccess(t, s.IsPlaying())
	test.ExpectEquality(t, s.Mode(), vcr.Record)
	test.ExpectEquality(t, s.GetCurFrame(), 0)

	for i, p := range patterns {
		test.DemandSuccess(t, s.SetKeys(p, 0))
		test.ExpectEquality(t, s.GetCurFrame(), i+1)
	}

	test.DemandSuccess(t, s.StopMovie(false))
	test.ExpectEquality(t, s.State(), vcr.Idle)
	test.ExpectEquality(t, s.GetCurFrame(), -1)

	test.DemandSuccess(t, s.StartMovie("a.mov"))
	test.ExpectEquality(t, s.Mode(), vcr.Playback)

	for i, p := range patterns {
		keys, ended, err := s.GetKeys(0)
		test.DemandSuccess(t, err)
		test.ExpectEquality(t, keys, p, i)
		test.ExpectEquality(t, ended, i == len(patterns)-1, i)
	}

	test.ExpectEquality(t, s.State(), vcr.Idle)

	_, _, err := s.GetKeys(0)
	test.ExpectSuccess(t, errors.Is(err, errors.InvalidState))
}

func TestAuthorTruncation(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, _ := newSession(t, fs, nil)

	test.DemandSuccess(t, s.StartRecording("a.m64", strings.Repeat("x", 300), "", movie.FromReset))
	test.ExpectEquality(t, len(s.Movie().Author), 222)
	test.DemandSuccess(t, s.StopMovie(false))

	m, err := movie.ReadFile(fs, "a.m64")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, m.Author, strings.Repeat("x", 222))
}

func TestDefaultAuthor(t *testing.T) {
	s, _ := newSession(t, afero.NewMemMapFs(), nil)
	test.DemandSuccess(t, s.Prefs.Author.Set("Bob"))
	test.DemandSuccess(t, s.StartRecording("a.m64", "", "", movie.FromReset))
	test.ExpectEquality(t, s.Movie().Author, "Bob")
}

func TestCorruptSavestate(t *testing.T) {
	s, msgs := newSession(t, afero.NewMemMapFs(), nil)

	test.DemandSuccess(t, s.StartRecording("a.m64", "", "", movie.FromReset))
	recordFrames(t, s, 0, 5)

	data := s.CollectSTData()
	test.DemandEquality(t, len(data), (5+5)*4)

	// frame count of 10 in a movie of length 5
	data[4] = 10

	test.ExpectEquality(t, s.LoadMovieData(data), vcr.StateCorrupt)
	test.ExpectEquality(t, msgs.count(notifications.LevelWarning), 1)

	// session is unchanged
	test.ExpectEquality(t, s.State(), vcr.Active)
	test.ExpectEquality(t, s.Mode(), vcr.Record)
	test.ExpectEquality(t, s.GetCurFrame(), 5)
	test.ExpectEquality(t, s.Movie().TotalLength(), 5)
	test.ExpectEquality(t, s.Movie().Rerecords, uint32(0))

	// truncated data
	test.ExpectEquality(t, s.LoadMovieData(s.CollectSTData()[:12]), vcr.StateCorrupt)
	test.ExpectEquality(t, s.GetCurFrame(), 5)
}

func TestSetKeysWhilePlaying(t *testing.T) {
	s, msgs := newSession(t, afero.NewMemMapFs(), nil)

	test.DemandSuccess(t, s.StartRecording("a.m64", "", "", movie.FromReset))
	recordFrames(t, s, 0, 3)
	test.DemandSuccess(t, s.StopMovie(true))
	test.ExpectEquality(t, s.Mode(), vcr.Playback)

	_, _, err := s.GetKeys(0)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, s.GetCurFrame(), 1)

	err = s.SetKeys(buttons.A, 0)
	test.ExpectSuccess(t, errors.Is(err, errors.InvalidState))
	test.ExpectEquality(t, s.GetCurFrame(), 1)
	test.ExpectEquality(t, msgs.count(notifications.LevelWarning), 1)
}

func TestInvalidCalls(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, _ := newSession(t, fs, nil)

	// idle
	err := s.SetKeys(buttons.A, 0)
	test.ExpectSuccess(t, errors.Is(err, errors.InvalidState))
	_, _, err = s.GetKeys(0)
	test.ExpectSuccess(t, errors.Is(err, errors.InvalidState))
	test.ExpectSuccess(t, s.StopMovie(false))
	err = s.StopMovie(true)
	test.ExpectSuccess(t, errors.Is(err, errors.InvalidState))

	// missing movie file
	err = s.StartMovie("missing.m64")
	test.ExpectSuccess(t, errors.Is(err, errors.FileError))
	test.ExpectEquality(t, s.State(), vcr.Idle)

	// bad start type
	err = s.StartRecording("a.m64", "", "", movie.StartType(10))
	test.ExpectSuccess(t, errors.Is(err, errors.InvalidArgument))
	test.ExpectEquality(t, s.State(), vcr.Idle)

	m, err := movie.New("", "", movie.FromReset, buttons.FirstN(2))
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, s.StartRecordingMovie("a.m64", m))

	// already active
	err = s.StartRecording("b.m64", "", "", movie.FromReset)
	test.ExpectSuccess(t, errors.Is(err, errors.AlreadyActive))
	err = s.StartMovie("a.m64")
	test.ExpectSuccess(t, errors.Is(err, errors.AlreadyActive))

	// bad channel
	err = s.SetKeys(buttons.A, 4)
	test.ExpectSuccess(t, errors.Is(err, errors.OutOfRange))
	err = s.SetKeys(buttons.A, -1)
	test.ExpectSuccess(t, errors.Is(err, errors.OutOfRange))

	// absent channel is ignored
	test.ExpectSuccess(t, s.SetKeys(buttons.A, 3))
	test.ExpectEquality(t, s.GetCurFrame(), 0)

	// same channel twice in one frame
	test.ExpectSuccess(t, s.SetKeys(buttons.A, 0))
	err = s.SetKeys(buttons.B, 0)
	test.ExpectSuccess(t, errors.Is(err, errors.InvalidState))
	test.ExpectSuccess(t, s.SetKeys(buttons.B, 1))
	test.ExpectEquality(t, s.GetCurFrame(), 1)

	// reading while recording
	_, _, err = s.GetKeys(0)
	test.ExpectSuccess(t, errors.Is(err, errors.InvalidState))
}

func TestMultipleControllers(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, _ := newSession(t, fs, nil)

	m, err := movie.New("", "", movie.FromReset, buttons.Controllers(0x01|0x04))
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, s.StartRecordingMovie("a.m64", m))

	// channel 0 skipped in first frame
	test.DemandSuccess(t, s.SetKeys(buttons.L, 2))
	test.ExpectEquality(t, s.GetCurFrame(), 1)

	test.DemandSuccess(t, s.SetKeys(buttons.A, 0))
	test.DemandSuccess(t, s.SetKeys(buttons.B, 1))
	test.ExpectEquality(t, s.GetCurFrame(), 1)
	test.DemandSuccess(t, s.SetKeys(buttons.R, 2))
	test.ExpectEquality(t, s.GetCurFrame(), 2)

	test.DemandSuccess(t, s.StopMovie(false))
	test.DemandSuccess(t, s.StartMovie("a.m64"))

	expect := func(channel int, keys buttons.Buttons, ended bool) {
		t.Helper()
		k, e, err := s.GetKeys(channel)
		test.ExpectSuccess(t, err)
		test.ExpectEquality(t, k, keys, channel)
		test.ExpectEquality(t, e, ended, channel)
	}

	expect(0, 0, false)
	expect(1, 0, false)
	expect(2, buttons.L, false)
	test.ExpectEquality(t, s.GetCurFrame(), 1)
	expect(0, buttons.A, false)
	expect(1, 0, false)
	expect(2, buttons.R, true)
}

func TestRestart(t *testing.T) {
	fs := afero.NewMemMapFs()
	emu := &mockEmulation{fs: fs}
	s, _ := newSession(t, fs, emu)

	test.DemandSuccess(t, s.StartRecording("a.m64", "", "", movie.FromReset))
	test.ExpectEquality(t, emu.resets, 1)
	recordFrames(t, s, 0, 3)

	// restart while recording switches to playback
	test.DemandSuccess(t, s.StopMovie(true))
	test.ExpectEquality(t, emu.resets, 2)
	test.ExpectEquality(t, s.Mode(), vcr.Playback)
	test.ExpectEquality(t, s.GetCurFrame(), 0)

	keys, _, err := s.GetKeys(0)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, keys, buttons.Buttons(1))

	// restart while playing
	test.DemandSuccess(t, s.StopMovie(true))
	test.ExpectEquality(t, s.GetCurFrame(), 0)
	keys, _, err = s.GetKeys(0)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, keys, buttons.Buttons(1))

	// restart while idle starts the last movie
	test.DemandSuccess(t, s.StopMovie(false))
	test.DemandSuccess(t, s.StopMovie(true))
	test.ExpectEquality(t, s.Mode(), vcr.Playback)
	test.ExpectEquality(t, s.Path(), "a.m64")
	test.ExpectEquality(t, s.Movie().TotalLength(), 3)
}

func TestEmptyMovie(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, msgs := newSession(t, fs, nil)

	test.DemandSuccess(t, s.StartRecording("a.m64", "", "", movie.FromReset))
	test.DemandSuccess(t, s.StopMovie(false))

	test.DemandSuccess(t, s.StartMovie("a.m64"))
	keys, ended, err := s.GetKeys(0)
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, ended)
	test.ExpectEquality(t, keys, buttons.Buttons(0))
	test.ExpectEquality(t, s.State(), vcr.Idle)
	test.ExpectSuccess(t, msgs.count(notifications.LevelInfo) > 0)
}

func TestReadOnlySavestate(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, _ := newSession(t, fs, nil)

	test.DemandSuccess(t, s.StartRecording("a.m64", "", "", movie.FromReset))
	recordFrames(t, s, 0, 10)
	test.DemandSuccess(t, s.StopMovie(true))

	for i := 0; i < 4; i++ {
		_, _, err := s.GetKeys(0)
		test.DemandSuccess(t, err)
	}
	data := s.CollectSTData()

	for i := 0; i < 3; i++ {
		_, _, err := s.GetKeys(0)
		test.DemandSuccess(t, err)
	}
	test.ExpectEquality(t, s.GetCurFrame(), 7)

	test.ExpectFailure(t, s.SetReadOnly(true))
	test.ExpectEquality(t, s.LoadMovieData(data), vcr.StateOK)
	test.ExpectEquality(t, s.GetCurFrame(), 4)
	test.ExpectEquality(t, s.Mode(), vcr.Playback)

	keys, _, err := s.GetKeys(0)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, keys, buttons.Buttons(5))

	// movie is unchanged
	test.ExpectEquality(t, s.Movie().TotalLength(), 10)
	test.ExpectEquality(t, s.Movie().Rerecords, uint32(0))
}

func TestReadOnlySavestateWhileRecording(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, _ := newSession(t, fs, nil)

	test.DemandSuccess(t, s.StartRecording("a.m64", "", "", movie.FromReset))
	recordFrames(t, s, 0, 4)
	data := s.CollectSTData()
	recordFrames(t, s, 4, 8)

	s.SetReadOnly(true)
	test.ExpectEquality(t, s.LoadMovieData(data), vcr.StateOK)
	test.ExpectEquality(t, s.Mode(), vcr.Playback)
	test.ExpectEquality(t, s.GetCurFrame(), 4)

	// recording was written to disk when playback started
	m, err := movie.ReadFile(fs, "a.m64")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, m.TotalLength(), 8)

	// savestate at the very end of the movie ends the movie
	test.DemandSuccess(t, s.StopMovie(true))
	recordEnd := func() []byte {
		for i := 0; i < 7; i++ {
			_, _, err := s.GetKeys(0)
			test.DemandSuccess(t, err)
		}
		return s.CollectSTData()
	}
	end := recordEnd()
	_, ended, err := s.GetKeys(0)
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, ended)

	test.DemandSuccess(t, s.StopMovie(true))
	end[4] = 8
	test.ExpectEquality(t, s.LoadMovieData(end), vcr.StateOK)
	test.ExpectEquality(t, s.State(), vcr.Idle)
}

func TestRerecord(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, _ := newSession(t, fs, nil)
	test.ExpectFailure(t, s.IsReadOnly())

	test.DemandSuccess(t, s.StartRecording("a.m64", "", "", movie.FromReset))
	recordFrames(t, s, 0, 5)
	data := s.CollectSTData()
	recordFrames(t, s, 5, 10)

	test.ExpectEquality(t, s.LoadMovieData(data), vcr.StateOK)
	test.ExpectEquality(t, s.Mode(), vcr.Record)
	test.ExpectEquality(t, s.GetCurFrame(), 5)
	test.ExpectEquality(t, s.Movie().TotalLength(), 5)
	test.ExpectEquality(t, s.Movie().Rerecords, uint32(1))

	for i := 0; i < 2; i++ {
		test.DemandSuccess(t, s.SetKeys(buttons.Buttons(100+i), 0))
	}
	test.DemandSuccess(t, s.StopMovie(false))

	m, err := movie.ReadFile(fs, "a.m64")
	test.DemandSuccess(t, err)
	test.DemandEquality(t, m.TotalLength(), 7)
	test.ExpectEquality(t, m.Rerecords, uint32(1))

	for f := 0; f < 7; f++ {
		keys, err := m.Input.Get(0, f)
		test.DemandSuccess(t, err)
		if f < 5 {
			test.ExpectEquality(t, keys, buttons.Buttons(f+1), f)
		} else {
			test.ExpectEquality(t, keys, buttons.Buttons(100+f-5), f)
		}
	}
}

func TestRerecordFromPlayback(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, _ := newSession(t, fs, nil)

	test.DemandSuccess(t, s.StartRecording("a.m64", "", "", movie.FromReset))
	recordFrames(t, s, 0, 10)
	data := s.CollectSTData()
	test.DemandSuccess(t, s.StopMovie(false))

	test.DemandSuccess(t, s.StartMovie("a.m64"))
	for i := 0; i < 3; i++ {
		_, _, err := s.GetKeys(0)
		test.DemandSuccess(t, err)
	}
	short := s.CollectSTData()

	// fork at frame 3
	test.ExpectEquality(t, s.LoadMovieData(short), vcr.StateOK)
	test.ExpectEquality(t, s.Mode(), vcr.Record)
	test.ExpectEquality(t, s.GetCurFrame(), 3)

	// file has been rewritten
	m, err := movie.ReadFile(fs, "a.m64")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, m.TotalLength(), 3)
	test.ExpectEquality(t, m.Rerecords, uint32(1))

	// a savestate from beyond the end of the movie cannot be loaded in
	// read-only mode
	s.SetReadOnly(true)
	test.ExpectEquality(t, s.LoadMovieData(data), vcr.StateFrameOutOfRange)
	test.ExpectEquality(t, s.Mode(), vcr.Record)
	test.ExpectEquality(t, s.GetCurFrame(), 3)

	// but can in read-write mode
	s.SetReadOnly(false)
	test.ExpectEquality(t, s.LoadMovieData(data), vcr.StateOK)
	test.ExpectEquality(t, s.GetCurFrame(), 10)
	test.ExpectEquality(t, s.Movie().TotalLength(), 10)
	test.ExpectEquality(t, s.Movie().Rerecords, uint32(2))
}

func TestWrongMovie(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, msgs := newSession(t, fs, nil)

	a, err := movie.New("", "", movie.FromReset, buttons.Controller1)
	test.DemandSuccess(t, err)
	a.UID = 1000
	test.DemandSuccess(t, s.StartRecordingMovie("a.m64", a))
	recordFrames(t, s, 0, 3)
	data := s.CollectSTData()
	test.DemandSuccess(t, s.StopMovie(false))

	b, err := movie.New("", "", movie.FromReset, buttons.Controller1)
	test.DemandSuccess(t, err)
	b.UID = 2000
	test.DemandSuccess(t, s.StartRecordingMovie("b.m64", b))
	recordFrames(t, s, 0, 5)

	test.ExpectEquality(t, s.LoadMovieData(data), vcr.StateWrongMovie)
	test.ExpectEquality(t, s.GetCurFrame(), 5)
	test.ExpectEquality(t, msgs.count(notifications.LevelWarning), 1)
}

func TestIdleSavestate(t *testing.T) {
	s, _ := newSession(t, afero.NewMemMapFs(), nil)
	test.ExpectSuccess(t, s.CollectSTData() == nil)
	test.ExpectEquality(t, s.LoadMovieData([]byte{1, 2, 3}), vcr.StateIdle)
}

func TestStateStatus(t *testing.T) {
	test.ExpectEquality(t, vcr.StateCorrupt.String(), vcr.StateErrors[vcr.StateCorrupt])
	test.ExpectEquality(t, vcr.StateStatus(100).String(), "unknown state status (100)")
}

// backend that fails every push
type failingBackend struct{}

func (failingBackend) Init(string, encoder.Format) error { return nil }
func (failingBackend) Free(bool) error                   { return nil }
func (failingBackend) PushVideo(image.Image) error       { return fmt.Errorf("no video") }
func (failingBackend) SetSampleRate(int) error           { return nil }
func (failingBackend) PushAudio([]byte) error            { return fmt.Errorf("no audio") }

func TestProcessWideNotifications(t *testing.T) {
	fs := afero.NewMemMapFs()
	test.DemandSuccess(t, fs.MkdirAll(".m64vcr", 0700))
	s, err := vcr.NewSession(fs, nil)
	test.DemandSuccess(t, err)

	msgs := &messages{}
	notifications.SetErrorCallback(msgs.callback)
	defer notifications.SetErrorCallback(nil)

	enc := encoder.NewEncoder(failingBackend{}, nil)
	test.DemandSuccess(t, enc.Start("a.wav", encoder.FormatWAV))

	test.DemandSuccess(t, s.StartRecording("a.m64", "", "", movie.FromReset))
	enc.PushAudio([]byte{0, 0, 0, 0})
	test.DemandSuccess(t, s.StopMovie(true))
	test.ExpectFailure(t, s.SetKeys(buttons.A, 0))
	test.DemandSuccess(t, enc.Stop(true))
	test.DemandSuccess(t, s.StopMovie(false))

	test.ExpectEquality(t, msgs.count(notifications.LevelInfo), 1)
	test.ExpectEquality(t, msgs.count(notifications.LevelWarning), 1)
	test.ExpectEquality(t, msgs.count(notifications.LevelError), 1)
	test.ExpectSuccess(t, strings.Contains(strings.Join(msgs.text, "\n"), "backend audio push failed"))
}

func TestSnapshotStart(t *testing.T) {
	fs := afero.NewMemMapFs()
	emu := &mockEmulation{fs: fs, rom: movie.ROMInfo{Name: "SUPER MARIO 64", CRC: 0x635a2bff, Country: 'E'}}
	s, msgs := newSession(t, fs, emu)
	test.DemandSuccess(t, fs.MkdirAll("movies", 0700))

	test.DemandSuccess(t, s.StartRecording("movies/b.m64", "", "", movie.FromSnapshot))
	test.DemandEquality(t, len(emu.saved), 1)
	test.ExpectEquality(t, emu.saved[0], "movies/b.st")
	test.ExpectEquality(t, emu.resets, 0)
	test.ExpectEquality(t, s.Movie().ROM, emu.rom)
	recordFrames(t, s, 0, 2)
	test.DemandSuccess(t, s.StopMovie(false))

	test.DemandSuccess(t, s.StartMovie("movies/b.m64"))
	test.DemandEquality(t, len(emu.loaded), 1)
	test.ExpectEquality(t, emu.loaded[0], "movies/b.st")
	test.ExpectEquality(t, msgs.count(notifications.LevelWarning), 0)
	test.DemandSuccess(t, s.StopMovie(false))

	// different ROM is a warning only
	emu.rom.Name = "ZELDA"
	test.DemandSuccess(t, s.StartMovie("movies/b.m64"))
	test.ExpectEquality(t, msgs.count(notifications.LevelWarning), 1)
	test.DemandSuccess(t, s.StopMovie(false))

	// missing snapshot
	test.DemandSuccess(t, fs.Remove("movies/b.st"))
	err := s.StartMovie("movies/b.m64")
	test.ExpectSuccess(t, errors.Is(err, errors.FileError))
	test.ExpectEquality(t, s.State(), vcr.Idle)
}

func TestFailedStartKeepsMovie(t *testing.T) {
	fs := afero.NewMemMapFs()
	emu := &mockEmulation{fs: fs}
	s, _ := newSession(t, fs, emu)

	test.DemandSuccess(t, s.StartRecording("a.m64", "", "", movie.FromReset))
	recordFrames(t, s, 0, 3)
	test.DemandSuccess(t, s.StopMovie(false))

	before, err := afero.ReadFile(fs, "a.m64")
	test.DemandSuccess(t, err)

	emu.saveErr = fmt.Errorf("disk full")
	err = s.StartRecording("a.m64", "", "", movie.FromSnapshot)
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, s.State(), vcr.Idle)

	after, err := afero.ReadFile(fs, "a.m64")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, string(after), string(before))

	m, err := movie.ReadFile(fs, "a.m64")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, m.TotalLength(), 3)
}

func TestOutOfMemory(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, msgs := newSession(t, fs, nil)
	s.SetMaxFrames(300)

	test.DemandSuccess(t, s.StartRecording("a.m64", "", "", movie.FromReset))
	recordFrames(t, s, 0, 300)

	err := s.SetKeys(buttons.A, 0)
	test.ExpectSuccess(t, errors.Is(err, errors.OutOfMemory))
	test.ExpectEquality(t, s.State(), vcr.Idle)
	test.ExpectEquality(t, msgs.count(notifications.LevelError), 1)

	// the recording up to the limit was saved
	m, err := movie.ReadFile(fs, "a.m64")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, m.TotalLength(), 300)
}

func TestFlushInterval(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, _ := newSession(t, fs, nil)
	test.DemandSuccess(t, s.Prefs.FlushInterval.Set(5))

	test.DemandSuccess(t, s.StartRecording("a.m64", "", "", movie.FromReset))

	// header is written immediately
	m, err := movie.ReadFile(fs, "a.m64")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, m.TotalLength(), 0)

	recordFrames(t, s, 0, 7)

	m, err = movie.ReadFile(fs, "a.m64")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, m.TotalLength(), 5)

	test.DemandSuccess(t, s.Flush())
	m, err = movie.ReadFile(fs, "a.m64")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, m.TotalLength(), 7)

	test.ExpectFailure(t, s.Prefs.FlushInterval.Set(-1))
}

func TestVICount(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, _ := newSession(t, fs, nil)

	s.UpdateVI()
	test.ExpectEquality(t, s.GetVICount(), uint32(0))

	test.DemandSuccess(t, s.StartRecording("a.m64", "", "", movie.FromReset))
	for i := 0; i < 3; i++ {
		s.UpdateVI()
		s.UpdateVI()
		test.DemandSuccess(t, s.SetKeys(buttons.A, 0))
	}
	test.ExpectEquality(t, s.GetVICount(), uint32(6))
	test.DemandSuccess(t, s.StopMovie(false))

	m, err := movie.ReadFile(fs, "a.m64")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, m.VICount, uint32(6))
}

func TestReadOnlyIsSticky(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, _ := newSession(t, fs, nil)

	test.ExpectFailure(t, s.SetReadOnly(true))
	test.ExpectSuccess(t, s.SetReadOnly(true))
	test.ExpectSuccess(t, s.IsReadOnly())
	test.DemandSuccess(t, s.Shutdown())

	s, _ = newSession(t, fs, nil)
	test.ExpectSuccess(t, s.IsReadOnly())
}

func TestReadOnlyHookError(t *testing.T) {
	s, _ := newSession(t, afero.NewMemMapFs(), nil)
	s.Prefs.ReadOnly.SetHookPre(func(prefs.Value) error {
		return fmt.Errorf("read-only is locked")
	})

	logger.Clear()
	test.ExpectFailure(t, s.SetReadOnly(true))
	test.ExpectFailure(t, s.IsReadOnly())

	w := &strings.Builder{}
	logger.Tail(w, 1)
	test.ExpectEquality(t, w.String(), "vcr: read-only is locked\n")
}
