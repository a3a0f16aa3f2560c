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

package vcr

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jetsetilly/m64vcr/buttons"
	"github.com/jetsetilly/m64vcr/errors"
	"github.com/jetsetilly/m64vcr/logger"
	"github.com/jetsetilly/m64vcr/movie"
	"github.com/jetsetilly/m64vcr/notifications"
	"github.com/jetsetilly/m64vcr/version"
	"github.com/spf13/afero"
)

// Session is the state of the VCR. There should be only one Session per
// process, created when the emulator starts and shutdown when it ends.
//
// Session is not safe for concurrent use. It is expected to be called from the
// emulation goroutine only.
type Session struct {
	fs        afero.Fs
	emulation Emulation
	notify    *notifications.Channel

	Prefs *Preferences

	state State
	mode  Mode

	// the active movie. nil when the session is idle
	movie *movie.Movie

	// the movie file is held open while recording
	file afero.File

	// path of the active movie and the path of the most recent movie. the
	// most recent movie is used when StopMovie() is called with restart
	// while the session is idle
	path     string
	lastPath string

	currentFrame int
	viCount      uint32

	// channels handled in the current frame
	handled buttons.Controllers

	// frames recorded since the movie file was last written
	unflushed int

	// maximum number of frames in a recording. zero means the default
	maxFrames int
}

// NewSession is the preferred method of initialisation for the Session type.
// The emulation argument can be nil, in which case no snapshots are taken or
// restored and the emulation is never reset.
func NewSession(fs afero.Fs, emulation Emulation) (*Session, error) {
	s := &Session{
		fs:        fs,
		emulation: emulation,
		notify:    notifications.Central(),
	}

	var err error
	s.Prefs, err = newPreferences(fs)
	if err != nil {
		return nil, err
	}

	logger.Log(logger.Allow, "vcr", "session created")

	return s, nil
}

// Shutdown stops any active movie and saves the preferences.
func (s *Session) Shutdown() error {
	if err := s.StopMovie(false); err != nil {
		return err
	}
	return s.Prefs.Save()
}

// SetErrorCallback registers the function that receives notifications. The
// session notifies through the process-wide channel so the callback replaces
// any callback registered with notifications.SetErrorCallback().
func (s *Session) SetErrorCallback(callback notifications.MsgFunc) {
	s.notify.SetErrorCallback(callback)
}

// SetMaxFrames limits the number of frames that can be recorded. Reaching the
// limit ends the recording. A value of zero or less restores the default
// limit. Takes effect from the next movie started.
func (s *Session) SetMaxFrames(max int) {
	s.maxFrames = max
}

// the path of the snapshot that accompanies a movie that starts from a
// snapshot
func snapshotPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".st"
}

// put the emulation into the state required by the start type of the movie
func (s *Session) prepareEmulation(startType movie.StartType, path string, save bool) error {
	if s.emulation == nil {
		return nil
	}

	switch startType {
	case movie.FromSnapshot:
		var err error
		if save {
			err = s.emulation.SaveSnapshot(snapshotPath(path))
		} else {
			err = s.emulation.LoadSnapshot(snapshotPath(path))
		}
		if err != nil {
			return errors.New(errors.FileError, snapshotPath(path), err)
		}
	case movie.FromReset, movie.FromEEPROM:
		if err := s.emulation.Reset(); err != nil {
			return err
		}
	}

	return nil
}

// begin a new movie in the specified mode
func (s *Session) begin(m *movie.Movie, path string, mode Mode) {
	s.movie = m
	s.movie.Input.SetMaxFrames(s.maxFrames)
	s.path = path
	s.lastPath = path
	s.state = Active
	s.mode = mode
	s.rewind()
}

func (s *Session) rewind() {
	s.currentFrame = 0
	s.viCount = 0
	s.handled = 0
	s.unflushed = 0
	s.movie.FrameCount = 0
}

// StartRecording creates a new movie and begins recording to it. Any existing
// file at the path is overwritten. If author is empty then the author in the
// preferences is used.
func (s *Session) StartRecording(path string, author string, description string, startType movie.StartType) error {
	if s.state == Active {
		return errors.New(errors.AlreadyActive, s.path)
	}

	if author == "" {
		author = s.Prefs.Author.String()
	}

	m, err := movie.New(author, description, startType, buttons.Controller1)
	if err != nil {
		return err
	}

	return s.StartRecordingMovie(path, m)
}

// StartRecordingMovie is like StartRecording() but with a movie that has been
// prepared by the caller. This allows the controller configuration to be
// specified. Any input already in the movie is discarded.
func (s *Session) StartRecordingMovie(path string, m *movie.Movie) error {
	if s.state == Active {
		return errors.New(errors.AlreadyActive, s.path)
	}

	m.Input.Truncate(0)
	if s.emulation != nil {
		m.SetROM(s.emulation.ROM())
	}
	if m.Plugins.Input == "" {
		m.Plugins.Input = version.ApplicationName
	}

	// an existing movie is only truncated once the emulation has been prepared
	f, err := s.fs.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return errors.New(errors.FileError, err)
	}

	err = s.prepareEmulation(m.StartType, path, true)
	if err != nil {
		_ = f.Close()
		return err
	}

	err = f.Truncate(0)
	if err != nil {
		_ = f.Close()
		return errors.New(errors.FileError, err)
	}

	_, err = f.Write(m.Header())
	if err != nil {
		_ = f.Close()
		return errors.New(errors.FileError, err)
	}

	s.file = f
	s.begin(m, path, Record)

	logger.Logf(logger.Allow, "vcr", "recording %s (%s, %s)", path, m.StartType, m.Controllers)
	s.notify.Notifyf(notifications.LevelInfo, "recording started: %s", path)

	return nil
}

// StartMovie loads the movie at path and begins playing it back. The session
// is unchanged if an error is returned.
func (s *Session) StartMovie(path string) error {
	if s.state == Active {
		return errors.New(errors.AlreadyActive, s.path)
	}

	m, err := movie.ReadFile(s.fs, path)
	if err != nil {
		return err
	}

	if s.emulation != nil {
		for _, w := range m.Verify(s.emulation.ROM()) {
			s.notify.Notify(notifications.LevelWarning, w)
			logger.Log(logger.Allow, "vcr", w)
		}
	}

	err = s.prepareEmulation(m.StartType, path, false)
	if err != nil {
		return err
	}

	s.begin(m, path, Playback)

	logger.Logf(logger.Allow, "vcr", "playing %s (%d frames)", path, m.TotalLength())
	s.notify.Notifyf(notifications.LevelInfo, "playback started: %s", path)

	return nil
}

// StopMovie ends the active movie. If restart is true the active movie is
// instead rewound to the first frame and continues in Playback mode. If
// restart is true and the session is idle then the most recent movie is
// started again.
func (s *Session) StopMovie(restart bool) error {
	if restart {
		if s.state == Idle {
			if s.lastPath == "" {
				return errors.New(errors.InvalidState, errors.NoMovie)
			}
			return s.StartMovie(s.lastPath)
		}

		if s.mode == Record {
			if err := s.closeFile(); err != nil {
				return err
			}
			s.mode = Playback
		}

		s.rewind()

		if err := s.prepareEmulation(s.movie.StartType, s.path, false); err != nil {
			return err
		}

		logger.Logf(logger.Allow, "vcr", "restarting %s", s.path)
		return nil
	}

	return s.stop()
}

// stop the active movie and return to idle
func (s *Session) stop() error {
	if s.state == Idle {
		return nil
	}

	err := s.closeFile()

	logger.Logf(logger.Allow, "vcr", "stopped %s at frame %d", s.path, s.currentFrame)

	s.movie = nil
	s.path = ""
	s.state = Idle
	s.currentFrame = 0
	s.viCount = 0
	s.handled = 0

	return err
}

// write and close the movie file, if it is open
func (s *Session) closeFile() error {
	if s.file == nil {
		return nil
	}

	err := s.Flush()
	if cerr := s.file.Close(); cerr != nil && err == nil {
		err = errors.New(errors.FileError, cerr)
	}
	s.file = nil

	return err
}

// Flush writes the movie to the movie file. Only has an effect when recording.
func (s *Session) Flush() error {
	if s.file == nil {
		return nil
	}

	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return errors.New(errors.FileError, err)
	}
	if err := s.file.Truncate(0); err != nil {
		return errors.New(errors.FileError, err)
	}
	if err := s.movie.Write(s.file); err != nil {
		return err
	}
	if err := s.file.Sync(); err != nil {
		return errors.New(errors.FileError, err)
	}

	s.unflushed = 0

	return nil
}

// advance to the next frame if the channel is the last controller in the
// movie
func (s *Session) advance(channel int) {
	if channel != s.movie.Controllers.Last() {
		return
	}

	s.currentFrame++
	s.movie.FrameCount = s.currentFrame
	s.handled = 0

	if s.mode != Record {
		return
	}

	s.unflushed++
	if n := s.Prefs.FlushInterval.Get().(int); n > 0 && s.unflushed >= n {
		if err := s.Flush(); err != nil {
			s.notify.Notify(notifications.LevelError, err.Error())
			logger.Log(logger.Allow, "vcr", err)
		}
	}
}

func checkChannel(channel int) error {
	if channel < 0 || channel >= buttons.MaxControllers {
		return errors.Errorf(errors.OutOfRange, "channel %d", channel)
	}
	return nil
}

// SetKeys records the input for the channel in the current frame. The input
// for a channel can be recorded only once per frame. Input for channels with
// no controller present in the movie is ignored.
func (s *Session) SetKeys(keys buttons.Buttons, channel int) error {
	if s.state == Idle {
		return errors.New(errors.InvalidState, errors.NotRecording)
	}

	if s.mode == Playback {
		s.notify.Notify(notifications.LevelWarning, "cannot record input while a movie is playing")
		return errors.New(errors.InvalidState, errors.NotRecording, "movie is playing")
	}

	if err := checkChannel(channel); err != nil {
		return err
	}

	if !s.movie.Controllers.Present(channel) {
		return nil
	}

	if s.handled.Present(channel) {
		return errors.Errorf(errors.InvalidState, "channel %d already recorded for frame %d", channel, s.currentFrame)
	}

	// a channel that was not recorded for this frame receives no input. this
	// happens when channels are skipped on the way to the last channel
	for _, c := range s.movie.Controllers.Channels() {
		if c >= channel {
			break // for loop
		}
		if !s.handled.Present(c) {
			if err := s.appendKeys(0, c); err != nil {
				return err
			}
		}
	}

	if err := s.appendKeys(keys, channel); err != nil {
		return err
	}

	s.advance(channel)

	return nil
}

func (s *Session) appendKeys(keys buttons.Buttons, channel int) error {
	err := s.movie.Input.Append(channel, keys)
	if err != nil {
		if errors.Is(err, errors.OutOfMemory) {
			s.notify.Notify(notifications.LevelError, err.Error())
			logger.Log(logger.Allow, "vcr", err)
			if serr := s.stop(); serr != nil {
				logger.Log(logger.Allow, "vcr", serr)
			}
		}
		return err
	}
	s.handled |= 1 << channel
	return nil
}

// GetKeys returns the input for the channel in the current frame. The boolean
// return value is true if the movie has ended, in which case the session is
// now idle.
func (s *Session) GetKeys(channel int) (buttons.Buttons, bool, error) {
	if s.state == Idle || s.mode != Playback {
		return 0, false, errors.New(errors.InvalidState, errors.NotPlaying)
	}

	if err := checkChannel(channel); err != nil {
		return 0, false, err
	}

	// nothing to read. this is only possible for movies with no input
	if s.currentFrame >= s.movie.TotalLength() {
		return 0, true, s.end()
	}

	if !s.movie.Controllers.Present(channel) {
		return 0, false, nil
	}

	keys, err := s.movie.Input.Get(channel, s.currentFrame)
	if err != nil {
		return 0, false, err
	}

	s.advance(channel)

	if s.currentFrame >= s.movie.TotalLength() {
		return keys, true, s.end()
	}

	return keys, false, nil
}

// the movie has reached the end of the input
func (s *Session) end() error {
	s.notify.Notifyf(notifications.LevelInfo, "movie ended: %s", s.path)
	return s.stop()
}

// UpdateVI should be called on every vertical interrupt.
func (s *Session) UpdateVI() {
	if s.state == Idle {
		return
	}
	s.viCount++
	if s.mode == Record {
		s.movie.VICount = s.viCount
	}
}

// IsPlaying returns true if a movie is active, in either mode.
func (s *Session) IsPlaying() bool {
	return s.state == Active
}

// IsReadOnly returns the read-only flag. The flag is meaningful even when the
// session is idle.
func (s *Session) IsReadOnly() bool {
	return s.Prefs.ReadOnly.Get().(bool)
}

// SetReadOnly sets the read-only flag and returns the previous value.
func (s *Session) SetReadOnly(readOnly bool) bool {
	prev := s.IsReadOnly()
	if err := s.Prefs.ReadOnly.Set(readOnly); err != nil {
		logger.Log(logger.Allow, "vcr", err)
	}
	return prev
}

// GetCurFrame returns the current frame number, starting from zero. Returns -1
// if the session is idle.
func (s *Session) GetCurFrame() int {
	if s.state == Idle {
		return -1
	}
	return s.currentFrame
}

// GetVICount returns the number of vertical interrupts since the beginning of
// the movie.
func (s *Session) GetVICount() uint32 {
	return s.viCount
}

// State returns the current state of the session.
func (s *Session) State() State {
	return s.state
}

// Mode returns the mode of an Active session. The value is meaningless if the
// session is idle.
func (s *Session) Mode() Mode {
	return s.mode
}

// Path returns the path of the active movie.
func (s *Session) Path() string {
	return s.path
}

// Movie returns a copy of the active movie. Returns nil if the session is
// idle.
func (s *Session) Movie() *movie.Movie {
	if s.movie == nil {
		return nil
	}
	return s.movie.Clone()
}
