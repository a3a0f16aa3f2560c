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
	"fmt"
	"os"

	"github.com/jetsetilly/m64vcr/errors"
	"github.com/jetsetilly/m64vcr/logger"
	"github.com/jetsetilly/m64vcr/movie"
	"github.com/jetsetilly/m64vcr/notifications"
)

// StateStatus is the result of LoadMovieData(). The value can be used as an
// index into StateErrors.
type StateStatus int

// List of valid StateStatus values.
const (
	StateOK StateStatus = iota
	StateIdle
	StateCorrupt
	StateWrongMovie
	StateFrameOutOfRange
	StateFileError
)

// StateErrors is the text for every StateStatus value.
var StateErrors = [...]string{
	StateOK:              "movie data loaded",
	StateIdle:            "no movie is active",
	StateCorrupt:         "movie data in savestate is corrupt",
	StateWrongMovie:      "savestate is from a different movie",
	StateFrameOutOfRange: "savestate frame is beyond the end of the movie",
	StateFileError:       "movie file cannot be opened for writing",
}

func (st StateStatus) String() string {
	if st < 0 || int(st) >= len(StateErrors) {
		return fmt.Sprintf("unknown state status (%d)", int(st))
	}
	return StateErrors[st]
}

// CollectSTData returns the movie data to be stored with a savestate. Returns
// nil if the session is idle.
func (s *Session) CollectSTData() []byte {
	if s.state == Idle {
		return nil
	}
	return s.movie.SerializeForSavestate(s.currentFrame, s.viCount)
}

// LoadMovieData restores the session from the data returned by an earlier call
// to CollectSTData(). The session is unchanged unless StateOK is returned.
func (s *Session) LoadMovieData(data []byte) StateStatus {
	if s.state == Idle {
		return StateIdle
	}

	st, err := movie.ParseSavestate(data)
	if err != nil {
		logger.Log(logger.Allow, "vcr", err)
		return s.status(StateCorrupt)
	}

	if st.UID != s.movie.UID || st.Controllers != s.movie.Controllers {
		return s.status(StateWrongMovie)
	}

	if s.IsReadOnly() {
		return s.seek(st)
	}

	return s.rerecord(st)
}

// notify the front-end of a failed savestate load
func (s *Session) status(st StateStatus) StateStatus {
	s.notify.Notify(notifications.LevelWarning, st.String())
	return st
}

// move the cursor to the frame in the savestate without changing the movie
func (s *Session) seek(st *movie.Savestate) StateStatus {
	if st.FrameCount > s.movie.TotalLength() {
		return s.status(StateFrameOutOfRange)
	}

	if s.mode == Record {
		if err := s.closeFile(); err != nil {
			s.notify.Notify(notifications.LevelError, err.Error())
			logger.Log(logger.Allow, "vcr", err)
		}
		s.mode = Playback
	}

	s.currentFrame = st.FrameCount
	s.viCount = st.VICount
	s.handled = 0
	s.movie.FrameCount = st.FrameCount

	logger.Logf(logger.Allow, "vcr", "savestate loaded (read-only) at frame %d", st.FrameCount)

	if s.currentFrame == s.movie.TotalLength() {
		if err := s.end(); err != nil {
			logger.Log(logger.Allow, "vcr", err)
		}
	}

	return StateOK
}

// replace the movie with the input from the savestate and continue recording
// from the frame in the savestate
func (s *Session) rerecord(st *movie.Savestate) StateStatus {
	f := s.file
	if f == nil {
		var err error
		f, err = s.fs.OpenFile(s.path, os.O_CREATE|os.O_RDWR, 0644)
		if err != nil {
			logger.Log(logger.Allow, "vcr", errors.New(errors.FileError, err))
			return s.status(StateFileError)
		}
	}

	m := s.movie.Clone()
	if err := m.Restore(st); err != nil {
		logger.Log(logger.Allow, "vcr", err)
		if f != s.file {
			_ = f.Close()
		}
		return s.status(StateCorrupt)
	}
	m.Input.SetMaxFrames(s.maxFrames)
	m.Input.Truncate(st.FrameCount)
	m.VICount = st.VICount
	m.Rerecords++

	s.movie = m
	s.file = f
	s.mode = Record
	s.currentFrame = st.FrameCount
	s.viCount = st.VICount
	s.handled = 0
	s.unflushed = 0

	if err := s.Flush(); err != nil {
		s.notify.Notify(notifications.LevelError, err.Error())
		logger.Log(logger.Allow, "vcr", err)
	}

	logger.Logf(logger.Allow, "vcr", "savestate loaded (read-write) at frame %d, rerecords %d", st.FrameCount, m.Rerecords)

	return StateOK
}
