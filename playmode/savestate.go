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
	"github.com/jetsetilly/m64vcr/errors"
	"github.com/jetsetilly/m64vcr/logger"
	"github.com/jetsetilly/m64vcr/vcr"
)

// a single savestate. the machine state and the movie data are always saved
// and loaded together
type slot struct {
	machine []byte

	// nil if no movie was active when the state was saved
	movie []byte

	frame int
}

// SaveState saves the state of the machine and the active movie. There is only
// one save slot and any previous state is lost.
func (l *Loop) SaveState() error {
	snap, ok := l.machine.(Snapshotter)
	if !ok {
		return errors.New(errors.InvalidState, "machine does not support savestates")
	}

	l.slot = &slot{
		machine: snap.Snapshot(),
		movie:   l.engine.CollectSTData(),
		frame:   l.engine.GetCurFrame(),
	}

	logger.Logf(logger.Allow, "playmode", "state saved at movie frame %d", l.slot.frame)

	return nil
}

// LoadState restores the state saved by SaveState(). Loading a state while a
// movie is recording, or while a movie is playing and the VCR is not
// read-only, counts as a rerecord.
func (l *Loop) LoadState() error {
	if l.slot == nil {
		return errors.New(errors.InvalidState, "no saved state")
	}

	snap, ok := l.machine.(Snapshotter)
	if !ok {
		return errors.New(errors.InvalidState, "machine does not support savestates")
	}

	// the machine and the movie must agree on the current frame. if the movie
	// data is rejected the machine goes back to where it was
	current := snap.Snapshot()

	if err := snap.Restore(l.slot.machine); err != nil {
		return err
	}

	if l.slot.movie != nil {
		switch st := l.engine.LoadMovieData(l.slot.movie); st {
		case vcr.StateOK, vcr.StateIdle:
		default:
			if err := snap.Restore(current); err != nil {
				logger.Log(logger.Allow, "playmode", err)
			}
			return errors.New(errors.InvalidState, st)
		}
	}

	logger.Logf(logger.Allow, "playmode", "state loaded from movie frame %d", l.slot.frame)

	return nil
}
