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

// Package vcr records controller input to a movie and plays it back. It is
// driven by the emulation loop, which calls SetKeys() for each controller
// channel every frame while recording and GetKeys() for each controller
// channel every frame while playing back.
//
// The Session type is the only implementation of the Engine interface.
// Sessions start Idle. StartRecording() and StartMovie() make the session
// Active, in the Record and Playback modes respectively. StopMovie() returns
// the session to Idle, or rewinds the movie to the beginning.
//
// The current frame advances when the input for the highest numbered
// controller present in the movie has been handled. Channels with no
// controller present are ignored when recording and return no input when
// playing back.
//
// CollectSTData() and LoadMovieData() are called by the savestate mechanism.
// The data returned by CollectSTData() should be stored alongside the
// savestate and given to LoadMovieData() when the savestate is loaded. What
// happens then depends on the read-only flag:
//
// In read-only mode the movie is unchanged. The current frame moves to the
// frame at which the savestate was made and the session continues in
// Playback mode.
//
// In read-write mode the input from the savestate replaces the input of the
// movie, the movie is truncated at the frame at which the savestate was made,
// and the session continues in Record mode. The rerecord count of the movie
// is increased by one.
//
// Problems that do not prevent the session from continuing, for example a
// ROM that doesn't match the ROM the movie was recorded with, are reported
// through the callback registered with SetErrorCallback().
package vcr
