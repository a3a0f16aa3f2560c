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

package errors

// the prefix of every message. the values of the error are appended to the
// prefix, separated by ": "
var messages = map[Errno]string{
	FileError:       "file error",
	CorruptFormat:   "corrupt format",
	OutOfMemory:     "out of memory",
	InvalidArgument: "invalid argument",
	InvalidState:    "invalid state",
	OutOfRange:      "out of range",
	AlreadyActive:   "already active",
}

// more error strings -- these are strings that are used as arguments to error
// messages
const (
	FileTruncated = "file truncated"
	NotRecording  = "not recording"
	NotPlaying    = "not playing"
	NoMovie       = "no movie"
)
