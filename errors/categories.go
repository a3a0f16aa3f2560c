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

// Errno is used to specify the kind of error.
type Errno int

// list of error numbers
const (
	// path could not be opened, read or written
	FileError Errno = iota

	// header or length invariant violated, in a movie file or in a savestate
	// blob
	CorruptFormat

	// the input buffer could not grow
	OutOfMemory

	// a bad enumeration value or parameter
	InvalidArgument

	// operation not valid in the current VCR state
	InvalidState

	// index beyond the end of a buffer
	OutOfRange

	// a movie is already attached to the VCR
	AlreadyActive

	numErrno
)
