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

// Package playmode drives a VCR session frame by frame. The Loop type asks the
// session for the input of each frame when a movie is playing, or polls the
// machine for live input and passes it to the session when a movie is
// recording. The frame is then run by the machine and any audio or video
// output is passed to an encoder.
//
// The Console type is a virtual machine that runs frames without emulating any
// hardware. It is useful for creating and checking movies without an emulator
// and is used by the command line tool. Input for the Console is provided by
// an InputSource. ScriptSource reads input from a text file and KeyboardSource
// reads input from the keyboard.
//
// Script files have one line per frame. The input for each controller is
// separated by the | character and is written in the format accepted by
// buttons.Parse(). A line can be prefixed by a repeat count:
//
//	# walk right for half a second and then jump
//	30* X:80
//	A X:80 | -
//
// Blank lines and lines beginning with # are ignored.
package playmode
