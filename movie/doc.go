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

// Package movie holds the metadata and input for a single movie. It can read
// and write the movie in the .m64 file format and it can serialise the movie
// into a form that is suitable for storing alongside a savestate.
//
// The .m64 file is a fixed size header of 0x400 bytes followed by the input
// data. All values are little-endian.
//
//	0x000	4 bytes		"M64\x1a"
//	0x004	u32		version number (3)
//	0x008	u32		UID (creation time)
//	0x00c	u32		number of vertical interrupts
//	0x010	u32		rerecord count
//	0x014	u8		vertical interrupts per second
//	0x015	u8		number of controllers
//	0x018	u32		number of input samples
//	0x01c	u16		start type (1 snapshot, 2 reset, 4 eeprom)
//	0x020	u32		controller flags
//	0x0c4	32 bytes	ROM name
//	0x0e4	u32		ROM CRC
//	0x0e8	u16		ROM country code
//	0x122	64 bytes	video plugin
//	0x162	64 bytes	sound plugin
//	0x1a2	64 bytes	input plugin
//	0x1e2	64 bytes	RSP plugin
//	0x222	222 bytes	author (UTF-8)
//	0x300	256 bytes	description (UTF-8)
//
// The number of input samples is the number of frames multiplied by the number
// of controllers. The input data is arranged by frame and then by controller.
// Each sample is the 32 bit controller word described by the buttons package.
//
// The savestate data is a sequence of little-endian 32 bit words:
//
//	UID, frame count, VI count, total length, controller flags
//
// followed by total length frames of input, arranged in the same way as the
// movie file.
//
// The frame cursor of the movie is not stored in the .m64 file. A movie read
// from a file always starts with the cursor at zero.
package movie
