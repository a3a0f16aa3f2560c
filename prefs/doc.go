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

// Package prefs facilitates the storing of preference values on disk.
//
// A preference value is one of the types Bool, String or Int. Values are
// associated with a key and added to a Disk. The Disk can then be saved and
// loaded as required.
//
//	var readOnly prefs.Bool
//	dsk, _ := prefs.NewDisk(afero.NewOsFs(), pth)
//	dsk.Add("vcr.readonly", &readOnly)
//	dsk.Load(true)
//
// The preferences file is a simple text file. The first line is a warning
// not to edit the file by hand and every subsequent line is a key/value pair:
//
//	vcr.readonly :: true
//
// Entries are sorted by key. Entries for keys not in the Disk are preserved.
//
// Values can be overridden from the command line by pushing a preferences
// string onto the command line stack, before the Disk is loaded:
//
//	prefs.PushCommandLineStack("vcr.readonly::true; vcr.author::Alice")
//
// Each overriding value is used only once.
package prefs
