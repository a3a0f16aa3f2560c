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

// Package paths contains functions to prepare paths to m64vcr resources.
//
// The ResourcePath() function joins the supplied resource strings and prepends
// the appropriate config directory. For example, the following returns the
// path to the preferences file:
//
//	pth, err := paths.ResourcePath(fs, "", prefs.DefaultPrefsFile)
//
// If a directory named ".m64vcr" is present in the program's current
// directory then that is the base path. Otherwise the user's config directory,
// as returned by os.UserConfigDir(), is used. On a modern Linux system the
// path returned by the example above will be:
//
//	/home/user/.config/m64vcr/preferences
//
// The directory part of the path is created if it does not already exist.
package paths
