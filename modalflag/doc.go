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

// Package modalflag is a wrapper for the flag package in the Go standard
// library. It handles program modes (and sub-modes) and allows different flags
// for each mode.
//
// Unlike flag.FlagSet, the arguments are given to NewArgs() and Parse() is
// called with no arguments:
//
//	md := Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("PLAY", "RECORD", "INFO")
//	p, err := md.Parse()
//
// After parsing, Mode() returns the selected sub-mode. If no sub-mode was
// named on the command line then the first sub-mode in the list is selected.
// Sub-mode comparisons are case insensitive.
//
// The flags for the selected mode are added after a call to NewMode() and the
// arguments are parsed again:
//
//	switch md.Mode() {
//	case "RECORD":
//		md.NewMode()
//		author := md.AddString("author", "", "author of the movie")
//		p, err := md.Parse()
//		switch p {
//		case ParseError:
//			return err
//		case ParseHelp:
//			return nil
//		}
//		if err := md.ExpectArgs(1, 1); err != nil {
//			return err
//		}
//		record(md.GetArg(0), *author)
//	}
//
// Help messages are printed automatically when the -help flag is given. The
// Output field must be set for the help to be visible.
package modalflag
