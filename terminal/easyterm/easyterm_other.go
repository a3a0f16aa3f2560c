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

//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd

package easyterm

import (
	"fmt"
	"os"
)

// Terminal is not supported on this platform.
type Terminal struct{}

// Initialise always fails on this platform.
func (pt *Terminal) Initialise(inputFile, outputFile *os.File) error {
	return fmt.Errorf("easyterm: terminal not supported on this platform")
}

func (pt *Terminal) CleanUp()                 {}
func (pt *Terminal) Print(s string, a ...any) {}
func (pt *Terminal) CanonicalMode() error     { return nil }
func (pt *Terminal) CBreakMode() error        { return nil }
func (pt *Terminal) Flush() error             { return nil }
func (pt *Terminal) Input() *os.File          { return nil }
