//go:build !statsview

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

package statsview

import "io"

// Address of the stats server. Empty because the server is not available in
// this build.
const Address = ""

// Launch does nothing in this build. The returned function is safe to call.
func Launch(output io.Writer) func() {
	return func() {}
}

// Available returns false because the statsview was not included in this
// build. Build with the statsview tag to include it.
func Available() bool {
	return false
}
