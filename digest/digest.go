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

// Package digest creates fingerprints of controller input. A digest is a
// chained SHA-1 hash: the hash for each frame includes the hash of the previous
// frame. Two input streams with the same digest are identical, frame for frame.
//
// Digests are useful for checking that a movie played back produces exactly
// the input that was recorded.
package digest

// Digest implementations compute a fingerprint of a stream of data.
type Digest interface {
	Hash() string
	ResetDigest()
}
