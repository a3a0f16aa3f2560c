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

// Package notifications allow communication from the VCR and the encoder
// directly to the front-end. A front-end registers a single callback with
// SetErrorCallback() and it is up to the front-end to decide where and how the
// message is displayed.
//
// Messages are delivered synchronously, on the goroutine that raised them.
// Registering a new callback replaces the previous one.
//
// If no callback has been registered then the message is dropped and Notify()
// returns false. There is no fallback to the logger package. Front-ends that
// want a record of notifications should log them in the callback.
package notifications
