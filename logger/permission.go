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

package logger

import "sync/atomic"

// Permission implementations indicate whether a log request should result in a
// new log entry.
type Permission interface {
	AllowLogging() bool
}

type allow struct{}

func (allow) AllowLogging() bool {
	return true
}

// Allow is the Permission to use when an entry should always be made.
var Allow Permission = allow{}

// Switch is a Permission that can be turned on and off at runtime. Useful for
// high volume entries that are only wanted some of the time. The zero value
// denies logging.
type Switch struct {
	on atomic.Bool
}

// Set the state of the switch.
func (s *Switch) Set(on bool) {
	s.on.Store(on)
}

// AllowLogging implements the Permission interface.
func (s *Switch) AllowLogging() bool {
	return s.on.Load()
}
