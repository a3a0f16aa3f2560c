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

package notifications

import "fmt"

// Level is the severity of a notification. The values are the same as the
// message levels used by the mupen64plus front-end API.
type Level int

// List of defined levels.
const (
	LevelError Level = iota + 1
	LevelWarning
	LevelInfo
	LevelStatus
	LevelVerbose
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelInfo:
		return "info"
	case LevelStatus:
		return "status"
	case LevelVerbose:
		return "verbose"
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// MsgFunc receives a message to display. It returns true if the message was
// handled and false if it was ignored.
type MsgFunc func(level Level, msg string) bool

// Notifier is implemented by anything that can deliver a message to the
// front-end.
type Notifier interface {
	Notify(level Level, msg string) bool
}

// Channel holds the registered callback. The zero value is ready to use and
// has no callback registered.
//
// Channel is not safe for concurrent use. Like the rest of the VCR, it is
// expected to be used from the emulation goroutine.
type Channel struct {
	callback MsgFunc
}

// SetErrorCallback registers the callback. Any previously registered callback
// is discarded. A nil callback unregisters the current callback.
func (ch *Channel) SetErrorCallback(callback MsgFunc) {
	ch.callback = callback
}

// Notify delivers the message to the registered callback and returns the
// callback's result. Returns false if no callback is registered.
//
// Implements the Notifier interface.
func (ch *Channel) Notify(level Level, msg string) bool {
	if ch.callback == nil {
		return false
	}
	return ch.callback(level, msg)
}

// Notifyf is like Notify but with a formatted message.
func (ch *Channel) Notifyf(level Level, msg string, args ...any) bool {
	return ch.Notify(level, fmt.Sprintf(msg, args...))
}

// the process-wide channel
var central Channel

// Central returns the process-wide channel.
func Central() *Channel {
	return &central
}

// SetErrorCallback registers the callback with the process-wide channel.
func SetErrorCallback(callback MsgFunc) {
	central.SetErrorCallback(callback)
}

// Notify delivers a message through the process-wide channel.
func Notify(level Level, msg string) bool {
	return central.Notify(level, msg)
}
