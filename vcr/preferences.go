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

package vcr

import (
	"github.com/jetsetilly/m64vcr/errors"
	"github.com/jetsetilly/m64vcr/movie"
	"github.com/jetsetilly/m64vcr/paths"
	"github.com/jetsetilly/m64vcr/prefs"
	"github.com/spf13/afero"
)

// Preferences defines and collates all the preference values used by the VCR.
type Preferences struct {
	dsk *prefs.Disk

	// savestates loaded while a movie is active do not alter the movie
	ReadOnly prefs.Bool

	// author used when StartRecording() is called with an empty author
	Author prefs.String

	// number of frames between automatic writes of the movie file while
	// recording. zero means the file is only written when the recording stops
	FlushInterval prefs.Int
}

// default number of frames between automatic flushes. ten seconds of NTSC
// input
const defaultFlushInterval = 600

func (p *Preferences) String() string {
	return p.dsk.String()
}

// newPreferences is the preferred method of initialisation for the Preferences type.
func newPreferences(fs afero.Fs) (*Preferences, error) {
	p := &Preferences{}
	p.SetDefaults()

	p.Author.SetMaxLen(movie.MaxAuthor)
	p.FlushInterval.SetHookPre(func(v prefs.Value) error {
		if v.(int) < 0 {
			return errors.Errorf(errors.InvalidArgument, "flush interval cannot be negative (%d)", v.(int))
		}
		return nil
	})

	pth, err := paths.ResourcePath(fs, "", prefs.DefaultPrefsFile)
	if err != nil {
		return nil, err
	}
	p.dsk, err = prefs.NewDisk(fs, pth)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("vcr.readonly", &p.ReadOnly)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("vcr.author", &p.Author)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("vcr.flushinterval", &p.FlushInterval)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Load(true)
	if err != nil {
		return nil, err
	}

	return p, nil
}

// SetDefaults reverts all VCR preferences to the default values.
func (p *Preferences) SetDefaults() {
	_ = p.ReadOnly.Set(false)
	_ = p.Author.Set("")
	_ = p.FlushInterval.Set(defaultFlushInterval)
}

// Load VCR preferences from disk.
func (p *Preferences) Load() error {
	return p.dsk.Load(false)
}

// Save current VCR preferences to disk.
func (p *Preferences) Save() error {
	return p.dsk.Save()
}
