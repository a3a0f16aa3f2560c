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

package prefs

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/jetsetilly/m64vcr/errors"
	"github.com/jetsetilly/m64vcr/logger"
	"github.com/spf13/afero"
)

// DefaultPrefsFile is the default filename of the global preferences file.
const DefaultPrefsFile = "preferences"

// WarningBoilerPlate is the first line of every preferences file.
const WarningBoilerPlate = "*** do not edit this file by hand ***"

// KeySep separates the key from the value in the preferences file.
const KeySep = " :: "

// NoPrefsFile is the error detail when the preferences file does not exist.
const NoPrefsFile = "no preferences file"

// Disk represents preference values as stored on disk. More than one Disk can
// share the same file. Entries in the file that do not belong to the Disk are
// preserved when the Disk is saved.
type Disk struct {
	fs      afero.Fs
	path    string
	entries map[string]pref
}

// NewDisk is the preferred method of initialisation for the Disk type.
func NewDisk(fs afero.Fs, path string) (*Disk, error) {
	return &Disk{
		fs:      fs,
		path:    path,
		entries: make(map[string]pref),
	}, nil
}

// Add preference value to list of values to store/load from Disk. The key
// must be unique to the Disk.
func (dsk *Disk) Add(key string, p pref) error {
	if strings.Contains(key, KeySep) || strings.TrimSpace(key) != key || key == "" {
		return errors.Errorf(errors.InvalidArgument, "prefs: illegal key %q", key)
	}
	if _, ok := dsk.entries[key]; ok {
		return errors.Errorf(errors.AlreadyActive, "prefs: key %q already added", key)
	}
	dsk.entries[key] = p
	return nil
}

// Reset all preferences in the Disk to their default values.
func (dsk *Disk) Reset() error {
	for _, p := range dsk.entries {
		if err := p.Reset(); err != nil {
			return err
		}
	}
	return nil
}

// read the preferences file. the returned map contains every entry in the
// file, not just the entries that belong to the Disk
func (dsk *Disk) read() (map[string]string, error) {
	f, err := dsk.fs.Open(dsk.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.FileError, NoPrefsFile, dsk.path)
		}
		return nil, errors.New(errors.FileError, err)
	}
	defer f.Close()

	entries := make(map[string]string)

	scanner := bufio.NewScanner(f)

	// the first line must be the boiler plate warning
	scanner.Scan()
	if len(scanner.Text()) > 0 && scanner.Text() != WarningBoilerPlate {
		return nil, errors.Errorf(errors.CorruptFormat, "prefs: not a valid preferences file (%s)", dsk.path)
	}

	for scanner.Scan() {
		spt := strings.SplitN(scanner.Text(), KeySep, 2)

		// ignore lines that haven't been split successfully
		if len(spt) != 2 {
			continue
		}

		entries[spt[0]] = spt[1]
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.New(errors.FileError, err)
	}

	return entries, nil
}

// Save current preference values to disk.
func (dsk *Disk) Save() error {
	entries, err := dsk.read()
	if err != nil {
		if !errors.Is(err, errors.FileError) {
			return err
		}
		entries = make(map[string]string)
	}

	for k, p := range dsk.entries {
		entries[k] = p.String()
	}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	s := strings.Builder{}
	s.WriteString(WarningBoilerPlate)
	s.WriteString("\n")
	for _, k := range keys {
		s.WriteString(fmt.Sprintf("%s%s%s\n", k, KeySep, entries[k]))
	}

	err = afero.WriteFile(dsk.fs, dsk.path, []byte(s.String()), 0644)
	if err != nil {
		return errors.New(errors.FileError, err)
	}

	return nil
}

// Load preference values from disk. If saveOnFail is true and the preferences
// file does not exist then the current values are saved to a new file.
//
// Values on the top of the command line stack override the values in the file.
func (dsk *Disk) Load(saveOnFail bool) error {
	entries, err := dsk.read()
	if err != nil {
		if !errors.Is(err, errors.FileError) || !saveOnFail {
			dsk.commandLine()
			return err
		}
		logger.Logf(logger.Allow, "prefs", "creating %s", dsk.path)
		if err := dsk.Save(); err != nil {
			return err
		}
		entries = nil
	}

	for k, v := range entries {
		if p, ok := dsk.entries[k]; ok {
			if err := p.Set(v); err != nil {
				return err
			}
		}
	}

	dsk.commandLine()

	return nil
}

// apply command line overrides
func (dsk *Disk) commandLine() {
	for k, p := range dsk.entries {
		if ok, v := GetCommandLinePref(k); ok {
			if err := p.Set(v); err != nil {
				logger.Logf(logger.Allow, "prefs", "%s: %v", k, err)
			}
		}
	}
}

func (dsk *Disk) String() string {
	keys := make([]string, 0, len(dsk.entries))
	for k := range dsk.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	s := strings.Builder{}
	for _, k := range keys {
		s.WriteString(fmt.Sprintf("%s%s%s\n", k, KeySep, dsk.entries[k]))
	}
	return s.String()
}
