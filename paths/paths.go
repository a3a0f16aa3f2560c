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

package paths

import (
	"os"
	"path/filepath"

	"github.com/jetsetilly/m64vcr/errors"
	"github.com/spf13/afero"
)

// the base path for all resources when it is present in the current directory
const localResourcePath = ".m64vcr"

// the name of the directory in the user's config directory
const configDir = "m64vcr"

// ResourcePath returns the path to a resource. The subPth argument is the
// directory of the resource, relative to the base path, and is created if
// necessary. Either argument can be empty.
func ResourcePath(fs afero.Fs, subPth string, file string) (string, error) {
	base, err := getBasePath(fs)
	if err != nil {
		return "", errors.New(errors.FileError, err)
	}

	dir := filepath.Join(base, subPth)
	if err := fs.MkdirAll(dir, 0700); err != nil {
		return "", errors.New(errors.FileError, err)
	}

	return filepath.Join(dir, file), nil
}

func getBasePath(fs afero.Fs) (string, error) {
	if ok, _ := afero.DirExists(fs, localResourcePath); ok {
		return localResourcePath, nil
	}

	cnf, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(cnf, configDir), nil
}
