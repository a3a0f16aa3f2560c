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

package playmode

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jetsetilly/m64vcr/buttons"
	"github.com/jetsetilly/m64vcr/errors"
	"github.com/jetsetilly/m64vcr/movie"
	"github.com/spf13/afero"
)

const (
	scriptComment   = "#"
	scriptSeparator = "|"
	scriptRepeat    = "*"
)

type scriptLine struct {
	input  Input
	repeat int
}

// ScriptSource is an InputSource that reads input from a script.
type ScriptSource struct {
	lines []scriptLine

	// current position in the script
	line   int
	repeat int

	current Input
}

// ReadScript reads a script file from the filesystem.
func ReadScript(fs afero.Fs, path string) (*ScriptSource, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, errors.New(errors.FileError, err)
	}
	defer f.Close()

	scr, err := ParseScript(f)
	if err != nil {
		return nil, errors.New(errors.InvalidArgument, path, err)
	}
	return scr, nil
}

// ParseScript parses script data from an io.Reader.
func ParseScript(r io.Reader) (*ScriptSource, error) {
	scr := &ScriptSource{}

	scanner := bufio.NewScanner(r)
	num := 0
	for scanner.Scan() {
		num++

		s := strings.TrimSpace(scanner.Text())
		if s == "" || strings.HasPrefix(s, scriptComment) {
			continue // for loop
		}

		l := scriptLine{repeat: 1}

		if i := strings.Index(s, scriptRepeat); i > 0 {
			n, err := strconv.Atoi(strings.TrimSpace(s[:i]))
			if err == nil {
				if n < 1 {
					return nil, errors.Errorf(errors.InvalidArgument, "line %d: repeat count must be positive", num)
				}
				l.repeat = n
				s = s[i+len(scriptRepeat):]
			}
		}

		fields := strings.Split(s, scriptSeparator)
		if len(fields) > buttons.MaxControllers {
			return nil, errors.Errorf(errors.InvalidArgument, "line %d: too many controllers (%d)", num, len(fields))
		}
		for ch, f := range fields {
			b, err := buttons.Parse(f)
			if err != nil {
				return nil, errors.Errorf(errors.InvalidArgument, "line %d: %v", num, err)
			}
			l.input[ch] = b
		}

		scr.lines = append(scr.lines, l)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.New(errors.FileError, err)
	}

	return scr, nil
}

// Frames returns the number of frames of input in the script.
func (scr *ScriptSource) Frames() int {
	var n int
	for _, l := range scr.lines {
		n += l.repeat
	}
	return n
}

// Rewind to the beginning of the script.
func (scr *ScriptSource) Rewind() {
	scr.line = 0
	scr.repeat = 0
	scr.current = Input{}
}

// Poll implements the InputSource interface. Polling channel zero moves to the
// next frame. Returns io.EOF when there are no more frames.
func (scr *ScriptSource) Poll(channel int) (buttons.Buttons, error) {
	if channel < 0 || channel >= buttons.MaxControllers {
		return 0, errors.Errorf(errors.OutOfRange, "channel %d", channel)
	}

	if channel == 0 {
		if scr.line >= len(scr.lines) {
			return 0, io.EOF
		}
		scr.current = scr.lines[scr.line].input
		scr.repeat++
		if scr.repeat >= scr.lines[scr.line].repeat {
			scr.line++
			scr.repeat = 0
		}
	}

	return scr.current[channel], nil
}

// WriteScript writes the input of a movie in the script format. Consecutive
// frames with the same input are written as a single line with a repeat count.
func WriteScript(w io.Writer, m *movie.Movie) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "%s %s\n", scriptComment, m); err != nil {
		return errors.New(errors.FileError, err)
	}

	var prev Input
	count := 0

	flush := func() error {
		if count == 0 {
			return nil
		}
		var err error
		if count > 1 {
			_, err = fmt.Fprintf(bw, "%d%s %s\n", count, scriptRepeat, prev)
		} else {
			_, err = fmt.Fprintf(bw, "%s\n", prev)
		}
		if err != nil {
			return errors.New(errors.FileError, err)
		}
		return nil
	}

	for f, total := 0, m.TotalLength(); f < total; f++ {
		var in Input
		for _, c := range m.Controllers.Channels() {
			b, err := m.Input.Get(c, f)
			if err != nil {
				return err
			}
			in[c] = b
		}

		if count > 0 && in == prev {
			count++
			continue // for loop
		}
		if err := flush(); err != nil {
			return err
		}
		prev = in
		count = 1
	}

	if err := flush(); err != nil {
		return err
	}

	if err := bw.Flush(); err != nil {
		return errors.New(errors.FileError, err)
	}

	return nil
}
