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

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/bradleyjkemp/memviz"
	"github.com/jetsetilly/m64vcr/buttons"
	"github.com/jetsetilly/m64vcr/digest"
	"github.com/jetsetilly/m64vcr/encoder"
	"github.com/jetsetilly/m64vcr/errors"
	"github.com/jetsetilly/m64vcr/logger"
	"github.com/jetsetilly/m64vcr/modalflag"
	"github.com/jetsetilly/m64vcr/movie"
	"github.com/jetsetilly/m64vcr/notifications"
	"github.com/jetsetilly/m64vcr/paths"
	"github.com/jetsetilly/m64vcr/playmode"
	"github.com/jetsetilly/m64vcr/prefs"
	"github.com/jetsetilly/m64vcr/statsview"
	"github.com/jetsetilly/m64vcr/terminal/easyterm"
	"github.com/jetsetilly/m64vcr/vcr"
	"github.com/jetsetilly/m64vcr/version"
	"github.com/spf13/afero"
)

// exit values
const (
	exitOK    = 0
	exitParse = 10
	exitMode  = 20
)

func main() {
	// ctrl-c ends the current mode cleanly. the movie being recorded is
	// written to disk before the program exits
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	exitVal := launch(ctx, os.Args[1:], afero.NewOsFs(), os.Stdout)

	stop()
	os.Exit(exitVal)
}

// launch the mode specified by the command line arguments. returns the exit
// value of the program.
func launch(ctx context.Context, args []string, fs afero.Fs, output io.Writer) int {
	md := &modalflag.Modes{Output: output}
	md.NewArgs(args)
	log := md.AddBool("log", false, "echo log to stdout")
	prf := md.AddString("prefs", "", "override preferences (eg. \"vcr.readonly::true; vcr.author::Alice\")")
	md.AddSubModes("PLAY", "RECORD", "INFO", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return exitOK
	case modalflag.ParseError:
		fmt.Fprintf(output, "* error: %v\n", err)
		return exitParse
	}

	if *log {
		logger.SetEcho(output, false)
		defer logger.SetEcho(nil, false)
	}

	if *prf != "" {
		prefs.PushCommandLineStack(*prf)
		defer func() {
			if unused := prefs.PopCommandLineStack(); unused != "" {
				logger.Logf(logger.Allow, "m64vcr", "unused preferences: %s", unused)
			}
		}()
	}

	switch md.Mode() {
	case "PLAY":
		err = play(ctx, md, fs, output)
	case "RECORD":
		err = record(ctx, md, fs, output)
	case "INFO":
		err = info(md, fs, output)
	case "VERSION":
		fmt.Fprintln(output, version.String())
	}

	if err != nil {
		fmt.Fprintf(output, "* error in %s mode: %s\n", md, err)
		return exitMode
	}

	return exitOK
}

// print notifications from the VCR to the output
func notifier(output io.Writer) notifications.MsgFunc {
	return func(level notifications.Level, msg string) bool {
		if level > notifications.LevelInfo {
			return false
		}
		fmt.Fprintf(output, "* %s: %s\n", level, msg)
		return true
	}
}

// startTypeFlag implements the flag.Value interface.
type startTypeFlag struct {
	movie.StartType
}

func (s *startTypeFlag) Set(v string) error {
	var err error
	s.StartType, err = movie.ParseStartType(v)
	return err
}

// parse the ROM information given on the command line
func romInfo(name string, crc string, country string) (movie.ROMInfo, error) {
	rom := movie.ROMInfo{Name: name}

	if crc != "" {
		v, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(crc), "0x"), 16, 32)
		if err != nil {
			return rom, errors.Errorf(errors.InvalidArgument, "crc: %s", crc)
		}
		rom.CRC = uint32(v)
	}

	switch len(country) {
	case 0:
		rom.Country = 'E'
	case 1:
		rom.Country = uint16(country[0])
	default:
		return rom, errors.Errorf(errors.InvalidArgument, "country code must be a single character: %s", country)
	}

	return rom, nil
}

// start the encoder if a path has been given. the returned function stops the
// encoder and must always be called
func startEncoder(fs afero.Fs, path string, loop *playmode.Loop) (func(), error) {
	if path == "" {
		return func() {}, nil
	}

	enc := encoder.NewEncoder(encoder.NewWAVBackend(fs), nil)
	if err := enc.Start(path, encoder.FormatWAV); err != nil {
		return nil, err
	}
	loop.AttachEncoder(enc)

	return enc.Shutdown, nil
}

func record(ctx context.Context, md *modalflag.Modes, fs afero.Fs, output io.Writer) error {
	md.NewMode()

	start := &startTypeFlag{StartType: movie.FromReset}
	md.AddVar(start, "start", "start of movie: snapshot, reset, eeprom")
	author := md.AddString("author", "", "author of the movie (default from preferences)")
	desc := md.AddString("desc", "", "description of the movie")
	controllers := md.AddInt("controllers", 1, "number of controllers (1 to 4)")
	romName := md.AddString("rom", "", "name of the ROM")
	romCRC := md.AddString("crc", "", "CRC of the ROM (hexadecimal)")
	romCountry := md.AddString("country", "E", "country code of the ROM")
	script := md.AddString("script", "", "read input from script file instead of the keyboard")
	wav := md.AddString("wav", "", "record audio to wav file")
	maxFrames := md.AddInt("maxframes", 0, "maximum length of recording in frames (0 is no limit)")
	md.AdditionalHelp("keyboard controls:\n" + playmode.KeyboardHelp())

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if err := md.ExpectArgs(0, 1); err != nil {
		return err
	}

	if *controllers < 1 || *controllers > buttons.MaxControllers {
		return errors.Errorf(errors.InvalidArgument, "number of controllers must be between 1 and %d", buttons.MaxControllers)
	}

	rom, err := romInfo(*romName, *romCRC, *romCountry)
	if err != nil {
		return err
	}

	path := md.GetArg(0)
	if path == "" {
		path = paths.UniqueFilename("movie", rom.Name) + ".m64"
	}

	var source playmode.InputSource
	var term *easyterm.Terminal

	if *script != "" {
		scr, err := playmode.ReadScript(fs, *script)
		if err != nil {
			return err
		}
		source = scr
	} else {
		term = &easyterm.Terminal{}
		if err := term.Initialise(os.Stdin, os.Stdout); err != nil {
			return err
		}
		defer term.CleanUp()
		source = playmode.NewKeyboardSource(term.Input())
	}

	console := playmode.NewConsole(fs, rom, source)

	session, err := vcr.NewSession(fs, console)
	if err != nil {
		return err
	}
	session.SetErrorCallback(notifier(output))
	session.SetMaxFrames(*maxFrames)

	if *author == "" {
		*author = session.Prefs.Author.String()
	}

	m, err := movie.New(*author, *desc, start.StartType, buttons.FirstN(*controllers))
	if err != nil {
		return err
	}

	if err := session.StartRecordingMovie(path, m); err != nil {
		return err
	}

	loop := playmode.NewLoop(session, console)
	stopEncoder, err := startEncoder(fs, *wav, loop)
	if err != nil {
		_ = session.Shutdown()
		return err
	}
	defer stopEncoder()

	if term != nil {
		if err := term.CBreakMode(); err != nil {
			_ = session.Shutdown()
			return err
		}

		// keys pressed before recording started are not part of the movie
		if err := term.Flush(); err != nil {
			logger.Log(logger.Allow, "m64vcr", err)
		}
		term.Print("%s\n", playmode.KeyboardHelp())
		loop.SetFPS(int(movie.VIsPerSecond(rom.Country)))
	}

	n, err := loop.Run(ctx, 0)

	// shutdown writes the movie whatever the result of the loop
	if serr := session.Shutdown(); serr != nil && err == nil {
		err = serr
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(output, "recorded %d frames to %s\n", n, path)

	return nil
}

func play(ctx context.Context, md *modalflag.Modes, fs afero.Fs, output io.Writer) error {
	md.NewMode()

	dig := md.AddBool("digest", false, "print digest of input after playback")
	quiet := md.AddBool("quiet", false, "do not print the input of every frame")
	wav := md.AddString("wav", "", "record audio to wav file")
	fps := md.AddInt("fps", 0, "frames per second (0 is as fast as possible)")
	stats := md.AddBool("statsview", false, "run stats server")
	trace := md.AddBool("trace", false, "add the input of every frame to the log")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if err := md.ExpectArgs(1, 1); err != nil {
		return err
	}
	path := md.GetArg(0)

	if *stats {
		if !statsview.Available() {
			return errors.New(errors.InvalidArgument, "statsview not available in this build")
		}
		defer statsview.Launch(output)()
	}

	// the console pretends to have the same ROM as the movie
	m, err := movie.ReadFile(fs, path)
	if err != nil {
		return err
	}

	console := playmode.NewConsole(fs, m.ROM, nil)

	session, err := vcr.NewSession(fs, console)
	if err != nil {
		return err
	}
	session.SetErrorCallback(notifier(output))

	if err := session.StartMovie(path); err != nil {
		return err
	}

	loop := playmode.NewLoop(session, console)
	loop.SetFPS(*fps)
	loop.Trace.Set(*trace)

	var d *digest.Input
	if *dig {
		d = digest.NewInput()
		loop.AttachDigest(d)
	}

	if !*quiet {
		loop.SetFrameHook(func(f playmode.Frame) {
			fmt.Fprintln(output, f)
		})
	}

	stopEncoder, err := startEncoder(fs, *wav, loop)
	if err != nil {
		_ = session.Shutdown()
		return err
	}
	defer stopEncoder()

	n, err := loop.Run(ctx, 0)
	if serr := session.Shutdown(); serr != nil && err == nil {
		err = serr
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(output, "played %d of %d frames\n", n, m.TotalLength())
	if d != nil {
		fmt.Fprintf(output, "digest: %s\n", d.Hash())
	}

	return nil
}

func info(md *modalflag.Modes, fs afero.Fs, output io.Writer) error {
	md.NewMode()

	dig := md.AddBool("digest", false, "print digest of input")
	script := md.AddString("script", "", "write input as a script to file (- for stdout)")
	viz := md.AddString("memviz", "", "write graph of movie structure to dot file")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if err := md.ExpectArgs(1, 1); err != nil {
		return err
	}

	m, err := movie.ReadFile(fs, md.GetArg(0))
	if err != nil {
		return err
	}

	fmt.Fprintf(output, "uid:          %d\n", m.UID)
	fmt.Fprintf(output, "author:       %s\n", m.Author)
	fmt.Fprintf(output, "description:  %s\n", m.Description)
	fmt.Fprintf(output, "start:        %s\n", m.StartType)
	fmt.Fprintf(output, "rom:          %s\n", m.ROM)
	fmt.Fprintf(output, "controllers:  %s\n", m.Controllers)
	fmt.Fprintf(output, "frames:       %d\n", m.TotalLength())
	fmt.Fprintf(output, "vi count:     %d (%d per second)\n", m.VICount, m.VIsPerSecond)
	fmt.Fprintf(output, "duration:     %s\n", m.Duration())
	fmt.Fprintf(output, "rerecords:    %d\n", m.Rerecords)
	fmt.Fprintf(output, "input plugin: %s\n", m.Plugins.Input)

	if *dig {
		h, err := digest.Movie(m)
		if err != nil {
			return err
		}
		fmt.Fprintf(output, "digest:       %s\n", h)
	}

	if *script != "" {
		if *script == "-" {
			if err := playmode.WriteScript(output, m); err != nil {
				return err
			}
		} else {
			if err := writeFile(fs, *script, func(w io.Writer) error {
				return playmode.WriteScript(w, m)
			}); err != nil {
				return err
			}
		}
	}

	if *viz != "" {
		if err := writeFile(fs, *viz, func(w io.Writer) error {
			memviz.Map(w, m)
			return nil
		}); err != nil {
			return err
		}
	}

	return nil
}

// create file and call the write function
func writeFile(fs afero.Fs, path string, write func(io.Writer) error) error {
	f, err := fs.Create(path)
	if err != nil {
		return errors.New(errors.FileError, err)
	}

	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return errors.New(errors.FileError, err)
	}

	return nil
}
