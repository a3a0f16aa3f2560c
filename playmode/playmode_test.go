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

package playmode_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/jetsetilly/m64vcr/buttons"
	"github.com/jetsetilly/m64vcr/digest"
	"github.com/jetsetilly/m64vcr/encoder"
	"github.com/jetsetilly/m64vcr/errors"
	"github.com/jetsetilly/m64vcr/logger"
	"github.com/jetsetilly/m64vcr/movie"
	"github.com/jetsetilly/m64vcr/playmode"
	"github.com/jetsetilly/m64vcr/terminal/easyterm"
	"github.com/jetsetilly/m64vcr/vcr"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testROM = movie.ROMInfo{Name: "SUPER MARIO 64", CRC: 0x635a2bff, Country: 'E'}

const testScript = `
# two controllers
3* A | B
-
Start X:10 Y:-10 | -
# the second controller only
- | Z
`

func newSession(t *testing.T, fs afero.Fs, console *playmode.Console) *vcr.Session {
	t.Helper()
	require.NoError(t, fs.MkdirAll(".m64vcr", 0755))
	s, err := vcr.NewSession(fs, console)
	require.NoError(t, err)
	return s
}

func TestScript(t *testing.T) {
	scr, err := playmode.ParseScript(strings.NewReader(testScript))
	require.NoError(t, err)
	assert.Equal(t, 6, scr.Frames())

	expected := []playmode.Input{
		{buttons.A, buttons.B},
		{buttons.A, buttons.B},
		{buttons.A, buttons.B},
		{},
		{buttons.Start.WithAxes(10, -10)},
		{0, buttons.Z},
	}

	for f, e := range expected {
		var in playmode.Input
		for ch := range in {
			in[ch], err = scr.Poll(ch)
			require.NoError(t, err)
		}
		assert.Equal(t, e, in, "frame %d", f)
	}

	_, err = scr.Poll(0)
	assert.Equal(t, io.EOF, err)

	// rewinding starts from the beginning
	scr.Rewind()
	b, err := scr.Poll(0)
	require.NoError(t, err)
	assert.Equal(t, buttons.A, b)

	_, err = scr.Poll(4)
	assert.True(t, errors.Is(err, errors.OutOfRange))
}

func TestScriptErrors(t *testing.T) {
	for _, s := range []string{
		"A | B | Z | L | R",
		"Q",
		"0* A",
		"X:200",
	} {
		_, err := playmode.ParseScript(strings.NewReader(s))
		assert.True(t, errors.Is(err, errors.InvalidArgument), s)
	}

	_, err := playmode.ReadScript(afero.NewMemMapFs(), "missing.txt")
	assert.True(t, errors.Is(err, errors.FileError))
}

// a movie recorded from a script plays back with exactly the same input
func TestRecordAndPlayback(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "input.txt", []byte(testScript), 0644))

	scr, err := playmode.ReadScript(fs, "input.txt")
	require.NoError(t, err)

	console := playmode.NewConsole(fs, testROM, scr)
	session := newSession(t, fs, console)

	m, err := movie.New("tester", "script", movie.FromReset, buttons.FirstN(2))
	require.NoError(t, err)
	require.NoError(t, session.StartRecordingMovie("script.m64", m))

	recDigest := digest.NewInput()
	loop := playmode.NewLoop(session, console)
	loop.AttachDigest(recDigest)

	n, err := loop.Run(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.False(t, session.IsPlaying())

	m, err = movie.ReadFile(fs, "script.m64")
	require.NoError(t, err)
	assert.Equal(t, 6, m.TotalLength())
	assert.Equal(t, uint32(6), m.VICount)
	assert.Equal(t, testROM, m.ROM)

	fileDigest, err := digest.Movie(m)
	require.NoError(t, err)
	assert.Equal(t, recDigest.Hash(), fileDigest)

	// play the movie back on a console with no input of its own
	console = playmode.NewConsole(fs, testROM, nil)
	session = newSession(t, fs, console)
	require.NoError(t, session.StartMovie("script.m64"))

	var frames []playmode.Frame
	plyDigest := digest.NewInput()
	loop = playmode.NewLoop(session, console)
	loop.AttachDigest(plyDigest)
	loop.SetFrameHook(func(f playmode.Frame) {
		frames = append(frames, f)
	})

	n, err = loop.Run(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, recDigest.Hash(), plyDigest.Hash())
	assert.False(t, session.IsPlaying())

	require.Len(t, frames, 6)
	assert.True(t, frames[0].Playback)
	assert.Equal(t, 0, frames[0].MovieFrame)
	assert.Equal(t, 5, frames[5].MovieFrame)
	assert.True(t, frames[5].Ended)
	assert.False(t, frames[4].Ended)
	assert.Equal(t, playmode.Input{0, buttons.Z}, frames[5].Input)
	assert.Equal(t, "     5 - | Z [end]", frames[5].String())
	assert.Equal(t, 6, console.FrameNum())
}

func TestFrameLimit(t *testing.T) {
	fs := afero.NewMemMapFs()
	kb := playmode.NewKeyboardSource(nil)
	console := playmode.NewConsole(fs, testROM, kb)
	session := newSession(t, fs, console)

	loop := playmode.NewLoop(session, console)

	// no movie. the loop runs free
	n, err := loop.Run(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 10, n)
	assert.Equal(t, 10, loop.Frames())

	// a cancelled context stops the loop before any frames are run
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n, err = loop.Run(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	// quit command
	require.NoError(t, kb.Press('q'))
	n, err = loop.Run(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestTrace(t *testing.T) {
	fs := afero.NewMemMapFs()
	script, err := playmode.ParseScript(strings.NewReader("A\nB\nZ\n"))
	require.NoError(t, err)
	console := playmode.NewConsole(fs, testROM, script)
	session := newSession(t, fs, console)

	loop := playmode.NewLoop(session, console)
	logger.Clear()

	n, err := loop.Run(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	loop.Trace.Set(true)
	n, err = loop.Run(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	w := &strings.Builder{}
	logger.Write(w)
	assert.NotContains(t, w.String(), "frame:      - A\n")
	assert.Contains(t, w.String(), "frame:      - B\n")
	assert.Contains(t, w.String(), "frame:      - Z\n")
}

func TestFPS(t *testing.T) {
	fs := afero.NewMemMapFs()
	console := playmode.NewConsole(fs, testROM, nil)
	session := newSession(t, fs, console)

	loop := playmode.NewLoop(session, console)
	loop.SetFPS(100)

	start := time.Now()
	n, err := loop.Run(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestSaveAndLoadState(t *testing.T) {
	fs := afero.NewMemMapFs()
	kb := playmode.NewKeyboardSource(nil)
	console := playmode.NewConsole(fs, testROM, kb)
	session := newSession(t, fs, console)

	loop := playmode.NewLoop(session, console)
	assert.True(t, errors.Is(loop.LoadState(), errors.InvalidState))

	require.NoError(t, session.StartRecording("rerecord.m64", "", "", movie.FromReset))

	require.NoError(t, kb.Press('x'))
	n, err := loop.Run(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// save state is actioned at the start of the next frame
	require.NoError(t, kb.Press('['))
	require.NoError(t, kb.Press('x'))
	require.NoError(t, kb.Press('c'))
	_, err = loop.Run(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 5, session.GetCurFrame())
	assert.Equal(t, 5, console.FrameNum())

	require.NoError(t, loop.LoadState())
	assert.Equal(t, 3, session.GetCurFrame())
	assert.Equal(t, 3, console.FrameNum())
	assert.Equal(t, playmode.Input{buttons.A}, console.LastInput())

	_, err = loop.Run(context.Background(), 1)
	require.NoError(t, err)
	require.NoError(t, session.StopMovie(false))

	m, err := movie.ReadFile(fs, "rerecord.m64")
	require.NoError(t, err)
	assert.Equal(t, 4, m.TotalLength())
	assert.Equal(t, uint32(1), m.Rerecords)

	for f, e := range []buttons.Buttons{buttons.A, buttons.A, buttons.A, buttons.B} {
		b, err := m.Input.Get(0, f)
		require.NoError(t, err)
		assert.Equal(t, e, b, "frame %d", f)
	}
}

func TestLoadStateFromOtherMovie(t *testing.T) {
	fs := afero.NewMemMapFs()
	kb := playmode.NewKeyboardSource(nil)
	console := playmode.NewConsole(fs, testROM, kb)
	session := newSession(t, fs, console)
	loop := playmode.NewLoop(session, console)

	require.NoError(t, session.StartRecording("a.m64", "", "", movie.FromReset))
	_, err := loop.Run(context.Background(), 3)
	require.NoError(t, err)
	require.NoError(t, loop.SaveState())
	require.NoError(t, session.StopMovie(false))

	// a different movie
	require.NoError(t, session.StartRecording("b.m64", "", "", movie.FromReset))
	_, err = loop.Run(context.Background(), 7)
	require.NoError(t, err)

	err = loop.LoadState()
	assert.True(t, errors.Is(err, errors.InvalidState))

	// neither the machine nor the movie have moved
	assert.Equal(t, 7, session.GetCurFrame())
	assert.Equal(t, 7, console.FrameNum())
}

func TestKeyboardSource(t *testing.T) {
	kb := playmode.NewKeyboardSource(nil)

	require.NoError(t, kb.Press('x'))
	require.NoError(t, kb.Press('w'))
	require.NoError(t, kb.Press('L'))
	b, err := kb.Poll(0)
	require.NoError(t, err)
	assert.Equal(t, (buttons.A|buttons.UpDPad).WithAxes(80, 0), b)

	// pressing again releases the button
	require.NoError(t, kb.Press('x'))
	require.NoError(t, kb.Press('G'))
	b, _ = kb.Poll(0)
	assert.Equal(t, buttons.UpDPad, b)

	// other channels receive no input
	b, _ = kb.Poll(1)
	assert.Equal(t, buttons.Buttons(0), b)

	assert.True(t, errors.Is(kb.Press('?'), errors.InvalidArgument))

	assert.Equal(t, playmode.NoCommand, kb.Command())
	require.NoError(t, kb.Press(']'))
	assert.Equal(t, playmode.LoadState, kb.Command())
	assert.Equal(t, playmode.NoCommand, kb.Command())

	require.NoError(t, kb.Press(easyterm.KeyEsc))
	assert.Equal(t, playmode.Quit, kb.Command())

	assert.Contains(t, playmode.KeyboardHelp(), "x=A")
}

func TestKeyboardReader(t *testing.T) {
	kb := playmode.NewKeyboardSource(strings.NewReader("xc"))

	require.Eventually(t, func() bool {
		b, _ := kb.Poll(0)
		return b == buttons.A|buttons.B
	}, time.Second, time.Millisecond)

	// the end of the reader is a request to quit
	require.Eventually(t, func() bool {
		_, _ = kb.Poll(0)
		return kb.Command() == playmode.Quit
	}, time.Second, time.Millisecond)
}

func TestEncoding(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "input.txt", []byte(testScript), 0644))
	scr, err := playmode.ReadScript(fs, "input.txt")
	require.NoError(t, err)

	console := playmode.NewConsole(fs, testROM, scr)
	session := newSession(t, fs, console)

	wav := encoder.NewWAVBackend(fs)
	enc := encoder.NewEncoder(wav, nil)
	require.NoError(t, enc.Start("script.wav", encoder.FormatWAV))

	loop := playmode.NewLoop(session, console)
	loop.AttachEncoder(enc)

	n, err := loop.Run(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, 6*playmode.DefaultSampleRate/60, wav.Samples())

	require.NoError(t, enc.Stop(false))
	exists, err := afero.Exists(fs, "script.wav")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestConsoleSnapshot(t *testing.T) {
	fs := afero.NewMemMapFs()
	console := playmode.NewConsole(fs, testROM, nil)

	_, err := console.RunFrame(playmode.Input{buttons.Z, 0, buttons.R})
	require.NoError(t, err)
	require.NoError(t, console.SaveSnapshot("console.st"))

	require.NoError(t, console.Reset())
	assert.Equal(t, 0, console.FrameNum())

	require.NoError(t, console.LoadSnapshot("console.st"))
	assert.Equal(t, 1, console.FrameNum())
	assert.Equal(t, playmode.Input{buttons.Z, 0, buttons.R}, console.LastInput())

	assert.True(t, errors.Is(console.Restore([]byte{1, 2, 3}), errors.CorruptFormat))
	assert.True(t, errors.Is(console.LoadSnapshot("missing.st"), errors.FileError))

	// silence when no buttons are held
	_, err = console.RunFrame(playmode.Input{})
	require.NoError(t, err)
	assert.Equal(t, make([]byte, len(console.Audio())), console.Audio())

	// a tone when they are
	_, err = console.RunFrame(playmode.Input{buttons.A})
	require.NoError(t, err)
	assert.NotEqual(t, make([]byte, len(console.Audio())), console.Audio())
	assert.Equal(t, 64, console.Video().Bounds().Dx())
}

func TestWriteScript(t *testing.T) {
	m, err := movie.New("", "", movie.FromReset, buttons.FirstN(2))
	require.NoError(t, err)
	for f := 0; f < 20; f++ {
		b := buttons.A
		if f >= 15 {
			b = buttons.B.WithAxes(-5, 5)
		}
		require.NoError(t, m.Input.Append(0, b))
		require.NoError(t, m.Input.Append(1, 0))
	}

	var buf bytes.Buffer
	require.NoError(t, playmode.WriteScript(&buf, m))
	assert.Contains(t, buf.String(), "15* A\n")
	assert.Contains(t, buf.String(), "5* B X:-5 Y:5\n")

	scr, err := playmode.ParseScript(&buf)
	require.NoError(t, err)
	assert.Equal(t, 20, scr.Frames())

	dig := digest.NewInput()
	for i, n := 0, scr.Frames(); i < n; i++ {
		for ch := 0; ch < buttons.MaxControllers; ch++ {
			b, err := scr.Poll(ch)
			require.NoError(t, err)
			require.NoError(t, dig.SetKeys(ch, b))
		}
		dig.NewFrame()
	}

	expected, err := digest.Movie(m)
	require.NoError(t, err)
	assert.Equal(t, expected, dig.Hash())
}
