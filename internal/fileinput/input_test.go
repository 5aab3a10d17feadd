package fileinput_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/jcorbin/gotape/internal/byteio"
	"github.com/jcorbin/gotape/internal/fileinput"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Input(t *testing.T) {
	in := fileinput.Input{Queue: []io.Reader{
		byteio.NamedReader("first", strings.NewReader("ab\ncd")),
		strings.NewReader(""),
		byteio.NamedReader("third", strings.NewReader("e")),
	}}

	var got []byte
	for {
		b, err := in.ReadByte()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, b)

		if len(got) == 3 {
			assert.Equal(t, `first:1 "ab"`, in.Last.String(), "expected last line after line feed")
			assert.Equal(t, fileinput.Location{Name: "first", Line: 2}, in.Scan.Location)
		}
	}
	assert.Equal(t, "ab\ncde", string(got))
	assert.Equal(t, "third", in.Last.Name, "expected trailing partial line to roll over")
	assert.Equal(t, `third:1 "e"`, in.Last.String())

	_, err := in.ReadByte()
	assert.Equal(t, io.EOF, err, "expected EOF to stick")
	assert.NoError(t, in.Close())
}

func Test_Input_error(t *testing.T) {
	boom := errors.New("boom")
	in := fileinput.Input{Queue: []io.Reader{
		byteio.NamedReader("bad", io.MultiReader(strings.NewReader("x"), errReader{boom})),
	}}

	b, err := in.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte('x'), b)

	_, err = in.ReadByte()
	assert.True(t, errors.Is(err, boom), "expected wrapped read error, got %v", err)
	assert.Contains(t, err.Error(), "bad:1")
}

type errReader struct{ err error }

func (er errReader) Read([]byte) (int, error) { return 0, er.err }
