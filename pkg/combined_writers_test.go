package pkg

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

var errDiskFull = errors.New("disk full")

type failingWriter struct {
	n   int
	err error
}

func (fw *failingWriter) Write(_ []byte) (int, error) {
	return fw.n, fw.err
}

func TestCombinedWriter_Write(t *testing.T) {
	stdout := &strings.Builder{}
	stdout.WriteString("already-here")
	logFile := &strings.Builder{}

	cw := NewCombinedWriter(stdout, logFile)
	require.Len(t, cw.Writers, 2)

	for _, msg := range []string{"catalog loaded\n", "session generated\n"} {
		n, err := cw.Write([]byte(msg))
		require.NoError(t, err)
		assert.Equal(t, len(msg), n)
	}

	assert.Equal(t, "already-herecatalog loaded\nsession generated\n", stdout.String())
	assert.Equal(t, "catalog loaded\nsession generated\n", logFile.String())
}

func TestCombinedWriter_Write_OneWriterFails(t *testing.T) {
	stdout := &strings.Builder{}
	cw := NewCombinedWriter(&failingWriter{err: errDiskFull}, stdout)

	msg := "weekly system saved\n"
	n, err := cw.Write([]byte(msg))
	require.ErrorIs(t, err, errDiskFull)
	assert.Contains(t, err.Error(), "writer 0")
	assert.Equal(t, len(msg), n)
	assert.Equal(t, msg, stdout.String())
}

func TestCombinedWriter_Write_AllWritersFail(t *testing.T) {
	cw := NewCombinedWriter(
		&failingWriter{err: errDiskFull},
		&failingWriter{n: 3},
	)

	n, err := cw.Write([]byte("lost message"))
	assert.Equal(t, 0, n)
	require.ErrorIs(t, err, errDiskFull)
	require.ErrorIs(t, err, io.ErrShortWrite)
	assert.Len(t, multierr.Errors(err), 2)
}

func TestNewCombinedWriter_CopiesWriters(t *testing.T) {
	writers := []io.Writer{&strings.Builder{}}
	cw := NewCombinedWriter(writers...)
	writers[0] = nil
	assert.NotNil(t, cw.Writers[0])
}
