package byteio

import (
	"bufio"
	"io"
)

// Reader is an io.Reader that also supports reading single bytes.
type Reader interface {
	io.Reader
	io.ByteReader
}

// NewReader returns a Reader from r; if r already implements, it is simply returned.
// Otherwise bufio.Reader is used to provide byte reading around the given reader.
// If the r implements Name() string, so will the returned Reader.
func NewReader(r io.Reader) Reader {
	if impl, ok := r.(Reader); ok {
		return impl
	}
	br := byteReader{r, bufio.NewReader(r)}
	if impl, ok := r.(interface{ Name() string }); ok {
		return namedByteReader{br, impl.Name()}
	}
	return br
}

type byteReader struct {
	closer io.Reader
	*bufio.Reader
}

// Close closes the underlying reader, if it is an io.Closer.
func (br byteReader) Close() error {
	if cl, ok := br.closer.(io.Closer); ok {
		return cl.Close()
	}
	return nil
}

type namedByteReader struct {
	byteReader
	name string
}

func (nr namedByteReader) Name() string { return nr.name }

// NamedReader attaches a name to r, as reported by Name() string.
func NamedReader(name string, r io.Reader) io.Reader {
	return namedReader{r, name}
}

type namedReader struct {
	io.Reader
	name string
}

func (nr namedReader) Name() string { return nr.name }
