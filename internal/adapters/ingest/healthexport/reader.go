// Package healthexport streams structural events from an Apple Health export file
package healthexport

import (
	"encoding/xml"
	"io"
	"strings"

	perr "vitals/internal/platform/errors"
)

// Reader tokenizes an export document incrementally
// it never buffers the whole document and tolerates arbitrary chunking
type Reader struct {
	rc       io.ReadCloser
	dec      *xml.Decoder
	err      error
	elements int
}

// NewReader creates a Reader over the given source
func NewReader(rc io.ReadCloser) *Reader {
	dec := xml.NewDecoder(rc)
	// exports are declared utf-8 but carry stray encodings at times
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) { return input, nil }
	return &Reader{rc: rc, dec: dec}
}

// Next returns the next Open or Close event in document order
// returns io.EOF at end of document and a markup error on malformed input
func (rd *Reader) Next() (Element, error) {
	if rd.err != nil {
		return Element{}, rd.err
	}
	for {
		tok, err := rd.dec.Token()
		if err != nil {
			rd.err = classify(err)
			return Element{}, rd.err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			attrs := make(Attrs, len(t.Attr))
			for _, a := range t.Attr {
				attrs[strings.ToLower(a.Name.Local)] = a.Value
			}
			rd.elements++
			return Element{Kind: Open, Name: strings.ToLower(t.Name.Local), Attrs: attrs}, nil
		case xml.EndElement:
			return Element{Kind: Close, Name: strings.ToLower(t.Name.Local)}, nil
		default:
			// character data, comments, directives: structural noise
			continue
		}
	}
}

// Stats returns the element count and how many source bytes have been consumed
func (rd *Reader) Stats() (elements int, bytes int64) {
	return rd.elements, rd.dec.InputOffset()
}

// Close closes the underlying source
func (rd *Reader) Close() error { return rd.rc.Close() }

// classify maps decoder errors onto the pipeline's error kinds
// end of document passes through as io.EOF so callers can range cleanly
func classify(err error) error {
	if err == io.EOF {
		return io.EOF
	}
	if se, ok := err.(*xml.SyntaxError); ok {
		return perr.Markupf("malformed export markup at line %d: %s", se.Line, se.Msg)
	}
	if err == io.ErrUnexpectedEOF {
		return perr.Markupf("export truncated mid document")
	}
	return perr.Wrap(err, perr.ErrorCodeSourceIO, "read export source")
}
