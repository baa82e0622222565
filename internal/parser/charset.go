package parser

import (
	"io"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// NewUTF8Reader wraps an io.Reader with automatic character encoding
// detection and conversion to UTF-8. Subtitle files arrive in whatever
// encoding the uploader used (Windows-1252, ISO-8859-1, UTF-16, ...); the
// SRT parser expects UTF-8 without a byte order mark, since a leading BOM
// would corrupt the first block's sequence-number line.
//
// contentType, when known, is the response Content-Type header and takes
// part in detection; pass "" to detect from the content alone.
func NewUTF8Reader(body io.Reader, contentType string) (io.Reader, error) {
	converted, err := charset.NewReader(body, contentType)
	if err != nil {
		return nil, err
	}
	// charset.NewReader leaves a UTF-8 BOM in place when the input is
	// already UTF-8.
	return transform.NewReader(converted, unicode.BOMOverride(transform.Nop)), nil
}
