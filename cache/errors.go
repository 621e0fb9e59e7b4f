package cache

import "errors"

var (
	// ErrMixedEndianness indicates a fetched block whose words disagree on byte order.
	ErrMixedEndianness = errors.New("mixed endianness in fetched block")

	// ErrShortRead indicates the provider returned fewer words than the window needs.
	ErrShortRead = errors.New("short read")
)
