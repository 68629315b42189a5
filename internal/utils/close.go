package utils

import "io"

// Close closes c and ignores any error.
// Use for best-effort cleanup in defer where error handling is not critical,
// typically HTTP response bodies that were already fully read.
func Close(c io.Closer) {
	_ = c.Close()
}

// DrainAndClose discards what is left of r before closing it so the
// underlying keep-alive connection can be reused.
func DrainAndClose(r io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(r, 64<<10))
	_ = r.Close()
}
