package mvf

import "errors"

var (
	// ErrUnsupportedFormat is returned when the package path does not
	// carry a recognized container extension (.zip or .mvf).
	ErrUnsupportedFormat = errors.New("unsupported package format")

	// ErrPackageUnreadable is returned when the container exists but
	// cannot be opened as a ZIP archive.
	ErrPackageUnreadable = errors.New("package unreadable")
)
