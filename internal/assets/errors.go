package assets

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is reported for requests made after Close.
	ErrClosed = errors.New("fetcher closed")
	// ErrInvalidAsset is reported for assets without a game id.
	ErrInvalidAsset = errors.New("asset has no game id")
	// ErrEmptyBody is reported when the server returns no image data.
	ErrEmptyBody = errors.New("empty image body")
	// ErrDecode is reported when the stored image cannot be decoded.
	ErrDecode = errors.New("image decode failed")
)

// FetchError describes a failed image fetch.
type FetchError struct {
	Asset  Asset
	URL    string
	Status int // HTTP status; 0 when no response was received
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.Asset, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.Asset, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
