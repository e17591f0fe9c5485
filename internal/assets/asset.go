// Package assets downloads, stores and decodes game logos and screenshots.
package assets

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultHost serves Flashpoint logos and screenshots.
const DefaultHost = "https://infinity.unstable.life"

// Kind identifies the type of image.
type Kind string

const (
	KindLogo       Kind = "logo"
	KindScreenshot Kind = "screenshot"
)

// Box returns the display bounds for images of this kind.
func (k Kind) Box() (width, height int) {
	if k == KindScreenshot {
		return 400, 200
	}
	return 200, 200
}

func (k Kind) remoteDir() string {
	if k == KindScreenshot {
		return "Screenshots"
	}
	return "Logos"
}

// Asset is one image belonging to a game.
type Asset struct {
	GameID string
	Kind   Kind
}

// Logo returns the logo asset of a game.
func Logo(gameID string) Asset {
	return Asset{GameID: gameID, Kind: KindLogo}
}

// Screenshot returns the screenshot asset of a game.
func Screenshot(gameID string) Asset {
	return Asset{GameID: gameID, Kind: KindScreenshot}
}

// ID is the in-flight key and local file stem.
func (a Asset) ID() string {
	if a.Kind == KindScreenshot {
		return a.GameID + "_screenshot"
	}
	return a.GameID
}

// URL returns the remote location of the image on host.
func (a Asset) URL(host string) string {
	id := a.GameID
	return fmt.Sprintf("%s/images/%s/%s/%s/%s.png?type=jpg",
		strings.TrimRight(host, "/"), a.Kind.remoteDir(), span(id, 0, 2), span(id, 2, 4), id)
}

// Path returns the local file for the image under dataDir.
func (a Asset) Path(dataDir string) string {
	return filepath.Join(dataDir, a.ID()+".png")
}

func (a Asset) String() string {
	return string(a.Kind) + ":" + a.GameID
}

// span slices s like s[from:to], clamped to its length.
func span(s string, from, to int) string {
	if from > len(s) {
		return ""
	}
	if to > len(s) {
		to = len(s)
	}
	return s[from:to]
}
