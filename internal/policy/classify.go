package policy

import (
	"regexp"
	"strings"
)

// Title markers that identify special windows.
const (
	OffscreenSourceMarker = "FOOTRON_SOURCE_WINDOW"
	PlacardMarker         = "FOOTRON_PLACARD"
	LoaderMarker          = "FOOTRON_LOADER"
)

// offscreenHackPatterns match windows that get pushed below the screen
// because there is no cleaner way to get rid of them. Patterns are anchored
// at the start of the title.
var offscreenHackPatterns = []*regexp.Regexp{
	// Chrome's screen sharing notification
	regexp.MustCompile(`^.*is sharing (your screen|a window)\.?`),
}

// Classify maps a window title to its client type. The first matching rule
// wins: offscreen-hack patterns, then the offscreen source, placard and
// loader markers.
func Classify(title string) ClientType {
	if title == "" {
		return TypeExperience
	}

	for _, pattern := range offscreenHackPatterns {
		if pattern.MatchString(title) {
			return TypeOffscreenHack
		}
	}

	switch {
	case strings.Contains(title, OffscreenSourceMarker):
		return TypeOffscreenSource
	case strings.Contains(title, PlacardMarker):
		return TypePlacard
	case strings.Contains(title, LoaderMarker):
		return TypeLoader
	}
	return TypeExperience
}
