package plugin

import "errors"

var (
	// ErrManagerClosed is returned by operations on a closed manager.
	ErrManagerClosed = errors.New("plugin: manager is closed")

	// ErrAlreadyLoaded is returned when a plugin with the same name is
	// already loaded.
	ErrAlreadyLoaded = errors.New("plugin: already loaded")
)
