package bridge

// Package bridge is the built-in download engine. It implements the engine
// protocol (get-info and download) on top of the yt-dlp command line tool and
// is reached through the "engine" sub-command of the application binary.
