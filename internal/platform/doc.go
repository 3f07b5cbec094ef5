package platform

// Package platform contains OS integration and external tooling glue:
// download folder discovery, revealing finished files in the system file
// manager, and playlist expansion through the ytdlp library.
