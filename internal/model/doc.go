package model

// Package model defines domain data structures used across the app: queued
// downloads, their options snapshot and metadata, playlists, and the status
// enum. Structures are plain values so snapshots can be copied freely.
