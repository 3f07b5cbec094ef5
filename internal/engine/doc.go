package engine

// Package engine is the adapter between the queue coordinator and the
// external download engine. It validates URLs, defines the wire protocol,
// splits the engine's byte stream into JSON event lines, and runs the engine
// as a child process.
