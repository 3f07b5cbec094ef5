package api

// Package api exposes the download coordinator over HTTP for headless use.
// Each route maps one presentation intent (submit, retry, cancel, remove,
// open location) onto a coordinator call, and a websocket streams
// coordinator events so remote views can re-render.
