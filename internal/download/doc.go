package download

// Package download implements the queue coordinator. It owns the ordered
// download store, dispatches each download to the engine, reconciles the
// engine's asynchronous events onto the records, and notifies subscribers
// so presentation layers can re-render.
