// Package monitor broadcasts live task-graph scheduling events to any
// connected Socket.IO client, for a browser-based execution dashboard. It
// runs the server half of the Socket.IO protocol.
package monitor
