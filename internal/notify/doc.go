// Package notify posts a completion webhook once a task graph finishes
// running, using a resty client instead of a bare *http.Client.
package notify
