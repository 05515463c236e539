package types

import "sync"

// AppChannels bundles the communication channels between the application
// core and its frontends. The frontend sends requests on Input and
// confirmation answers on Confirmation; the core emits everything it does
// on Event.
type AppChannels struct {
	// Input carries user requests into the core.
	Input chan *Input

	// Event carries core events out to the frontend.
	Event chan *AppEvent

	// Confirmation carries the user's answers to pending run confirmations.
	Confirmation chan *ConfirmationResponse

	// Shutdown is closed by the frontend to request a graceful stop.
	Shutdown chan struct{}

	// Done is closed by the core once its event loop has fully stopped.
	Done chan struct{}

	closeOnce sync.Once
}

// NewAppChannels creates a channel set with the given buffer size for the
// input, event, and confirmation channels.
func NewAppChannels(bufferSize int) *AppChannels {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &AppChannels{
		Input:        make(chan *Input, bufferSize),
		Event:        make(chan *AppEvent, bufferSize),
		Confirmation: make(chan *ConfirmationResponse, bufferSize),
		Shutdown:     make(chan struct{}),
		Done:         make(chan struct{}),
	}
}

// Close marks the core as stopped. Safe to call multiple times; the
// channels the frontend sends on are left open so late senders do not
// panic.
func (c *AppChannels) Close() {
	c.closeOnce.Do(func() {
		close(c.Done)
	})
}
