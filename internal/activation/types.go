package activation

import "time"

// EndpointPath is the single recognized endpoint on the loopback listener
const EndpointPath = "/activate"

// Request is the message the hotkey helper sends. No field is trusted for
// authorization; only the bearer credential is. The body is advisory: an
// authenticated request with an unparsable body is still activated.
type Request struct {
	Hotkey    string    `json:"hotkey"`
	ActiveApp string    `json:"activeApp"`
	Timestamp time.Time `json:"timestamp"`
}

// Record is the on-disk discovery record a second process reads to find
// the listener. It is exclusively owned and overwritten by the running
// daemon; helpers only ever read it.
type Record struct {
	Port    int       `json:"port"`
	Token   string    `json:"token"`
	Created time.Time `json:"created"`
}
