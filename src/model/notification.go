package model

// Payload is the JSON document delivered to the browser service worker.
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}
