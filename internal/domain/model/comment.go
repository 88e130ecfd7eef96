package model

import "fmt"

// Marker returns the hidden HTML comment embedded at the top of a managed
// note so later runs can find it. Exactly one marker exists per managed note;
// the rendered payload must never contain the marker text itself.
func Marker(identifier string) string {
	return fmt.Sprintf("<!-- %s -->", identifier)
}

// TagBody prefixes body with the marker for identifier, producing the exact
// text stored in the note.
func TagBody(identifier, body string) string {
	return Marker(identifier) + "\n" + body
}
