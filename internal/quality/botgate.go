package quality

// HoneypotField is the name of the hidden, non-tabbable form input rendered by the UI.
const HoneypotField = "website"

// IsHuman reports whether the honeypot field was left empty. Any value means
// the form was filled by a script: a human never sees the field.
func IsHuman(honeypotValue string) bool {
	return honeypotValue == ""
}
