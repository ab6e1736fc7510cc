package aem

// Reader is the read side of the configuration store used by the assistant.
type Reader interface {
	Snapshot() Store
	FindComponent(text string) (ComponentDefinition, bool)
	FindURLInText(text string) (TrackedURL, bool)
}
