// Package notify delivers messages to users and the administrator. Delivery
// is best effort: a failed send is logged and swallowed so that secondary
// effects never roll back a primary write.
package notify

// Notifier is the notification gateway the core services talk to.
type Notifier interface {
	// Send delivers a plain-text message.
	Send(chatID int64, text string)
	// SendMarkdown delivers a Markdown message, degrading to plain text if
	// the transport rejects the formatting.
	SendMarkdown(chatID int64, text string)
	// SendDocument delivers a named file with a caption.
	SendDocument(chatID int64, name string, data []byte, caption string)
	// SendPhoto delivers a local image file with a caption.
	SendPhoto(chatID int64, path string, caption string)
}

// Discard is a Notifier that drops everything. Used in tests and when the
// transport is not configured.
type Discard struct{}

func (Discard) Send(int64, string)                    {}
func (Discard) SendMarkdown(int64, string)            {}
func (Discard) SendDocument(int64, string, []byte, string) {}
func (Discard) SendPhoto(int64, string, string)       {}
