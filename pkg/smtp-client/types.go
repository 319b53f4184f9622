package smtp_client

// HeaderOverrides replaces the configured envelope addresses for a single
// message, e.g. when a notification should not accept replies.
type HeaderOverrides struct {
	From      string   `json:"from"`
	Sender    string   `json:"sender"`
	ReplyTo   []string `json:"replyTo"`
	NoReplyTo bool     `json:"noReplyTo"`
}
