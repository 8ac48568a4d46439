package whatsapp

import (
	"encoding/json"
	"fmt"
	"io"
)

// ObjectBusinessAccount is the only webhook object type carrying messages.
const ObjectBusinessAccount = "whatsapp_business_account"

// Inbound is one applicant message extracted from a webhook notification.
type Inbound struct {
	From      string
	ID        string
	Type      string
	Text      string
	Timestamp string
}

// Status is a delivery receipt for an outbound message.
type Status struct {
	ID          string
	RecipientID string
	Status      string
}

// Notification is the parsed content of one webhook POST.
type Notification struct {
	Messages []Inbound
	Statuses []Status
}

type payload struct {
	Object string `json:"object"`
	Entry  []struct {
		Changes []struct {
			Value struct {
				Messages []struct {
					From      string `json:"from"`
					ID        string `json:"id"`
					Timestamp string `json:"timestamp"`
					Type      string `json:"type"`
					Text      *struct {
						Body string `json:"body"`
					} `json:"text"`
					Interactive *struct {
						Type      string `json:"type"`
						ListReply *struct {
							ID    string `json:"id"`
							Title string `json:"title"`
						} `json:"list_reply"`
						ButtonReply *struct {
							ID    string `json:"id"`
							Title string `json:"title"`
						} `json:"button_reply"`
					} `json:"interactive"`
				} `json:"messages"`
				Statuses []struct {
					ID          string `json:"id"`
					RecipientID string `json:"recipient_id"`
					Status      string `json:"status"`
				} `json:"statuses"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// ParseWebhook decodes a webhook body.
//
// Text messages yield their body; interactive list and button replies yield the id of the chosen
// row. Other message types (media, location, ...) are returned with empty Text. Notifications
// for objects other than a business account are ignored.
func ParseWebhook(r io.Reader) (Notification, error) {
	var p payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return Notification{}, fmt.Errorf("decode webhook: %w", err)
	}

	var n Notification
	if p.Object != ObjectBusinessAccount {
		return n, nil
	}
	for _, entry := range p.Entry {
		for _, change := range entry.Changes {
			for _, m := range change.Value.Messages {
				in := Inbound{From: m.From, ID: m.ID, Type: m.Type, Timestamp: m.Timestamp}
				switch {
				case m.Type == "text" && m.Text != nil:
					in.Text = m.Text.Body
				case m.Type == "interactive" && m.Interactive != nil:
					switch {
					case m.Interactive.Type == "list_reply" && m.Interactive.ListReply != nil:
						in.Text = m.Interactive.ListReply.ID
					case m.Interactive.Type == "button_reply" && m.Interactive.ButtonReply != nil:
						in.Text = m.Interactive.ButtonReply.ID
					}
				}
				n.Messages = append(n.Messages, in)
			}
			for _, s := range change.Value.Statuses {
				n.Statuses = append(n.Statuses, Status{ID: s.ID, RecipientID: s.RecipientID, Status: s.Status})
			}
		}
	}
	return n, nil
}

// VerifyChallenge answers the subscription handshake. It returns the challenge to echo and
// whether the request was accepted; missing is set when mode or token were absent.
func VerifyChallenge(mode, token, challenge, expected string) (echo string, ok bool, missing bool) {
	if mode == "" || token == "" {
		return "", false, true
	}
	if mode == "subscribe" && expected != "" && token == expected {
		return challenge, true, false
	}
	return "", false, false
}
