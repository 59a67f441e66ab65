package mailer

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Lead notification kinds.
const (
	KindContact        = "contact"
	KindEnrollment     = "enrollment"
	KindFormSubmission = "form_submission"
)

// NotifyJob is the JSON payload put on the RabbitMQ queue when a public
// lead arrives. The worker renders it into an email for the site owner.
type NotifyJob struct {
	Kind       string         `json:"kind"`
	Subject    string         `json:"subject"`
	Fields     map[string]any `json:"fields"`
	ReceivedAt time.Time      `json:"received_at"`
}

// RenderText renders a plain-text body with the lead's fields in a stable
// order.
func (j NotifyJob) RenderText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "New %s received at %s\n\n", strings.ReplaceAll(j.Kind, "_", " "), j.ReceivedAt.Format(time.RFC1123))
	keys := make([]string, 0, len(j.Fields))
	for k := range j.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %v\n", k, j.Fields[k])
	}
	return b.String()
}
