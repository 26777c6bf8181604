package email

import (
	"bufio"
	"bytes"
	"fmt"
	"mime"
	"strings"
	"text/template"
	"time"

	"github.com/sahil-lab/realEstate/internal/models"
)

// ActionHeader carries the notification kind so mock senders can file
// messages without parsing subjects.
const ActionHeader = "X-Action-Type"

// BuildMessage formats a plain-text RFC 5322 message.
func BuildMessage(from string, to []string, subject, body, actionType string, date time.Time) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	fmt.Fprintf(&buf, "Date: %s\r\n", date.Format(time.RFC1123Z))
	if actionType != "" {
		fmt.Fprintf(&buf, "%s: %s\r\n", ActionHeader, actionType)
	}
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return buf.Bytes()
}

// ActionType returns the X-Action-Type header of rawMessage, or "unknown".
func ActionType(rawMessage []byte) string {
	sc := bufio.NewScanner(bytes.NewReader(rawMessage))
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			break
		}
		name, value, ok := strings.Cut(line, ":")
		if ok && strings.EqualFold(strings.TrimSpace(name), ActionHeader) {
			return strings.TrimSpace(value)
		}
	}
	return "unknown"
}

// Render executes the subject and body of tpl against data.
// Missing keys render as empty strings.
func Render(tpl *models.EmailTemplate, data map[string]string) (subject, body string, err error) {
	subject, err = execute("subject", tpl.Subject, data)
	if err != nil {
		return "", "", err
	}
	body, err = execute("body", tpl.Body, data)
	if err != nil {
		return "", "", err
	}
	return subject, body, nil
}

func execute(name, text string, data map[string]string) (string, error) {
	t, err := template.New(name).Option("missingkey=zero").Parse(text)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s template: %w", name, err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s template: %w", name, err)
	}
	return buf.String(), nil
}
