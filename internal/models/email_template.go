package models

// EmailTemplate is a subject/body pair with {{.key}} placeholders, stored
// per template ID and locale.
type EmailTemplate struct {
	TemplateID string `bson:"templateId" json:"templateId"` // e.g. "new_inquiry"
	Locale     string `bson:"locale" json:"locale"`
	Subject    string `bson:"subject" json:"subject"`
	Body       string `bson:"body" json:"body"`
}
