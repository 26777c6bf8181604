package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sahil-lab/realEstate/internal/models"
	"github.com/sahil-lab/realEstate/internal/store"
)

const (
	TemplateNewInquiry = "new_inquiry"
	DefaultLocale      = "en-US"
)

// Default email templates used as fallback when not found in database
var defaultEmailTemplates = map[string]models.EmailTemplate{
	TemplateNewInquiry: {
		TemplateID: TemplateNewInquiry,
		Locale:     DefaultLocale,
		Subject:    "New inquiry for {{.property_title}}",
		Body: "A new inquiry was submitted on {{.app_name}}.\n\n" +
			"Property: {{.property_title}} ({{.property_id}})\n" +
			"From: {{.user_name}} <{{.user_email}}> {{.user_phone}}\n\n" +
			"{{.message}}\n",
	},
}

// IEmailTemplateService defines the interface for email template operations.
type IEmailTemplateService interface {
	GetTemplate(ctx context.Context, templateID, locale string) (*models.EmailTemplate, error)
	SaveTemplate(ctx context.Context, template *models.EmailTemplate) error
}

// EmailTemplateService handles operations related to email templates
type EmailTemplateService struct {
	templates store.EmailTemplateStore
}

// NewEmailTemplateService creates a new instance of EmailTemplateService
func NewEmailTemplateService(templates store.EmailTemplateStore) *EmailTemplateService {
	return &EmailTemplateService{templates: templates}
}

// GetTemplate retrieves an email template by ID and locale, falling back to
// the built-in default for the ID.
func (s *EmailTemplateService) GetTemplate(ctx context.Context, templateID string, locale string) (*models.EmailTemplate, error) {
	tpl, err := s.templates.Get(ctx, templateID, locale)
	if err == nil {
		return tpl, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("error retrieving template: %w", err)
	}
	if defaultTemplate, ok := defaultEmailTemplates[templateID]; ok {
		return &defaultTemplate, nil
	}
	return nil, fmt.Errorf("template %s (locale: %s): %w", templateID, locale, ErrNotFound)
}

// SaveTemplate saves an email template to the database
func (s *EmailTemplateService) SaveTemplate(ctx context.Context, template *models.EmailTemplate) error {
	if template.TemplateID == "" || template.Locale == "" {
		return invalidInput("template ID and locale are required")
	}
	if err := s.templates.Save(ctx, template); err != nil {
		return fmt.Errorf("error saving template: %w", err)
	}
	return nil
}
