package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/couple_finance_app/internal/core/domain"
	"github.com/SscSPs/couple_finance_app/internal/models"
)

// ToModelRecurringTemplate converts a domain template to a model template,
// encoding its split policy as JSON.
func ToModelRecurringTemplate(d domain.RecurringTemplate) (models.RecurringTemplate, error) {
	policy, err := json.Marshal(d.SplitPolicy)
	if err != nil {
		return models.RecurringTemplate{}, fmt.Errorf("failed to encode split policy: %w", err)
	}
	return models.RecurringTemplate{
		TemplateID:  d.TemplateID,
		GroupID:     d.GroupID,
		Name:        d.Name,
		Amount:      d.Amount,
		DayOfMonth:  d.DayOfMonth,
		PayerID:     d.PayerID,
		CategoryID:  d.CategoryID,
		Frequency:   string(d.Frequency),
		IsActive:    d.IsActive,
		NextRun:     d.NextRun,
		SplitPolicy: policy,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainRecurringTemplate converts a model template to a domain template.
// An empty or null policy column decodes to the equal split.
func ToDomainRecurringTemplate(m models.RecurringTemplate) (domain.RecurringTemplate, error) {
	policy := domain.EqualSplit()
	if len(m.SplitPolicy) > 0 && string(m.SplitPolicy) != "null" {
		if err := json.Unmarshal(m.SplitPolicy, &policy); err != nil {
			return domain.RecurringTemplate{}, fmt.Errorf("template %s: %w", m.TemplateID, err)
		}
	}
	return domain.RecurringTemplate{
		TemplateID:  m.TemplateID,
		GroupID:     m.GroupID,
		Name:        m.Name,
		Amount:      m.Amount,
		DayOfMonth:  m.DayOfMonth,
		PayerID:     m.PayerID,
		CategoryID:  m.CategoryID,
		Frequency:   domain.RecurringFrequency(m.Frequency),
		IsActive:    m.IsActive,
		NextRun:     m.NextRun,
		SplitPolicy: policy,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}, nil
}
