package mapping

import (
	"database/sql"

	"github.com/SscSPs/couple_finance_app/internal/core/domain"
	"github.com/SscSPs/couple_finance_app/internal/models"
)

func toNullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// ToModelTransaction converts a domain Transaction to a model Transaction.
// Splits are mapped separately with ToModelSplits.
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID: d.TransactionID,
		GroupID:       d.GroupID,
		Amount:        d.Amount,
		Description:   d.Description,
		Date:          d.Date,
		PayerID:       d.PayerID,
		CategoryID:    d.CategoryID,
		GoalID:        toNullString(d.GoalID),
		TemplateID:    toNullString(d.TemplateID),
		Type:          string(d.Type),
		Status:        string(d.Status),
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction and its split rows to a domain Transaction
func ToDomainTransaction(m models.Transaction, splits []models.Split) domain.Transaction {
	return domain.Transaction{
		TransactionID: m.TransactionID,
		GroupID:       m.GroupID,
		Amount:        m.Amount,
		Description:   m.Description,
		Date:          m.Date,
		PayerID:       m.PayerID,
		CategoryID:    m.CategoryID,
		GoalID:        fromNullString(m.GoalID),
		TemplateID:    fromNullString(m.TemplateID),
		Type:          domain.TransactionType(m.Type),
		Status:        domain.TransactionStatus(m.Status),
		Splits:        ToDomainSplits(splits),
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelSplits converts the splits of a transaction to split rows
func ToModelSplits(transactionID string, ds []domain.Split) []models.Split {
	ms := make([]models.Split, len(ds))
	for i, d := range ds {
		ms[i] = models.Split{TransactionID: transactionID, UserID: d.UserID, Amount: d.Amount}
		if d.Percentage != nil {
			ms[i].Percentage = sql.NullFloat64{Float64: *d.Percentage, Valid: true}
		}
	}
	return ms
}

// ToDomainSplits converts split rows to domain splits
func ToDomainSplits(ms []models.Split) []domain.Split {
	ds := make([]domain.Split, len(ms))
	for i, m := range ms {
		ds[i] = domain.Split{UserID: m.UserID, Amount: m.Amount}
		if m.Percentage.Valid {
			pct := m.Percentage.Float64
			ds[i].Percentage = &pct
		}
	}
	return ds
}
