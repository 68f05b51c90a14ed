package domain

// FinancialAccountType is the kind of real-world account a user tracks.
type FinancialAccountType string

const (
	AccountChecking   FinancialAccountType = "CHECKING"
	AccountSavings    FinancialAccountType = "SAVINGS"
	AccountCreditCard FinancialAccountType = "CREDIT_CARD"
	AccountInvestment FinancialAccountType = "INVESTMENT"
	AccountLoan       FinancialAccountType = "LOAN"
	AccountCash       FinancialAccountType = "CASH"
	AccountOther      FinancialAccountType = "OTHER"
)

// IsValid reports whether t is a known account type.
func (t FinancialAccountType) IsValid() bool {
	switch t {
	case AccountChecking, AccountSavings, AccountCreditCard, AccountInvestment, AccountLoan, AccountCash, AccountOther:
		return true
	}
	return false
}

// PrivacyLevel controls who in the group may see an account.
type PrivacyLevel string

const (
	PrivacyShared   PrivacyLevel = "SHARED"
	PrivacyPersonal PrivacyLevel = "PERSONAL"
	PrivacyPrivate  PrivacyLevel = "PRIVATE"
)

// IsValid reports whether p is a known privacy level.
func (p PrivacyLevel) IsValid() bool {
	return p == PrivacyShared || p == PrivacyPersonal || p == PrivacyPrivate
}

// DefaultAccountCurrency is used when no currency is supplied.
const DefaultAccountCurrency = "COP"

// FinancialAccount is a bank/cash account owned by one user.
type FinancialAccount struct {
	AccountID string               `json:"accountID"`
	UserID    string               `json:"userID"`
	Name      string               `json:"name"`
	Type      FinancialAccountType `json:"type"`
	Balance   int64                `json:"balance"`
	Currency  string               `json:"currency"`
	Privacy   PrivacyLevel         `json:"privacyLevel"`
	AuditFields
}
