package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/couple_finance_app/internal/apperrors"
	"github.com/SscSPs/couple_finance_app/internal/core/domain"
	"github.com/SscSPs/couple_finance_app/internal/core/finance"
	"github.com/SscSPs/couple_finance_app/internal/core/ports/clients"
	portsrepo "github.com/SscSPs/couple_finance_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/couple_finance_app/internal/core/ports/services"
	"github.com/SscSPs/couple_finance_app/internal/utils"
)

const (
	reportWindow         = 30 * 24 * time.Hour
	reportTopCategories  = 5
	reportLargestTxns    = 3
	narrativeCachePrefix = "report:narrative:"
	narrativeCacheTTL    = 24 * time.Hour
)

// NarrativeFallback is the report text used when no insight can be generated.
const NarrativeFallback = "No se pudo generar el reporte."

type settlementService struct {
	BaseService
	txnRepo      portsrepo.TransactionReader
	groupRepo    portsrepo.GroupRepositoryFacade
	categoryRepo portsrepo.CategoryReader
	goalRepo     portsrepo.GoalReader
	assistant    portssvc.AssistantSvcFacade
	renderer     clients.StatementRenderer
	cache        portsrepo.CacheStore
}

// SettlementServiceOption configures a settlement service.
type SettlementServiceOption func(*settlementService)

// WithInsightGenerator sets who writes report narratives.
func WithInsightGenerator(assistant portssvc.AssistantSvcFacade) SettlementServiceOption {
	return func(s *settlementService) {
		s.assistant = assistant
	}
}

// WithStatementRenderer enables PDF statements.
func WithStatementRenderer(renderer clients.StatementRenderer) SettlementServiceOption {
	return func(s *settlementService) {
		s.renderer = renderer
	}
}

// WithNarrativeCache caches generated narratives by summary content.
func WithNarrativeCache(cache portsrepo.CacheStore) SettlementServiceOption {
	return func(s *settlementService) {
		s.cache = cache
	}
}

// NewSettlementService creates the service deriving balances and reports.
func NewSettlementService(
	txnRepo portsrepo.TransactionReader,
	groupRepo portsrepo.GroupRepositoryFacade,
	categoryRepo portsrepo.CategoryReader,
	goalRepo portsrepo.GoalReader,
	authorizer portssvc.GroupAuthorizerSvc,
	opts ...SettlementServiceOption,
) portssvc.SettlementSvcFacade {
	s := &settlementService{
		BaseService:  BaseService{GroupAuthorizer: authorizer},
		txnRepo:      txnRepo,
		groupRepo:    groupRepo,
		categoryRepo: categoryRepo,
		goalRepo:     goalRepo,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.SettlementSvcFacade = (*settlementService)(nil)

func (s *settlementService) GetBalance(ctx context.Context, groupID, requestingUserID string) (*domain.BalanceBreakdown, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, groupID, domain.RoleMember); err != nil {
		return nil, err
	}
	return s.balance(ctx, groupID, requestingUserID)
}

func (s *settlementService) balance(ctx context.Context, groupID, userID string) (*domain.BalanceBreakdown, error) {
	txns, err := s.txnRepo.ListCompletedTransactions(ctx, groupID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load transactions for balance", slog.String("group_id", groupID))
		return nil, err
	}
	breakdown := finance.CalculateBalanceBreakdown(userID, txns)
	return &breakdown, nil
}

func (s *settlementService) GenerateReport(ctx context.Context, groupID, requestingUserID string, now time.Time) (*domain.FinancialReport, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, groupID, domain.RoleMember); err != nil {
		return nil, err
	}

	breakdown, err := s.balance(ctx, groupID, requestingUserID)
	if err != nil {
		return nil, err
	}
	recent, err := s.txnRepo.ListCompletedTransactionsSince(ctx, groupID, now.Add(-reportWindow))
	if err != nil {
		s.LogError(ctx, err, "Failed to load recent transactions", slog.String("group_id", groupID))
		return nil, err
	}
	expenses := make([]domain.Transaction, 0, len(recent))
	for _, t := range recent {
		if t.Type == domain.TransactionExpense && t.IsCompleted() {
			expenses = append(expenses, t)
		}
	}

	summary := domain.SpendingSummary{
		Balance:       breakdown.Balance,
		BalanceStatus: domain.BalanceStatus(breakdown.Balance),
	}
	if len(expenses) == 0 {
		summary.TopCategories = []domain.CategoryTotal{}
		summary.LargeTransactions = []domain.LargeTransaction{}
		summary.Goals = []domain.GoalProgress{}
		narrative := fmt.Sprintf("No hay suficientes gastos recientes para un análisis, pero tu balance actual es: %s (%s)",
			summary.BalanceStatus, utils.FormatCOP(abs(breakdown.Balance)))
		return &domain.FinancialReport{Summary: summary, Narrative: narrative}, nil
	}

	categories, err := s.categoryRepo.ListCategoriesForGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	goals, err := s.goalRepo.ListGoals(ctx, groupID)
	if err != nil {
		return nil, err
	}

	summary.TotalSpent, summary.TopCategories = summarizeCategories(expenses, categories)
	summary.LargeTransactions = largestTransactions(expenses)
	summary.Goals = make([]domain.GoalProgress, len(goals))
	for i, g := range goals {
		summary.Goals[i] = domain.GoalProgress{Name: g.Name, Current: g.CurrentAmount, Target: g.TargetAmount}
	}

	return &domain.FinancialReport{Summary: summary, Narrative: s.narrative(ctx, summary)}, nil
}

// narrative returns the insight for summary, reusing a cached one for an
// identical summary.
func (s *settlementService) narrative(ctx context.Context, summary domain.SpendingSummary) string {
	if s.assistant == nil {
		return NarrativeFallback
	}

	var cacheKey string
	if s.cache != nil {
		if raw, err := json.Marshal(summary); err == nil {
			sum := sha256.Sum256(raw)
			cacheKey = narrativeCachePrefix + hex.EncodeToString(sum[:])
			if cached, ok, err := s.cache.Get(ctx, cacheKey); err == nil && ok {
				return cached
			} else if err != nil {
				s.LogError(ctx, err, "Failed to read narrative cache")
			}
		}
	}

	text, err := s.assistant.GenerateInsight(ctx, summary)
	if err != nil || text == "" {
		if err != nil {
			s.LogError(ctx, err, "Failed to generate report narrative")
		}
		return NarrativeFallback
	}

	if cacheKey != "" {
		if err := s.cache.Set(ctx, cacheKey, text, narrativeCacheTTL); err != nil {
			s.LogError(ctx, err, "Failed to cache report narrative")
		}
	}
	return text
}

func (s *settlementService) RenderStatementPDF(ctx context.Context, groupID, requestingUserID string, now time.Time) ([]byte, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, groupID, domain.RoleMember); err != nil {
		return nil, err
	}
	if s.renderer == nil {
		return nil, fmt.Errorf("%w: statement rendering is not configured", apperrors.ErrInternal)
	}

	group, err := s.groupRepo.FindGroupByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	member, err := s.groupRepo.FindGroupMember(ctx, groupID, requestingUserID)
	if err != nil {
		return nil, err
	}
	breakdown, err := s.balance(ctx, groupID, requestingUserID)
	if err != nil {
		return nil, err
	}

	pdf, err := s.renderer.RenderStatement(domain.SettlementStatement{
		GroupName:   group.Name,
		MemberName:  member.UserName,
		GeneratedAt: now,
		Breakdown:   *breakdown,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to render statement", slog.String("group_id", groupID))
		return nil, fmt.Errorf("%w: failed to render statement", apperrors.ErrInternal)
	}
	return pdf, nil
}

// summarizeCategories totals expenses and returns the biggest categories,
// largest first. Unknown category IDs are grouped under "Otros".
func summarizeCategories(expenses []domain.Transaction, categories []domain.Category) (int64, []domain.CategoryTotal) {
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.CategoryID] = c.Name
	}

	var total int64
	byName := make(map[string]int64)
	var order []string
	for _, t := range expenses {
		total += t.Amount
		name, ok := names[t.CategoryID]
		if !ok {
			name = "Otros"
		}
		if _, seen := byName[name]; !seen {
			order = append(order, name)
		}
		byName[name] += t.Amount
	}

	totals := make([]domain.CategoryTotal, len(order))
	for i, name := range order {
		totals[i] = domain.CategoryTotal{Name: name, Total: byName[name]}
	}
	sort.SliceStable(totals, func(i, j int) bool { return totals[i].Total > totals[j].Total })
	if len(totals) > reportTopCategories {
		totals = totals[:reportTopCategories]
	}
	return total, totals
}

func largestTransactions(expenses []domain.Transaction) []domain.LargeTransaction {
	sorted := make([]domain.Transaction, len(expenses))
	copy(sorted, expenses)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Amount > sorted[j].Amount })
	if len(sorted) > reportLargestTxns {
		sorted = sorted[:reportLargestTxns]
	}
	large := make([]domain.LargeTransaction, len(sorted))
	for i, t := range sorted {
		large[i] = domain.LargeTransaction{
			Description: t.Description,
			Amount:      t.Amount,
			Date:        t.Date.Format(time.DateOnly),
		}
	}
	return large
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
