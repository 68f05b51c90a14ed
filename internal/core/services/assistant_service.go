package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/SscSPs/couple_finance_app/internal/apperrors"
	"github.com/SscSPs/couple_finance_app/internal/core/domain"
	"github.com/SscSPs/couple_finance_app/internal/core/ports/clients"
	portsrepo "github.com/SscSPs/couple_finance_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/couple_finance_app/internal/core/ports/services"
	"github.com/SscSPs/couple_finance_app/internal/utils"
)

const (
	parseTemperature   = 0
	insightTemperature = 0.7
)

type assistantService struct {
	BaseService
	llm          clients.CompletionClient
	groupRepo    portsrepo.GroupMembershipManager
	categoryRepo portsrepo.CategoryReader
}

// NewAssistantService creates the service backed by a language model. A nil
// client makes every model call fail with ErrInternal.
func NewAssistantService(
	llm clients.CompletionClient,
	groupRepo portsrepo.GroupMembershipManager,
	categoryRepo portsrepo.CategoryReader,
	authorizer portssvc.GroupAuthorizerSvc,
) portssvc.AssistantSvcFacade {
	return &assistantService{
		BaseService:  BaseService{GroupAuthorizer: authorizer},
		llm:          llm,
		groupRepo:    groupRepo,
		categoryRepo: categoryRepo,
	}
}

var _ portssvc.AssistantSvcFacade = (*assistantService)(nil)

func (s *assistantService) ParseTransaction(ctx context.Context, groupID, requestingUserID, text string) (*domain.ParsedTransaction, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, groupID, domain.RoleMember); err != nil {
		return nil, err
	}
	return s.ParseMessage(ctx, groupID, text)
}

// llmTransaction mirrors the JSON the model is asked for. Every field may
// come back null.
type llmTransaction struct {
	Amount       *float64 `json:"amount"`
	Description  *string  `json:"description"`
	CategoryName *string  `json:"categoryName"`
	Date         *string  `json:"date"`
	PayerName    *string  `json:"payerName"`
	Type         *string  `json:"type"`
	Split        *struct {
		Type         string             `json:"type"`
		Percentages  map[string]float64 `json:"percentages"`
		AssigneeName string             `json:"assigneeName"`
	} `json:"split"`
}

func (s *assistantService) ParseMessage(ctx context.Context, groupID, text string) (*domain.ParsedTransaction, error) {
	if strings.TrimSpace(text) == "" {
		return nil, validationErrorf("text is required")
	}
	if s.llm == nil {
		return nil, errAssistantUnavailable
	}

	categories, err := s.categoryRepo.ListCategoriesForGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	members, err := s.groupRepo.ListGroupMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}

	categoryNames := make([]string, len(categories))
	for i, c := range categories {
		categoryNames[i] = c.Name
	}
	memberNames := make([]string, len(members))
	for i, m := range members {
		memberNames[i] = m.UserName
	}

	answer, err := s.llm.Complete(ctx, parsePrompt(text, categoryNames, memberNames), parseTemperature)
	if err != nil {
		s.LogError(ctx, err, "Language model call failed", slog.String("group_id", groupID))
		return nil, fmt.Errorf("%w: failed to parse transaction", apperrors.ErrInternal)
	}

	var raw llmTransaction
	if err := json.Unmarshal([]byte(stripCodeFence(answer)), &raw); err != nil {
		s.LogError(ctx, err, "Language model returned invalid JSON", slog.String("group_id", groupID))
		return nil, fmt.Errorf("%w: failed to read model response", apperrors.ErrInternal)
	}

	parsed := &domain.ParsedTransaction{
		Description:  deref(raw.Description),
		CategoryName: deref(raw.CategoryName),
		Date:         deref(raw.Date),
		PayerName:    deref(raw.PayerName),
		Type:         domain.TransactionExpense,
	}
	if raw.Amount != nil {
		parsed.Amount = int64(math.Round(*raw.Amount))
	}
	if t := domain.TransactionType(strings.ToUpper(deref(raw.Type))); t.IsValid() {
		parsed.Type = t
	}
	if raw.Split != nil {
		kind := domain.SplitKind(strings.ToUpper(raw.Split.Type))
		if !kind.IsValid() {
			kind = domain.SplitAll
		}
		parsed.Split = &domain.ParsedSplit{
			Type:         kind,
			Percentages:  raw.Split.Percentages,
			AssigneeName: raw.Split.AssigneeName,
		}
	}
	for _, c := range categories {
		if parsed.CategoryName != "" && strings.EqualFold(c.Name, parsed.CategoryName) {
			id := c.CategoryID
			parsed.CategoryID = &id
			break
		}
	}
	return parsed, nil
}

func (s *assistantService) ResolveDraft(ctx context.Context, groupID string, parsed domain.ParsedTransaction, now time.Time) (*domain.TransactionDraft, error) {
	if parsed.Amount <= 0 {
		return nil, validationErrorf("parsed amount must be positive")
	}
	members, err := s.groupRepo.ListGroupMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, validationErrorf("group %s has no members", groupID)
	}
	categories, err := s.categoryRepo.ListCategoriesForGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return nil, validationErrorf("group %s has no categories", groupID)
	}

	draft := &domain.TransactionDraft{
		Amount:      parsed.Amount,
		Description: parsed.Description,
		Date:        now,
		PayerID:     members[0].UserID,
		CategoryID:  categories[0].CategoryID,
		Type:        parsed.Type,
		SplitPolicy: resolvePolicy(parsed.Split, members),
	}
	if !draft.Type.IsValid() {
		draft.Type = domain.TransactionExpense
	}
	if parsed.Date != "" {
		if d, err := time.ParseInLocation(time.DateOnly, parsed.Date, now.Location()); err == nil {
			draft.Date = d
		}
	}
	if m, ok := matchMember(members, parsed.PayerName); ok {
		draft.PayerID = m.UserID
	}
	if parsed.CategoryID != nil {
		draft.CategoryID = *parsed.CategoryID
	} else {
		for _, c := range categories {
			if parsed.CategoryName != "" && strings.EqualFold(c.Name, parsed.CategoryName) {
				draft.CategoryID = c.CategoryID
				break
			}
		}
	}
	return draft, nil
}

// resolvePolicy turns a split described with member names into a policy
// over member IDs. Anything that cannot be matched becomes an equal split.
func resolvePolicy(split *domain.ParsedSplit, members []domain.GroupMember) domain.SplitPolicy {
	if split == nil {
		return domain.EqualSplit()
	}
	switch split.Type {
	case domain.SplitOnePerson:
		if m, ok := matchMember(members, split.AssigneeName); ok {
			return domain.SingleAssignee(m.UserID)
		}
	case domain.SplitCustom:
		percentages := make(map[string]float64)
		for _, m := range members {
			name := strings.ToLower(m.UserName)
			for key, pct := range split.Percentages {
				k := strings.ToLower(key)
				if k != "" && (strings.Contains(name, k) || strings.Contains(k, name)) {
					percentages[m.UserID] = pct
					break
				}
			}
		}
		if len(percentages) > 0 {
			return domain.CustomSplit(percentages)
		}
	}
	return domain.EqualSplit()
}

// matchMember finds the first member whose name contains name, ignoring case.
func matchMember(members []domain.GroupMember, name string) (domain.GroupMember, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return domain.GroupMember{}, false
	}
	for _, m := range members {
		if strings.Contains(strings.ToLower(m.UserName), needle) {
			return m, true
		}
	}
	return domain.GroupMember{}, false
}

func (s *assistantService) GenerateInsight(ctx context.Context, summary domain.SpendingSummary) (string, error) {
	if s.llm == nil {
		return "", errAssistantUnavailable
	}
	answer, err := s.llm.Complete(ctx, insightPrompt(summary), insightTemperature)
	if err != nil {
		s.LogError(ctx, err, "Language model call failed while writing insight")
		return "", fmt.Errorf("%w: failed to generate insight", apperrors.ErrInternal)
	}
	return strings.TrimSpace(answer), nil
}

func parsePrompt(text string, categories, members []string) string {
	return fmt.Sprintf(`You are a financial assistant. Parse the following text into a transaction JSON.
Text: %q

Available Categories: %s.
Available Members: %s.

Return strict JSON with fields:
- amount (number)
- description (string)
- categoryName (one of the available categories or null)
- date (YYYY-MM-DD, infer from text or null)
- payerName (infer who paid based on context if obvious, e.g. "I paid" -> "Me", "Partner paid". If unsure, null)
- type (EXPENSE, SAVING, INCOME, TRANSFER). Default EXPENSE.
- split (optional object):
   - type: "ALL" (default, equal split), "CUSTOM" (percentages), or "ONE_PERSON" (assigned to one specific member).
   - percentages: (if CUSTOM) Object mapping Member Name -> Percentage (number 0-100).
   - assigneeName: (if ONE_PERSON) Name of the member.

Do not include markdown formatting.`, text, strings.Join(categories, ", "), strings.Join(members, ", "))
}

func insightPrompt(summary domain.SpendingSummary) string {
	var b strings.Builder
	b.WriteString("Actúa como un analista financiero personal de alto nivel.\n")
	b.WriteString("Analiza los siguientes datos de gastos:\n\n")
	b.WriteString("**Resumen del Periodo:**\n")
	fmt.Fprintf(&b, "- Total: %s\n\n", utils.FormatCOP(summary.TotalSpent))

	b.WriteString("**Estado de Deudas:**\n")
	fmt.Fprintf(&b, "- Balance actual: %s (%s)\n\n", utils.FormatCOP(abs(summary.Balance)), summary.BalanceStatus)

	if len(summary.Goals) > 0 {
		b.WriteString("**Metas de Ahorro:**\n")
		for _, g := range summary.Goals {
			fmt.Fprintf(&b, "- %s: %s / %s (%s)\n", g.Name, utils.FormatCOP(g.Current), utils.FormatCOP(g.Target), utils.FormatPercent(g.Current, g.Target))
		}
		b.WriteString("\n")
	}

	b.WriteString("**Top Categorías:**\n")
	for _, c := range summary.TopCategories {
		fmt.Fprintf(&b, "- %s: %s\n", c.Name, utils.FormatCOP(c.Total))
	}
	b.WriteString("\n**Transacciones Relevantes:**\n")
	for _, t := range summary.LargeTransactions {
		fmt.Fprintf(&b, "- %s (%s) el %s\n", t.Description, utils.FormatCOP(t.Amount), t.Date)
	}

	b.WriteString(`
Genera un reporte visualmente atractivo y directo en Markdown. Usa el siguiente formato estricto:

## 📊 Análisis Ejecutivo
[Un párrafo breve y perspicaz sobre el estado financiero general. Sé directo.]
- Menciona brevemente si debe dinero o le deben.

## 💸 ¿Dónde se fue el dinero?
- Crea una lista con los principales "agujeros" de dinero.
- Si el mercado es alto, compáralo proporcionalmente.

## ⚖️ Estado de Deudas
[Analiza el balance. Si es 0, di que están a mano. Si debe, sugiere pagarlo. Si le deben, sugiere cobrar amablemente.]
`)
	if len(summary.Goals) > 0 {
		b.WriteString(`
## 🎯 Progreso de Metas
[Comentario motivador sobre el avance de las metas.]
`)
	}
	b.WriteString(`
## 💡 Consejos de Acción
- Dame 2 tips de ahorro MUY específicos basados en estos datos.
- Usa emojis para hacer los puntos más digeribles.

## 🚀 Conclusión
[Frase corta y motivadora]

Nota: Usa formato rico (negritas, listas), sé conversacional pero profesional.`)
	return b.String()
}

// stripCodeFence removes a ```json ... ``` wrapper models sometimes add
// despite being told not to.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
