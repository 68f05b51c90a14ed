package services

import (
	"github.com/SscSPs/couple_finance_app/internal/core/ports/clients"
	portsrepo "github.com/SscSPs/couple_finance_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/couple_finance_app/internal/core/ports/services"
	"github.com/SscSPs/couple_finance_app/internal/platform/config"
)

type containerDeps struct {
	llm      clients.CompletionClient
	renderer clients.StatementRenderer
	cache    portsrepo.CacheStore
}

// ContainerOption supplies an optional outbound collaborator to the container.
type ContainerOption func(*containerDeps)

// WithCompletionClient enables the language-model backed features.
func WithCompletionClient(llm clients.CompletionClient) ContainerOption {
	return func(d *containerDeps) {
		d.llm = llm
	}
}

// WithRenderer enables PDF statements.
func WithRenderer(renderer clients.StatementRenderer) ContainerOption {
	return func(d *containerDeps) {
		d.renderer = renderer
	}
}

// WithCacheStore sets the store used for webhook dedup and report narratives.
func WithCacheStore(cache portsrepo.CacheStore) ContainerOption {
	return func(d *containerDeps) {
		d.cache = cache
	}
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, opts ...ContainerOption) *portssvc.ServiceContainer {
	deps := &containerDeps{}
	for _, opt := range opts {
		opt(deps)
	}

	container := &portssvc.ServiceContainer{}

	// Every group-scoped service checks membership through the same authorizer.
	authorizer := NewGroupAuthorizer(repos.GroupRepo)

	container.Audit = NewAuditService(repos.AuditRepo, authorizer)
	container.User = NewUserService(repos.UserRepo)
	container.Token = NewTokenService(cfg, container.User)
	container.Group = NewGroupService(
		repos.GroupRepo,
		repos.UserRepo,
		repos.CategoryRepo,
		authorizer,
		WithGroupAuditRecorder(container.Audit),
	)
	container.Transaction = NewTransactionService(
		repos.TransactionRepo,
		repos.GroupRepo,
		repos.CategoryRepo,
		repos.GoalRepo,
		authorizer,
	)
	container.Recurring = NewRecurringService(
		repos.RecurringRepo,
		repos.GroupRepo,
		repos.CategoryRepo,
		authorizer,
	)
	container.Goal = NewGoalService(repos.GoalRepo, authorizer)
	container.Alert = NewAlertService(repos.AlertRepo, authorizer)
	container.Comment = NewCommentService(repos.CommentRepo, repos.TransactionRepo, repos.UserRepo, authorizer)
	container.FinancialAccount = NewFinancialAccountService(repos.FinancialAccountRepo)

	container.Assistant = NewAssistantService(deps.llm, repos.GroupRepo, repos.CategoryRepo, authorizer)

	settlementOpts := []SettlementServiceOption{WithInsightGenerator(container.Assistant)}
	if deps.renderer != nil {
		settlementOpts = append(settlementOpts, WithStatementRenderer(deps.renderer))
	}
	if deps.cache != nil {
		settlementOpts = append(settlementOpts, WithNarrativeCache(deps.cache))
	}
	container.Settlement = NewSettlementService(
		repos.TransactionRepo,
		repos.GroupRepo,
		repos.CategoryRepo,
		repos.GoalRepo,
		authorizer,
		settlementOpts...,
	)

	container.WhatsApp = NewWhatsAppService(
		container.Assistant,
		container.Transaction,
		deps.cache,
		cfg.WhatsAppVerifyToken,
		cfg.WhatsAppGroupID,
	)

	return container
}
