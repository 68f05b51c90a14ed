package pgsql

import (
	portsrepo "github.com/SscSPs/couple_finance_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	goalRepo := newPgxGoalRepository(dbPool)

	return portsrepo.RepositoryProvider{
		UserRepo:             newPgxUserRepository(dbPool),
		GroupRepo:            newPgxGroupRepository(dbPool),
		CategoryRepo:         newPgxCategoryRepository(dbPool),
		TransactionRepo:      newPgxTransactionRepository(dbPool, goalRepo),
		RecurringRepo:        newPgxRecurringRepository(dbPool),
		GoalRepo:             goalRepo,
		AlertRepo:            newPgxAlertRepository(dbPool),
		AuditRepo:            newPgxAuditRepository(dbPool),
		CommentRepo:          newPgxCommentRepository(dbPool),
		FinancialAccountRepo: newPgxFinancialAccountRepository(dbPool),
	}
}
