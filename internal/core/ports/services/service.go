package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	User             UserSvcFacade
	Token            TokenSvcFacade
	Group            GroupSvcFacade
	Transaction      TransactionSvcFacade
	Recurring        RecurringSvcFacade
	Goal             GoalSvcFacade
	Settlement       SettlementSvcFacade
	Alert            AlertSvcFacade
	Audit            AuditSvcFacade
	Comment          CommentSvcFacade
	FinancialAccount FinancialAccountSvcFacade
	Assistant        AssistantSvcFacade
	WhatsApp         WhatsAppSvcFacade
}
