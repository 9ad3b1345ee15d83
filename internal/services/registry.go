package services

// ServiceContainer bundles the initialized services for wiring.
type ServiceContainer struct {
	AuthService         AuthService
	RegistrationService RegistrationService
	IngestService       IngestService
	OrderService        OrderService
}
