package handlers

// AppHandlers bundles the initialized handlers for route registration.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	RegistrationHandler *RegistrationHandler
	UploadHandler       *UploadHandler
	OrderHandler        *OrderHandler
}
