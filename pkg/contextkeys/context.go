package contextkeys

// Custom key type avoids collisions with other context values.
type contextKey string

// DBContextKey is the key under which a *gorm.DB (pool or transaction)
// travels through request context. Tests use it to inject a transaction.
const DBContextKey = contextKey("db")
