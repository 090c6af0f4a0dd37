package contextkeys

// Custom type avoids collisions with other context values.
type contextKey string

// DBContextKey stores the request-scoped *gorm.DB handle.
const DBContextKey = contextKey("db")
