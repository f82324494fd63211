package contextkeys

// Используем кастомный тип, чтобы избежать коллизий
type contextKey string

// DBContextKey - это ключ, по которому мы храним *gorm.DB в context
const DBContextKey = contextKey("db")

// UserIDContextKey - ключ, по которому middleware кладет id аутентифицированного
// пользователя. Пустое значение означает анонимный запрос.
const UserIDContextKey = contextKey("userID")
