package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/mercado-api/internal/application/dto"
	"github.com/jhoicas/mercado-api/internal/domain/entity"
	"github.com/jhoicas/mercado-api/pkg/jwt"
)

// Locals keys para identidad y rol en Fiber.
const (
	LocalIdentity = "identity"
	LocalRole     = "role"
)

// IdentityMiddleware resuelve la identidad del comprador para las rutas del
// carrito. Con Bearer Token válido la identidad es el UserID del token; sin
// header Authorization la petición sigue como identidad anónima (carrito
// local). Un token presente pero inválido sí es 401: nunca degradamos a
// anónimo a un comprador que cree estar autenticado.
func IdentityMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			c.Locals(LocalIdentity, entity.AnonymousIdentity)
			return c.Next()
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		userID, role, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalIdentity, userID)
		c.Locals(LocalRole, role)
		return c.Next()
	}
}

// GetIdentity devuelve la identidad del contexto (después del middleware).
// Vacío equivale a anónimo.
func GetIdentity(c *fiber.Ctx) string {
	v := c.Locals(LocalIdentity)
	if v == nil {
		return entity.AnonymousIdentity
	}
	s, _ := v.(string)
	if s == "" {
		return entity.AnonymousIdentity
	}
	return s
}

// GetRole devuelve el rol del contexto; vacío para anónimos.
func GetRole(c *fiber.Ctx) string {
	v := c.Locals(LocalRole)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
