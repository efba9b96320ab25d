package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/youtools/youtools-backend/internal/auth"
)

const (
	identityKey = "identity"
	userIDKey   = "user_id"
)

// Identity resolves the caller before the handler runs. Requests with
// extension=true must carry a valid bearer token; other requests fall back to
// the session cookie and may stay anonymous.
func Identity(resolver *auth.Resolver, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		extension := c.Query("extension") == "true"

		identity, err := resolver.Resolve(extension, c.Get(fiber.HeaderAuthorization), c.Cookies(cookieName))
		if err != nil {
			return err
		}

		if identity != nil {
			c.Locals(identityKey, identity)
			c.Locals(userIDKey, identity.Subject)
		}
		return c.Next()
	}
}

// IdentityFrom returns the identity stored by Identity, or nil.
func IdentityFrom(c *fiber.Ctx) *auth.Identity {
	identity, _ := c.Locals(identityKey).(*auth.Identity)
	return identity
}
