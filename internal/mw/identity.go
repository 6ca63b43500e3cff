package mw

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// Request headers carrying the caller's identity.
const (
	HeaderUser = "X-User"
	HeaderRole = "X-User-Role"
)

const identityKey = "identity"

// Identity is who made a request, as asserted by the upstream proxy.
type Identity struct {
	Username string
	Role     string
}

// IdentityFromHeaders stores the request identity in the gin context. Requests
// without an X-User header carry no identity.
func IdentityFromHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := strings.TrimSpace(c.GetHeader(HeaderUser)); user != "" {
			c.Set(identityKey, Identity{
				Username: user,
				Role:     strings.TrimSpace(c.GetHeader(HeaderRole)),
			})
		}
		c.Next()
	}
}

// IdentityFrom returns the identity stored by IdentityFromHeaders.
func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}
