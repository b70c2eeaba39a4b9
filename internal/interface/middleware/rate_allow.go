package middleware

import (
	"net"

	"github.com/gin-gonic/gin"
)

// AllowPrivateIP skips the limiter for loopback and private-range callers, such as an
// in-cluster thumbnailer pulling downloads or a metrics scraper.
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		ip := net.ParseIP(ipFromCtx(c))
		return ip != nil && (ip.IsLoopback() || ip.IsPrivate())
	}
}
