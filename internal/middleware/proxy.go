package middleware

import (
	"net/netip" // Proxy address matching
	"strings"   // Header parsing

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// SchemeKey holds the scheme the client used to reach the API
const SchemeKey = "scheme"

// ParseTrustedProxies turns IPs and CIDRs into prefixes. Invalid entries are logged and skipped.
func ParseTrustedProxies(entries []string) []netip.Prefix {
	out := make([]netip.Prefix, 0, len(entries))
	for _, entry := range entries {
		if p, err := netip.ParsePrefix(entry); err == nil {
			out = append(out, p.Masked())
			continue
		}
		if a, err := netip.ParseAddr(entry); err == nil {
			a = a.Unmap()
			out = append(out, netip.PrefixFrom(a, a.BitLen()))
			continue
		}
		logrus.WithField("proxy", entry).Warn("ignoring invalid trusted proxy")
	}
	return out
}

// ForwardedScheme records the request scheme under SchemeKey.
// X-Forwarded-Proto is honored only from a trusted proxy and only when it is http or https.
func ForwardedScheme(trusted []netip.Prefix) gin.HandlerFunc {
	return func(c *gin.Context) {
		scheme := connScheme(c)
		proto := strings.ToLower(strings.TrimSpace(strings.Split(c.GetHeader("X-Forwarded-Proto"), ",")[0]))
		if (proto == "http" || proto == "https") && isTrustedPeer(c.RemoteIP(), trusted) {
			scheme = proto
		}
		c.Set(SchemeKey, scheme)
		c.Next()
	}
}

// Scheme returns the scheme recorded by ForwardedScheme, or the connection's own
func Scheme(c *gin.Context) string {
	if s := c.GetString(SchemeKey); s != "" {
		return s
	}
	return connScheme(c)
}

func connScheme(c *gin.Context) string {
	if c.Request.TLS != nil {
		return "https"
	}
	return "http"
}

func isTrustedPeer(remoteIP string, trusted []netip.Prefix) bool {
	addr, err := netip.ParseAddr(remoteIP)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
