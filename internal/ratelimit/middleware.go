package ratelimit

import (
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// ClientIP resolves the caller identity behind proxies and CDNs.
func ClientIP(c *fiber.Ctx) string {
	if ip := c.Get("cf-connecting-ip"); ip != "" {
		return ip
	}
	if ip := c.Get("x-real-ip"); ip != "" {
		return ip
	}
	if forwarded := c.Get("x-forwarded-for"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	if ip := c.IP(); ip != "" {
		return ip
	}
	return "unknown"
}

// Middleware enforces the per-IP quota before the handler runs. When
// enforce is false (development) the quota is still counted and the
// X-RateLimit headers still set, but nothing is denied. A store failure
// fails open: an unreachable counter must not take the product down.
func Middleware(limiter *Limiter, enforce bool, prefix string, message string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity := ClientIP(c)
		if prefix != "" {
			identity = prefix + ":" + identity
		}

		result, err := limiter.Check(identity)
		if err != nil {
			log.Printf("⚠️  Rate limit store error for %s: %v", identity, err)
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(limiter.MaxRequests()))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetTime.UnixMilli(), 10))

		if enforce && !result.Allowed {
			retryAfter := int(time.Until(result.ResetTime).Seconds()) + 1
			c.Set("Retry-After", strconv.Itoa(retryAfter))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":     message,
				"remaining": result.Remaining,
				"resetTime": result.ResetTime.UnixMilli(),
			})
		}

		return c.Next()
	}
}
