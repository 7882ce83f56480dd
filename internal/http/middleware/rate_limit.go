package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/communityservice/platform-backend/internal/pkg/apperror"
)

// RateLimitMiddleware ограничивает число запросов с одного IP.
// По умолчанию: 100 запросов за 15 минут.
func RateLimitMiddleware(limit int64, period time.Duration) gin.HandlerFunc {
	if limit <= 0 {
		limit = 100
	}
	if period <= 0 {
		period = 15 * time.Minute
	}

	instance := limiter.New(memory.NewStore(), limiter.Rate{Period: period, Limit: limit})
	tooMany := apperror.New(apperror.ErrCodeTooManyRequests, "Too many requests from this IP, please try again later.")

	return func(c *gin.Context) {
		lctx, err := instance.Get(c, c.ClientIP())
		if err != nil {
			abortWithError(c, apperror.Internal(err))
			return
		}

		c.Header("RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
		c.Header("RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
		c.Header("RateLimit-Reset", strconv.FormatInt(lctx.Reset, 10))

		if lctx.Reached {
			abortWithError(c, tooMany)
			return
		}

		c.Next()
	}
}
