package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Idempotency replays the cached response for a repeated Idempotency-Key and
// rejects a concurrent duplicate while the first request is still running.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")
		userID := c.GetString("user_id")

		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), userID, idempKey)
		lockKey := cacheKey + ":lock"

		val, err := rdb.Get(c.Request.Context(), cacheKey).Result()
		if err == nil {
			var cachedRes any
			json.Unmarshal([]byte(val), &cachedRes)
			c.AbortWithStatusJSON(http.StatusOK, gin.H{"status": "success", "data": cachedRes})
			return
		}

		// Short lock expiry so a crashed worker releases the key by itself.
		isNew, _ := rdb.SetNX(c.Request.Context(), lockKey, "locked", 30*time.Second).Result()

		if !isNew {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"code":    "PROCESSING",
				"message": "Your request is still being processed, please wait.",
			})
			return
		}

		c.Set("idempotency_cache_key", cacheKey)
		c.Set("idempotency_lock_key", lockKey)

		c.Next()
	}
}
