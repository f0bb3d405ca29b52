package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vitalog/internal/db"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

// queryDays 解析 days 查询参数，缺省或非法时回退到 fallback，并限制上限。
func queryDays(c *gin.Context, fallback, max int) int {
	raw := strings.TrimSpace(c.Query("days"))
	if raw == "" {
		return fallback
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days <= 0 {
		return fallback
	}
	if days > max {
		return max
	}
	return days
}

// queryDate 解析日期查询参数，缺省时取当天，格式非法时返回 false。
func queryDate(c *gin.Context, key string) (string, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return time.Now().Format(db.DateLayout), true
	}
	if _, err := time.Parse(db.DateLayout, raw); err != nil {
		return "", false
	}
	return raw, true
}
