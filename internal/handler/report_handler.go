package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vitalog/internal/service"
)

// GetWeeklyReport 返回截至指定日期（缺省当天）的周报 HTML
func (a *API) GetWeeklyReport(c *gin.Context) {
	userID := strings.TrimSpace(c.Param("userID"))
	if userID == "" {
		respondError(c, http.StatusBadRequest, "无效的用户ID")
		return
	}

	endDate, ok := queryDate(c, "end")
	if !ok {
		respondError(c, http.StatusBadRequest, "无效的结束日期")
		return
	}

	report, err := a.reports.Weekly(c.Request.Context(), userID, endDate)
	if err != nil {
		if errors.Is(err, service.ErrReportNoData) {
			respondError(c, http.StatusNotFound, "统计窗口内没有得分数据")
			return
		}
		respondError(c, http.StatusInternalServerError, "生成周报失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"report": gin.H{
			"user_id":    report.UserID,
			"start_date": report.StartDate,
			"end_date":   report.EndDate,
			"html":       string(report.HTML),
		},
	})
}
