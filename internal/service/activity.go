package service

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ActivityRecorder 记录学员的关键学习行为，供运营侧审计与回放。
// 注入而非全局，测试可替换为 NopActivityRecorder
type ActivityRecorder interface {
	Record(username, event string, fields map[string]interface{})
}

type ZapActivityRecorder struct {
	log *zap.Logger
}

func NewZapActivityRecorder(log *zap.Logger) *ZapActivityRecorder {
	return &ZapActivityRecorder{log: log}
}

func (r *ZapActivityRecorder) Record(username, event string, fields map[string]interface{}) {
	zapFields := []zap.Field{
		zap.String("activity_id", uuid.New().String()),
		zap.String("username", username),
		zap.String("event", event),
		zap.Time("occurred_at", time.Now()),
	}
	for k, v := range fields {
		zapFields = append(zapFields, zap.Any(k, v))
	}
	r.log.Info("learner activity", zapFields...)
}

// NopActivityRecorder 丢弃所有事件
type NopActivityRecorder struct{}

func (NopActivityRecorder) Record(username, event string, fields map[string]interface{}) {}
