package kafka

import (
	"Cadence/internal/service"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// EngagementHandler 消费平台互动事件流。
// 平台 webhook 推送的迟到互动数据经由此落成指标快照。
type EngagementHandler struct {
	metricSvc service.MetricService
}

func NewEngagementHandler(metricSvc service.MetricService) *EngagementHandler {
	return &EngagementHandler{metricSvc: metricSvc}
}

func (s *EngagementHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("engagement consumer setup")
	return nil
}

func (s *EngagementHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("engagement consumer cleanup")
	return nil
}

func (s *EngagementHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("engagement-events consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("engagement-events process batch error", "err", err)
		return err
	}
	return nil
}

func (s *EngagementHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var event service.EngagementEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		// 坏消息不可恢复，记录后放行避免卡住分区
		log.ErrorContext(ctx, "unmarshal engagement event error", "err", err)
		return nil
	}
	if event.ExternalPostID == "" {
		return nil
	}
	return s.metricSvc.IngestEvent(ctx, &event)
}
