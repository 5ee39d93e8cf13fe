// internal/events/kafka.go
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"mcp-dosage-safety/internal/models"
)

// Publisher announces finished calculations to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, result *models.CalculationResult) error
	Close() error
}

// HighRiskEvent is the message body written for high and critical results.
type HighRiskEvent struct {
	CalculationID   string               `json:"calculation_id"`
	OverallRisk     models.RiskLevel     `json:"overall_risk"`
	SupplementIDs   []string             `json:"supplement_ids"`
	Alerts          []models.SafetyAlert `json:"alerts"`
	Warnings        []string             `json:"warnings"`
	CalculationDate time.Time            `json:"calculation_date"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
	logger *zap.Logger
}

func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 250 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}
}

func NewKafkaPublisher(brokers []string, topic string, logger *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: NewWriter(brokers, topic), logger: logger}
}

// Publish writes results whose overall risk is high or critical, keyed by
// calculation id. Lower risks are skipped.
func (p *KafkaPublisher) Publish(ctx context.Context, result *models.CalculationResult) error {
	if !ShouldPublish(result) {
		return nil
	}

	body, err := json.Marshal(NewHighRiskEvent(result))
	if err != nil {
		return fmt.Errorf("encode high risk event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(result.CalculationID),
		Value: body,
		Time:  result.CalculationDate,
	})
	if err != nil {
		return fmt.Errorf("publish high risk event: %w", err)
	}
	p.logger.Info("high risk calculation published",
		zap.String("calculation_id", result.CalculationID),
		zap.String("overall_risk", string(result.OverallRisk)))
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func ShouldPublish(result *models.CalculationResult) bool {
	return result != nil && result.OverallRisk.Rank() >= models.RiskHigh.Rank()
}

func NewHighRiskEvent(result *models.CalculationResult) HighRiskEvent {
	ids := make([]string, len(result.DosageRecommendations))
	for i, r := range result.DosageRecommendations {
		ids[i] = r.SupplementID
	}
	return HighRiskEvent{
		CalculationID:   result.CalculationID,
		OverallRisk:     result.OverallRisk,
		SupplementIDs:   ids,
		Alerts:          result.SafetyAlerts,
		Warnings:        result.Warnings,
		CalculationDate: result.CalculationDate,
	}
}

// NopPublisher is used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, *models.CalculationResult) error { return nil }
func (NopPublisher) Close() error                                            { return nil }
