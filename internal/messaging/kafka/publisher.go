package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/guardpost/guardpost-backend/internal/domain/payroll"
	kafkago "github.com/segmentio/kafka-go"
)

// MessageWriter is the subset of *kafkago.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
}

type PayStubPublisher struct {
	writer MessageWriter
	topic  string
	now    func() time.Time
}

func NewPayStubPublisher(writer MessageWriter, topic string) *PayStubPublisher {
	if topic == "" {
		topic = PayStubGeneratedTopic
	}
	return &PayStubPublisher{writer: writer, topic: topic, now: time.Now}
}

// NewWriter builds a writer that keys messages onto partitions by hash so
// events for one paystub stay ordered.
func NewWriter(brokers []string) *kafkago.Writer {
	return &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

func (p *PayStubPublisher) PublishPayStubGenerated(ctx context.Context, stub payroll.PayStub) error {
	event := PayStubGeneratedEvent{
		EventType:       PayStubGeneratedType,
		PayStubID:       stub.ID,
		CompanyID:       stub.CompanyID,
		EmployeeID:      stub.EmployeeID,
		PeriodStart:     stub.Period.Start.Format("2006-01-02"),
		PeriodEnd:       stub.Period.End.Format("2006-01-02"),
		GrossEarnings:   stub.GrossEarnings.StringFixed(2),
		TotalDeductions: stub.TotalDeductions.StringFixed(2),
		NetPay:          stub.NetPay.StringFixed(2),
		FilePath:        stub.FilePath,
		OccurredAt:      p.now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal paystub event: %w", err)
	}

	msg := kafkago.Message{
		Topic: p.topic,
		Key:   []byte(stub.ID),
		Value: payload,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(PayStubGeneratedType)},
			{Key: "company_id", Value: []byte(stub.CompanyID)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish paystub event: %w", err)
	}
	return nil
}

// NoopPublisher drops events. Used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishPayStubGenerated(context.Context, payroll.PayStub) error {
	return nil
}
