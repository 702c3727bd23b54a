package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const (
	headerEventID   = "event_id"
	headerEventType = "event_type"

	batchTimeout = 10 * time.Millisecond
)

// Writer интерфейс kafka writer (для тестирования)
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Config параметры публикации событий
type Config struct {
	Brokers        string // Список брокеров через запятую, пусто - публикация выключена
	CreatedTopic   string
	CancelledTopic string
	WriteTimeout   time.Duration
}

// Publisher публикует события жизненного цикла записей для сервиса уведомлений
type Publisher struct {
	writer Writer
	cfg    Config
	log    Logger
	now    func() time.Time
}

// NewPublisher создает publisher. Без брокеров возвращает выключенный publisher
func NewPublisher(cfg Config, log Logger) *Publisher {
	cfg = cfg.withDefaults()
	p := &Publisher{cfg: cfg, log: log, now: time.Now}

	brokers := SplitBrokers(cfg.Brokers)
	if len(brokers) == 0 {
		log.Warn("Notifications: publisher disabled (no kafka brokers configured)")
		return p
	}

	p.writer = newKafkaWriter(brokers, cfg)
	log.Info("Notifications: publishing to brokers=%v", brokers)
	return p
}

// newKafkaWriter создает writer, отправляющий каждое событие сразу
func newKafkaWriter(brokers []string, cfg Config) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchSize:              1,
		BatchTimeout:           batchTimeout,
		WriteTimeout:           cfg.WriteTimeout,
	}
}

// NewPublisherWithWriter создает publisher с готовым writer
func NewPublisherWithWriter(writer Writer, cfg Config, log Logger) *Publisher {
	return &Publisher{writer: writer, cfg: cfg.withDefaults(), log: log, now: time.Now}
}

func (c Config) withDefaults() Config {
	if c.CreatedTopic == "" {
		c.CreatedTopic = TopicAppointmentCreated
	}
	if c.CancelledTopic == "" {
		c.CancelledTopic = TopicAppointmentCancelled
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 5 * time.Second
	}
	return c
}

// Enabled возвращает true, если события действительно отправляются
func (p *Publisher) Enabled() bool {
	return p != nil && p.writer != nil
}

// PublishAppointmentCreated публикует событие о новой записи
func (p *Publisher) PublishAppointmentCreated(ctx context.Context, appointment *domain.Appointment) error {
	return p.publish(ctx, p.cfg.CreatedTopic, EventAppointmentCreated, appointment)
}

// PublishAppointmentCancelled публикует событие об отмене записи
func (p *Publisher) PublishAppointmentCancelled(ctx context.Context, appointment *domain.Appointment) error {
	return p.publish(ctx, p.cfg.CancelledTopic, EventAppointmentCancelled, appointment)
}

func (p *Publisher) publish(ctx context.Context, topic, eventType string, appointment *domain.Appointment) error {
	if !p.Enabled() {
		return nil
	}

	msg, err := p.buildMessage(topic, eventType, appointment)
	if err != nil {
		return err
	}

	writeCtx, cancel := context.WithTimeout(ctx, p.cfg.WriteTimeout)
	defer cancel()

	if err := p.writer.WriteMessages(writeCtx, msg); err != nil {
		return fmt.Errorf("%w: topic=%s appointment=%d: %v", ErrPublish, topic, appointment.ID, err)
	}

	p.log.Info("Notifications: published %s for appointment id=%d", eventType, appointment.ID)
	return nil
}

func (p *Publisher) buildMessage(topic, eventType string, appointment *domain.Appointment) (kafka.Message, error) {
	eventID := uuid.New().String()

	payload, err := json.Marshal(newAppointmentEvent(eventID, eventType, appointment, p.now()))
	if err != nil {
		return kafka.Message{}, fmt.Errorf("%w: marshal event: %v", ErrPublish, err)
	}

	return kafka.Message{
		Topic: topic,
		Key:   []byte(strconv.FormatInt(appointment.ID, 10)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: headerEventID, Value: []byte(eventID)},
			{Key: headerEventType, Value: []byte(eventType)},
		},
	}, nil
}

// Close закрывает соединения с брокерами
func (p *Publisher) Close() error {
	if !p.Enabled() {
		return nil
	}
	return p.writer.Close()
}

// SplitBrokers разбирает список брокеров через запятую
func SplitBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
