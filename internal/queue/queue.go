package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"newsboard/internal/logger"
	"newsboard/internal/models"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher отправляет сообщение в свою очередь.
type Publisher interface {
	Publish(ctx context.Context, contentType string, body []byte) error
}

// Producer публикует сообщения в одну durable-очередь.
// Очередь объявляется один раз на соединение. Если канал закрылся,
// следующий Publish переподключается.
type Producer struct {
	url   string
	queue string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewProducer(url, queue string) (*Producer, error) {
	p := &Producer{url: url, queue: queue}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

// connect вызывается под p.mu либо до того, как Producer стал доступен другим горутинам.
func (p *Producer) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return err
	}

	_, err = ch.QueueDeclare(
		p.queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return fmt.Errorf("declare queue %s: %w", p.queue, err)
	}

	p.conn, p.ch = conn, ch
	go watchClose(p.queue, ch.NotifyClose(make(chan *amqp.Error, 1)))
	return nil
}

// watchClose логирует закрытие канала брокером. Штатное Close закрывает chan без ошибки.
func watchClose(queue string, closed <-chan *amqp.Error) {
	if err, ok := <-closed; ok && err != nil {
		logger.Log.WithField("queue", queue).Warnf("RabbitMQ channel closed: %v", err)
	}
}

func (p *Producer) Publish(ctx context.Context, contentType string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil || p.ch.IsClosed() {
		p.closeLocked()
		if err := p.connect(); err != nil {
			return fmt.Errorf("reconnect to RabbitMQ: %w", err)
		}
		logger.Log.WithField("queue", p.queue).Info("Reconnected to RabbitMQ")
	}

	return p.ch.PublishWithContext(
		ctx,
		"",      // exchange
		p.queue, // routing key (имя очереди)
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent, // Сохранять сообщения при перезапуске
			ContentType:  contentType,
			Body:         body,
		},
	)
}

func (p *Producer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeLocked()
}

func (p *Producer) closeLocked() {
	if p.ch != nil {
		p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		p.conn.Close()
		p.conn = nil
	}
}

// NewsNotifier публикует созданные новости в виде JSON.
type NewsNotifier struct {
	pub Publisher
}

func NewNewsNotifier(pub Publisher) *NewsNotifier {
	return &NewsNotifier{pub: pub}
}

// NewsCreated отправляет событие о новой новости.
func (n *NewsNotifier) NewsCreated(ctx context.Context, item models.NewsItem) error {
	body, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal news event: %w", err)
	}
	if err := n.pub.Publish(ctx, "application/json", body); err != nil {
		return fmt.Errorf("publish news event %d: %w", item.ID, err)
	}
	logger.Log.WithField("news_id", item.ID).Debug("News event published")
	return nil
}
