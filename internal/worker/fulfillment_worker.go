package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/combatessentials/api/internal/model"
	"github.com/combatessentials/api/internal/repository"
)

const (
	orderQueueName = "orders"
	dlxExchange    = "orders.dlx"
	dlqQueueName   = "orders.dlq"
	idempotencyTTL = 24 * time.Hour
)

// FulfillmentWorker consumes order.created messages and records them for the
// fulfillment pipeline. It never changes order status; only the admin
// endpoint does that.
type FulfillmentWorker struct {
	channel     *amqp.Channel
	orderRepo   repository.OrderRepository
	redisClient *redis.Client
	log         *slog.Logger
	done        chan struct{}
}

func NewFulfillmentWorker(
	ch *amqp.Channel,
	orderRepo repository.OrderRepository,
	redisClient *redis.Client,
	log *slog.Logger,
) *FulfillmentWorker {
	return &FulfillmentWorker{
		channel:     ch,
		orderRepo:   orderRepo,
		redisClient: redisClient,
		log:         log,
		done:        make(chan struct{}),
	}
}

// SetupRabbitMQ declares exchanges, queues, and bindings (DLX/DLQ).
func SetupRabbitMQ(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(dlxExchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare DLX: %w", err)
	}
	if _, err := ch.QueueDeclare(dlqQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare DLQ: %w", err)
	}
	if err := ch.QueueBind(dlqQueueName, orderQueueName, dlxExchange, false, nil); err != nil {
		return fmt.Errorf("bind DLQ: %w", err)
	}
	if _, err := ch.QueueDeclare(orderQueueName, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    dlxExchange,
		"x-dead-letter-routing-key": orderQueueName,
	}); err != nil {
		return fmt.Errorf("declare order queue: %w", err)
	}
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set QoS: %w", err)
	}
	return nil
}

func (w *FulfillmentWorker) Start(ctx context.Context) error {
	msgs, err := w.channel.Consume(orderQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				w.processMessage(ctx, msg)
			case <-w.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	w.log.Info("fulfillment worker started")
	return nil
}

func (w *FulfillmentWorker) Stop() { close(w.done) }

func (w *FulfillmentWorker) processMessage(ctx context.Context, msg amqp.Delivery) {
	var orderMsg model.OrderMessage
	if err := json.Unmarshal(msg.Body, &orderMsg); err != nil {
		w.log.Error("unmarshal order message", "error", err)
		_ = msg.Nack(false, false)
		return
	}

	log := w.log.With("order_id", orderMsg.OrderID)

	// Redelivered messages must not notify fulfillment twice.
	idempotencyKey := "order_notified:" + orderMsg.OrderID.String()
	exists, err := w.redisClient.Exists(ctx, idempotencyKey).Result()
	if err != nil {
		log.Error("check idempotency key", "error", err)
		_ = msg.Nack(false, true)
		return
	}
	if exists > 0 {
		log.Info("order already notified, skipping")
		_ = msg.Ack(false)
		return
	}

	if err := w.notify(ctx, log, orderMsg); err != nil {
		log.Error("notify fulfillment failed", "error", err)
		_ = msg.Nack(false, false) // to DLQ
		return
	}

	if err := w.redisClient.Set(ctx, idempotencyKey, "1", idempotencyTTL).Err(); err != nil {
		log.Error("set idempotency key", "error", err)
	}

	_ = msg.Ack(false)
}

func (w *FulfillmentWorker) notify(ctx context.Context, log *slog.Logger, orderMsg model.OrderMessage) error {
	order, err := w.orderRepo.GetByID(ctx, orderMsg.OrderID)
	if err != nil {
		return fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return fmt.Errorf("order not found: %s", orderMsg.OrderID)
	}

	log.Info("order ready for fulfillment",
		"total_amount", order.TotalAmount.String(),
		"items", len(order.Items),
		"guest", !order.UserID.Valid,
	)
	return nil
}
