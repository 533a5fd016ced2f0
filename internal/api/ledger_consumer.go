package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"github.com/solos-ag-ze/Painel-sub001/internal/services"
)

// EventFinanceChanged tells dashboards to reload balances.
const EventFinanceChanged = "financeiro_atualizado"

const ledgerGroupID = "painel-ledger-events"

// LedgerEvent is written by the WhatsApp ingestion side after it changes a
// user's ledger tables.
type LedgerEvent struct {
	UserID    string `json:"user_id"`
	Table     string `json:"tabela"`
	Operation string `json:"operacao"`
}

// LedgerEventConsumer keeps dashboards in sync with writes made outside this service.
type LedgerEventConsumer struct {
	topic     string
	reader    *kafka.Reader
	stock     *services.StockService
	notifier  *services.NotificationService
	publisher services.Publisher
	processed int64
	cancel    context.CancelFunc
}

func NewLedgerEventConsumer(brokers, topic, username, password, caCert string,
	stock *services.StockService, notifier *services.NotificationService, publisher services.Publisher) *LedgerEventConsumer {

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     ParseKafkaBrokers(brokers),
		Topic:       topic,
		GroupID:     ledgerGroupID,
		StartOffset: kafka.LastOffset,
		MinBytes:    1,
		MaxBytes:    10e6,
		MaxWait:     1 * time.Second,
		Dialer:      CreateKafkaDialer(username, password, caCert),
	})
	return newLedgerEventConsumer(topic, reader, stock, notifier, publisher)
}

func newLedgerEventConsumer(topic string, reader *kafka.Reader, stock *services.StockService,
	notifier *services.NotificationService, publisher services.Publisher) *LedgerEventConsumer {
	return &LedgerEventConsumer{
		topic:     topic,
		reader:    reader,
		stock:     stock,
		notifier:  notifier,
		publisher: publisher,
	}
}

// Start reads events in the background until Stop or ctx cancellation.
func (lc *LedgerEventConsumer) Start(ctx context.Context) {
	ctx, lc.cancel = context.WithCancel(ctx)
	log.Info().Str("topic", lc.topic).Str("group_id", ledgerGroupID).Msg("ledger event consumer started")

	go func() {
		for {
			msg, err := lc.reader.ReadMessage(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) || ctx.Err() != nil {
					log.Info().Msg("ledger event consumer stopped")
					return
				}
				log.Warn().Err(err).Msg("ledger event read failed")
				time.Sleep(time.Second)
				continue
			}
			if err := lc.Handle(ctx, msg.Value); err != nil {
				log.Warn().Err(err).Int64("offset", msg.Offset).Msg("ledger event skipped")
			}
		}
	}()
}

// Handle applies one event. Unknown tables are ignored.
func (lc *LedgerEventConsumer) Handle(ctx context.Context, raw []byte) error {
	var ev LedgerEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return fmt.Errorf("decode ledger event: %w", err)
	}
	if ev.UserID == "" {
		return services.ErrMissingUserID
	}

	switch ev.Table {
	case "estoque_de_produtos", "movimentacoes_estoque":
		lc.stock.InvalidateConsumption(ctx)
		lc.publisher.Publish(ev.UserID, services.EventStockChanged, nil)
	case "lancamento_produtos", "lancamentos_agricolas":
		lc.stock.InvalidateConsumption(ctx)
		lc.publisher.Publish(ev.UserID, services.EventStockChanged, nil)
		lc.notifyShortages(ctx, ev.UserID)
	case "transacoes_financeiras":
		lc.publisher.Publish(ev.UserID, EventFinanceChanged, nil)
	default:
		log.Debug().Str("table", ev.Table).Msg("ignoring ledger event")
		return nil
	}

	if n := atomic.AddInt64(&lc.processed, 1); n%100 == 0 {
		log.Info().Int64("processed", n).Msg("ledger events processed")
	}
	return nil
}

func (lc *LedgerEventConsumer) notifyShortages(ctx context.Context, userID string) {
	if lc.notifier == nil {
		return
	}
	alerts, err := lc.stock.ShortageAlerts(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("shortage check failed")
		return
	}
	lc.notifier.NotifyShortages(ctx, userID, alerts)
}

// Processed returns how many events were applied.
func (lc *LedgerEventConsumer) Processed() int64 {
	return atomic.LoadInt64(&lc.processed)
}

func (lc *LedgerEventConsumer) Stop() error {
	if lc.cancel != nil {
		lc.cancel()
	}
	if lc.reader == nil {
		return nil
	}
	return lc.reader.Close()
}
