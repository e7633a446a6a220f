// Package kafka optionally exports the same projections the console
// shows, for downstream consumers. Publishing is best-effort: a broker
// hiccup must never stall the display loop.
package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"trade-tape/internal/engine"
	"trade-tape/internal/market"
)

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		Async:        true,
	}
	return &Producer{writer: w}
}

// bucketSideOutput mirrors the tape line: one finalized bucket side.
type bucketSideOutput struct {
	Timestamp int64   `json:"T"`
	Symbol    string  `json:"s"`
	Side      string  `json:"side"`
	Amount    float64 `json:"q"`
	Value     float64 `json:"v"`
	AvgPrice  float64 `json:"p"`
}

type depthSideOutput struct {
	Side  string  `json:"side"`
	Price float64 `json:"p"`
	Qty   float64 `json:"q"`
	Value float64 `json:"v"`
}

type depthTopOutput struct {
	Timestamp int64             `json:"T"`
	Symbol    string            `json:"s"`
	Sides     []depthSideOutput `json:"sides"`
}

func (p *Producer) PublishBucketSide(symbol string, key int64, side market.Side, totals engine.SideTotals) error {
	out := bucketSideOutput{
		Timestamp: key,
		Symbol:    symbol,
		Side:      string(side),
		Amount:    totals.Amount,
		Value:     totals.Value,
		AvgPrice:  totals.AvgPrice(),
	}
	return p.write(out)
}

func (p *Producer) PublishDepthTop(symbol string, ts int64, sides []engine.DepthSide) error {
	out := depthTopOutput{Timestamp: ts, Symbol: symbol}
	for _, s := range sides {
		out.Sides = append(out.Sides, depthSideOutput{
			Side:  string(s.Side),
			Price: s.Price,
			Qty:   s.Qty,
			Value: s.Value,
		})
	}
	return p.write(out)
}

func (p *Producer) write(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(context.Background(), kafka.Message{Value: b})
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
