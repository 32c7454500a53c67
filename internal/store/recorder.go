package store

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/DoyleJ11/sniper-keeper/internal/engine"
	"github.com/google/uuid"
)

// Recorder receives the events of every accepted command, in order.
// Nothing recorded is ever read back into a running game.
type Recorder interface {
	Record(ctx context.Context, gameID uuid.UUID, seq int, events []engine.Event) error
}

// HistoryReader loads what a Recorder archived for one game, ordered by
// seq then event index.
type HistoryReader interface {
	History(ctx context.Context, gameID uuid.UUID) ([]ActionRecord, error)
}

type NopRecorder struct{}

func (NopRecorder) Record(context.Context, uuid.UUID, int, []engine.Event) error { return nil }

// MultiRecorder fans out to every recorder and joins their errors.
type MultiRecorder []Recorder

func (m MultiRecorder) Record(ctx context.Context, gameID uuid.UUID, seq int, events []engine.Event) error {
	var errs []error
	for _, r := range m {
		if err := r.Record(ctx, gameID, seq, events); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// MemoryRecorder keeps records in process.
type MemoryRecorder struct {
	mu      sync.Mutex
	records []ActionRecord
}

func (m *MemoryRecorder) Record(_ context.Context, gameID uuid.UUID, seq int, events []engine.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, toRecords(gameID, seq, events)...)
	return nil
}

func (m *MemoryRecorder) Records() []ActionRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ActionRecord(nil), m.records...)
}

func (m *MemoryRecorder) History(_ context.Context, gameID uuid.UUID) ([]ActionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ActionRecord
	for _, r := range m.records {
		if r.GameID == gameID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Seq != out[j].Seq {
			return out[i].Seq < out[j].Seq
		}
		return out[i].Index < out[j].Index
	})
	return out, nil
}

// ActionRecord is the flat, sink-independent form of one event.
type ActionRecord struct {
	GameID    uuid.UUID `json:"game_id"`
	Seq       int       `json:"seq"`
	Index     int       `json:"index"`
	EventType string    `json:"event_type"`
	Role      string    `json:"role,omitempty"`
	Round     int       `json:"round"`
	CardKind  string    `json:"card_kind,omitempty"`
	CardText  string    `json:"card_text,omitempty"`
}

func toRecords(gameID uuid.UUID, seq int, events []engine.Event) []ActionRecord {
	out := make([]ActionRecord, 0, len(events))
	for i, ev := range events {
		out = append(out, ActionRecord{
			GameID:    gameID,
			Seq:       seq,
			Index:     i,
			EventType: string(ev.Type),
			Role:      string(ev.Role),
			Round:     ev.Round,
			CardKind:  string(ev.Card.Kind),
			CardText:  ev.Card.Text,
		})
	}
	return out
}
