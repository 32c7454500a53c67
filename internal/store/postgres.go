package store

import (
	"context"
	"fmt"
	"time"

	"github.com/DoyleJ11/sniper-keeper/internal/engine"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DrawRecord is one archived event row.
type DrawRecord struct {
	ID        uint      `gorm:"primaryKey"`
	GameID    uuid.UUID `gorm:"type:uuid;index:idx_game_seq,priority:1"`
	Seq       int       `gorm:"index:idx_game_seq,priority:2"`
	Index     int       `gorm:"column:event_index"`
	EventType string    `gorm:"size:32"`
	Role      string    `gorm:"size:16"`
	Round     int
	CardKind  string `gorm:"size:16"`
	CardText  string
	CreatedAt time.Time
}

func (r ActionRecord) row() DrawRecord {
	return DrawRecord{
		GameID:    r.GameID,
		Seq:       r.Seq,
		Index:     r.Index,
		EventType: r.EventType,
		Role:      r.Role,
		Round:     r.Round,
		CardKind:  r.CardKind,
		CardText:  r.CardText,
	}
}

func (d DrawRecord) record() ActionRecord {
	return ActionRecord{
		GameID:    d.GameID,
		Seq:       d.Seq,
		Index:     d.Index,
		EventType: d.EventType,
		Role:      d.Role,
		Round:     d.Round,
		CardKind:  d.CardKind,
		CardText:  d.CardText,
	}
}

type GormRecorder struct {
	db *gorm.DB
}

// OpenPostgres connects through the pgx-backed gorm driver and migrates
// the archive table.
func OpenPostgres(dsn string) (*GormRecorder, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return NewGormRecorder(db)
}

func NewGormRecorder(db *gorm.DB) (*GormRecorder, error) {
	if err := db.AutoMigrate(&DrawRecord{}); err != nil {
		return nil, fmt.Errorf("migrate draw records: %w", err)
	}
	return &GormRecorder{db: db}, nil
}

func (g *GormRecorder) Record(ctx context.Context, gameID uuid.UUID, seq int, events []engine.Event) error {
	if len(events) == 0 {
		return nil
	}
	if err := g.insert(ctx, toRecords(gameID, seq, events)).Error; err != nil {
		return fmt.Errorf("insert draw records: %w", err)
	}
	return nil
}

func (g *GormRecorder) insert(ctx context.Context, recs []ActionRecord) *gorm.DB {
	rows := make([]DrawRecord, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, r.row())
	}
	return g.db.WithContext(ctx).Create(&rows)
}

// History returns a game's archived events in command order.
func (g *GormRecorder) History(ctx context.Context, gameID uuid.UUID) ([]ActionRecord, error) {
	var rows []DrawRecord
	if err := g.historyQuery(ctx, gameID, &rows).Error; err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	out := make([]ActionRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.record())
	}
	return out, nil
}

func (g *GormRecorder) historyQuery(ctx context.Context, gameID uuid.UUID, rows *[]DrawRecord) *gorm.DB {
	return g.db.WithContext(ctx).
		Where("game_id = ?", gameID).
		Order("seq, event_index").
		Find(rows)
}

func (g *GormRecorder) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
