package engagement

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/goliatone/go-proposal/pkg/logger"
)

// StoreConfig configures the sqlite event store.
type StoreConfig struct {
	Path   string
	Logger *log.Logger
}

type eventRecord struct {
	ID           uint   `gorm:"primaryKey"`
	Type         string `gorm:"index;not null"`
	SessionID    string `gorm:"index;not null"`
	Page         string
	TripFilename string    `gorm:"index"`
	Timestamp    time.Time `gorm:"index"`
	Props        string
	CreatedAt    time.Time
}

func (eventRecord) TableName() string { return "engagement_events" }

type feedbackRecord struct {
	ID           uint   `gorm:"primaryKey"`
	Type         string `gorm:"index;not null"`
	TripFilename string `gorm:"index"`
	SectionID    string
	Title        string
	PageURL      string
	Name         string
	Email        string
	Message      string
	Choice       string
	Note         string
	TTCMs        int64
	CreatedAt    time.Time
}

func (feedbackRecord) TableName() string { return "engagement_feedback" }

// Store persists events and feedback in sqlite through gorm.
type Store struct {
	db *gorm.DB
}

var (
	_ Recorder     = (*Store)(nil)
	_ FeedbackSink = (*Store)(nil)
)

// OpenStore opens (creating when needed) the database at cfg.Path and
// migrates its tables.
func OpenStore(cfg StoreConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("engagement: store path is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.L()
	}

	loggerConfig := gormLogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		IgnoreRecordNotFoundError: true,
		LogLevel:                  gormLogger.Warn,
	}
	gormLog := gormLogger.New(newGormLogger(cfg.Logger), loggerConfig)

	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger: gormLog,
	})
	if err != nil {
		return nil, fmt.Errorf("engagement: open %s: %w", cfg.Path, err)
	}
	if err := db.AutoMigrate(&eventRecord{}, &feedbackRecord{}); err != nil {
		return nil, fmt.Errorf("engagement: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Record validates and stores event.
func (s *Store) Record(ctx context.Context, event Event) error {
	if err := event.Validate(); err != nil {
		return err
	}
	props := ""
	if len(event.Props) > 0 {
		data, err := json.Marshal(event.Props)
		if err != nil {
			return fmt.Errorf("engagement: encode props: %w", err)
		}
		props = string(data)
	}
	rec := eventRecord{
		Type:         string(event.Type),
		SessionID:    event.SessionID,
		Page:         event.Page,
		TripFilename: event.TripFilename,
		Timestamp:    event.Timestamp.UTC(),
		Props:        props,
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("engagement: record %s: %w", event.Type, err)
	}
	return nil
}

// SaveFeedback validates and stores feedback. Honeypot submissions are
// dropped without error.
func (s *Store) SaveFeedback(ctx context.Context, feedback Feedback) error {
	if feedback.Spam() {
		return nil
	}
	feedback = feedback.Trimmed()
	if err := feedback.Validate(); err != nil {
		return err
	}
	rec := feedbackRecord{
		Type:         string(feedback.Type),
		TripFilename: feedback.TripFilename,
		SectionID:    feedback.SectionID,
		Title:        feedback.Title,
		PageURL:      feedback.PageURL,
		Name:         feedback.Name,
		Email:        feedback.Email,
		Message:      feedback.Message,
		Choice:       feedback.Choice,
		Note:         feedback.Note,
		TTCMs:        feedback.TTCMs,
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("engagement: save feedback: %w", err)
	}
	return nil
}

// Filter narrows Events queries. Zero fields match everything.
type Filter struct {
	TripFilename string
	SessionID    string
	Type         Kind
}

// Events returns stored events matching filter, oldest first.
func (s *Store) Events(ctx context.Context, filter Filter) ([]Event, error) {
	query := s.db.WithContext(ctx).Model(&eventRecord{})
	if filter.TripFilename != "" {
		query = query.Where("trip_filename = ?", filter.TripFilename)
	}
	if filter.SessionID != "" {
		query = query.Where("session_id = ?", filter.SessionID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", string(filter.Type))
	}

	var records []eventRecord
	if err := query.Order("timestamp asc, id asc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("engagement: query events: %w", err)
	}

	events := make([]Event, 0, len(records))
	for _, rec := range records {
		ev := Event{
			Type:         Kind(rec.Type),
			SessionID:    rec.SessionID,
			Page:         rec.Page,
			TripFilename: rec.TripFilename,
			Timestamp:    rec.Timestamp.UTC(),
		}
		if rec.Props != "" {
			if err := json.Unmarshal([]byte(rec.Props), &ev.Props); err != nil {
				return nil, fmt.Errorf("engagement: decode props of event %d: %w", rec.ID, err)
			}
		}
		events = append(events, ev)
	}
	return events, nil
}

// Counts returns the number of stored events per kind for a trip.
func (s *Store) Counts(ctx context.Context, tripFilename string) (map[Kind]int64, error) {
	var rows []struct {
		Type  string
		Total int64
	}
	err := s.db.WithContext(ctx).
		Model(&eventRecord{}).
		Select("type, count(*) as total").
		Where("trip_filename = ?", tripFilename).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("engagement: count events: %w", err)
	}
	counts := make(map[Kind]int64, len(rows))
	for _, row := range rows {
		counts[Kind(row.Type)] = row.Total
	}
	return counts, nil
}

// Feedback returns stored feedback for a trip, oldest first.
func (s *Store) Feedback(ctx context.Context, tripFilename string) ([]Feedback, error) {
	var records []feedbackRecord
	err := s.db.WithContext(ctx).
		Where("trip_filename = ?", tripFilename).
		Order("id asc").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("engagement: query feedback: %w", err)
	}
	out := make([]Feedback, 0, len(records))
	for _, rec := range records {
		out = append(out, Feedback{
			Type:         FeedbackType(rec.Type),
			TripFilename: rec.TripFilename,
			SectionID:    rec.SectionID,
			Title:        rec.Title,
			PageURL:      rec.PageURL,
			Name:         rec.Name,
			Email:        rec.Email,
			Message:      rec.Message,
			Choice:       rec.Choice,
			Note:         rec.Note,
			TTCMs:        rec.TTCMs,
		})
	}
	return out, nil
}
