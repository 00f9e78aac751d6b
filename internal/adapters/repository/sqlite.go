package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/okian/eventreg/internal/domain/participant"
)

// participantRecord is the gorm row for a participant.
type participantRecord struct {
	ID               string    `gorm:"primaryKey;size:36"`
	Name             string    `gorm:"not null"`
	Email            string    `gorm:"not null"`
	Phone            string    `gorm:"not null"`
	EventName        string    `gorm:"not null"`
	RegistrationDate time.Time `gorm:"not null;index"`
}

func (participantRecord) TableName() string { return "participants" }

func (r participantRecord) toDomain() participant.Participant {
	return participant.Participant{
		ID:               r.ID,
		Name:             r.Name,
		Email:            r.Email,
		Phone:            r.Phone,
		EventName:        r.EventName,
		RegistrationDate: r.RegistrationDate.UTC(),
	}
}

func recordFromDomain(p participant.Participant) participantRecord {
	return participantRecord{
		ID:               p.ID,
		Name:             p.Name,
		Email:            p.Email,
		Phone:            p.Phone,
		EventName:        p.EventName,
		RegistrationDate: p.RegistrationDate,
	}
}

// GormStore implements Store on top of gorm.
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

// OpenSQLite opens (or creates) the SQLite database at path and migrates it.
func OpenSQLite(ctx context.Context, path string) (*GormStore, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty sqlite path", ErrUnsupportedDSN)
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Every connection to :memory: is a separate database.
	if path == ":memory:" {
		sqlDB.SetMaxOpenConns(1)
	}

	return NewGormStore(ctx, db)
}

// NewGormStore wraps an open gorm handle and migrates the participants table.
func NewGormStore(ctx context.Context, db *gorm.DB) (*GormStore, error) {
	if err := db.WithContext(ctx).AutoMigrate(&participantRecord{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Create(ctx context.Context, f participant.Fields) (participant.Participant, error) {
	p := participant.New(uuid.NewString(), f)
	p.RegistrationDate = stamp(p.RegistrationDate)

	rec := recordFromDomain(p)
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return participant.Participant{}, fmt.Errorf("create participant: %w", err)
	}
	return rec.toDomain(), nil
}

func (s *GormStore) List(ctx context.Context) ([]participant.Participant, error) {
	var recs []participantRecord
	err := s.db.WithContext(ctx).
		Order("registration_date DESC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	out := make([]participant.Participant, len(recs))
	for i := range recs {
		out[i] = recs[i].toDomain()
	}
	return out, nil
}

func (s *GormStore) Get(ctx context.Context, id string) (participant.Participant, error) {
	var rec participantRecord
	err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return participant.Participant{}, ErrNotFound
	}
	if err != nil {
		return participant.Participant{}, fmt.Errorf("get participant: %w", err)
	}
	return rec.toDomain(), nil
}

func (s *GormStore) Update(ctx context.Context, id string, patch participant.Patch) (participant.Participant, error) {
	var out participant.Participant
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec participantRecord
		if err := tx.First(&rec, "id = ?", id).Error; err != nil {
			return err
		}

		p := rec.toDomain().Apply(patch)
		p.RegistrationDate = stamp(p.RegistrationDate)
		rec = recordFromDomain(p)
		if err := tx.Save(&rec).Error; err != nil {
			return err
		}
		out = rec.toDomain()
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return participant.Participant{}, ErrNotFound
	}
	if err != nil {
		return participant.Participant{}, fmt.Errorf("update participant: %w", err)
	}
	return out, nil
}

func (s *GormStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&participantRecord{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete participant: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&participantRecord{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count participants: %w", err)
	}
	return n, nil
}

// Close releases the underlying connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
