package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type jobRecord struct {
	ID        string `gorm:"primaryKey"`
	Type      string
	Status    string
	JobData   string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (jobRecord) TableName() string {
	return "jobs"
}

// SQLStore keeps jobs in a relational database through gorm; job_data is a
// JSON text column.
type SQLStore struct {
	db *gorm.DB
}

// NewSQLiteStore opens (and migrates) a SQLite database at dsn.
func NewSQLiteStore(dsn string) (*SQLStore, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open job database: %w", err)
	}

	// SQLite allows a single writer; one connection avoids SQLITE_BUSY.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	return NewSQLStore(db)
}

func NewSQLStore(db *gorm.DB) (*SQLStore, error) {
	if err := db.AutoMigrate(&jobRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate job database: %w", err)
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (*Job, error) {
	var rec jobRecord
	if err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrJobNotFound, id)
		}
		return nil, err
	}
	return rec.toJob()
}

func (s *SQLStore) Put(ctx context.Context, job *Job) error {
	if job == nil {
		return fmt.Errorf("nil job")
	}
	rec, err := recordFromJob(job)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Save(rec).Error
}

func (s *SQLStore) UpdateJobDataField(ctx context.Context, id, key string, value any) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec jobRecord
		if err := tx.First(&rec, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", ErrJobNotFound, id)
			}
			return err
		}

		job, err := rec.toJob()
		if err != nil {
			return err
		}
		job.JobData[key] = value

		data, err := json.Marshal(job.JobData)
		if err != nil {
			return err
		}
		return tx.Model(&rec).Updates(map[string]any{
			"job_data":   string(data),
			"updated_at": time.Now().UTC(),
		}).Error
	})
}

func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (r jobRecord) toJob() (*Job, error) {
	job := &Job{
		ID:        r.ID,
		Type:      r.Type,
		Status:    r.Status,
		JobData:   map[string]any{},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.JobData != "" {
		if err := json.Unmarshal([]byte(r.JobData), &job.JobData); err != nil {
			return nil, fmt.Errorf("failed to decode job data for %s: %w", r.ID, err)
		}
		if job.JobData == nil {
			job.JobData = map[string]any{}
		}
	}
	return job, nil
}

func recordFromJob(job *Job) (*jobRecord, error) {
	data := job.JobData
	if data == nil {
		data = map[string]any{}
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode job data for %s: %w", job.ID, err)
	}
	return &jobRecord{
		ID:        job.ID,
		Type:      job.Type,
		Status:    job.Status,
		JobData:   string(encoded),
		CreatedAt: job.CreatedAt,
		UpdatedAt: job.UpdatedAt,
	}, nil
}
