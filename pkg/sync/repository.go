package sync

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RunModel is the persisted audit record of one sync run.
type RunModel struct {
	ID          string            `json:"id" gorm:"primaryKey;column:id"`
	Kind        string            `json:"kind" gorm:"column:kind"`
	Fetched     int               `json:"fetched" gorm:"column:fetched"`
	Mapped      int               `json:"mapped" gorm:"column:mapped"`
	Skipped     int               `json:"skipped" gorm:"column:skipped"`
	Published   int               `json:"published" gorm:"column:published"`
	Failed      int               `json:"failed" gorm:"column:failed"`
	Detail      datatypes.JSONMap `json:"detail" gorm:"column:detail"`
	StartedAt   time.Time         `json:"started_at" gorm:"column:started_at"`
	CompletedAt time.Time         `json:"completed_at" gorm:"column:completed_at"`
	CreatedAt   time.Time         `json:"created_at" gorm:"column:created_at"`
}

func (RunModel) TableName() string {
	return "sync_runs"
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&RunModel{})
}

func (r *Repository) Save(ctx context.Context, run *RunModel) error {
	run.CreatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *Repository) Recent(ctx context.Context, limit int) ([]RunModel, error) {
	var runs []RunModel
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&runs).Error
	return runs, err
}
