package adapters

import (
	"context"
	"time"

	"esg_dashboard/internal/feature/esg/domain/entity"
	"esg_dashboard/internal/feature/esg/usecase"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 1回のDELETEで指定するIDの上限
const deleteChunkSize = 500

// RecordGorm はGORMでesg_recordsテーブルを読み書きするリポジトリです。
type RecordGorm struct {
	db *gorm.DB
}

var _ usecase.RecordStore = (*RecordGorm)(nil)

func NewRecordRepository(db *gorm.DB) *RecordGorm {
	return &RecordGorm{db: db}
}

// RecordModel はesg_recordsテーブルの1行です。スコアが欠損している場合はNULLを保存します。
type RecordModel struct {
	ID      uint   `gorm:"primaryKey"`
	Company string `gorm:"size:255;not null;uniqueIndex:esg_company_ticker,priority:1"`
	Ticker  string `gorm:"size:32;not null;default:'';uniqueIndex:esg_company_ticker,priority:2"`

	PeerGroupRoot string `gorm:"column:peer_group_root;size:255;index"`
	Region        string `gorm:"size:128;index"`
	Country       string `gorm:"size:128;index"`

	TotalESGScore   *float64 `gorm:"column:total_esg_score"`
	GovernanceScore *float64 `gorm:"column:governance_score"`

	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (RecordModel) TableName() string {
	return "esg_records"
}

func toModel(e entity.Record) RecordModel {
	return RecordModel{
		Company:         e.Company,
		Ticker:          e.Ticker,
		PeerGroupRoot:   e.PeerGroupRoot,
		Region:          e.Region,
		Country:         e.Country,
		TotalESGScore:   e.TotalESGScore,
		GovernanceScore: e.GovernanceScore,
	}
}

func (m RecordModel) toEntity() entity.Record {
	return entity.Record{
		Company:         m.Company,
		Ticker:          m.Ticker,
		PeerGroupRoot:   m.PeerGroupRoot,
		Region:          m.Region,
		Country:         m.Country,
		TotalESGScore:   m.TotalESGScore,
		GovernanceScore: m.GovernanceScore,
	}
}

func (r *RecordGorm) UpsertBatch(ctx context.Context, records []entity.Record) error {
	if len(records) == 0 {
		return nil
	}
	ms := make([]RecordModel, 0, len(records))
	for _, e := range records {
		ms = append(ms, toModel(e))
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "company"}, {Name: "ticker"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"peer_group_root", "region", "country", "total_esg_score", "governance_score", "updated_at",
		}),
	}).Create(&ms).Error
}

// DeleteExcept removes every stored row whose (Company, Ticker) is not in keep
// and returns the number of rows deleted.
func (r *RecordGorm) DeleteExcept(ctx context.Context, keep []entity.Record) (int64, error) {
	wanted := make(map[string]struct{}, len(keep))
	for _, e := range keep {
		wanted[e.Key()] = struct{}{}
	}

	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stored []RecordModel
		if err := tx.Select("id", "company", "ticker").Find(&stored).Error; err != nil {
			return err
		}
		stale := make([]uint, 0)
		for _, m := range stored {
			if _, ok := wanted[m.toEntity().Key()]; !ok {
				stale = append(stale, m.ID)
			}
		}
		for start := 0; start < len(stale); start += deleteChunkSize {
			end := min(start+deleteChunkSize, len(stale))
			res := tx.Delete(&RecordModel{}, stale[start:end])
			if res.Error != nil {
				return res.Error
			}
			deleted += res.RowsAffected
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// FindAll returns every stored row in insertion order, which is the order of the source dataset.
func (r *RecordGorm) FindAll(ctx context.Context) ([]entity.Record, error) {
	var rows []RecordModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Record, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.toEntity())
	}
	return out, nil
}

func (r *RecordGorm) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&RecordModel{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
