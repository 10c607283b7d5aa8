package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"esg_dashboard/internal/feature/esg/domain/entity"
)

// RecordRepository はESGレコードの読み取りレイヤーを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type RecordRepository interface {
	// FindAll はデータセット順にすべてのレコードを返します。
	FindAll(ctx context.Context) ([]entity.Record, error)
}

// RecordWriter はESGレコードの書き込みレイヤーを抽象化します。
type RecordWriter interface {
	// UpsertBatch はレコードを一括で挿入（または更新）します。
	UpsertBatch(ctx context.Context, records []entity.Record) error
	// DeleteExcept は(Company, Ticker)がkeepに含まれない行を削除し、削除件数を返します。
	DeleteExcept(ctx context.Context, keep []entity.Record) (int64, error)
}

// RecordStore は読み書き両方を提供するリポジトリです。
type RecordStore interface {
	RecordRepository
	RecordWriter
}

// DatasetProvider はデータセットの読み込みをプロセス内でメモ化します。
// 最初に成功したLoadの結果を以降の呼び出しで共有し、失敗した読み込みはメモ化しません。
type DatasetProvider struct {
	repo RecordRepository
	now  func() time.Time

	mu      sync.Mutex
	dataset *Dataset
}

// NewDatasetProvider は指定されたリポジトリでDatasetProviderの新しいインスタンスを生成します。
func NewDatasetProvider(repo RecordRepository) *DatasetProvider {
	return &DatasetProvider{repo: repo, now: time.Now}
}

// Load はメモ化されたデータセットを返します。未読み込みの場合はリポジトリから読み込みます。
// 同時に呼び出された場合も読み込みは1回だけ実行されます。
func (p *DatasetProvider) Load(ctx context.Context) (*Dataset, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.dataset != nil {
		return p.dataset, nil
	}
	ds, err := p.load(ctx)
	if err != nil {
		return nil, err
	}
	p.dataset = ds
	return ds, nil
}

// Reload はリポジトリからデータセットを再読み込みし、メモ化された値を置き換えます。
// 失敗した場合は以前のデータセットを保持したままエラーを返します。
func (p *DatasetProvider) Reload(ctx context.Context) (*Dataset, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ds, err := p.load(ctx)
	if err != nil {
		return nil, err
	}
	p.dataset = ds
	return ds, nil
}

// Loaded はデータセットが読み込み済みかどうかを返します。
func (p *DatasetProvider) Loaded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dataset != nil
}

func (p *DatasetProvider) load(ctx context.Context) (*Dataset, error) {
	start := p.now()
	records, err := p.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatasetUnavailable, err)
	}
	// CSVファイルなど取り込みを経ない読み込み元にも同じ正規化を適用する
	records, norm := Normalize(records)
	if norm.Skipped > 0 || norm.Duplicates > 0 {
		slog.Warn("dropped rows while loading dataset", "skipped", norm.Skipped, "duplicates", norm.Duplicates)
	}
	ds := NewDataset(records, p.now())
	slog.Info("dataset loaded", "records", ds.Len(), "duration", ds.LoadedAt().Sub(start))
	return ds, nil
}
