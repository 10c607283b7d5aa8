package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"esg_dashboard/internal/feature/esg/domain/entity"
)

const (
	ingestBatchSize = 500 // 1回のUpsertで書き込む件数
)

// SourceRepository は元データセットを取得するリポジトリのインターフェイスです。
// 外部 API やファイルの実装を抽象化します。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type SourceRepository interface {
	FetchAll(ctx context.Context) ([]entity.Record, error)
}

// IngestResult は取り込み処理の件数をまとめたものです。
type IngestResult struct {
	Fetched    int
	Stored     int
	Skipped    int
	Duplicates int
	Deleted    int64 // 元データから消えたため削除した行
}

// IngestUsecase は元データセットを取得し、データベースに永続化するユースケースを定義します。
type IngestUsecase struct {
	source    SourceRepository
	records   RecordWriter
	batchSize int
}

// NewIngestUsecase は新しい IngestUsecase を作成します。
func NewIngestUsecase(source SourceRepository, records RecordWriter) *IngestUsecase {
	return &IngestUsecase{source: source, records: records, batchSize: ingestBatchSize}
}

// Ingest は元データセットの全行を取得し、Normalizeで検証したうえでバッチ単位で保存します。
// 保存後、元データに存在しなくなった(Company, Ticker)の行を削除します。
// 有効な行が1件もない場合は、保存済みのデータを消さないよう削除を行いません。
func (iu *IngestUsecase) Ingest(ctx context.Context) (IngestResult, error) {
	fetched, err := iu.source.FetchAll(ctx)
	if err != nil {
		return IngestResult{}, fmt.Errorf("fetch source: %w", err)
	}

	valid, norm := Normalize(fetched)
	res := IngestResult{Fetched: len(fetched), Skipped: norm.Skipped, Duplicates: norm.Duplicates}

	for start := 0; start < len(valid); start += iu.batchSize {
		end := min(start+iu.batchSize, len(valid))
		if err := iu.records.UpsertBatch(ctx, valid[start:end]); err != nil {
			return res, fmt.Errorf("upsert rows %d-%d: %w", start, end, err)
		}
		res.Stored += end - start
	}

	if len(valid) == 0 {
		slog.Warn("source has no valid rows, keeping stored records", "fetched", res.Fetched)
		return res, nil
	}
	deleted, err := iu.records.DeleteExcept(ctx, valid)
	if err != nil {
		return res, fmt.Errorf("delete stale rows: %w", err)
	}
	res.Deleted = deleted
	return res, nil
}
