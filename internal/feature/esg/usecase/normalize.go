package usecase

import (
	"fmt"
	"log/slog"
	"strings"

	"esg_dashboard/internal/feature/esg/domain/entity"
)

// NormalizeResult は正規化で除外した件数です。
type NormalizeResult struct {
	Skipped    int // 会社名が空の行
	Duplicates int // 既出の(Company, Ticker)の行
}

// Normalize は文字列項目の前後の空白を取り除き、会社名が空の行を除外し、
// 同じ(Company, Ticker)の行は最初の1件のみ残します。行の順序は保たれます。
// 取り込みとデータセット読み込みの両方で同じ規則を適用します。
func Normalize(records []entity.Record) ([]entity.Record, NormalizeResult) {
	var res NormalizeResult
	out := make([]entity.Record, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for i, r := range records {
		r, err := sanitize(r)
		if err != nil {
			// 1行の不正データで全体を止めずにログに出力して次へ進む
			slog.Warn("skipping source row", "index", i, "error", err)
			res.Skipped++
			continue
		}
		key := r.Key()
		if _, ok := seen[key]; ok {
			res.Duplicates++
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out, res
}

// sanitize は文字列項目の前後の空白を取り除き、会社名が空の行を拒否します。
func sanitize(r entity.Record) (entity.Record, error) {
	r.Company = strings.TrimSpace(r.Company)
	r.Ticker = strings.TrimSpace(r.Ticker)
	r.PeerGroupRoot = strings.TrimSpace(r.PeerGroupRoot)
	r.Region = strings.TrimSpace(r.Region)
	r.Country = strings.TrimSpace(r.Country)
	if r.Company == "" {
		return r, fmt.Errorf("empty %s: %w", entity.ColumnCompany, ErrInvalidRecord)
	}
	return r, nil
}
