package huggingface

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"esg_dashboard/internal/feature/esg/adapters/huggingface/dto"
	"esg_dashboard/internal/feature/esg/domain/entity"
	"esg_dashboard/internal/feature/esg/usecase"
	"esg_dashboard/internal/shared/ratelimiter"
)

// DatasetSource はHugging Face datasets-serverからESGデータセットを取得するSourceRepository実装です。
type DatasetSource struct {
	cfg     Config
	client  *http.Client
	limiter ratelimiter.Limiter
}

// DatasetSourceがSourceRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.SourceRepository = (*DatasetSource)(nil)

// NewDatasetSource は指定された設定とHTTPクライアントでDatasetSourceの新しいインスタンスを生成します。
// limiter はページ取得ごとに呼ばれます。nilの場合は制限しません。
func NewDatasetSource(cfg Config, client *http.Client, limiter ratelimiter.Limiter) *DatasetSource {
	return &DatasetSource{cfg: cfg.withDefaults(), client: client, limiter: limiter}
}

// FetchAll はrowsエンドポイントをページングしながら全行を取得し、
// entity.Recordのスライスとしてデータセット順に返します。
func (s *DatasetSource) FetchAll(ctx context.Context) ([]entity.Record, error) {
	var out []entity.Record
	for offset := 0; ; {
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		page, err := s.fetchPage(ctx, offset)
		if err != nil {
			return nil, err
		}
		if out == nil {
			out = make([]entity.Record, 0, page.NumRowsTotal)
		}
		for _, r := range page.Rows {
			out = append(out, toEntity(r.Row))
		}

		offset += len(page.Rows)
		slog.Debug("fetched dataset page", "dataset", s.cfg.Dataset, "rows", len(page.Rows), "offset", offset, "total", page.NumRowsTotal)
		// 空ページまたは総件数に達したら終了
		if len(page.Rows) == 0 || offset >= page.NumRowsTotal {
			break
		}
	}
	return out, nil
}

func (s *DatasetSource) fetchPage(ctx context.Context, offset int) (*dto.RowsResponse, error) {
	q := url.Values{}
	// クエリパラメータを追加
	q.Set("dataset", s.cfg.Dataset)
	q.Set("config", s.cfg.ConfigName)
	q.Set("split", s.cfg.Split)
	q.Set("offset", strconv.Itoa(offset))
	q.Set("length", strconv.Itoa(s.cfg.PageSize))

	// URLを生成
	u := fmt.Sprintf("%s/rows?%s", s.cfg.BaseURL, q.Encode())

	// リクエストオブジェクトを作成
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	if s.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.Token)
	}

	// リクエストを実行
	res, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		var e dto.ErrorResponse
		if json.NewDecoder(res.Body).Decode(&e) == nil && e.Error != "" {
			return nil, fmt.Errorf("datasets-server http %d: %s", res.StatusCode, e.Error)
		}
		return nil, fmt.Errorf("datasets-server http %d", res.StatusCode)
	}

	// JSONレスポンスをDTOにデコード
	var body dto.RowsResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode rows at offset %d: %w", offset, err)
	}
	return &body, nil
}

func toEntity(r dto.Row) entity.Record {
	return entity.Record{
		Company:         r.Company,
		Ticker:          r.Ticker,
		PeerGroupRoot:   r.PeerGroupRoot,
		Region:          r.Region,
		Country:         r.Country,
		TotalESGScore:   r.TotalESGScore.Ptr(),
		GovernanceScore: r.GovernanceScore.Ptr(),
	}
}
