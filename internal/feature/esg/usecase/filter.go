package usecase

import (
	"fmt"
	"strings"

	"esg_dashboard/internal/feature/esg/domain/entity"
)

// Selection はユーザーが選択したフィルタ条件を表します。
// 各フィールドは受け入れる値の集合で、空の場合はその列に制約を課しません。
type Selection struct {
	Companies  []string `json:"companies"`
	PeerGroups []string `json:"peer_groups"`
	Regions    []string `json:"regions"`
	Countries  []string `json:"countries"`
}

// NewSelection は前後の空白を除去し、空文字と重複を取り除いたSelectionを生成します。
// 値の順序は最初に現れた順を保持します。
func NewSelection(companies, peerGroups, regions, countries []string) Selection {
	return Selection{
		Companies:  normalize(companies),
		PeerGroups: normalize(peerGroups),
		Regions:    normalize(regions),
		Countries:  normalize(countries),
	}
}

// IsEmpty は4つのフィールドがすべて空の場合にtrueを返します。
func (s Selection) IsEmpty() bool {
	return len(s.Companies) == 0 && len(s.PeerGroups) == 0 &&
		len(s.Regions) == 0 && len(s.Countries) == 0
}

// Constraints は空でないフィールドのみを列名をキーとしたマップで返します。
func (s Selection) Constraints() map[string][]string {
	out := make(map[string][]string, 4)
	add := func(column string, values []string) {
		if len(values) > 0 {
			out[column] = values
		}
	}
	add(entity.ColumnCompany, s.Companies)
	add(entity.ColumnPeerGroupRoot, s.PeerGroups)
	add(entity.ColumnRegion, s.Regions)
	add(entity.ColumnCountry, s.Countries)
	return out
}

// Filter はbaseのうちSelectionの空でない全条件（AND）を満たす行を、baseの順序のまま返します。
// すべての条件が空の場合は、base全体ではなく空の結果を返します。
func Filter(base []entity.Record, sel Selection) ([]entity.Record, error) {
	return FilterBy(base, sel.Constraints())
}

// FilterBy は列名をキーとした制約でbaseを絞り込みます。
// 値が空の制約は無視され、有効な制約が1つもない場合は空の結果を返します。
// スキーマに存在しない列名が含まれる場合はErrUnknownColumnを返します。
func FilterBy(base []entity.Record, constraints map[string][]string) ([]entity.Record, error) {
	sets := make(map[string]map[string]struct{}, len(constraints))
	for column, values := range constraints {
		if _, ok := (entity.Record{}).Value(column); !ok {
			return nil, fmt.Errorf("filter by %q: %w", column, ErrUnknownColumn)
		}
		if len(values) == 0 {
			continue
		}
		set := make(map[string]struct{}, len(values))
		for _, v := range values {
			set[v] = struct{}{}
		}
		sets[column] = set
	}

	out := []entity.Record{}
	if len(sets) == 0 {
		return out, nil
	}
	for _, r := range base {
		if matches(r, sets) {
			out = append(out, r)
		}
	}
	return out, nil
}

// matches は行が全ての列の受け入れ集合に含まれるかを判定します。
func matches(r entity.Record, sets map[string]map[string]struct{}) bool {
	for column, set := range sets {
		v, _ := r.Value(column)
		if _, ok := set[v]; !ok {
			return false
		}
	}
	return true
}

func normalize(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
