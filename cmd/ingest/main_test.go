package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	esgadapters "esg_dashboard/internal/feature/esg/adapters"
	"esg_dashboard/internal/platform/config"
	"esg_dashboard/internal/platform/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const csvHeader = "Company,Ticker,Peer_group_root,Region,Country,total_esg_score,governance_score\n"

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		DBDriver:       db.DriverSQLite,
		DBPath:         filepath.Join(dir, "esg.db"),
		RunMigrations:  true,
		CacheNamespace: "esg",
		IngestSource:   config.SourceCSV,
		DatasetCSVPath: filepath.Join(dir, "esg.csv"),
	}
}

func storedCompanies(t *testing.T, cfg *config.Config) []string {
	t.Helper()
	gdb, err := db.OpenDB(cfg.Database())
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	records, err := esgadapters.NewRecordRepository(gdb).FindAll(context.Background())
	require.NoError(t, err)
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Company)
	}
	return out
}

// TestRun はCSVからの取り込みと、2回目の取り込みで元データから消えた行が削除されることを検証します。
func TestRun(t *testing.T) {
	cfg := testConfig(t)

	first := csvHeader +
		"Apple,AAPL,Technology Hardware,Americas,United States,16.7,9.2\n" +
		"Chubb,CB,Insurance,Europe,Switzerland,20.8,\n" +
		"Accenture,ACN,Software & Services,Europe,Ireland,10.1,5.3\n"
	require.NoError(t, os.WriteFile(cfg.DatasetCSVPath, []byte(first), 0o600))
	require.NoError(t, run(context.Background(), cfg))
	assert.Equal(t, []string{"Apple", "Chubb", "Accenture"}, storedCompanies(t, cfg))

	second := csvHeader +
		"Apple,AAPL,Technology Hardware,Americas,United States,17.1,9.2\n" +
		"Accenture,ACN,Software & Services,Europe,Ireland,10.1,5.3\n"
	require.NoError(t, os.WriteFile(cfg.DatasetCSVPath, []byte(second), 0o600))
	require.NoError(t, run(context.Background(), cfg))
	assert.Equal(t, []string{"Apple", "Accenture"}, storedCompanies(t, cfg))
}

// TestRun_SourceError は取り込み元の失敗がプロセスを終了させずにエラーとして返されることを検証します。
func TestRun_SourceError(t *testing.T) {
	cfg := testConfig(t)

	err := run(context.Background(), cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

// TestRun_DatabaseError は不正なDB設定がエラーとして返されることを検証します。
func TestRun_DatabaseError(t *testing.T) {
	cfg := testConfig(t)
	cfg.DBDriver = "mysql"

	err := run(context.Background(), cfg)
	assert.ErrorIs(t, err, db.ErrUnsupportedDriver)
}
