package di

import (
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	esgadapters "esg_dashboard/internal/feature/esg/adapters"
	"esg_dashboard/internal/feature/esg/adapters/csvsource"
	"esg_dashboard/internal/feature/esg/adapters/huggingface"
	"esg_dashboard/internal/platform/cache"
	"esg_dashboard/internal/platform/config"
)

func testConfig() *config.Config {
	return &config.Config{
		DatasetSource:    config.SourceDB,
		IngestSource:     config.SourceHuggingFace,
		CacheNamespace:   "esg",
		CacheRefreshHour: 8,
		CacheTimezone:    "UTC",
	}
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	return db
}

func TestNewRecordStore_WithoutRedis(t *testing.T) {
	store := NewRecordStore(nil, openTestDB(t), testConfig())

	_, cached := store.(*cache.CachingRecordRepository)
	assert.False(t, cached, "store should not be cached without Redis")
	assert.IsType(t, &esgadapters.RecordGorm{}, store, "the gorm repository type is usable outside its package")
}

func TestNewRecordStore_WithRedis(t *testing.T) {
	rdb, _ := redismock.NewClientMock()
	store := NewRecordStore(rdb, openTestDB(t), testConfig())

	assert.IsType(t, &cache.CachingRecordRepository{}, store)
}

func TestNewDatasetRepository(t *testing.T) {
	store := NewRecordStore(nil, openTestDB(t), testConfig())

	cfg := testConfig()
	assert.Same(t, store, NewDatasetRepository(cfg, store))

	cfg.DatasetSource = config.SourceCSV
	cfg.DatasetCSVPath = "esg.csv"
	assert.IsType(t, &csvsource.Source{}, NewDatasetRepository(cfg, store))
}

func TestNewIngestSource(t *testing.T) {
	cfg := testConfig()
	assert.IsType(t, &huggingface.DatasetSource{}, NewIngestSource(cfg))

	cfg.IngestSource = config.SourceCSV
	cfg.DatasetCSVPath = "esg.csv"
	assert.IsType(t, &csvsource.Source{}, NewIngestSource(cfg))
}
