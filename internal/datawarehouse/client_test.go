package datawarehouse_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/straye-as/portfolio-api/internal/config"
	"github.com/straye-as/portfolio-api/internal/datawarehouse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupWarehouse(t *testing.T) *datawarehouse.Client {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE facility_insights (location_id INTEGER, summary TEXT, risks TEXT, opportunities TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE program_overview (overview TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO facility_insights VALUES (7, 'Depot is stable', 'Roof age; ;Flooding', 'Solar')`)
	require.NoError(t, err)

	client := datawarehouse.NewClientFromDB(db, time.Second, zap.NewNop())
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestNewClient_DisabledReturnsNil(t *testing.T) {
	client, err := datawarehouse.NewClient(&config.DataWarehouseConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, client)
	assert.False(t, client.IsEnabled())
	assert.Equal(t, "disabled", client.HealthCheck(context.Background()).Status)
}

func TestClient_HealthCheck(t *testing.T) {
	client := setupWarehouse(t)

	status := client.HealthCheck(context.Background())
	assert.Equal(t, "healthy", status.Status)
	assert.Empty(t, status.Error)
	assert.Equal(t, 1, status.Open)

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	closed := datawarehouse.NewClientFromDB(db, time.Second, zap.NewNop())
	require.NoError(t, db.Close())

	status = closed.HealthCheck(context.Background())
	assert.Equal(t, "unhealthy", status.Status)
	assert.NotEmpty(t, status.Error)
}

func TestNewClient_MissingCredentialsReturnsNil(t *testing.T) {
	client, err := datawarehouse.NewClient(&config.DataWarehouseConfig{Enabled: true, URL: "dw:1433/db"}, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestClient_FacilityInsight(t *testing.T) {
	client := setupWarehouse(t)
	ctx := context.Background()

	insight, err := client.FacilityInsight(ctx, "facility_insights", 7)
	require.NoError(t, err)
	require.NotNil(t, insight)
	assert.Equal(t, "Depot is stable", insight.Summary)
	assert.Equal(t, []string{"Roof age", "Flooding"}, insight.Risks)
	assert.Equal(t, []string{"Solar"}, insight.Opportunities)

	missing, err := client.FacilityInsight(ctx, "facility_insights", 8)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestClient_ProgramOverview(t *testing.T) {
	client := setupWarehouse(t)

	_, ok, err := client.ProgramOverview(context.Background(), "program_overview")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClient_RejectsUnsafeTableNames(t *testing.T) {
	client := setupWarehouse(t)

	_, err := client.FacilityInsight(context.Background(), "facility_insights; DROP TABLE x", 1)
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{}, datawarehouse.SplitList(""))
	assert.Equal(t, []string{"a", "b"}, datawarehouse.SplitList(" a ;b;"))
}
