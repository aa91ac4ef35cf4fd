// Package tests contains integration tests for the order report exports
package tests

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"

	businessflow "github.com/playvault/game-store/business_flow"
	"github.com/playvault/game-store/repository"
	testingutil "github.com/playvault/game-store/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReportFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := context.Background()

		userRepo := repository.NewUserRepository(testDB.DB)
		gameRepo := repository.NewGameRepository(testDB.DB)
		orderRepo := repository.NewOrderRepository(testDB.DB)

		reportFlow := businessflow.NewReportFlow(orderRepo, gameRepo, userRepo)

		user, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		game, err := fixtures.CreateTestGame("199.90")
		require.NoError(t, err)
		order, err := fixtures.CreateTestOrder(user, game)
		require.NoError(t, err)

		t.Run("CSVExport", func(t *testing.T) {
			filename, payload, err := reportFlow.DownloadOrdersCSV(ctx)
			require.NoError(t, err)
			assert.Contains(t, filename, ".csv")
			require.NotEmpty(t, payload)

			records, err := csv.NewReader(bytes.NewReader(payload)).ReadAll()
			require.NoError(t, err)
			require.GreaterOrEqual(t, len(records), 2)

			header := records[0]
			assert.Equal(t, []string{"id", "uuid", "user_id", "user_handle", "game_id", "game_title", "genre", "value", "is_active", "created_at"}, header)

			row := records[1]
			assert.Equal(t, order.UUID.String(), row[1])
			assert.Equal(t, user.Handle, row[3])
			assert.Equal(t, game.Title, row[5])
			assert.Equal(t, game.Genre, row[6])
			assert.Equal(t, "199.90", row[7])
		})

		t.Run("ExcelExportSheetPerGenre", func(t *testing.T) {
			filename, payload, err := reportFlow.DownloadOrdersExcel(ctx)
			require.NoError(t, err)
			assert.Contains(t, filename, ".xlsx")
			require.NotEmpty(t, payload)

			xl, err := excelize.OpenReader(bytes.NewReader(payload))
			require.NoError(t, err)
			defer xl.Close()

			sheets := xl.GetSheetList()
			assert.Contains(t, sheets, game.Genre)

			rows, err := xl.GetRows(game.Genre)
			require.NoError(t, err)
			require.GreaterOrEqual(t, len(rows), 2)
			assert.Equal(t, "id", rows[0][0])
			assert.Equal(t, order.UUID.String(), rows[1][1])
		})

		return nil
	})
	if errors.Is(err, testingutil.ErrDatabaseUnavailable) {
		t.Skipf("skipping: %v", err)
	}
	require.NoError(t, err)
}
