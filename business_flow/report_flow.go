package businessflow

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/playvault/game-store/models"
	"github.com/playvault/game-store/repository"
	"github.com/xuri/excelize/v2"
)

// ReportFlow produces admin exports of the order book
type ReportFlow interface {
	DownloadOrdersCSV(ctx context.Context) (string, []byte, error)
	DownloadOrdersExcel(ctx context.Context) (string, []byte, error)
}

// ReportFlowImpl implements the reporting business flow
type ReportFlowImpl struct {
	orderRepo repository.OrderRepository
	gameRepo  repository.GameRepository
	userRepo  repository.UserRepository
}

// NewReportFlow creates a new report flow instance
func NewReportFlow(orderRepo repository.OrderRepository, gameRepo repository.GameRepository, userRepo repository.UserRepository) ReportFlow {
	return &ReportFlowImpl{
		orderRepo: orderRepo,
		gameRepo:  gameRepo,
		userRepo:  userRepo,
	}
}

type orderReportRow struct {
	order  *models.Order
	game   *models.Game
	handle string
}

// DownloadOrdersCSV exports every order as a flat CSV file
func (rf *ReportFlowImpl) DownloadOrdersCSV(ctx context.Context) (string, []byte, error) {
	rows, err := rf.collectRows(ctx)
	if err != nil {
		return "", nil, err
	}

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	header := []string{"id", "uuid", "user_id", "user_handle", "game_id", "game_title", "genre", "value", "is_active", "created_at"}
	if err := w.Write(header); err != nil {
		return "", nil, NewBusinessError("CSV_WRITE_ERROR", "Failed to write CSV header", err)
	}

	for _, r := range rows {
		if err := w.Write(rf.record(r)); err != nil {
			return "", nil, NewBusinessError("CSV_WRITE_ERROR", "Failed to write CSV row", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", nil, NewBusinessError("CSV_WRITE_ERROR", "Failed to flush CSV", err)
	}

	filename := fmt.Sprintf("orders_%s.csv", time.Now().UTC().Format("20060102"))
	return filename, buf.Bytes(), nil
}

// DownloadOrdersExcel exports the order book as a workbook with one sheet per
// game genre
func (rf *ReportFlowImpl) DownloadOrdersExcel(ctx context.Context) (string, []byte, error) {
	rows, err := rf.collectRows(ctx)
	if err != nil {
		return "", nil, err
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	byGenre := make(map[string][]orderReportRow)
	order := make([]string, 0)
	for _, r := range rows {
		genre := "unknown"
		if r.game != nil {
			genre = r.game.Genre
		}
		if _, ok := byGenre[genre]; !ok {
			order = append(order, genre)
		}
		byGenre[genre] = append(byGenre[genre], r)
	}

	header := []string{"id", "uuid", "user_id", "user_handle", "game_id", "game_title", "genre", "value", "is_active", "created_at"}

	usedNames := map[string]bool{}
	for i, genre := range order {
		name := sanitizeSheetName(genre)
		idx := 1
		for usedNames[name] {
			idx++
			name = truncateSheetName(fmt.Sprintf("%s_%d", sanitizeSheetName(genre), idx))
		}
		usedNames[name] = true

		if i == 0 {
			xl.SetSheetName(xl.GetSheetName(0), name)
		} else {
			_, _ = xl.NewSheet(name)
		}

		_ = xl.SetSheetRow(name, "A1", &header)

		for ri, r := range byGenre[genre] {
			record := rf.record(r)
			cellRef, _ := excelize.CoordinatesToCellName(1, ri+2)
			_ = xl.SetSheetRow(name, cellRef, &record)
		}
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}

	filename := fmt.Sprintf("orders_by_genre_%s.xlsx", time.Now().UTC().Format("20060102"))
	return filename, buf.Bytes(), nil
}

func (rf *ReportFlowImpl) collectRows(ctx context.Context) ([]orderReportRow, error) {
	orders, err := rf.orderRepo.ByFilter(ctx, models.OrderFilter{}, "id ASC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("FETCH_ORDERS_FAILED", "Failed to fetch orders", err)
	}

	games := make(map[uint]*models.Game)
	handles := make(map[uint]string)

	rows := make([]orderReportRow, 0, len(orders))
	for _, o := range orders {
		game, ok := games[o.GameID]
		if !ok {
			game, err = rf.gameRepo.ByID(ctx, o.GameID)
			if err != nil {
				return nil, err
			}
			games[o.GameID] = game
		}

		handle, ok := handles[o.UserID]
		if !ok {
			user, err := rf.userRepo.ByID(ctx, o.UserID)
			if err != nil {
				return nil, err
			}
			if user != nil {
				handle = user.Handle
			}
			handles[o.UserID] = handle
		}

		rows = append(rows, orderReportRow{order: o, game: game, handle: handle})
	}

	return rows, nil
}

func (rf *ReportFlowImpl) record(r orderReportRow) []string {
	title := ""
	genre := ""
	if r.game != nil {
		title = r.game.Title
		genre = r.game.Genre
	}
	active := "false"
	if r.order.IsActive != nil && *r.order.IsActive {
		active = "true"
	}

	return []string{
		strconv.FormatUint(uint64(r.order.ID), 10),
		r.order.UUID.String(),
		strconv.FormatUint(uint64(r.order.UserID), 10),
		r.handle,
		strconv.FormatUint(uint64(r.order.GameID), 10),
		title,
		genre,
		r.order.Value.StringFixed(2),
		active,
		r.order.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func sanitizeSheetName(name string) string {
	// Excel sheet names cannot contain : \ / ? * [ ] and must be <= 31 chars
	replacer := strings.NewReplacer(":", "_", "\\", "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_")
	return truncateSheetName(strings.TrimSpace(replacer.Replace(name)))
}

func truncateSheetName(name string) string {
	if len(name) > 31 {
		return name[:31]
	}
	if name == "" {
		return "Sheet"
	}
	return name
}
