// Package xlsx reads campaigns from spreadsheet exports, one workbook per
// campaign named <campaign id>.xlsx.
//
// The "Questions" sheet (or the first sheet) holds one question per row under
// a header row: id, kind, text, options, correct_answer, min_chars. Options are
// separated by "|". An optional "Settings" sheet holds key/value rows for
// title and minimum_active_seconds.
package xlsx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/quality-service/internal/models"
	"github.com/SAP-F-2025/quality-service/internal/repositories"
	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"
)

const (
	QuestionsSheet = "Questions"
	SettingsSheet  = "Settings"

	optionSeparator = "|"
)

var requiredColumns = []string{"id", "kind", "text"}

type CampaignXLSX struct {
	dir            string
	defaultMinimum int
}

func NewCampaignXLSX(dir string, defaultMinimum int) repositories.CampaignRepository {
	return &CampaignXLSX{dir: dir, defaultMinimum: defaultMinimum}
}

func (c *CampaignXLSX) GetByID(ctx context.Context, id string) (*models.Campaign, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if id == "" || strings.ContainsAny(id, `/\`) || strings.HasPrefix(id, ".") {
		return nil, repositories.ErrCampaignNotFound
	}

	file, err := os.Open(filepath.Join(c.dir, id+".xlsx"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, repositories.ErrCampaignNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open campaign workbook: %w", err)
	}
	defer file.Close()

	campaign, err := ParseCampaign(file, id)
	if err != nil {
		return nil, err
	}
	if campaign.MinimumActiveSeconds < 0 {
		campaign.MinimumActiveSeconds = c.defaultMinimum
	}
	return campaign, nil
}

// ParseCampaign reads a campaign workbook. MinimumActiveSeconds is -1 when
// the workbook does not set it.
func ParseCampaign(reader io.Reader, id string) (*models.Campaign, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("campaign workbook has no sheets")
	}

	campaign := &models.Campaign{ID: id, Title: id, MinimumActiveSeconds: -1}
	if err := readSettings(f, campaign); err != nil {
		return nil, err
	}

	questionSheet := sheets[0]
	if idx, _ := f.GetSheetIndex(QuestionsSheet); idx >= 0 {
		questionSheet = QuestionsSheet
	}

	rows, err := f.GetRows(questionSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %s must have a header row and at least one question", questionSheet)
	}

	headerMap := make(map[string]int)
	for i, header := range rows[0] {
		headerMap[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, column := range requiredColumns {
		if _, ok := headerMap[column]; !ok {
			return nil, fmt.Errorf("sheet %s is missing column %q", questionSheet, column)
		}
	}

	for rowIndex, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		question, err := parseQuestionRow(row, headerMap)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowIndex+2, err)
		}
		question.CampaignID = id
		question.Position = len(campaign.Questions)
		campaign.Questions = append(campaign.Questions, question)
	}

	return campaign, nil
}

func readSettings(f *excelize.File, campaign *models.Campaign) error {
	if idx, _ := f.GetSheetIndex(SettingsSheet); idx < 0 {
		return nil
	}
	rows, err := f.GetRows(SettingsSheet)
	if err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}

	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		value := strings.TrimSpace(row[1])
		switch strings.ToLower(strings.TrimSpace(row[0])) {
		case "title":
			campaign.Title = value
		case "minimum_active_seconds":
			seconds, err := strconv.Atoi(value)
			if err != nil || seconds < 0 {
				return fmt.Errorf("invalid minimum_active_seconds %q", value)
			}
			campaign.MinimumActiveSeconds = seconds
		}
	}
	return nil
}

func parseQuestionRow(row []string, headerMap map[string]int) (models.CampaignQuestion, error) {
	cell := func(column string) string {
		idx, ok := headerMap[column]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	question := models.CampaignQuestion{
		ID:   cell("id"),
		Kind: models.QuestionKind(strings.ToLower(cell("kind"))),
		Text: cell("text"),
	}
	if question.ID == "" {
		return question, fmt.Errorf("id is required")
	}
	if !question.Kind.Valid() {
		return question, fmt.Errorf("unknown question kind %q", question.Kind)
	}

	if raw := cell("options"); raw != "" {
		var options []string
		for _, option := range strings.Split(raw, optionSeparator) {
			if option = strings.TrimSpace(option); option != "" {
				options = append(options, option)
			}
		}
		encoded, err := json.Marshal(options)
		if err != nil {
			return question, fmt.Errorf("failed to encode options: %w", err)
		}
		question.Options = datatypes.JSON(encoded)
	}

	if answer := cell("correct_answer"); answer != "" {
		question.CorrectAnswer = models.StringPtr(answer)
	}

	if raw := cell("min_chars"); raw != "" {
		minChars, err := strconv.Atoi(raw)
		if err != nil || minChars < 0 {
			return question, fmt.Errorf("invalid min_chars %q", raw)
		}
		question.MinChars = minChars
	}

	return question, nil
}

func isBlankRow(row []string) bool {
	for _, value := range row {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}
