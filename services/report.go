package services

import (
	"bytes"
	"context"
	"fmt"

	"community-helper-bot/models"

	"github.com/xuri/excelize/v2"
)

const referralSheet = "Referrals"

// ReferralReport renders every member with its referral count as an .xlsx workbook.
func (s *Store) ReferralReport(ctx context.Context) ([]byte, error) {
	members, err := s.AllMembers(ctx)
	if err != nil {
		return nil, err
	}
	return buildReferralWorkbook(members)
}

func buildReferralWorkbook(members []models.Member) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", referralSheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	headers := []string{"Telegram ID", "Username", "Referrals", "Referred By", "Joined At"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(referralSheet, cell, header)
		f.SetCellStyle(referralSheet, cell, cell, headerStyle)
	}

	for i, m := range members {
		row := i + 2
		f.SetCellValue(referralSheet, fmt.Sprintf("A%d", row), m.TelegramID)
		if m.Username != nil {
			f.SetCellValue(referralSheet, fmt.Sprintf("B%d", row), *m.Username)
		}
		f.SetCellValue(referralSheet, fmt.Sprintf("C%d", row), m.ReferralCount)
		if m.ReferredBy != nil {
			f.SetCellValue(referralSheet, fmt.Sprintf("D%d", row), *m.ReferredBy)
		}
		f.SetCellValue(referralSheet, fmt.Sprintf("E%d", row), m.JoinedAt.UTC().Format("2006-01-02 15:04"))
	}
	f.SetColWidth(referralSheet, "A", "E", 18)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
