package leaverequest

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"leaveflow/internal/identity"
)

// exportPageSize caps a spreadsheet export in one repository page.
const exportPageSize = 5000

var exportHeader = []string{
	"ID", "Requester", "Department", "Leave Type", "Start Date", "End Date",
	"Duration (days)", "Status", "Reason", "Resolution Reason", "Created At",
}

func (s *service) ExportSpreadsheet(ctx context.Context, actor identity.Actor, q ListQuery) ([]byte, error) {
	rows, _, err := s.List(ctx, actor, q)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Leave Requests"
	f.SetSheetName(f.GetSheetName(0), sheet)

	for col, title := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, err
		}
	}

	for i, r := range rows {
		requester := r.UserName
		if requester == "" {
			requester = r.UserID
		}
		reason := ""
		if r.ResolutionReason != nil {
			reason = *r.ResolutionReason
		}
		values := []any{
			r.ID, requester, r.Department, r.LeaveType, r.StartDate, r.EndDate,
			r.DurationInDays, r.Status, r.Reason, reason, r.CreatedAt,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write spreadsheet: %w", err)
	}

	s.logger.Info("leave requests exported",
		zap.String("actor_id", actor.UserID.String()),
		zap.Int("rows", len(rows)),
	)
	return buf.Bytes(), nil
}
