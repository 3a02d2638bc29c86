package pdf

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifetrack/internal/models"
)

func TestDayReportWritesPDF(t *testing.T) {
	day := models.NewDate(2026, 10, 19)
	report := &models.DayReport{
		Date: day,
		Tasks: []*models.DailyTask{
			{ID: "a", Title: "Write report", WorkType: models.WorkDeep, Priority: models.PriorityHigh, Completed: true,
				OriginalDate: day, CurrentDate: day},
			{ID: "b", Title: "Café errands", WorkType: models.WorkLight, Priority: models.PriorityLow,
				OriginalDate: day.AddDays(-2), CurrentDate: day, Rollovers: 2},
		},
		Completed:      1,
		Pending:        1,
		RolledOver:     1,
		XPEarned:       75,
		Balance:        240,
		Streak:         3,
		CompletionRate: 0.5,
	}

	var buf bytes.Buffer
	require.NoError(t, NewReportGenerator("").DayReport(&buf, report))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestDayReportMissingFontFallsBack(t *testing.T) {
	var buf bytes.Buffer
	err := NewReportGenerator("/nonexistent/font.ttf").DayReport(&buf, &models.DayReport{Date: models.NewDate(2026, 1, 1)})
	require.NoError(t, err)
	assert.NotZero(t, buf.Len())
}
