package api

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// SCENARIO TESTS
// =============================================================================

func TestScenario_List(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/scenarios", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody[[]ScenarioDTO](t, rec)
	require.Len(t, list, len(scenarios))
	assert.Equal(t, "regular-week", list[0].ID)
	assert.Equal(t, 4, list[2].Weeks)
}

func TestScenario_NightShift(t *testing.T) {
	// GIVEN: The night-shift scenario at 10000 per hour
	// WHEN: Loading it
	// THEN: Shifts crossing midnight get the next-day end and the break rule applies

	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/scenarios/load", []byte(`{"scenario_id":"night-shift"}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody[LoadScenarioResponse](t, rec)

	require.Len(t, resp.Reports, 1)
	assert.Len(t, resp.Reports[0].Applied, 7)
	assert.Empty(t, resp.Reports[0].Skipped)

	byDate := map[string]RecordDTO{}
	for _, r := range resp.Month.Records {
		byDate[r.Date] = r
	}
	assert.True(t, byDate["2025-06-16"].Hours.Equal(decimal.RequireFromString("7.5")))
	assert.True(t, byDate["2025-06-17"].Hours.Equal(decimal.NewFromInt(8)))
	assert.True(t, byDate["2025-06-21"].Rest)

	assert.Equal(t, "2025-06", resp.Month.Month)
	assert.True(t, resp.Month.Summary.TotalHours.Equal(decimal.RequireFromString("30.5")), resp.Month.Summary.TotalHours.String())
	assert.True(t, resp.Month.Summary.TotalWage.Equal(decimal.NewFromInt(305000)))
	assert.Equal(t, 4, resp.Month.Summary.WorkDays)
	assert.Equal(t, 3, resp.Month.Summary.RestDays)
}

func TestScenario_FullMonthReplacesWeeks(t *testing.T) {
	router := newTestRouter(t)
	do(t, router, http.MethodPut, "/api/days/2025-06-04", []byte(`{"start":"00:00","end":"23:00"}`))

	rec := do(t, router, http.MethodPost, "/api/scenarios/load", []byte(`{"scenario_id":"full-month"}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody[LoadScenarioResponse](t, rec)

	require.Len(t, resp.Reports, 4)
	assert.Equal(t, 1, resp.Reports[0].Removed)
	assert.Len(t, resp.Month.Records, 28)
	assert.True(t, resp.Month.Summary.TotalHours.Equal(decimal.RequireFromString("122.5")), resp.Month.Summary.TotalHours.String())

	rec = do(t, router, http.MethodGet, "/api/days/2025-06-04", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OFF", decodeBody[RecordDTO](t, rec).StartLabel)

	rec = do(t, router, http.MethodGet, "/api/calendar", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2025-06", decodeBody[CalendarDTO](t, rec).CurrentMonth)
}

func TestScenario_Unknown(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/scenarios/load", []byte(`{"scenario_id":"payroll"}`))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/scenarios/load", []byte(`{}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
