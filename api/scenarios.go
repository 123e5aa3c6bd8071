/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:
  Provides pre-built weeks that populate the calendar with realistic
  schedules, so the UI and the month totals can be explored without a
  photo. Each scenario is a list of weeks in the same shape the schedule
  extractor produces, applied with overwrite.

AVAILABLE SCENARIOS:
  regular-week:  Day shifts with one OFF and one 주휴
  night-shift:   Shifts crossing midnight
  full-month:    Four consecutive weeks of June 2025

USAGE VIA API:
  POST /api/scenarios/load
  {"scenario_id": "night-shift"}

NOTE:
  Loading overwrites the scenario's weeks. Other weeks are untouched.

SEE ALSO:
  - handlers.go: Day and week endpoints
  - shift/calendar.go: ApplyWeek
*/
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/warp/shift-calendar/generic"
	"github.com/warp/shift-calendar/shift"
)

// ScenarioDTO describes a loadable scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Weeks       int    `json:"weeks"`
}

// LoadScenarioRequest names the scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id" validate:"required"`
}

// LoadScenarioResponse reports what loading changed.
type LoadScenarioResponse struct {
	ScenarioID string      `json:"scenario_id"`
	Reports    []ReportDTO `json:"reports"`
	Month      MonthDTO    `json:"month"`
}

type scenarioWeek struct {
	start string
	texts [generic.DaysPerWeek]string
}

type scenario struct {
	ScenarioDTO
	weeks []scenarioWeek
}

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []scenario{
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "regular-week",
			Name:        "Regular Week",
			Description: "Day shifts with one OFF and one 주휴",
		},
		weeks: []scenarioWeek{
			{"2025-06-16", [7]string{"09:00~18:00", "OFF", "10:00~19:00", "10:00~15:00", "주휴", "09:00~13:00", "09:00~18:00"}},
		},
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "night-shift",
			Name:        "Night Shift",
			Description: "Shifts crossing midnight",
		},
		weeks: []scenarioWeek{
			{"2025-06-16", [7]string{"22:00~06:00", "22:00~07:00", "OFF", "22:00~06:00", "22:00~06:00", "오프", "주휴"}},
		},
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "full-month",
			Name:        "Full Month",
			Description: "Four consecutive weeks of June 2025",
		},
		weeks: []scenarioWeek{
			{"2025-06-02", [7]string{"09:00~18:00", "09:00~18:00", "OFF", "09:00~18:00", "09:00~18:00", "주휴", "OFF"}},
			{"2025-06-09", [7]string{"13:00~22:00", "13:00~22:00", "13:00~22:00", "OFF", "13:00~22:00", "주휴", "OFF"}},
			{"2025-06-16", [7]string{"09:00~18:00", "OFF", "10:00~19:00", "10:00~15:00", "주휴", "09:00~13:00", "09:00~18:00"}},
			{"2025-06-23", [7]string{"22:00~06:00", "22:00~06:00", "OFF", "OFF", "22:00~07:00", "주휴", "09:00~13:00"}},
		},
	},
}

func init() {
	for i := range scenarios {
		scenarios[i].Weeks = len(scenarios[i].weeks)
	}
}

func findScenario(id string) (scenario, bool) {
	for _, s := range scenarios {
		if s.ID == id {
			return s, true
		}
	}
	return scenario{}, false
}

// =============================================================================
// HANDLERS
// =============================================================================

// ListScenarios returns the available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	dtos := make([]ScenarioDTO, len(scenarios))
	for i, s := range scenarios {
		dtos[i] = s.ScenarioDTO
	}
	writeJSON(w, http.StatusOK, dtos)
}

// LoadScenario applies a scenario's weeks and moves the cursor to its first month.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if !h.decode(w, r, &req) {
		return
	}
	sc, ok := findScenario(req.ScenarioID)
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown scenario", fmt.Errorf("scenario %q", req.ScenarioID))
		return
	}

	reports, err := h.loadScenario(r.Context(), sc)
	if err != nil {
		h.writeDomainError(w, r, "Failed to load scenario", err)
		return
	}

	first, _ := generic.ParseDate(sc.weeks[0].start)
	month := h.Calendar.JumpToMonth(first)
	dto, err := h.monthDTO(r, month)
	if err != nil {
		h.writeDomainError(w, r, "Failed to get month", err)
		return
	}
	writeJSON(w, http.StatusOK, LoadScenarioResponse{ScenarioID: sc.ID, Reports: reports, Month: dto})
}

func (h *Handler) loadScenario(ctx context.Context, sc scenario) ([]ReportDTO, error) {
	reports := make([]ReportDTO, 0, len(sc.weeks))
	for _, wk := range sc.weeks {
		start, err := generic.ParseDate(wk.start)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", sc.ID, err)
		}
		entries := make([]shift.DayEntry, 0, generic.DaysPerWeek)
		for i, text := range wk.texts {
			entries = append(entries, shift.DayEntry{Weekday: shift.Weekdays[i], Text: text})
		}
		report, err := h.Calendar.ApplyWeek(ctx, start, entries, shift.ApplyOverwrite)
		if err != nil {
			return nil, fmt.Errorf("scenario %s week %s: %w", sc.ID, wk.start, err)
		}
		reports = append(reports, toReportDTO(report))
	}
	return reports, nil
}
