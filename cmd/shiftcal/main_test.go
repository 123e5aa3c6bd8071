package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/shift-calendar/config"
	"github.com/warp/shift-calendar/generic"
	"github.com/warp/shift-calendar/ocr"
)

func TestPrintHours_Overnight(t *testing.T) {
	var out bytes.Buffer

	err := printHours(&out, "22:00", "06:00", decimal.NewFromInt(10000))

	require.NoError(t, err)
	assert.Contains(t, out.String(), "gross: 8.00 h")
	assert.Contains(t, out.String(), "break: 0.5 h")
	assert.Contains(t, out.String(), "paid:  7.50 h")
	assert.Contains(t, out.String(), "wage:  75000")
}

func TestPrintHours_Invalid(t *testing.T) {
	err := printHours(&bytes.Buffer{}, "25:00", "06:00", decimal.NewFromInt(10000))
	assert.ErrorIs(t, err, generic.ErrInvalidTimeFormat)
}

func TestNewRecognizer(t *testing.T) {
	ctx := context.Background()
	logger := config.Default().NewLogger(&bytes.Buffer{})

	r, err := newRecognizer(ctx, config.OCRConfig{Provider: config.OCRJSON}, logger)
	require.NoError(t, err)
	assert.IsType(t, ocr.JSONRecognizer{}, r)

	r, err = newRecognizer(ctx, config.OCRConfig{Provider: config.OCRNone}, logger)
	require.NoError(t, err)
	_, err = r.Recognize(ctx, []byte("x"))
	assert.ErrorIs(t, err, generic.ErrOCRFailure)

	_, err = newRecognizer(ctx, config.OCRConfig{Provider: config.OCRGemini}, logger)
	assert.Error(t, err)

	_, err = newRecognizer(ctx, config.OCRConfig{Provider: "tesseract"}, logger)
	assert.Error(t, err)
}

func TestScan_WordsFileWithConflict(t *testing.T) {
	// GIVEN: A SQLite store and an OCR words file for one week
	// WHEN: Scanning it twice, the second time with --choice overwrite
	// THEN: The first scan applies and the second replaces the week

	dir := t.TempDir()
	t.Setenv("SHIFTCAL_STORE_DRIVER", "sqlite")
	t.Setenv("SHIFTCAL_STORE_PATH", filepath.Join(dir, "shifts.db"))
	t.Setenv("SHIFTCAL_WAGE_HOURLY", "10000")

	lines := []string{"2025-06-16 ~ 2025-06-22", "월요일", "09:00~18:00", "화요일", "OFF", "수요일", "10:00~19:00",
		"목요일", "10:00~15:00", "금요일", "주휴", "토요일", "09:00~13:00", "일요일", "오프"}
	words := make([]ocr.Word, len(lines))
	for i, l := range lines {
		words[i] = ocr.Word{Text: l, X: 0.5, Y: 0.95 - float64(i)*0.05}
	}
	data, err := json.Marshal(words)
	require.NoError(t, err)
	wordsPath := filepath.Join(dir, "week.json")
	require.NoError(t, os.WriteFile(wordsPath, data, 0o644))

	run := func(args ...string) (string, error) {
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetErr(&bytes.Buffer{})
		rootCmd.SetArgs(append([]string{"scan", "--config", filepath.Join(dir, "missing.toml")}, args...))
		scanWords, scanChoice = false, ""
		err := rootCmd.Execute()
		return out.String(), err
	}

	out, err := run("--words", wordsPath)
	require.NoError(t, err)
	assert.Contains(t, out, "week of 2025-06-16")
	assert.Contains(t, out, "state: applied")
	assert.Contains(t, out, "80000")

	_, err = run("--words", wordsPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already has records")

	out, err = run("--words", "--choice", "overwrite", wordsPath)
	require.NoError(t, err)
	assert.Contains(t, out, "state: overwrite_applied")
	assert.Contains(t, out, "removed: 7")
}
