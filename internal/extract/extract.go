// Package extract turns scanned or loosely formatted bar schedules into
// requirements with the help of a generative model.
package extract

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/piwi3910/BarCut/internal/model"
	"github.com/xuri/excelize/v2"
)

// Part is one non-prompt input: either text or inline binary data.
type Part struct {
	Text     string
	MIMEType string
	Data     []byte
}

// Generator is the model backend. It returns the raw response text, which
// should be a JSON array.
type Generator interface {
	Generate(ctx context.Context, prompt string, parts []Part) (string, error)
}

// MaxFileSize is the largest upload accepted for extraction.
const MaxFileSize = 10 << 20

var mimeTypes = map[string]string{
	".pdf":  "application/pdf",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

// Supported reports whether a file name has an extension Extract accepts.
func Supported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	_, ok := mimeTypes[ext]
	return ok || ext == ".xlsx" || ext == ".csv"
}

type Extractor struct {
	gen    Generator
	logger *slog.Logger
}

func New(gen Generator, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{gen: gen, logger: logger}
}

// Extract reads one file. Items the model returns that do not form a valid
// requirement are dropped and reported as warnings.
func (e *Extractor) Extract(ctx context.Context, name string, data []byte) ([]model.Requirement, []string, error) {
	if len(data) == 0 {
		return nil, nil, fmt.Errorf("%s: file is empty", name)
	}
	if len(data) > MaxFileSize {
		return nil, nil, fmt.Errorf("%s: file is %d bytes, limit is %d", name, len(data), MaxFileSize)
	}

	ext := strings.ToLower(filepath.Ext(name))
	var (
		prompt string
		parts  []Part
	)
	switch ext {
	case ".pdf", ".png", ".jpg", ".jpeg":
		prompt = VisionPrompt
		parts = []Part{{MIMEType: mimeTypes[ext], Data: data}}
	case ".xlsx":
		text, err := workbookToCSV(data)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", name, err)
		}
		prompt = DataPrompt
		parts = []Part{{Text: text}}
	case ".csv":
		prompt = DataPrompt
		parts = []Part{{Text: string(data)}}
	default:
		return nil, nil, fmt.Errorf("%s: unsupported file type %q", name, ext)
	}

	log := e.logger.With(slog.String("file", name))
	log.Debug("sending to model", slog.Int("bytes", len(data)))

	text, err := e.gen.Generate(ctx, prompt, parts)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: generate: %w", name, err)
	}

	reqs, warnings, err := ParseResponse(text)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", name, err)
	}
	log.Info("extracted schedule", slog.Int("rows", len(reqs)), slog.Int("dropped", len(warnings)))
	return reqs, warnings, nil
}

var fenceRe = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

// item mirrors the JSON the prompts ask for. Pointers distinguish a
// missing key from a zero value.
type item struct {
	BarMark   *string  `json:"bar_mark"`
	Diameter  *float64 `json:"diameter"`
	CutLength *float64 `json:"cut_length"`
	Quantity  *float64 `json:"quantity"`
}

// ParseResponse decodes the model output. It accepts a bare array or an
// object wrapping the array under items, data, bars or results, optionally
// inside a markdown code fence.
func ParseResponse(text string) ([]model.Requirement, []string, error) {
	text = strings.TrimSpace(text)
	if m := fenceRe.FindStringSubmatch(text); m != nil {
		text = m[1]
	}

	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		var wrapped map[string]json.RawMessage
		if err2 := json.Unmarshal([]byte(text), &wrapped); err2 != nil {
			return nil, nil, fmt.Errorf("decode response: %w", err)
		}
		found := false
		for _, key := range []string{"items", "data", "bars", "results"} {
			if v, ok := wrapped[key]; ok && json.Unmarshal(v, &raw) == nil {
				found = true
				break
			}
		}
		if !found {
			return nil, nil, fmt.Errorf("decode response: data is not an array")
		}
	}

	reqs := make([]model.Requirement, 0, len(raw))
	var warnings []string
	for i, r := range raw {
		req, reason := toRequirement(r)
		if reason != "" {
			warnings = append(warnings, fmt.Sprintf("item %d dropped: %s", i+1, reason))
			continue
		}
		reqs = append(reqs, req)
	}
	return reqs, warnings, nil
}

func toRequirement(raw json.RawMessage) (model.Requirement, string) {
	var it item
	if err := json.Unmarshal(raw, &it); err != nil {
		return model.Requirement{}, "not an object with the expected fields"
	}
	switch {
	case it.BarMark == nil || strings.TrimSpace(*it.BarMark) == "":
		return model.Requirement{}, "missing bar_mark"
	case it.Diameter == nil || *it.Diameter <= 0 || *it.Diameter != math.Trunc(*it.Diameter):
		return model.Requirement{}, "diameter must be a positive integer"
	case it.CutLength == nil || *it.CutLength <= 0:
		return model.Requirement{}, "cut_length must be positive"
	case it.Quantity == nil || *it.Quantity <= 0 || *it.Quantity != math.Trunc(*it.Quantity):
		return model.Requirement{}, "quantity must be a positive integer"
	}
	return model.NewRequirement(strings.TrimSpace(*it.BarMark), int(*it.Diameter), *it.CutLength, int(*it.Quantity)), ""
}

// workbookToCSV flattens the first sheet of a workbook to CSV text.
func workbookToCSV(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return "", fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return "", err
	}
	return buf.String(), nil
}
