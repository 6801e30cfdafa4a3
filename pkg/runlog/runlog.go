// Package runlog persists evaluation runs to disk so they can be compared
// later without re-running any model. A run is written either as a single
// JSON file or as a zip archive with one record per example.
package runlog

import (
	"archive/zip"
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"time"

	"germseval/pkg/core"
)

const timeLayout = "2006-01-02T15:04:05-07:00"

type RunLog struct {
	Version    int                  `json:"version"`
	RunID      string               `json:"run_id"`
	Label      string               `json:"label"`
	Dataset    string               `json:"dataset"`
	Runner     string               `json:"runner"`
	Counts     core.ConfusionCounts `json:"counts"`
	Metrics    core.MetricReport    `json:"metrics"`
	TokenUsage core.TokenUsage      `json:"token_usage"`
	Metadata   map[string]string    `json:"metadata,omitempty"`
	StartedAt  string               `json:"started_at"`
	FinishedAt string               `json:"finished_at"`
	Records    []Record             `json:"records,omitempty"`
}

// Record is one example's outcome, everything needed to audit a verdict.
type Record struct {
	ID          string       `json:"id"`
	Text        string       `json:"text"`
	GoldLabel   bool         `json:"gold_label"`
	Verdict     core.Verdict `json:"verdict"`
	Source      string       `json:"source"`
	Score       float64      `json:"score,omitempty"`
	RawText     string       `json:"raw_text,omitempty"`
	TotalTokens int          `json:"total_tokens,omitempty"`
	Seconds     float64      `json:"seconds"`
	Error       string       `json:"error,omitempty"`
}

func FromRun(report core.RunReport) RunLog {
	startedAt := report.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now().UTC()
	}
	finishedAt := report.FinishedAt
	if finishedAt.IsZero() {
		finishedAt = time.Now().UTC()
	}

	records := make([]Record, 0, len(report.Results))
	for _, result := range report.Results {
		records = append(records, Record{
			ID:          result.Example.ID,
			Text:        result.Example.Text,
			GoldLabel:   result.Example.GoldLabel,
			Verdict:     result.Verdict,
			Source:      string(result.Raw.Source),
			Score:       result.Raw.Score,
			RawText:     result.Raw.Text,
			TotalTokens: result.Response.TokenUsage.TotalTokens,
			Seconds:     result.Duration.Seconds(),
			Error:       result.Error,
		})
	}

	return RunLog{
		Version:    1,
		RunID:      generateID(),
		Label:      report.Label,
		Dataset:    report.Dataset,
		Runner:     report.RunnerName,
		Counts:     report.Counts,
		Metrics:    report.Metrics,
		TokenUsage: report.TokenUsage,
		Metadata:   report.Metadata,
		StartedAt:  startedAt.UTC().Format(timeLayout),
		FinishedAt: finishedAt.UTC().Format(timeLayout),
		Records:    records,
	}
}

// ToReport rebuilds a run report from a persisted log; compare loads runs
// this way. Raw predictions and responses are restored from the records.
func ToReport(log RunLog) core.RunReport {
	results := make([]core.ExampleResult, 0, len(log.Records))
	for _, record := range log.Records {
		results = append(results, core.ExampleResult{
			Example: core.Example{
				ID:        record.ID,
				Text:      record.Text,
				GoldLabel: record.GoldLabel,
			},
			Raw: core.RawPrediction{
				ID:     record.ID,
				Source: core.SourceKind(record.Source),
				Score:  record.Score,
				Text:   record.RawText,
			},
			Verdict: record.Verdict,
			Response: core.Response{
				Content:    record.RawText,
				TokenUsage: core.TokenUsage{TotalTokens: record.TotalTokens},
			},
			Error:    record.Error,
			Duration: time.Duration(record.Seconds * float64(time.Second)),
		})
	}

	var startedAt, finishedAt time.Time
	if t, err := time.Parse(timeLayout, log.StartedAt); err == nil {
		startedAt = t
	}
	if t, err := time.Parse(timeLayout, log.FinishedAt); err == nil {
		finishedAt = t
	}

	return core.RunReport{
		Label:      log.Label,
		Dataset:    log.Dataset,
		RunnerName: log.Runner,
		Counts:     log.Counts,
		Metrics:    log.Metrics,
		Results:    results,
		TokenUsage: log.TokenUsage,
		Metadata:   log.Metadata,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
	}
}

func WriteJSON(logDir string, log RunLog) (string, error) {
	if logDir == "" {
		return "", fmt.Errorf("runlog: logDir is required")
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(logDir, buildLogFileName(log, "json"))
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(log); err != nil {
		return "", err
	}
	return path, nil
}

// WriteArchive writes the run as a zip: header.json carries the run minus
// records, records.json the full record list, and records/<n>.json one file
// per example for tools that stream single records.
func WriteArchive(logDir string, log RunLog) (string, error) {
	if logDir == "" {
		return "", fmt.Errorf("runlog: logDir is required")
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(logDir, buildLogFileName(log, "zip"))
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	zipWriter := zip.NewWriter(file)
	defer zipWriter.Close()

	header := log
	header.Records = nil
	if err := writeZipJSON(zipWriter, "header.json", header); err != nil {
		return "", err
	}
	if err := writeZipJSON(zipWriter, "records.json", log.Records); err != nil {
		return "", err
	}
	for idx, record := range log.Records {
		name := fmt.Sprintf("records/%d.json", idx+1)
		if err := writeZipJSON(zipWriter, name, record); err != nil {
			return "", err
		}
	}
	return path, nil
}

func ReadJSON(path string) (RunLog, error) {
	var log RunLog
	f, err := os.Open(path)
	if err != nil {
		return RunLog{}, err
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(&log); err != nil {
		return RunLog{}, err
	}
	return log, nil
}

func ReadArchive(path string) (RunLog, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return RunLog{}, err
	}
	defer r.Close()

	var log RunLog
	for _, f := range r.File {
		if f.Name != "header.json" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return RunLog{}, err
		}
		err = json.NewDecoder(rc).Decode(&log)
		rc.Close()
		if err != nil {
			return RunLog{}, err
		}
		break
	}

	for _, f := range r.File {
		if f.Name != "records.json" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return RunLog{}, err
		}
		err = json.NewDecoder(rc).Decode(&log.Records)
		rc.Close()
		if err != nil {
			return RunLog{}, err
		}
		break
	}
	return log, nil
}

// Read picks the decoder by extension so compare can take either format.
func Read(path string) (RunLog, error) {
	if filepath.Ext(path) == ".zip" {
		return ReadArchive(path)
	}
	return ReadJSON(path)
}

func buildLogFileName(log RunLog, ext string) string {
	timestamp := time.Now().Format("2006-01-02T15-04-05")
	label := sanitizeName(log.Label)
	dataset := sanitizeName(log.Dataset)
	if label == "" {
		label = "run"
	}
	if dataset == "" {
		dataset = "dataset"
	}
	return fmt.Sprintf("%s_%s_%s.%s", timestamp, dataset, label, ext)
}

func writeZipJSON(writer *zip.Writer, name string, data any) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return err
	}

	payload := buf.Bytes()
	size := uint64(len(payload))
	header := &zip.FileHeader{
		Name:               name,
		Method:             zip.Store,
		UncompressedSize64: size,
		CompressedSize64:   size,
		CRC32:              crc32.ChecksumIEEE(payload),
	}
	header.SetModTime(time.Unix(0, 0))

	header.Flags &^= 0x8 // no data descriptor
	entry, err := writer.CreateRaw(header)
	if err != nil {
		return err
	}
	if _, err := entry.Write(payload); err != nil {
		return err
	}
	return nil
}

func sanitizeName(input string) string {
	out := make([]rune, 0, len(input))
	for _, r := range input {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			out = append(out, r)
		}
	}
	return string(out)
}

func generateID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
