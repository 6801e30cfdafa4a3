package dataset

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"germseval/pkg/core"
)

// FileDataset streams gold-labelled examples from a JSON array or JSONL
// file. Each record carries id, text, and gold_label fields.
type FileDataset struct {
	Path     string
	NameHint string
}

func NewFileDataset(path string) *FileDataset {
	return &FileDataset{Path: path}
}

func (d *FileDataset) Name() string {
	if d.NameHint != "" {
		return d.NameHint
	}
	return filepath.Base(d.Path)
}

func (d *FileDataset) Len(ctx context.Context) (int, error) {
	format, err := detectFormat(d.Path)
	if err != nil {
		return 0, err
	}

	switch format {
	case "json":
		examples, err := loadJSONExamples(d.Path)
		if err != nil {
			return 0, err
		}
		return len(examples), nil
	case "jsonl":
		return countJSONLLines(ctx, d.Path)
	default:
		return 0, errors.New("dataset: unsupported format")
	}
}

func (d *FileDataset) Examples(ctx context.Context) (<-chan core.Example, <-chan error) {
	exampleCh := make(chan core.Example)
	errCh := make(chan error, 1)

	go func() {
		defer close(exampleCh)
		defer close(errCh)

		format, err := detectFormat(d.Path)
		if err != nil {
			errCh <- err
			return
		}

		switch format {
		case "json":
			examples, err := loadJSONExamples(d.Path)
			if err != nil {
				errCh <- err
				return
			}
			for _, example := range examples {
				select {
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				case exampleCh <- example:
				}
			}
		case "jsonl":
			if err := streamJSONL(ctx, d.Path, exampleCh); err != nil {
				errCh <- err
			}
		default:
			errCh <- errors.New("dataset: unsupported format")
		}
	}()

	return exampleCh, errCh
}

func detectFormat(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".jsonl":
		return "jsonl", nil
	case ".json":
		return "json", nil
	}

	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	reader := bufio.NewReader(file)
	for {
		b, err := reader.ReadByte()
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(string(b)) == "" {
			continue
		}
		if b == '[' {
			return "json", nil
		}
		if b == '{' {
			return "jsonl", nil
		}
		return "", errors.New("dataset: unsupported format")
	}
}

func loadJSONExamples(path string) ([]core.Example, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var examples []core.Example
	if err := json.NewDecoder(file).Decode(&examples); err != nil {
		return nil, err
	}
	for i := range examples {
		examples[i].Text = scrubText(examples[i].Text)
	}
	return examples, nil
}

func streamJSONL(ctx context.Context, path string, out chan<- core.Example) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 1024*1024)
	scanner.Buffer(buf, 1024*1024)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		var example core.Example
		if err := json.Unmarshal(line, &example); err != nil {
			return err
		}
		example.Text = scrubText(example.Text)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case out <- example:
		}
	}
	return scanner.Err()
}

func countJSONLLines(ctx context.Context, path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 1024*1024)
	scanner.Buffer(buf, 1024*1024)

	count := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if strings.TrimSpace(scanner.Text()) == "" {
			continue
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}
	return count, nil
}

// scrubText flattens newlines inside tweet text so downstream prompt
// templates and CSV reports stay single-line.
func scrubText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", " ")
	text = strings.ReplaceAll(text, "\n", " ")
	return text
}

// Collect drains a dataset into a slice, preserving order.
func Collect(ctx context.Context, d core.Dataset) ([]core.Example, error) {
	exampleCh, errCh := d.Examples(ctx)
	var examples []core.Example
	for example := range exampleCh {
		examples = append(examples, example)
	}
	if err, ok := <-errCh; ok && err != nil {
		return nil, err
	}
	return examples, nil
}
