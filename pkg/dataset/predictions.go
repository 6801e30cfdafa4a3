package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"germseval/pkg/core"
)

// LoadPredictions reads precomputed raw predictions from a JSONL file, one
// prediction per line. Records missing a source tag default to the given
// kind, which covers exported classifier score files that only carry
// id/score columns.
func LoadPredictions(path string, defaultKind core.SourceKind) ([]core.RawPrediction, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 1024*1024)
	scanner.Buffer(buf, 1024*1024)

	var predictions []core.RawPrediction
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var prediction core.RawPrediction
		if err := json.Unmarshal([]byte(line), &prediction); err != nil {
			return nil, fmt.Errorf("dataset: predictions: %w", err)
		}
		if prediction.Source == "" {
			prediction.Source = defaultKind
		}
		predictions = append(predictions, prediction)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return predictions, nil
}
