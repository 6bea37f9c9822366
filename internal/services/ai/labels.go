package ai

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadLabels reads a Teachable Machine labels file. Each line is
// "<index> <label>", e.g. "0 Plastic Bottle"; blank lines are skipped.
// The returned order is the model's output order.
func LoadLabels(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open labels file: %w", err)
	}
	defer file.Close()

	var labels []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.SplitN(line, " ", 2)
		if len(parts) == 2 {
			line = strings.TrimSpace(parts[1])
		}
		if line != "" {
			labels = append(labels, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read labels file: %w", err)
	}

	if len(labels) == 0 {
		return nil, fmt.Errorf("labels file %s contains no labels", path)
	}

	return labels, nil
}
