package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/imamik/gcectl/internal/config"
	"github.com/imamik/gcectl/internal/ui/console"
)

// tabular is implemented by every value the handlers print.
type tabular interface {
	headers() []string
	rows() [][]string
}

// render writes v to w in the configured output format.
func render(w io.Writer, format string, v tabular) error {
	switch format {
	case config.OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	case config.OutputJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	default:
		_, err := fmt.Fprintln(w, console.RenderTable(w, v.headers(), v.rows()))
		return err
	}
}

// formatMetric turns a quota metric such as CPUS_ALL_REGIONS into
// "Cpus All Regions".
func formatMetric(metric string) string {
	words := strings.Split(strings.ToLower(metric), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// formatNumber prints integral values without decimals.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func sortByName[T any](items []T, name func(T) string) {
	sort.SliceStable(items, func(i, j int) bool { return name(items[i]) < name(items[j]) })
}
