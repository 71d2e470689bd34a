// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/typebadge/typebadge/internal/model"
)

const sparkChars = " .:-=+*#%@"

// NoDataLabel is the badge text used when no usable runs were fetched.
const NoDataLabel = "no data"

// Summarize aggregates runs into a best-speed/average-accuracy summary.
// ok is false only for an empty batch; runs without any coercible field
// yield a zero-valued summary.
func Summarize(runs []model.Run) (model.Summary, bool) {
	if len(runs) == 0 {
		return model.Summary{}, false
	}
	var (
		bestWPM  float64
		wpmCount int
		accSum   float64
		accCount int
	)
	for _, run := range runs {
		if run.WPM != nil {
			if wpmCount == 0 || *run.WPM > bestWPM {
				bestWPM = *run.WPM
			}
			wpmCount++
		}
		if run.Acc != nil {
			accSum += *run.Acc
			accCount++
		}
	}
	sum := model.Summary{}
	if wpmCount > 0 {
		sum.BestWPM = int(math.Round(bestWPM))
	}
	if accCount > 0 {
		sum.AvgAcc = math.Round(accSum/float64(accCount)*10) / 10
	}
	return sum, true
}

// Label formats the badge value text. Accuracy is passed through as the API
// reports it, rounded to one decimal.
func Label(sum model.Summary, ok bool) string {
	if !ok {
		return NoDataLabel
	}
	return fmt.Sprintf("%d WPM · %.1f%%", sum.BestWPM, sum.AvgAcc)
}

// RenderSummary prints a fetch summary for one user.
func RenderSummary(w io.Writer, username string, runCount int, sum model.Summary, ok bool) error {
	if !ok {
		_, err := fmt.Fprintf(w, "No runs found for %s.\n", username)
		return err
	}
	headers := []string{"User", "Runs", "Best WPM", "Avg Accuracy"}
	rows := [][]string{{
		username,
		fmt.Sprintf("%d", runCount),
		fmt.Sprintf("%d", sum.BestWPM),
		fmt.Sprintf("%.1f%%", sum.AvgAcc),
	}}
	rightAlign := map[int]bool{1: true, 2: true, 3: true}
	for _, line := range tableLines(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderHistory prints stored snapshots plus a best-WPM sparkline sized to
// totalWidth columns.
func RenderHistory(w io.Writer, snaps []model.Snapshot, totalWidth int) error {
	if len(snaps) == 0 {
		_, err := fmt.Fprintln(w, "No snapshots found.")
		return err
	}
	headers := []string{"Fetched", "User", "Runs", "Best WPM", "Avg Accuracy"}
	rows := make([][]string, 0, len(snaps))
	wpms := make([]float64, 0, len(snaps))
	for _, snap := range snaps {
		rows = append(rows, []string{
			snap.FetchedAt.Local().Format("2006-01-02 15:04"),
			snap.Username,
			fmt.Sprintf("%d", snap.Runs),
			fmt.Sprintf("%d", snap.BestWPM),
			fmt.Sprintf("%.1f%%", snap.AvgAcc),
		})
		wpms = append(wpms, float64(snap.BestWPM))
	}
	rightAlign := map[int]bool{2: true, 3: true, 4: true}
	for _, line := range tableLines(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if len(wpms) > 1 {
		if _, err := fmt.Fprintln(w, ""); err != nil {
			return err
		}
		spark := Sparkline(resample(wpms, totalWidth))
		if _, err := fmt.Fprintf(w, "Best WPM: %s\n", spark); err != nil {
			return err
		}
	}
	return nil
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// resample shrinks values to at most width points by averaging buckets.
func resample(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	for i := 0; i < width; i++ {
		start := int(float64(i) * float64(len(values)) / float64(width))
		end := int(float64(i+1) * float64(len(values)) / float64(width))
		if end <= start {
			end = start + 1
		}
		if end > len(values) {
			end = len(values)
		}
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}
