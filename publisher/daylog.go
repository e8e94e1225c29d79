package publisher

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/soletta-dev/postpilot/logger"
)

// DayStatus summarizes one day's publish log.
type DayStatus struct {
	Date            string       `json:"date"`
	HasLogs         bool         `json:"has_logs"`
	TotalTasks      int          `json:"total_tasks"`
	SuccessfulTasks int          `json:"successful_tasks"`
	Tasks           []TaskResult `json:"tasks"`
}

// dayLog keeps one JSON array of task results per calendar day. Appends
// read the whole file, add the entry and rewrite it; the mutex keeps
// concurrent task completions from interleaving that read-modify-write.
type dayLog struct {
	mu  sync.Mutex
	dir string
}

func newDayLog(dir string) *dayLog {
	return &dayLog{dir: dir}
}

func (l *dayLog) path(date string) string {
	return filepath.Join(l.dir, fmt.Sprintf("publish_log_%s.json", date))
}

// append adds a result to the log for the result's own date. Logging
// failures are reported to the app log and dropped; a publish that
// already happened must not look failed over bookkeeping.
func (l *dayLog) append(result TaskResult) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(l.dir, 0755); err != nil {
		logger.Logger.Printf("Failed to create publish log dir: %v", err)
		return
	}

	date := result.Time.UTC().Format("2006-01-02")
	path := l.path(date)

	var entries []TaskResult
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, &entries); err != nil {
			logger.Logger.Printf("Publish log %s is corrupt, starting fresh: %v", path, err)
			entries = nil
		}
	}

	entries = append(entries, result)

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		logger.Logger.Printf("Failed to marshal publish log: %v", err)
		return
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		logger.Logger.Printf("Failed to write publish log: %v", err)
	}
}

func (l *dayLog) status(date string) (DayStatus, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	status := DayStatus{Date: date}

	data, err := os.ReadFile(l.path(date))
	if os.IsNotExist(err) {
		return status, nil
	}
	if err != nil {
		return status, err
	}

	var entries []TaskResult
	if err := json.Unmarshal(data, &entries); err != nil {
		return status, fmt.Errorf("failed to decode publish log for %s: %w", date, err)
	}

	status.HasLogs = true
	status.TotalTasks = len(entries)
	status.Tasks = entries
	for _, e := range entries {
		if e.Success {
			status.SuccessfulTasks++
		}
	}
	return status, nil
}
