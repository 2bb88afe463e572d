package version

import (
	"fmt"
	"runtime/debug"
	"time"
)

// Заполняются через -ldflags "-X ghost-server/internal/version.BuildDate=..."
var (
	BuildDate   string // YYYY-MM-DD (UTC)
	BuildCommit string
	BuildBranch string
	BuildCI     string
)

// Номер сборки считается в днях от этой даты
var buildEpoch = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

// shortCommit - длина хеша в выводе
const shortCommit = 12

type VersionInfo struct {
	BuildID    int    `json:"build_id"`
	BuildDate  string `json:"build_date"`
	Commit     string `json:"commit"`
	Branch     string `json:"branch"`
	CI         string `json:"ci"`
	GoVersion  string `json:"go_version"`
	Modified   bool   `json:"modified"`
	Calculated bool   `json:"calculated"`
	Error      string `json:"error,omitempty"`
}

// buildSettings читает то, что toolchain вшивает сам (vcs.*)
var buildSettings = func() (*debug.BuildInfo, bool) {
	return debug.ReadBuildInfo()
}

func CalculateBuildID(date string) (int, error) {
	if date == "" {
		return 0, fmt.Errorf("build date is empty")
	}

	t, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("invalid build date %q: %w", date, err)
	}
	if t.Before(buildEpoch) {
		return 0, fmt.Errorf("build date %s is before epoch", date)
	}

	return int(t.Sub(buildEpoch).Hours() / 24), nil
}

// Info собирает метаданные: сначала ldflags, недостающее из vcs-настроек сборки.
func Info() VersionInfo {
	info := VersionInfo{
		BuildDate: BuildDate,
		Commit:    BuildCommit,
		Branch:    BuildBranch,
		CI:        BuildCI,
	}

	if bi, ok := buildSettings(); ok {
		info.GoVersion = bi.GoVersion
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.Commit == "" {
					info.Commit = s.Value
				}
			case "vcs.time":
				// 2026-03-14T10:00:00Z -> 2026-03-14
				if info.BuildDate == "" && len(s.Value) >= 10 {
					info.BuildDate = s.Value[:10]
				}
			case "vcs.modified":
				info.Modified = s.Value == "true"
			}
		}
	}

	if len(info.Commit) > shortCommit {
		info.Commit = info.Commit[:shortCommit]
	}

	id, err := CalculateBuildID(info.BuildDate)
	if err != nil {
		info.Error = err.Error()
		return info
	}

	info.BuildID = id
	info.Calculated = true
	return info
}

func String() string {
	info := Info()

	if !info.Calculated {
		return fmt.Sprintf("ghost-server build unknown (%s)", info.Error)
	}

	commit := coalesce(info.Commit, "unknown")
	if info.Modified {
		commit += "+dirty"
	}

	return fmt.Sprintf(
		"ghost-server build %d (%s) commit[%s] branch[%s] ci[%s]",
		info.BuildID,
		info.BuildDate,
		commit,
		coalesce(info.Branch, "unknown"),
		coalesce(info.CI, "local"),
	)
}

func coalesce(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
