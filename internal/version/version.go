package version

import (
	"fmt"
	"time"
)

// Release - версия протокола и сервера, показывается клиенту при логине.
const Release = "v2.3.0"

// Заполняются через -ldflags при сборке.
var (
	BuildDate   string // YYYY-MM-DD (UTC)
	BuildCommit string
	BuildBranch string
)

var buildEpoch = time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

// VersionInfo describes the build metadata in structured form.
type VersionInfo struct {
	Release    string `json:"release" msgpack:"release"`
	BuildID    int    `json:"buildId" msgpack:"build_id"`
	BuildDate  string `json:"buildDate,omitempty" msgpack:"build_date"`
	Commit     string `json:"commit,omitempty" msgpack:"commit"`
	Branch     string `json:"branch,omitempty" msgpack:"branch"`
	Calculated bool   `json:"calculated" msgpack:"calculated"`
	Error      string `json:"error,omitempty" msgpack:"error"`
}

// CalculateBuildID считает номер сборки как число дней от эпохи.
func CalculateBuildID() (int, error) {
	if BuildDate == "" {
		return 0, fmt.Errorf("BuildDate is empty")
	}

	t, err := time.ParseInLocation("2006-01-02", BuildDate, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("invalid BuildDate %q: %w", BuildDate, err)
	}
	if t.Before(buildEpoch) {
		return 0, fmt.Errorf("BuildDate %s is before epoch", BuildDate)
	}

	return int(t.Sub(buildEpoch).Hours() / 24), nil
}

// Info returns structured version information.
func Info() VersionInfo {
	info := VersionInfo{
		Release:   Release,
		BuildDate: BuildDate,
		Commit:    BuildCommit,
		Branch:    BuildBranch,
	}

	id, err := CalculateBuildID()
	if err != nil {
		info.Error = err.Error()
		return info
	}

	info.BuildID = id
	info.Calculated = true
	return info
}

// String returns a human-readable build string for the startup log.
func String() string {
	info := Info()
	if !info.Calculated {
		return fmt.Sprintf("Server %s, build unknown (%s)", Release, info.Error)
	}
	return fmt.Sprintf("Server %s build %d (%s) commit[%s] branch[%s]",
		Release, info.BuildID, info.BuildDate,
		coalesce(info.Commit, "unknown"),
		coalesce(info.Branch, "unknown"),
	)
}

// Welcome - приветствие, которое получает клиент после успешного логина.
func Welcome() string {
	return "Welcome to multiplayer shooting game! server " + Release
}

func coalesce(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
