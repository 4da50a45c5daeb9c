// Package telemetry reports anonymous, opt-out command usage events
// to posthog, tagged with a stable per-install UUID. No file paths,
// module names, or source contents are ever included in a reported
// event's properties.
package telemetry

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/posthog/posthog-go"
)

const (
	BuildStarted    = "grimp:build_started"
	BuildCompleted  = "grimp:build_completed"
	BuildFailed     = "grimp:build_failed"
	CheckStarted    = "grimp:check_started"
	CheckViolations = "grimp:check_violations_found"
	CheckClean      = "grimp:check_clean"
)

// PublicKey is the posthog project key; built with -ldflags for
// release binaries. Telemetry is a no-op when it is empty.
var PublicKey string

// Reporter sends opt-out usage events tagged with a stable per-install
// anonymous id.
type Reporter struct {
	enabled    bool
	appVersion string
}

// New creates a Reporter. Reporting is disabled when disable is true
// or PublicKey was not set at build time.
func New(disable bool, appVersion string) *Reporter {
	return &Reporter{enabled: !disable, appVersion: appVersion}
}

func envFilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".grimp", ".env"), nil
}

// LoadInstallID ensures a per-install anonymous UUID exists in
// ~/.grimp/.env and loads it into the process environment as
// GRIMP_INSTALL_ID.
func LoadInstallID() {
	path, err := envFilePath()
	if err != nil {
		return
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return
		}
		_ = godotenv.Write(map[string]string{"GRIMP_INSTALL_ID": uuid.New().String()}, path)
	}
	_ = godotenv.Load(path)
}

// Report sends event with optional non-identifying properties.
func (r *Reporter) Report(event string, properties map[string]interface{}) {
	if !r.enabled || PublicKey == "" {
		return
	}
	disableGeoIP := false
	client, err := posthog.NewWithConfig(PublicKey, posthog.Config{
		Endpoint:     "https://us.i.posthog.com",
		DisableGeoIP: &disableGeoIP,
	})
	if err != nil {
		return
	}
	defer client.Close()

	props := posthog.NewProperties()
	props.Set("os", runtime.GOOS)
	props.Set("arch", runtime.GOARCH)
	props.Set("go_version", runtime.Version())
	if r.appVersion != "" {
		props.Set("grimp_version", r.appVersion)
	}
	for k, v := range properties {
		props.Set(k, v)
	}

	_ = client.Enqueue(posthog.Capture{
		DistinctId: os.Getenv("GRIMP_INSTALL_ID"),
		Event:      event,
		Properties: props,
	})
}
