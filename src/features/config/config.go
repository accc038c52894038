package config

import "time"

// Config holds the application configuration.
type Config struct {
	Notify  Notify  `yaml:"notify"`
	Logger  Logger  `yaml:"logger"`
	Import  Import  `yaml:"import"`
	Catalog Catalog `yaml:"catalog"`
	Storage Storage `yaml:"storage"`
	Records Records `yaml:"records"`
	Metrics Metrics `yaml:"metrics"`
	Watch   Watch   `yaml:"watch"`
}

// Notify holds the configuration for operator alerts.
type Notify struct {
	Backend   string        `yaml:"backend" validate:"oneof=imessage telegram command"`
	Recipient string        `yaml:"recipient" validate:"required"`
	Timeout   time.Duration `yaml:"timeout"`
	Telegram  Telegram      `yaml:"telegram"`
	Command   string        `yaml:"command"` // text/template with .Recipient and .Message
}

type Telegram struct {
	Token string `yaml:"token"`
}

// Logger holds the configuration for the app logging
type Logger struct {
	Level     string `yaml:"level" validate:"oneof=debug info warn error"`
	Format    string `yaml:"format" validate:"oneof=text json logfmt"`
	RunLogDir string `yaml:"run_log_dir"`
}

// Import holds the configuration of the external importer and the import loop.
type Import struct {
	Command         string        `yaml:"command" validate:"required"`
	Args            []string      `yaml:"args"` // the file path is appended last
	DuplicateMarker string        `yaml:"duplicate_marker"`
	BatchSize       int           `yaml:"batch_size" validate:"min=1"`
	SettleDelay     time.Duration `yaml:"settle_delay"`
	MinTimeout      time.Duration `yaml:"min_timeout"`
	TimeoutPerMiB   time.Duration `yaml:"timeout_per_mib"`
	HostApp         string        `yaml:"host_app" validate:"required"` // process restarted every batch
	ImporterProcess string        `yaml:"importer_process"`             // process swept after a timeout
}

// Catalog holds the candidate file rules.
type Catalog struct {
	AllowedExtensions        []string `yaml:"allowed_extensions" validate:"min=1"`
	ExcludedDirs             []string `yaml:"excluded_dirs"`
	ExcludedBundleExtensions []string `yaml:"excluded_bundle_extensions"`
}

// Storage holds the free space guard configuration.
type Storage struct {
	Path          string        `yaml:"path"`
	MinFreeBytes  uint64        `yaml:"min_free_bytes"`
	Hysteresis    float64       `yaml:"hysteresis" validate:"gte=1"`
	RetryInterval time.Duration `yaml:"retry_interval"`
}

// Records holds the configuration of the processed-file record.
type Records struct {
	Backend      string `yaml:"backend" validate:"oneof=text sqlite"`
	ImportedPath string `yaml:"imported_path"`
	ErroredPath  string `yaml:"errored_path"`
	SqlitePath   string `yaml:"sqlite_path"`
}

// Metrics holds the configuration of the run metrics export.
type Metrics struct {
	TextfilePath string `yaml:"textfile_path"`
}

// Watch holds the configuration of watch mode.
type Watch struct {
	Debounce time.Duration `yaml:"debounce"`
}
