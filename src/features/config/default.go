package config

import "time"

const GiB = 1024 * 1024 * 1024

// createDefaultConfig creates a new Config with sensible default values
func createDefaultConfig() *Config {
	return &Config{
		Notify: Notify{
			Backend:   "imessage",
			Recipient: "", // Apple ID for imessage, chat ID for telegram
			Timeout:   30 * time.Second,
			Telegram: Telegram{
				Token: "", // Can be obtained with https://t.me/BotFather
			},
			Command: "",
		},
		Logger: Logger{
			Level:     "info",
			Format:    "text",
			RunLogDir: "./logs/runs",
		},
		Import: Import{
			Command: "osxphotos",
			Args: []string{
				"import",
				"--album", "{filepath.parent.name}",
				"--verbose",
				"--skip-dups",
				"--dup-albums",
				"--sidecar",
				"--keyword", "{person}",
			},
			DuplicateMarker: "Skipping duplicate",
			BatchSize:       500,
			SettleDelay:     5 * time.Second,
			MinTimeout:      30 * time.Second,
			TimeoutPerMiB:   10 * time.Second,
			HostApp:         "Photos",
			ImporterProcess: "osxphotos",
		},
		Catalog: Catalog{
			AllowedExtensions: []string{
				".jpeg", ".jpg", ".arw", ".png", ".heic", ".mp4", ".mov",
				".nef", ".gif", ".mpg", ".m4v",
			},
			ExcludedDirs: []string{
				".Trashes", ".Spotlight-V100", ".fseventsd", ".TemporaryItems",
				".AppleDouble", "@eaDir", ".thumbnails", "$RECYCLE.BIN",
			},
			ExcludedBundleExtensions: []string{
				".photoslibrary", ".photolibrary", ".aplibrary",
				".migratedphotolibrary", ".app",
			},
		},
		Storage: Storage{
			Path:          "~",
			MinFreeBytes:  15 * GiB,
			Hysteresis:    1.1,
			RetryInterval: 5 * time.Minute,
		},
		Records: Records{
			Backend:      "text",
			ImportedPath: "imported_photos.csv",
			ErroredPath:  "error_importing.csv",
			SqlitePath:   "./records.db",
		},
		Metrics: Metrics{
			TextfilePath: "",
		},
		Watch: Watch{
			Debounce: 5 * time.Second,
		},
	}
}

// Default returns a fresh copy of the default configuration.
func Default() *Config {
	return createDefaultConfig()
}
