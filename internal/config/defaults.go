package config

// DefaultConfig returns configuration with sensible defaults.
// These defaults are used when no config file exists or when
// config file is missing specific fields.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: "sqlite",
		},
		Fetch: FetchConfig{
			Workers:        4,
			TimeoutSeconds: 30,
			BaseURL:        "https://pypistats.org/api",
			UserAgent:      "pkgdb/1.0",
		},
		Stats: StatsConfig{
			WeekLookbackDays:  7,
			MonthLookbackDays: 28,
			SparklineWidth:    7,
		},
		Chart: ChartConfig{
			Width:  640,
			Height: 320,
			Palette: []string{
				"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f",
				"#edc948", "#b07aa1", "#ff9da7", "#9c755f", "#bab0ac",
			},
			MaxCategories: 5,
			MaxSeries:     5,
		},
	}
}

// Merge merges loaded config with defaults.
// Values from loaded config take precedence over defaults.
// Returns a new Config with merged values.
func Merge(loaded, defaults *Config) *Config {
	result := &Config{}

	result.Storage = mergeStorageConfig(loaded.Storage, defaults.Storage)
	result.Fetch = mergeFetchConfig(loaded.Fetch, defaults.Fetch)
	result.Stats = mergeStatsConfig(loaded.Stats, defaults.Stats)
	result.Chart = mergeChartConfig(loaded.Chart, defaults.Chart)

	return result
}

func mergeStorageConfig(loaded, defaults StorageConfig) StorageConfig {
	result := StorageConfig{}

	if loaded.Backend != "" {
		result.Backend = loaded.Backend
	} else {
		result.Backend = defaults.Backend
	}

	// Path: empty means "inside the pkgdb directory", resolved at open time
	result.Path = loaded.Path

	return result
}

func mergeFetchConfig(loaded, defaults FetchConfig) FetchConfig {
	result := FetchConfig{}

	if loaded.Workers != 0 {
		result.Workers = loaded.Workers
	} else {
		result.Workers = defaults.Workers
	}

	if loaded.TimeoutSeconds != 0 {
		result.TimeoutSeconds = loaded.TimeoutSeconds
	} else {
		result.TimeoutSeconds = defaults.TimeoutSeconds
	}

	if loaded.BaseURL != "" {
		result.BaseURL = loaded.BaseURL
	} else {
		result.BaseURL = defaults.BaseURL
	}

	if loaded.UserAgent != "" {
		result.UserAgent = loaded.UserAgent
	} else {
		result.UserAgent = defaults.UserAgent
	}

	return result
}

func mergeStatsConfig(loaded, defaults StatsConfig) StatsConfig {
	result := StatsConfig{}

	if loaded.WeekLookbackDays != 0 {
		result.WeekLookbackDays = loaded.WeekLookbackDays
	} else {
		result.WeekLookbackDays = defaults.WeekLookbackDays
	}

	if loaded.MonthLookbackDays != 0 {
		result.MonthLookbackDays = loaded.MonthLookbackDays
	} else {
		result.MonthLookbackDays = defaults.MonthLookbackDays
	}

	if loaded.SparklineWidth != 0 {
		result.SparklineWidth = loaded.SparklineWidth
	} else {
		result.SparklineWidth = defaults.SparklineWidth
	}

	return result
}

func mergeChartConfig(loaded, defaults ChartConfig) ChartConfig {
	result := ChartConfig{}

	if loaded.Width != 0 {
		result.Width = loaded.Width
	} else {
		result.Width = defaults.Width
	}

	if loaded.Height != 0 {
		result.Height = loaded.Height
	} else {
		result.Height = defaults.Height
	}

	if len(loaded.Palette) > 0 {
		result.Palette = loaded.Palette
	} else {
		result.Palette = defaults.Palette
	}

	if loaded.MaxCategories != 0 {
		result.MaxCategories = loaded.MaxCategories
	} else {
		result.MaxCategories = defaults.MaxCategories
	}

	if loaded.MaxSeries != 0 {
		result.MaxSeries = loaded.MaxSeries
	} else {
		result.MaxSeries = defaults.MaxSeries
	}

	return result
}

// ValidBackends lists the valid values for the storage backend
var ValidBackends = []string{"sqlite", "dolt"}

// IsValidBackend checks if the given backend value is valid
func IsValidBackend(backend string) bool {
	for _, valid := range ValidBackends {
		if backend == valid {
			return true
		}
	}
	return false
}
