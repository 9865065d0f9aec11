package config

// Configfile represents the structure of the graphcache.yaml configuration file.
type Configfile struct {
	Root   string    `yaml:"root"`
	Inputs InputsDTO `yaml:"inputs"`
	Cache  CacheDTO  `yaml:"cache"`
	Engine EngineDTO `yaml:"engine"`
	Log    LogDTO    `yaml:"log"`
}

// InputsDTO names the input files relative to the root.
type InputsDTO struct {
	OSM  string `yaml:"osm"`
	GTFS string `yaml:"gtfs"`
}

// CacheDTO configures the cache directory and its lifecycle limits.
type CacheDTO struct {
	Dir             string `yaml:"dir"`
	MinFreeSpace    string `yaml:"minFreeSpace"`
	ReadyTimeout    string `yaml:"readyTimeout"`
	RefreshInterval string `yaml:"refreshInterval"`
}

// EngineDTO configures the external routing engine commands.
type EngineDTO struct {
	Build       []string          `yaml:"build"`
	Load        []string          `yaml:"load"`
	Query       []string          `yaml:"query"`
	Profile     string            `yaml:"profile"`
	MMap        *bool             `yaml:"mmap"`
	Environment map[string]string `yaml:"environment"`
}

// LogDTO configures the rotating debug log.
type LogDTO struct {
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxBackups int    `yaml:"maxBackups"`
	JSON       bool   `yaml:"json"`
}
