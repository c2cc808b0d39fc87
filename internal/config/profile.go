package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// timestampLayout is the wire format the measurements API expects.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// Profile holds the operator-tunable seeding knobs: the usage generation window
// and batch size, the measure fields synthesized per record, and the pricing
// category mapping used to resolve aggregation references.
type Profile struct {
	Usage      UsageProfile   `mapstructure:"usage"`
	Measures   []MeasureField `mapstructure:"measures"`
	Categories []Category     `mapstructure:"categories"`
}

// UsageProfile configures the synthesized measurement batches.
type UsageProfile struct {
	BatchSize   int    `mapstructure:"batchSize"`
	WindowStart string `mapstructure:"windowStart"`
	WindowEnd   string `mapstructure:"windowEnd"`
}

// MeasureField names one measure value per record. Code must match an
// aggregation code provisioned during the catalog stage; the generator does
// not verify this.
type MeasureField struct {
	Code string `mapstructure:"code"`
	Min  int64  `mapstructure:"min"`
	Max  int64  `mapstructure:"max"`
}

// Category maps a pricing description key to the aggregation-name keyword it
// resolves through.
type Category struct {
	Key     string `mapstructure:"key"`
	Keyword string `mapstructure:"keyword"`
}

func DefaultProfile() Profile {
	return Profile{
		Usage: UsageProfile{
			BatchSize:   120,
			WindowStart: "2024-12-01T00:00:00.000Z",
			WindowEnd:   "2024-12-31T20:00:00.000Z",
		},
		Measures: []MeasureField{
			{Code: "memory_consumption", Min: 1, Max: 100},
			{Code: "execution_time", Min: 1000, Max: 5000},
		},
		Categories: []Category{
			{Key: "Requests", Keyword: "Requests"},
			{Key: "Duration", Keyword: "Duration"},
		},
	}
}

// LoadProfile reads the seed profile from the given file, or from the default
// search paths when path is empty. Missing file falls back to defaults.
func LoadProfile(path string) (Profile, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("seedprofile")
		v.SetConfigType("yml")
		v.AddConfigPath("/etc/meterseed")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("METERSEED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultProfile()
	v.SetDefault("usage.batchSize", defaults.Usage.BatchSize)
	v.SetDefault("usage.windowStart", defaults.Usage.WindowStart)
	v.SetDefault("usage.windowEnd", defaults.Usage.WindowEnd)
	v.SetDefault("measures", defaults.Measures)
	v.SetDefault("categories", defaults.Categories)

	if err := v.ReadInConfig(); err != nil {
		// An explicitly named profile must exist; the default search paths
		// fall back to defaults.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return Profile{}, err
		}
	}

	var p Profile
	if err := v.Unmarshal(&p); err != nil {
		return Profile{}, err
	}
	if err := validateProfile(p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Window parses the configured usage window.
func (u UsageProfile) Window() (time.Time, time.Time, error) {
	start, err := time.Parse(timestampLayout, u.WindowStart)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("usage.windowStart: %w", err)
	}
	end, err := time.Parse(timestampLayout, u.WindowEnd)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("usage.windowEnd: %w", err)
	}
	return start, end, nil
}

// FormatTimestamp renders t in the measurements API wire format.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func validateProfile(p Profile) error {
	if p.Usage.BatchSize <= 0 {
		return errors.New("usage.batchSize must be positive")
	}
	start, end, err := p.Usage.Window()
	if err != nil {
		return err
	}
	if !end.After(start) {
		return errors.New("usage.windowEnd must be after usage.windowStart")
	}
	if len(p.Measures) == 0 {
		return errors.New("measures cannot be empty")
	}
	for _, m := range p.Measures {
		if strings.TrimSpace(m.Code) == "" {
			return errors.New("measures entries require a code")
		}
		if m.Min > m.Max {
			return fmt.Errorf("measure %s: min %d exceeds max %d", m.Code, m.Min, m.Max)
		}
	}
	if len(p.Categories) == 0 {
		return errors.New("categories cannot be empty")
	}
	seen := make(map[string]struct{}, len(p.Categories))
	for _, c := range p.Categories {
		if strings.TrimSpace(c.Key) == "" || strings.TrimSpace(c.Keyword) == "" {
			return errors.New("categories entries require key and keyword")
		}
		if _, ok := seen[c.Key]; ok {
			return fmt.Errorf("duplicate category key %q", c.Key)
		}
		seen[c.Key] = struct{}{}
	}
	return nil
}
