package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/belphemur/week-routine/internal/constants"
	"github.com/belphemur/week-routine/weekmask"
	"github.com/go-viper/mapstructure/v2"
	"github.com/hashicorp/go-multierror"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables overriding file settings.
// A double underscore separates sections: WEEK_ROUTINE_SERVICE__LOG_LEVEL.
const EnvPrefix = "WEEK_ROUTINE_"

// Config holds the application configuration
type Config struct {
	Service  ServiceConfig   `koanf:"service"`
	Schedule ScheduleConfig  `koanf:"schedule"`
	Routines []RoutineConfig `koanf:"routines"`
}

// ServiceConfig holds the service configuration
type ServiceConfig struct {
	StateFile   string `koanf:"state_file"`
	LogLevel    string `koanf:"log_level"`
	Environment string `koanf:"environment"`
}

// ScheduleConfig holds the scheduling parameters
type ScheduleConfig struct {
	LookAheadDays          int `koanf:"look_ahead_days"`
	PastEventThresholdDays int `koanf:"past_event_threshold_days"`
}

// RoutineConfig describes one recurring routine shared by two participants.
// Day masks accept a list of day names, a comma separated string or a raw value.
type RoutineConfig struct {
	Name                    string            `koanf:"name"`
	Days                    weekmask.WeekMask `koanf:"days"`
	ParticipantA            string            `koanf:"participant_a"`
	ParticipantB            string            `koanf:"participant_b"`
	ParticipantAUnavailable weekmask.WeekMask `koanf:"participant_a_unavailable"`
	ParticipantBUnavailable weekmask.WeekMask `koanf:"participant_b_unavailable"`
}

// IsDevelopment reports whether the service runs outside production.
func (c *Config) IsDevelopment() bool {
	return c.Service.Environment != "production"
}

func defaults() map[string]any {
	return map[string]any{
		"service.state_file":                 "data/week-routine.db",
		"service.log_level":                  "info",
		"service.environment":                "development",
		"schedule.look_ahead_days":           30,
		"schedule.past_event_threshold_days": 5,
	}
}

// Load reads the configuration file, applies environment overrides and validates the result.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load default configuration: %w", err)
	}

	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment overrides: %w", err)
	}

	var cfg Config
	err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook:       WeekMaskHook(),
			Result:           &cfg,
			WeaklyTypedInput: true,
			TagName:          "koanf",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	// Relative state files live next to the config file
	if cfg.Service.StateFile != ":memory:" && !filepath.IsAbs(cfg.Service.StateFile) {
		cfg.Service.StateFile = filepath.Join(filepath.Dir(path), cfg.Service.StateFile)
	}

	if err := validate(&cfg, k); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// envKey maps WEEK_ROUTINE_SERVICE__LOG_LEVEL to service.log_level.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

var weekMaskType = reflect.TypeOf(weekmask.WeekMask{})

// WeekMaskHook decodes day lists, strings and numbers into weekmask.WeekMask.
func WeekMaskHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if to != weekMaskType {
			return data, nil
		}
		switch v := data.(type) {
		case weekmask.WeekMask:
			return v, nil
		case []any:
			return *weekmask.Of(v...), nil
		case []string:
			mask := new(weekmask.WeekMask)
			for _, day := range v {
				mask.SetAt(day, true)
			}
			return *mask, nil
		case string:
			var mask weekmask.WeekMask
			if err := mask.UnmarshalText([]byte(v)); err != nil {
				return nil, err
			}
			return mask, nil
		default:
			return *weekmask.Load(v), nil
		}
	}
}

// validate checks if the configuration is valid, reporting every problem at once.
func validate(cfg *Config, k *koanf.Koanf) error {
	var result *multierror.Error

	if cfg.Schedule.LookAheadDays < 1 {
		result = multierror.Append(result, fmt.Errorf("look ahead days must be positive"))
	}
	if cfg.Schedule.PastEventThresholdDays < 0 {
		result = multierror.Append(result, fmt.Errorf("past event threshold days cannot be negative"))
	}

	if len(cfg.Routines) == 0 {
		result = multierror.Append(result, fmt.Errorf("at least one routine is required"))
	}

	rawRoutines, _ := k.Get("routines").([]any)

	seen := make(map[string]bool)
	for i, r := range cfg.Routines {
		label := fmt.Sprintf("routine %d", i)
		if r.Name != "" {
			label = fmt.Sprintf("routine %q", r.Name)
		}

		if err := ValidateRoutine(r); err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", label, err))
		}
		if r.Name != "" && seen[strings.ToLower(r.Name)] {
			result = multierror.Append(result, fmt.Errorf("%s: duplicate routine name", label))
		}
		seen[strings.ToLower(r.Name)] = true

		var raw map[string]any
		if i < len(rawRoutines) {
			raw, _ = rawRoutines[i].(map[string]any)
		}
		for _, field := range []string{"days", "participant_a_unavailable", "participant_b_unavailable"} {
			for _, day := range dayEntries(raw[field]) {
				if !constants.IsValidDayOfWeek(day) {
					result = multierror.Append(result, fmt.Errorf("%s: unknown day %q in %s", label, day, field))
				}
			}
		}
	}

	return result.ErrorOrNil()
}

// ValidateRoutine checks a single routine.
func ValidateRoutine(r RoutineConfig) error {
	var result *multierror.Error
	if r.Name == "" {
		result = multierror.Append(result, fmt.Errorf("name is required"))
	}
	if r.ParticipantA == "" || r.ParticipantB == "" {
		result = multierror.Append(result, fmt.Errorf("both participant names are required"))
	} else if r.ParticipantA == r.ParticipantB {
		result = multierror.Append(result, fmt.Errorf("participant names must be different"))
	}
	if r.Days.Blank() {
		result = multierror.Append(result, fmt.Errorf("at least one day is required"))
	}
	for _, day := range r.Days.Days() {
		if r.ParticipantAUnavailable.Has(day) && r.ParticipantBUnavailable.Has(day) {
			result = multierror.Append(result, fmt.Errorf("both participants unavailable on %s", day))
		}
	}
	return result.ErrorOrNil()
}

// dayEntries returns the raw day references of a mask setting, so typos are
// rejected here even though the mask itself ignores them.
func dayEntries(value any) []string {
	switch v := value.(type) {
	case []any:
		entries := make([]string, 0, len(v))
		for _, e := range v {
			entries = append(entries, fmt.Sprint(e))
		}
		return entries
	case string:
		if _, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return nil
		}
		var entries []string
		for _, e := range strings.Split(v, ",") {
			if e = strings.TrimSpace(e); e != "" {
				entries = append(entries, e)
			}
		}
		return entries
	default:
		return nil
	}
}
