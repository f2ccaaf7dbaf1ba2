package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// DashboardConfig tunes the dashboard aggregator. The growth baselines pad the
// denominator of the trailing-30-day change figures so a near-empty catalog does
// not report 100% growth on its first rows.
type DashboardConfig struct {
	RecentLimit        int `mapstructure:"recentLimit"`
	MedicineGrowthBase int `mapstructure:"medicineGrowthBase"`
	UserGrowthBase     int `mapstructure:"userGrowthBase"`
	GrowthWindowDays   int `mapstructure:"growthWindowDays"`
}

func DefaultDashboardConfig() DashboardConfig {
	return DashboardConfig{
		RecentLimit:        5,
		MedicineGrowthBase: 10,
		UserGrowthBase:     5,
		GrowthWindowDays:   30,
	}
}

// DashboardConfigHolder serves the current dashboard config and hot-reloads it
// when the backing file changes.
type DashboardConfigHolder struct {
	current atomic.Value // holds DashboardConfig
}

func NewDashboardConfigHolder() (*DashboardConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("dashboard")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/pharmindex")
	v.AddConfigPath(".")

	v.SetEnvPrefix("PHARMINDEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultDashboardConfig()
	v.SetDefault("dashboard.recentLimit", defaults.RecentLimit)
	v.SetDefault("dashboard.medicineGrowthBase", defaults.MedicineGrowthBase)
	v.SetDefault("dashboard.userGrowthBase", defaults.UserGrowthBase)
	v.SetDefault("dashboard.growthWindowDays", defaults.GrowthWindowDays)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg DashboardConfig
	if err := v.UnmarshalKey("dashboard", &cfg); err != nil {
		return nil, err
	}
	if err := validateDashboardConfig(cfg); err != nil {
		return nil, err
	}

	holder := &DashboardConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated DashboardConfig
		if err := v.UnmarshalKey("dashboard", &updated); err != nil {
			log.Printf("[dashboard-config] reload failed: %v", err)
			return
		}
		if err := validateDashboardConfig(updated); err != nil {
			log.Printf("[dashboard-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[dashboard-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *DashboardConfigHolder) Get() DashboardConfig {
	return h.current.Load().(DashboardConfig)
}

// NewStaticDashboardConfigHolder returns a holder pinned to cfg, without file
// watching. Used by tests.
func NewStaticDashboardConfigHolder(cfg DashboardConfig) *DashboardConfigHolder {
	holder := &DashboardConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func validateDashboardConfig(cfg DashboardConfig) error {
	if cfg.RecentLimit <= 0 {
		return errors.New("dashboard.recentLimit must be positive")
	}
	if cfg.MedicineGrowthBase < 0 || cfg.UserGrowthBase < 0 {
		return errors.New("dashboard growth baselines cannot be negative")
	}
	if cfg.GrowthWindowDays <= 0 {
		return errors.New("dashboard.growthWindowDays must be positive")
	}
	return nil
}
