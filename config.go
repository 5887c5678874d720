package heliland

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// LoadConfig reads timer/tolerance overrides from the TOML file pointed to
// by the HELILAND_CONFIG environment variable, falling back to
// DefaultConfig when the variable is unset. This mirrors the teacher's
// smdConfig(): a missing scenario is not an error (defaults apply), but a
// configured-and-missing file panics, per §7 ("configuration errors...fail
// fast, do not enter simulation").
func LoadConfig() Config {
	cfg := DefaultConfig()

	confPath := os.Getenv("HELILAND_CONFIG")
	if confPath == "" {
		return cfg
	}

	viper.SetConfigName("conf")
	viper.AddConfigPath(confPath)
	if err := viper.ReadInConfig(); err != nil {
		panic(fmt.Errorf("%s/conf.toml not found", confPath))
	}

	if viper.IsSet("timers.orbit_s") {
		cfg.OrbitTimer = Seconds(viper.GetFloat64("timers.orbit_s"))
	}
	if viper.IsSet("timers.lp_accept_s") {
		cfg.LPAcceptTimer = Seconds(viper.GetFloat64("timers.lp_accept_s"))
	}
	if viper.IsSet("timers.repo_s") {
		cfg.RepoTimer = Seconds(viper.GetFloat64("timers.repo_s"))
	}
	if viper.IsSet("timers.upd_s") {
		cfg.UpdTimer = Seconds(viper.GetFloat64("timers.upd_s"))
	}
	if viper.IsSet("timers.polling_rate_s") {
		cfg.PollingRate = Seconds(viper.GetFloat64("timers.polling_rate_s"))
	}
	if viper.IsSet("hover.hor_dist_tol_ft") {
		cfg.LandCriteriaHorDistFt = viper.GetFloat64("hover.hor_dist_tol_ft")
	}
	if viper.IsSet("hover.vert_dist_tol_ft") {
		cfg.LandCriteriaVertDistFt = viper.GetFloat64("hover.vert_dist_tol_ft")
	}
	if viper.IsSet("hover.vel_tol_kts") {
		cfg.LandCriteriaVelKts = viper.GetFloat64("hover.vel_tol_kts")
	}
	if viper.IsSet("hover.hdg_tol_deg") {
		cfg.LandCriteriaHdgDeg = viper.GetFloat64("hover.hdg_tol_deg")
	}
	if viper.IsSet("hover.time_tol_s") {
		cfg.LandCriteriaTime = Seconds(viper.GetFloat64("hover.time_tol_s"))
	}
	if viper.IsSet("repo.min_vel_kts") {
		cfg.MinRepoVelKts = viper.GetFloat64("repo.min_vel_kts")
	}
	if viper.IsSet("repo.max_vel_kts") {
		cfg.MaxRepoVelKts = viper.GetFloat64("repo.max_vel_kts")
	}
	if viper.IsSet("repo.transit_time_s") {
		cfg.RepoTransitTime = Seconds(viper.GetFloat64("repo.transit_time_s"))
	}
	return cfg
}
