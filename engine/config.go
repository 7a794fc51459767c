package engine

import (
	"github.com/spf13/viper"

	"github.com/roarscore/roarscore-api/score"
	"github.com/roarscore/roarscore-api/window"
)

const (
	DefaultFPS               = 20
	DefaultLeadTime          = 5.0
	DefaultScheduleTolerance = 1.0
)

// Config holds the tuning of one scoring session.
type Config struct {
	WindowSize float64
	Alpha      float64
	Dampen     float64
	TargetStd  float64

	UISquash bool
	UIMid    float64
	UISpread float64
	UIClip   float64

	RobustNormalization bool

	// FPS converts the frame number of a detection row into seconds.
	FPS float64
	// LeadTime is how far ahead of the clock the next segment is fetched.
	LeadTime          float64
	ScheduleTolerance float64

	PruneThreshold int
	PruneCount     int

	// BlockingLoads makes every advance wait for the loads it issued.
	// Offline replay needs it, live sessions must not use it.
	BlockingLoads bool
}

func DefaultConfig() Config {
	return Config{
		WindowSize:        window.DefaultSize,
		Alpha:             score.DefaultAlpha,
		Dampen:            score.DefaultDampen,
		TargetStd:         score.DefaultTargetStd,
		UIMid:             score.DefaultUIMid,
		UISpread:          score.DefaultUISpread,
		UIClip:            score.DefaultUIClip,
		FPS:               DefaultFPS,
		LeadTime:          DefaultLeadTime,
		ScheduleTolerance: DefaultScheduleTolerance,
		PruneThreshold:    window.DefaultPruneThreshold,
		PruneCount:        window.DefaultPruneCount,
	}
}

// ConfigFromViper reads the engine section of the configuration. Keys
// that are not set keep their defaults.
func ConfigFromViper() Config {
	c := DefaultConfig()

	setFloat(&c.WindowSize, "engine.window_size")
	setFloat(&c.Alpha, "engine.softmax_alpha")
	setFloat(&c.Dampen, "engine.dampen")
	setFloat(&c.TargetStd, "engine.target_std")
	setFloat(&c.UIMid, "engine.ui.mid")
	setFloat(&c.UISpread, "engine.ui.spread")
	setFloat(&c.UIClip, "engine.ui.clip")
	setFloat(&c.FPS, "engine.fps")
	setFloat(&c.LeadTime, "engine.lead_time")
	setFloat(&c.ScheduleTolerance, "engine.schedule_tolerance")

	if viper.IsSet("engine.ui.squash") {
		c.UISquash = viper.GetBool("engine.ui.squash")
	}
	if viper.IsSet("engine.robust_normalization") {
		c.RobustNormalization = viper.GetBool("engine.robust_normalization")
	}
	if viper.IsSet("engine.prune.threshold") {
		c.PruneThreshold = viper.GetInt("engine.prune.threshold")
	}
	if viper.IsSet("engine.prune.count") {
		c.PruneCount = viper.GetInt("engine.prune.count")
	}

	return c
}

func setFloat(target *float64, key string) {
	if viper.IsSet(key) {
		*target = viper.GetFloat64(key)
	}
}

func (c Config) combiner() score.Combiner {
	comb := score.NewCombiner(c.Alpha, c.UISquash)
	comb.Dampen = c.Dampen
	comb.UIMid = c.UIMid
	comb.UISpread = c.UISpread
	comb.UIClip = c.UIClip
	return comb
}

func (c Config) fps() float64 {
	if c.FPS <= 0 {
		return DefaultFPS
	}
	return c.FPS
}
