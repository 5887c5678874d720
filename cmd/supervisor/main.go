package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	kitlog "github.com/go-kit/kit/log"
	"github.com/spf13/viper"

	"github.com/n-hartley/heliland"
	helioio "github.com/n-hartley/heliland/io"
)

// This CLI plays a TOML scenario file against a freshly constructed
// Supervisor, logging every component output as it is produced.
// Grounded on cmd/mission/main.go's flag+viper scenario-loading combo.

const defaultScenario = "~~unset~~"

var scenario string

func init() {
	flag.StringVar(&scenario, "scenario", defaultScenario, "scenario TOML file")
}

// scenarioEvent is one timed input in a scenario file's [[events]] array.
type scenarioEvent struct {
	At            float64 `mapstructure:"at"`
	Type          string  `mapstructure:"type"`
	MissionNumber int     `mapstructure:"mission_number"`
	Lat           float64 `mapstructure:"lat"`
	Lon           float64 `mapstructure:"lon"`
	AltMSL        float64 `mapstructure:"alt_msl"`
	AltAGL        float64 `mapstructure:"alt_agl"`
	HdgDeg        float64 `mapstructure:"hdg_deg"`
	VelKts        float64 `mapstructure:"vel_kts"`
	MissionItemNo int     `mapstructure:"mission_item_no"`
}

func main() {
	flag.Parse()
	if flag.NArg() > 0 {
		scenario = flag.Arg(0)
	}
	if scenario == defaultScenario {
		log.Fatal("no scenario file provided")
	}

	scenario = strings.TrimSuffix(scenario, ".toml")
	viper.AddConfigPath(".")
	viper.SetConfigName(scenario)
	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("%s.toml: %s", scenario, err)
	}

	var events []scenarioEvent
	if err := viper.UnmarshalKey("events", &events); err != nil {
		log.Fatalf("%s.toml: events: %s", scenario, err)
	}

	cfg := heliland.LoadConfig()
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	logger = kitlog.With(logger, "subsys", "cli")

	var lastLat, lastLon float64
	var seq byte

	sup := heliland.NewSupervisor(cfg, func(component string, out heliland.Outbox) {
		logger.Log("level", "info", "component", component, "output", fmt.Sprintf("%+v", out))

		if out.FCCCommand != nil {
			wire, err := helioio.EncodeFCCCommand(*out.FCCCommand)
			if err != nil {
				log.Fatalf("encode fcc_command: %s", err)
			}
			logger.Log("level", "debug", "wire", "fcc_command", "bytes", len(wire))
		}
		if out.BossDisplay != nil {
			bd := *out.BossDisplay
			bd.SunElevationDeg = helioio.DaylightAdvisory(time.Now(), lastLat, lastLon)
			wire, err := helioio.EncodeBossDisplay(bd)
			if err != nil {
				log.Fatalf("encode boss_display: %s", err)
			}
			logger.Log("level", "debug", "wire", "boss_display", "bytes", len(wire), "sun_elevation_deg", bd.SunElevationDeg)
		}
		if out.GCSMessage != nil {
			wire := helioio.EncodeGCSStatusText(*out.GCSMessage, seq, 1, 1)
			seq++
			logger.Log("level", "debug", "wire", "gcs_statustext", "bytes", len(wire))
		}
	})

	for _, ev := range events {
		at := heliland.Seconds(ev.At)
		sup.RunUntil(at)
		if ev.Type == "aircraft_state" {
			lastLat, lastLon = ev.Lat, ev.Lon
		}
		applyEvent(sup, ev)
	}
	sup.Run()

	logger.Log("level", "notice", "status", "passivated", "at", sup.Now().String())
	os.Exit(0)
}

func applyEvent(sup *heliland.Supervisor, ev scenarioEvent) {
	switch ev.Type {
	case "start_mission":
		sup.InjectStartMission(heliland.StartSupervisor{MissionNumber: ev.MissionNumber})
	case "plp_achieved":
		sup.InjectPlpAchieved()
	case "pilot_takeover":
		sup.InjectPilotTakeover()
	case "landing_achieved":
		sup.InjectLandingAchieved()
	case "aircraft_state":
		sup.InjectAircraftState(heliland.AircraftState{
			Lat: ev.Lat, Lon: ev.Lon,
			AltAGL: float32(ev.AltAGL), AltMSL: float32(ev.AltMSL),
			HdgDeg: float32(ev.HdgDeg), VelKts: float32(ev.VelKts),
		})
	case "lp_recv":
		sup.InjectLpRecv(heliland.LandingPoint{
			Lat: ev.Lat, Lon: ev.Lon, AltMSL: float32(ev.AltMSL),
			HdgDeg: float32(ev.HdgDeg), MissionItemNo: ev.MissionItemNo,
		})
	case "waypoint":
		sup.InjectWaypoint(heliland.Waypoint{Lat: ev.Lat, Lon: ev.Lon, AltMSL: float32(ev.AltMSL), MissionItemNo: ev.MissionItemNo})
	default:
		log.Fatalf("unknown scenario event type %q", ev.Type)
	}
}
