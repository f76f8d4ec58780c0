package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"

	"github.com/ppiankov/matchup/internal/model"
)

func TestLoadConfig(t *testing.T) {
	Convey("Given a fresh viper instance", t, func() {
		v := viper.New()

		Convey("Defaults are used when nothing is set", func() {
			cfg, err := LoadConfig(v)
			So(err, ShouldBeNil)
			So(cfg, ShouldResemble, model.DefaultConfig())
		})

		Convey("A config file overrides defaults", func() {
			path := filepath.Join(t.TempDir(), "config.yaml")
			body := `data_dir: /data/exports
season: 2024
concurrency:
  game_workers: 2
  game_timeout: 45s
datasets:
  std_pitching:
    file: pitching.csv
`
			So(os.WriteFile(path, []byte(body), 0644), ShouldBeNil)
			v.SetConfigFile(path)
			So(v.ReadInConfig(), ShouldBeNil)

			cfg, err := LoadConfig(v)
			So(err, ShouldBeNil)
			So(cfg.DataDir, ShouldEqual, "/data/exports")
			So(cfg.Season, ShouldEqual, 2024)
			So(cfg.Concurrency.GameWorkers, ShouldEqual, 2)
			So(cfg.Concurrency.GameTimeout, ShouldEqual, 45*time.Second)
			So(cfg.Concurrency.Workers, ShouldEqual, 8)

			reg := cfg.Registry()
			So(reg["std_pitching"].File, ShouldEqual, "pitching.csv")
			So(reg["std_pitching"].NameColumn, ShouldEqual, "Player")
		})

		Convey("Environment variables override defaults", func() {
			t.Setenv("MATCHUP_SEASON", "2023")
			t.Setenv("MATCHUP_LOGGING_LEVEL", "debug")
			v.SetEnvPrefix("MATCHUP")
			v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
			v.AutomaticEnv()

			cfg, err := LoadConfig(v)
			So(err, ShouldBeNil)
			So(cfg.Season, ShouldEqual, 2023)
			So(cfg.Logging.Level, ShouldEqual, "debug")
		})

		Convey("Zero values fall back to defaults", func() {
			v.Set("season", 0)
			v.Set("concurrency.workers", -1)

			cfg, err := LoadConfig(v)
			So(err, ShouldBeNil)
			So(cfg.Season, ShouldEqual, 2025)
			So(cfg.Concurrency.Workers, ShouldEqual, 8)
		})
	})
}

func TestInitConfigFile(t *testing.T) {
	Convey("Given a config path", t, func() {
		path := filepath.Join(t.TempDir(), ".matchup", "config.yaml")

		Convey("The default config is written and reloads cleanly", func() {
			So(InitConfigFile(path), ShouldBeNil)

			v := viper.New()
			v.SetConfigFile(path)
			So(v.ReadInConfig(), ShouldBeNil)

			cfg, err := LoadConfig(v)
			So(err, ShouldBeNil)
			So(cfg, ShouldResemble, model.DefaultConfig())
		})

		Convey("An existing file is not overwritten", func() {
			So(InitConfigFile(path), ShouldBeNil)
			err := InitConfigFile(path)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "already exists")
		})
	})
}

func TestListDatasets(t *testing.T) {
	Convey("Given a data dir with one export", t, func() {
		dir := t.TempDir()
		So(os.WriteFile(filepath.Join(dir, "Player_Standard_Pitching.csv"), []byte("Player,ERA\nLogan Gilbert,2.60\n"), 0644), ShouldBeNil)

		cfg := model.DefaultConfig()
		cfg.DataDir = dir

		var out bytes.Buffer
		So(listDatasets(context.Background(), &out, cfg), ShouldBeNil)

		Convey("Loaded and missing datasets are both listed", func() {
			So(out.String(), ShouldContainSubstring, "std_pitching")
			So(out.String(), ShouldContainSubstring, "1 rows")
			So(out.String(), ShouldContainSubstring, "missing")
			So(out.String(), ShouldContainSubstring, "⚠ ")
		})
	})
}
