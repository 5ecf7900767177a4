package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	cfg "github.com/teamKimtaerin/ecg-player/config"
)

func main() {
	_ = godotenv.Load()

	conf, err := cfg.Load()
	if err != nil {
		logrus.Fatal(err)
	}
	if lvl, err := logrus.ParseLevel(conf.LogLevel); err == nil {
		logrus.SetLevel(lvl)
	}

	if err := newRootCmd(conf).Execute(); err != nil {
		os.Exit(1)
	}
}
