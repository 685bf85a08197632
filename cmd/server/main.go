package main

import (
	"flag"

	"github.com/joeblew999/plat-fonts/internal/config"
	"github.com/joeblew999/plat-fonts/internal/server"
	"github.com/joho/godotenv"
	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/logx"
)

func main() {
	configFile := flag.String("f", "etc/plat-fonts.yaml", "config file path")
	envFile := flag.String("env", ".env", "optional env file")
	flag.Parse()

	logx.DisableStat()

	// A missing env file is fine; values may come from the environment.
	if err := godotenv.Load(*envFile); err == nil {
		logx.Infow("Loaded env file", logx.Field("path", *envFile))
	}

	var c config.Config
	conf.MustLoad(*configFile, &c, conf.UseEnv())

	s, err := server.New(c)
	logx.Must(err)

	s.Start()
}
