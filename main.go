package main

import (
	"log/slog"

	"github.com/df-mc/dragonfly/server/player/chat"
	"github.com/smell-of-curry/pokebedrock-guard/guard"
)

// init ...
func init() {
	chat.Global.Subscribe(chat.StdoutSubscriber{})
}

// main ...
func main() {
	conf, err := guard.ReadConfig()
	if err != nil {
		panic(err)
	}

	level, err := guard.ParseLogLevel(conf.Guard.LogLevel)
	if err != nil {
		panic(err)
	}
	slog.SetLogLoggerLevel(level)
	log := slog.Default()

	g, err := guard.New(log, conf)
	if err != nil {
		panic(err)
	}

	g.Start()
}
