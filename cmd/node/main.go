package main

import (
	"flag"

	blc "github.com/treeforest/easybtc"
	"github.com/treeforest/easybtc/config"
	"github.com/treeforest/easybtc/pkg/graceful"
	"github.com/treeforest/easybtc/walletmgr"
	log "github.com/treeforest/logger"
)

func main() {
	path := flag.String("config", "", "配置文件路径")
	flag.Parse()

	conf := config.DefaultConfig()
	if *path != "" {
		var err error
		conf, err = config.Load(*path)
		if err != nil {
			log.Fatalf("load config failed: %v", err)
		}
	}

	switch conf.LogLevel {
	case "debug":
		log.SetLevel(log.DEBUG)
	case "warn":
		log.SetLevel(log.WARN)
	case "error":
		log.SetLevel(log.ERROR)
	default:
		log.SetLevel(log.INFO)
	}

	ledger, err := blc.OpenLedger(conf.LevelDBPath)
	if err != nil {
		log.Fatalf("open ledger failed: %v", err)
	}

	server := blc.NewHttpServer(conf.HttpServerPort, ledger, walletmgr.New())
	go server.Run()

	graceful.Stop(func() {
		log.Info("graceful stopping...")
		if err := ledger.Close(); err != nil {
			log.Errorf("close ledger failed: %v", err)
		}
	})
}
