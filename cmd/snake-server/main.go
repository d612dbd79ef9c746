package main

import (
	"flag"
	"log"
	"net/http"
	"os"

	"snake-arena/config"
	"snake-arena/logging"

	"github.com/gin-gonic/gin"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	addr := flag.String("addr", "", "Listen address, overrides the config file")
	debug := flag.Bool("debug", false, "Write logs to the log directory instead of stderr")
	logDir := flag.String("logdir", "logs", "Log directory used with -debug")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	if *debug || cfg.Debug {
		logFile, err := logging.Setup(true, *logDir)
		if err != nil {
			log.Fatalf("logging: %v", err)
		}
		defer logFile.Close()
	} else {
		log.SetOutput(os.Stderr)
		gin.SetMode(gin.ReleaseMode)
	}

	router := NewRouter(NewServer(cfg))
	log.Printf("snake server listening on %s", cfg.Server.Addr)
	if err := http.ListenAndServe(cfg.Server.Addr, router); err != nil {
		log.Fatalf("server: %v", err)
	}
}
