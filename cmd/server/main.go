package main

import (
	"log"
	"net/http"

	"github.com/Baptiste-Ntr/spe-dev-4-sub000/internal/config"
	"github.com/Baptiste-Ntr/spe-dev-4-sub000/internal/mirror"
	"github.com/Baptiste-Ntr/spe-dev-4-sub000/internal/routers"
	"github.com/Baptiste-Ntr/spe-dev-4-sub000/internal/utils"
)

func main() {
	logger := utils.NewLogger()
	defer logger.Sync()

	cfg := config.LoadConfig()

	var m *mirror.Mirror
	if cfg.RedisAddr != "" {
		m = mirror.New(cfg.RedisAddr, logger)
		defer m.Close()
	}

	r := routers.New(logger, cfg.Service, m)

	// Subscribe only after the handlers installed their callbacks.
	if m != nil {
		m.Start()
	}

	addr := ":" + cfg.Port
	log.Printf("realtime-svc listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, r))
}
