// Local development helper: serves the static frontend and proxies /api/*
// to the API Gateway endpoint so the browser talks to one origin. Never
// deployed.
package main

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/lfmorais/pedidos-serverless/internal/handlers"
	"github.com/lfmorais/pedidos-serverless/internal/logging"
)

func main() {
	log := logging.Init("devproxy", "./logs/devproxy.log")

	target := os.Getenv("API_BASE_URL")
	if target == "" {
		target = "http://localhost:4566"
	}
	frontendDir := os.Getenv("FRONTEND_DIR")
	if frontendDir == "" {
		frontendDir = "./frontend"
	}

	u, err := url.Parse(target)
	if err != nil {
		log.Error("invalid API_BASE_URL", "url", target, "err", err)
		os.Exit(1)
	}
	proxy := httputil.NewSingleHostReverseProxy(u)

	r := gin.New()
	r.Use(gin.Recovery(), handlers.CORS())

	r.StaticFile("/", frontendDir+"/index.html")
	r.Static("/static", frontendDir)
	r.Any("/api/*path", gin.WrapH(http.StripPrefix("/api", proxy)))

	addr := ":3000"
	log.Info("devproxy running", "addr", addr, "target", target)
	if err := r.Run(addr); err != nil {
		log.Error("devproxy stopped", "err", err)
		os.Exit(1)
	}
}
