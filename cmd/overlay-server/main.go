package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Garsondee/Block-Sense/internal/config"
	"github.com/Garsondee/Block-Sense/internal/overlayws"
)

func main() {
	log.SetOutput(os.Stdout)

	configPath := flag.String("config", "", "tuning YAML file (defaults when empty)")
	flag.Parse()

	tun, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	var originPatterns []string
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		originPatterns = strings.Split(origins, ",")
	}

	trusted, err := overlayws.ParseTrustedProxies(os.Getenv("TRUSTED_PROXIES"))
	if err != nil {
		log.Fatalf("TRUSTED_PROXIES: %v", err)
	}

	// 4 connections per IP, 60 scene requests per second per IP.
	limiter := overlayws.NewIPRateLimiter(4, 60, time.Second)
	defer limiter.Stop()

	srv := overlayws.NewServer(tun.Engine(), limiter, originPatterns, trusted)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", srv.HandleWS)
	mux.HandleFunc("/health", srv.HandleHealth)

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			server.Close()
		}
	}()

	log.Printf("overlay server starting on :%s (net=%.2f samples=%d)", port, tun.NetHeight, tun.SampleCount)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
	log.Println("server stopped")
}
