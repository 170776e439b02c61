package main

import (
	"log"

	"LiveSketch/internal/config"
	"LiveSketch/internal/realtime"
	"LiveSketch/internal/render"
	"LiveSketch/internal/session"
	"LiveSketch/internal/ui"
)

func main() {
	cfg := config.LoadFromEnv()

	sess := session.New(session.Options{
		Prompt:   cfg.Prompt,
		Seed:     cfg.Seed,
		Interval: cfg.Interval,
	})
	defer sess.Close()

	if cfg.Online() {
		client, err := realtime.Connect(cfg.AppID, realtime.Options{
			Credentials: cfg.Credentials,
			TokenURL:    cfg.TokenURL,
			RealtimeURL: cfg.RealtimeURL,
			Throttle:    cfg.Throttle,
			OnResult:    sess.HandleResult,
			OnError:     sess.HandleError,
		})
		if err != nil {
			log.Fatalf("Failed to set up realtime client: %v", err)
		}
		defer client.Close()
		sess.AttachSender(client)
		log.Printf("Realtime app %s, seed %d", cfg.AppID, cfg.Seed)
	} else {
		log.Println("FAL_KEY is not set, sketching offline")
	}

	ui.RunApp(cfg, sess, render.New())
}
