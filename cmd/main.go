package main

import (
	"log"
	"net/http"
	"time"

	"cheersbot/api"
	"cheersbot/celebrate"
	"cheersbot/config"
	"cheersbot/db"
	"cheersbot/resolver"
	"cheersbot/scheduler"
	"cheersbot/slack"
)

func main() {
	config.LoadEnv()
	cfg := config.FromEnv()

	gdb, err := db.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Database init failed:", err)
	}
	store := db.NewStore(gdb)

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatal("Invalid CELEBRATION_TIMEZONE:", err)
	}

	var slackOpts []slack.Option
	if cfg.RedisURL != "" {
		cache, err := slack.NewMemberCache(cfg.RedisURL, 10*time.Minute)
		if err != nil {
			log.Println("[WARN] redis unavailable, member cache disabled:", err)
		} else {
			slackOpts = append(slackOpts, slack.WithMemberCache(cache))
		}
	}
	slackClient := slack.NewClient(cfg.SlackBotToken, slackOpts...)

	res := resolver.New(store, slackClient)

	poster := scheduler.NewPoster(store, slackClient, map[celebrate.Kind]string{
		celebrate.Birthday:    cfg.BirthdayChannelID,
		celebrate.Anniversary: cfg.AnniversaryChannelID,
	}, cfg.PublicBaseURL, loc, nil)

	sched := scheduler.New(poster, cfg.PostTime, loc)
	if err := sched.Start(); err != nil {
		log.Fatal("Scheduler failed to start:", err)
	}
	defer sched.Stop()

	app := api.NewApp(api.Deps{
		Store:         store,
		Profiles:      store,
		Resolver:      res,
		Poster:        poster,
		Directory:     slackClient,
		Location:      loc,
		Now:           time.Now,
		PublicBaseURL: cfg.PublicBaseURL,
	})

	router := SetupRouter(app)

	log.Println("Server running on port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatal("Server failed:", err)
	}
}
