package main

import (
	"context"
	"log"

	"github.com/babelchat/api/internal/ai"
	"github.com/babelchat/api/internal/chat"
	"github.com/babelchat/api/internal/config"
	"github.com/babelchat/api/internal/db"
	"github.com/babelchat/api/internal/httpapi"
	"github.com/babelchat/api/internal/prefs"
	"github.com/babelchat/api/internal/store/rabbitmq"
	"github.com/babelchat/api/internal/store/redisstore"
	"github.com/babelchat/api/internal/translate"
)

func main() {
	cfg := config.Load()

	gdb := db.Connect(cfg.DBDSN)

	// Durable key/value capability. Unreachable redis degrades to the noop
	// store; preferences then read as defaults.
	var kv redisstore.KV
	rds := redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := rds.Ping(context.Background()); err != nil {
		log.Printf("redis unreachable, preferences degrade to defaults: %v", err)
		kv = redisstore.Noop{}
	} else {
		kv = rds
	}

	prefStore := prefs.NewStore(kv)
	keyStore := prefs.NewKeyStore(kv)

	factory := ai.Factory(cfg.OpenAIBaseURL)
	translator := translate.NewService(factory)

	// Turn events are optional plumbing: no broker, no events.
	var events chat.EventPublisher
	if pub, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitQueue); err != nil {
		log.Printf("rabbit unreachable, turn events disabled: %v", err)
	} else {
		defer pub.Close()
		events = pub
	}

	repo := chat.NewRepo(gdb)
	chatSvc := chat.NewService(repo, translator, factory, events)

	r := httpapi.NewRouter(gdb, cfg, prefStore, keyStore, chatSvc)

	log.Printf("listening on %s", cfg.Addr)
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
