//go:build ignore

// Публикует тестовый запуск пайплайна в stream:pipeline:run.
//
//	go run scripts/test_publish.go -redis localhost:6379 -stage nodes
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type PipelineRunEvent struct {
	RunID       uuid.UUID `json:"run_id"`
	Stage       string    `json:"stage"`
	RequestedAt time.Time `json:"requested_at"`
}

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address for streams")
	stage := flag.String("stage", "all", "pipeline stage: edges, nodes or all")
	flag.Parse()

	client := redis.NewClient(&redis.Options{
		Addr: *redisAddr,
	})
	defer client.Close()

	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	event := PipelineRunEvent{
		RunID:       uuid.New(),
		Stage:       *stage,
		RequestedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Fatalf("Failed to marshal event: %v", err)
	}

	result, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: "stream:pipeline:run",
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()
	if err != nil {
		log.Fatalf("Failed to publish event: %v", err)
	}

	fmt.Printf("Published run %s (stage=%s) as message %s\n", event.RunID, event.Stage, result)
}
