package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"paragraph-backend/internal/bootstrap"
	"paragraph-backend/internal/workerproc"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}
	defer app.Close()

	if app.Queue == nil {
		log.Fatal("SQS_QUEUE_URL is required for the worker")
	}

	opts := workerproc.DefaultOptions()
	opts.Concurrency = app.Config.WorkerConc

	log.Printf("worker started queue=%s concurrency=%d", app.Config.SQSQueueURL, opts.Concurrency)
	workerproc.New(app.Queue, app.Analysis, opts).Run(ctx)
	log.Printf("worker stopped")
}
