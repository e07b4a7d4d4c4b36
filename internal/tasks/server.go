package tasks

import (
	"log/slog"

	"github.com/hibiken/asynq"
)

// StartServer runs the asynq worker and the periodic schedules. It
// blocks, so callers run it in a goroutine.
func StartServer(redisOpt asynq.RedisClientOpt, h *Handlers) error {
	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypePaymentSweeper, h.HandlePaymentSweeper)
	mux.HandleFunc(TypePaymentReminder, h.HandlePaymentReminder)
	mux.HandleFunc(TypeNotifyUser, h.HandleNotifyUser)

	scheduler := asynq.NewScheduler(redisOpt, nil)

	if _, err := scheduler.Register("*/1 * * * *", asynq.NewTask(TypePaymentSweeper, nil)); err != nil {
		return err
	}
	if _, err := scheduler.Register("*/30 * * * *", asynq.NewTask(TypePaymentReminder, nil)); err != nil {
		return err
	}

	go func() {
		if err := scheduler.Run(); err != nil {
			slog.Error("asynq scheduler stopped", "error", err)
		}
	}()

	return srv.Run(mux)
}
