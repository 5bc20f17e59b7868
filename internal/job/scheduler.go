// Package job — фоновые задачи по расписанию.
package job

import (
	"design-studio/internal/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Scheduler struct {
	cron *cron.Cron
}

// cronLogger направляет сообщения cron в zap.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.L().Sugar().Debugw(msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.L().Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}

func NewScheduler() *Scheduler {
	l := cronLogger{}
	return &Scheduler{cron: cron.New(cron.WithLogger(l), cron.WithChain(cron.Recover(l)))}
}

func (s *Scheduler) Add(spec string, j cron.Job) error {
	id, err := s.cron.AddJob(spec, j)
	if err != nil {
		return err
	}
	logger.L().Info("scheduled job", zap.String("spec", spec), zap.Int("id", int(id)))
	return nil
}

func (s *Scheduler) Start() { s.cron.Start() }

// Stop останавливает расписание и ждёт завершения выполняющихся задач.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
