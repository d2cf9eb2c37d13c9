package jobs

import (
	"context"
	"sync"
)

// Job - фоновая задача, работает до отмены контекста
type Job interface {
	Start(ctx context.Context)
}

type Manager struct {
	jobs []Job
}

func New() *Manager {
	return &Manager{}
}

func (m *Manager) Register(job Job) {
	m.jobs = append(m.jobs, job)
}

// Start - запускает все задачи и ждёт их завершения после отмены контекста
func (m *Manager) Start(ctx context.Context) {
	var wg sync.WaitGroup

	for _, job := range m.jobs {
		wg.Add(1)

		go func(j Job) {
			defer wg.Done()
			j.Start(ctx)
		}(job)
	}

	<-ctx.Done()
	wg.Wait()
}
