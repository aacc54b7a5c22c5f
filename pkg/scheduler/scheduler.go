package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

type queue[T any] []T

func (q *queue[T]) Len() int { return len(*q) }

func (q *queue[T]) Pop() T {
	old := *q
	x := old[0]
	*q = old[1:]
	return x
}

func (q *queue[T]) Push(t T) {
	*q = append(*q, t)
}

type workRequest struct {
	name string
	fn   Work[any]
	c    chan Result[any]
	ctx  context.Context
}

type worker struct {
	done chan any
	wg   *sync.WaitGroup
	log  *zap.SugaredLogger
}

func (w worker) Work(r workRequest) {
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			w.log.Errorw("worker panicked", "work", r.name, "panic", rec)
			r.c <- Result[any]{Name: r.name, Err: fmt.Errorf("worker panicked: %v", rec), Duration: time.Since(start)}
		}
		w.done <- struct{}{}
		w.wg.Done()
	}()

	v, err := r.fn(r.ctx)
	r.c <- Result[any]{Name: r.name, Data: v, Err: err, Duration: time.Since(start)}
}

// Scheduler runs submitted work on a fixed pool of workers, in submission order.
type Scheduler struct {
	workers    *queue[worker]
	workQueue  *queue[workRequest]
	close      chan any
	done       chan any
	work       chan workRequest
	mainCtx    context.Context
	mainCancel context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once
	log        *zap.SugaredLogger
}

func NewScheduler(nbWorkers int, logger *zap.Logger) *Scheduler {
	done := make(chan any, nbWorkers)
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		workers:    &queue[worker]{},
		workQueue:  &queue[workRequest]{},
		close:      make(chan any),
		done:       done,
		work:       make(chan workRequest),
		mainCtx:    ctx,
		mainCancel: cancel,
		log:        logger.Named("scheduler").Sugar(),
	}
	for range nbWorkers {
		s.workers.Push(s.newWorker())
	}
	go s.run()
	return s
}

// AddWork queues w under name and returns its future.
func (s *Scheduler) AddWork(name string, w Work[any]) *Future[Result[any]] {
	c := make(chan Result[any], 1)
	ctx, cancel := context.WithCancel(s.mainCtx)

	select {
	case <-s.mainCtx.Done():
		// closing, nothing will run it
		c <- Result[any]{Name: name, Err: context.Canceled}
	case s.work <- workRequest{name: name, fn: w, c: c, ctx: ctx}:
	}

	return NewFuture(c, cancel)
}

func (s *Scheduler) Close() {
	s.once.Do(func() {
		s.mainCancel()
		s.close <- struct{}{}
		<-s.done
	})
}

func (s *Scheduler) newWorker() worker {
	return worker{done: s.done, wg: &s.wg, log: s.log}
}

func (s *Scheduler) run() {
	defer close(s.done)
	for {
		select {
		case w := <-s.work:
			s.workQueue.Push(w)
			s.dispatch()
		case <-s.done:
			s.workers.Push(s.newWorker())
			s.dispatch()
		case <-s.close:
			s.wg.Wait()
			return
		}
	}
}

// dispatch pairs idle workers with queued work.
func (s *Scheduler) dispatch() {
	for s.workers.Len() > 0 && s.workQueue.Len() > 0 {
		r := s.workQueue.Pop()
		w := s.workers.Pop()
		s.log.Debugw("dispatching work", "work", r.name)
		s.wg.Add(1)
		go w.Work(r)
	}
}
