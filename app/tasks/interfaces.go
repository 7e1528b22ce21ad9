package tasks

// TaskSchedulerInterface drives background task processing: a ticker
// enqueues the current-week refresh, a worker pool executes.
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
