package types

// Progress receives coarse progress notifications from batch operations.
//
// Batch import reports one task per top-level song: NewTask with the number
// of songs, Progress once per song (successful or not), EndTask at the end.
type Progress interface {
	NewTask(count int)
	Progress()
	EndTask()
}

// NopProgress discards all notifications.
type NopProgress struct{}

// NewTask implements Progress.
func (NopProgress) NewTask(int) {}

// Progress implements Progress.
func (NopProgress) Progress() {}

// EndTask implements Progress.
func (NopProgress) EndTask() {}
