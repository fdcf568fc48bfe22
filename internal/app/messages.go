package app

type (
	gitDirChangedMsg  struct{}
	toastExpiredMsg   struct{ id uint64 }
	editorFinishedMsg struct {
		path string
		err  error
	}
)
