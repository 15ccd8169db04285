package ui

import (
	"github.com/dbchat/dbchat/internal/monitor"
	"github.com/dbchat/dbchat/internal/tasks"
)

// answerMsg carries the completed pipeline result back into the Elm loop.
type answerMsg struct {
	answer *tasks.Answer
	err    error
}

// progressMsg carries one engine progress update.
type progressMsg tasks.ProgressUpdate

// sampleMsg carries one system usage sample for the status bar.
type sampleMsg monitor.Sample
