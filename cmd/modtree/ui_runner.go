package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"modtree/internal/buildpipeline"
	"modtree/internal/ui"
)

type buildOutcome struct {
	results []buildpipeline.Result
	err     error
}

func runBuildWithUI(ctx context.Context, title string, req *buildpipeline.Request) ([]buildpipeline.Result, error) {
	if req == nil {
		return nil, fmt.Errorf("missing build request")
	}
	events := make(chan buildpipeline.Event, 256)
	outcomeCh := make(chan buildOutcome, 1)

	go func() {
		reqCopy := *req
		reqCopy.Progress = buildpipeline.ChannelSink{Ch: events}
		res, err := buildpipeline.Build(ctx, &reqCopy)
		outcomeCh <- buildOutcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, req.Roots, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	// модель могла выйти раньше: не даём сборке встать на полном канале
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
