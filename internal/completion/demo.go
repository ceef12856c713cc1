package completion

import (
	"context"

	"leadchat-backend/internal/playlist"
)

// DemoProvider answers from a fixed playlist and never calls out.
type DemoProvider struct {
	playlist *playlist.Playlist
}

func NewDemoProvider(p *playlist.Playlist) *DemoProvider {
	if p == nil {
		p = playlist.New()
	}
	return &DemoProvider{playlist: p}
}

func (p *DemoProvider) Name() string { return "demo" }

func (p *DemoProvider) Complete(_ context.Context, _ Request) (Completion, error) {
	return Completion{Parts: []string{p.playlist.Next()}}, nil
}
