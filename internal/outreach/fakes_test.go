package outreach

import (
	"context"
	"errors"
	"sync"

	"github.com/sells-group/outreach-cli/internal/agent"
	"github.com/sells-group/outreach-cli/internal/model"
)

type fakeGenerator struct {
	mu      sync.Mutex
	params  []agent.MessageParams
	text    string
	script  *model.CallScript
	err     error
	panicOn model.Channel
}

func (g *fakeGenerator) GenerateMessage(_ context.Context, p agent.MessageParams) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.params = append(g.params, p)
	if g.panicOn == p.Channel {
		panic("generator exploded")
	}
	if g.err != nil {
		return "", g.err
	}
	return g.text, nil
}

func (g *fakeGenerator) GenerateCallScript(_ context.Context, p agent.MessageParams) (*model.CallScript, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.params = append(g.params, p)
	if g.err != nil {
		return nil, g.err
	}
	return g.script, nil
}

func (g *fakeGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.params)
}

type fakeSender struct {
	mu       sync.Mutex
	messages []string
	contacts []model.Contact
	result   model.SendResult
}

func (s *fakeSender) Send(_ context.Context, c model.Contact, message string) model.SendResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts = append(s.contacts, c)
	s.messages = append(s.messages, message)
	return s.result
}

func (s *fakeSender) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.contacts)
}

type fakeCaller struct {
	scripts []*model.CallScript
	result  model.SendResult
}

func (c *fakeCaller) Call(_ context.Context, _ model.Contact, script *model.CallScript) model.SendResult {
	c.scripts = append(c.scripts, script)
	return c.result
}

var errGenerate = errors.New("agent: generate message: model unavailable")
