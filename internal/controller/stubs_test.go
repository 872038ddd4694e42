package controller

import (
	"context"
	"net/url"
	"sync"

	"github.com/noah-isme/sma-portal/internal/models"
)

type actorStub struct {
	mu    sync.Mutex
	actor *models.Actor
}

func newActor(role models.Role) *actorStub {
	return &actorStub{actor: &models.Actor{ID: "u-" + string(role), Role: role}}
}

func (a *actorStub) Actor() *models.Actor {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.actor == nil {
		return nil
	}
	cp := *a.actor
	return &cp
}

func (a *actorStub) setRole(role models.Role) {
	a.mu.Lock()
	a.actor.Role = role
	a.mu.Unlock()
}

type updateCall struct {
	kind models.Kind
	id   string
	body map[string]any
}

type gatewayStub struct {
	mu sync.Mutex

	listFn    func(ctx context.Context, kind models.Kind, params url.Values) ([]models.Record, error)
	listCalls []url.Values

	updateFn    func(ctx context.Context, kind models.Kind, id string, body map[string]any) (models.Record, error)
	updateCalls []updateCall

	deleteErr   error
	deleteCalls []string
}

func (g *gatewayStub) List(ctx context.Context, kind models.Kind, params url.Values) ([]models.Record, error) {
	g.mu.Lock()
	g.listCalls = append(g.listCalls, params)
	fn := g.listFn
	g.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(ctx, kind, params)
}

func (g *gatewayStub) Update(ctx context.Context, kind models.Kind, id string, body map[string]any) (models.Record, error) {
	g.mu.Lock()
	g.updateCalls = append(g.updateCalls, updateCall{kind: kind, id: id, body: body})
	fn := g.updateFn
	g.mu.Unlock()
	if fn == nil {
		rec, err := models.RecordFromMap(kind, body)
		return rec, err
	}
	return fn(ctx, kind, id, body)
}

func (g *gatewayStub) Delete(ctx context.Context, kind models.Kind, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.deleteCalls = append(g.deleteCalls, id)
	return g.deleteErr
}

func (g *gatewayStub) listCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.listCalls)
}

func (g *gatewayStub) updateCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.updateCalls)
}

func gradeRecord() models.Record {
	return models.Record{Kind: models.KindGrades, ID: "1001", Fields: models.Fields{"studentname": "John Doe", "marks": 85.0}}
}
