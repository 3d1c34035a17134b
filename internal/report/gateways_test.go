package report

import (
	"context"
	"testing"
)

func TestGatewayResolverConfiguredListWins(t *testing.T) {
	repo := NewMemoryRepository()
	repo.GatewayList = []string{"discovered"}
	g := NewGatewayResolver(repo, []string{"gw1", "gw2"}, nil)

	got, err := g.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0] != "gw1" {
		t.Errorf("configured list must take precedence, got %v", got)
	}

	def, err := g.Default(context.Background())
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if def != "gw1" {
		t.Errorf("default gateway = %q, want gw1", def)
	}
}

func TestGatewayResolverDiscovers(t *testing.T) {
	repo := NewMemoryRepository()
	repo.GatewayList = []string{"trunk-a", "trunk-b"}
	g := NewGatewayResolver(repo, nil, nil)

	got, err := g.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0] != "trunk-a" {
		t.Errorf("discovery result = %v", got)
	}
}

func TestGatewayResolverResolve(t *testing.T) {
	repo := NewMemoryRepository()
	g := NewGatewayResolver(repo, []string{"gw1"}, nil)

	if got, _ := g.Resolve(context.Background(), "explicit"); got != "explicit" {
		t.Errorf("explicit request overridden: %q", got)
	}
	if got, _ := g.Resolve(context.Background(), ""); got != "gw1" {
		t.Errorf("empty request should fall back to default, got %q", got)
	}
}

func TestGatewayResolverEmpty(t *testing.T) {
	repo := NewMemoryRepository()
	g := NewGatewayResolver(repo, nil, nil)

	def, err := g.Default(context.Background())
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if def != "" {
		t.Errorf("no gateways anywhere should yield empty default, got %q", def)
	}
}
