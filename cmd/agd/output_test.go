package main

import (
	"testing"

	"github.com/grovetool/appgraph/internal/diff"
	"github.com/grovetool/appgraph/internal/events"
	"github.com/grovetool/appgraph/internal/model"
	"github.com/grovetool/appgraph/internal/ui"
)

func TestStatusLine(t *testing.T) {
	ui.ForceNoColor()

	tests := []struct {
		name   string
		result diff.Result
		want   string
	}{
		{
			name:   "no changes",
			result: diff.Result{Unchanged: []string{"res-db"}},
			want:   "shop: no changes",
		},
		{
			name: "resource changes",
			result: diff.Result{
				Added:    []string{"res-api", "res-cache"},
				Removed:  []string{"res-old"},
				Modified: []string{"res-db"},
			},
			want: "shop: +2 added, -1 removed, ~1 modified",
		},
		{
			name: "connections only",
			result: diff.Result{
				AddedConnections: []model.Connection{{Source: "a", Target: "b"}},
			},
			want: "shop: ±1 connections",
		},
		{
			name: "everything",
			result: diff.Result{
				Added:              []string{"res-api"},
				RemovedConnections: []model.Connection{{Source: "a", Target: "b"}},
			},
			want: "shop: +1 added, ±1 connections",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusLine("shop", tt.result); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatEvent(t *testing.T) {
	ev := events.DiffCompleted{
		RunID:              "agr-x1",
		Label:              "apps/shop",
		Added:              2,
		Removed:            1,
		Unchanged:          3,
		AddedConnections:   1,
		RemovedConnections: 0,
	}
	want := "[agr-x1] apps/shop: +2 -1 ~0 (3 unchanged), connections +1 -0"
	if got := formatEvent(ev); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
