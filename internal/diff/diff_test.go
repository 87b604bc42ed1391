package diff

import (
	"reflect"
	"testing"

	"github.com/grovetool/appgraph/internal/model"
)

func snap(t *testing.T, data string) *model.Snapshot {
	t.Helper()
	s, err := model.ParseSnapshot([]byte(data))
	if err != nil {
		t.Fatalf("ParseSnapshot: %v", err)
	}
	return s
}

func TestDiff(t *testing.T) {
	for _, tc := range []struct {
		name       string
		base, head string
		want       Result
	}{
		{
			name: "identical snapshots",
			base: `{"resources": [{"id": "a", "name": "web"}]}`,
			head: `{"resources": [{"id": "a", "name": "web"}]}`,
			want: Result{Unchanged: []string{"a"}},
		},
		{
			name: "key order change is not a change",
			base: `{"resources": [{"id": "a", "name": "web", "type": "containers"}]}`,
			head: `{"resources": [{"type": "containers", "id": "a", "name": "web"}]}`,
			want: Result{Unchanged: []string{"a"}},
		},
		{
			name: "added resource",
			base: `{"resources": [{"id": "a"}]}`,
			head: `{"resources": [{"id": "a"}, {"id": "b"}]}`,
			want: Result{Added: []string{"b"}, Unchanged: []string{"a"}},
		},
		{
			name: "removed resource",
			base: `{"resources": [{"id": "a"}, {"id": "b"}]}`,
			head: `{"resources": [{"id": "a"}]}`,
			want: Result{Removed: []string{"b"}, Unchanged: []string{"a"}},
		},
		{
			name: "modified property",
			base: `{"resources": [{"id": "a", "properties": {"image": "web:1"}}]}`,
			head: `{"resources": [{"id": "a", "properties": {"image": "web:2"}}]}`,
			want: Result{Modified: []string{"a"}},
		},
		{
			name: "array reorder is a modification",
			base: `{"resources": [{"id": "a", "properties": {"env": ["X", "Y"]}}]}`,
			head: `{"resources": [{"id": "a", "properties": {"env": ["Y", "X"]}}]}`,
			want: Result{Modified: []string{"a"}},
		},
		{
			name: "key migration is remove plus add",
			base: `{"resources": [{"name": "web"}]}`,
			head: `{"resources": [{"id": "res-web", "name": "web"}]}`,
			want: Result{Added: []string{"res-web"}, Removed: []string{"web"}},
		},
		{
			name: "connection changes",
			base: `{"connections": [{"sourceId": "a", "targetId": "b"}, {"sourceId": "a", "targetId": "c"}]}`,
			head: `{"connections": [{"sourceId": "a", "targetId": "b"}, {"sourceId": "b", "targetId": "c"}]}`,
			want: Result{
				AddedConnections:   []model.Connection{{Source: "b", Target: "c"}},
				RemovedConnections: []model.Connection{{Source: "a", Target: "c"}},
			},
		},
		{
			name: "both empty",
			base: ``,
			head: ``,
			want: Result{},
		},
		{
			name: "absent base against populated head",
			base: ``,
			head: `{
				"resources": [{"id": "r1", "name": "web"}, {"id": "r2", "name": "db"}],
				"connections": [{"sourceId": "r1", "targetId": "r2"}]
			}`,
			want: Result{
				Added:            []string{"r1", "r2"},
				AddedConnections: []model.Connection{{Source: "r1", Target: "r2"}},
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := Diff(snap(t, tc.base), snap(t, tc.head))
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Compute = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestHasChanges(t *testing.T) {
	for _, tc := range []struct {
		name string
		r    Result
		want bool
	}{
		{"empty", Result{}, false},
		{"only unchanged", Result{Unchanged: []string{"a", "b"}}, false},
		{"added", Result{Added: []string{"a"}}, true},
		{"removed connection", Result{RemovedConnections: []model.Connection{{Source: "a", Target: "b"}}}, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.r.HasChanges(); got != tc.want {
				t.Errorf("HasChanges = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDiffSortsOutput(t *testing.T) {
	base := snap(t, `{"resources": [{"id": "z"}, {"id": "m"}]}`)
	head := snap(t, `{"resources": [{"id": "c"}, {"id": "a"}]}`)

	got := Diff(base, head)
	if !reflect.DeepEqual(got.Added, []string{"a", "c"}) {
		t.Errorf("Added = %v, want [a c]", got.Added)
	}
	if !reflect.DeepEqual(got.Removed, []string{"m", "z"}) {
		t.Errorf("Removed = %v, want [m z]", got.Removed)
	}
}
