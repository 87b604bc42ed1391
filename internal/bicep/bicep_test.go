package bicep

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/grovetool/appgraph/internal/model"
)

const shopBicep = `extension radius

@description('The app environment')
param environment string

resource app 'Applications.Core/applications@2023-10-01-preview' = {
  name: 'shop'
  properties: {
    environment: environment
  }
}

resource frontend 'Applications.Core/containers@2023-10-01-preview' = {
  name: 'frontend'
  properties: {
    application: app.id
    container: {
      image: 'shop/frontend:1.4'
      ports: {
        web: {
          containerPort: 80
        }
      }
    }
    connections: {
      backend: {
        source: 'http://backend:3000'
      }
      db: {
        source: db.id
      }
    }
  }
}

resource backend 'Applications.Core/containers@2023-10-01-preview' = {
  name: 'backend'
  properties: {
    application: app.id
    container: {
      image: 'shop/backend:1.4'
      ports: {
        api: {
          containerPort: 3000
        }
      }
    }
  }
}

resource db 'Applications.Datastores/sqlDatabases@2023-10-01-preview' = {
  name: 'orders-db'
  properties: {
    application: app.id
  }
}
`

func TestExtract(t *testing.T) {
	doc := Extract("app.bicep", []byte(shopBicep))

	if len(doc.Resources) != 4 {
		t.Fatalf("got %d resources, want 4", len(doc.Resources))
	}

	for i, want := range []struct {
		id, name, typ string
		line          int
	}{
		{"app", "shop", "Applications.Core/applications@2023-10-01-preview", 6},
		{"frontend", "frontend", "Applications.Core/containers@2023-10-01-preview", 13},
		{"backend", "backend", "Applications.Core/containers@2023-10-01-preview", 36},
		{"db", "orders-db", "Applications.Datastores/sqlDatabases@2023-10-01-preview", 51},
	} {
		r := doc.Resources[i]
		if r.ID != want.id || r.Name != want.name || r.Type != want.typ {
			t.Errorf("resource %d = %s/%s/%s, want %s/%s/%s",
				i, r.ID, r.Name, r.Type, want.id, want.name, want.typ)
		}
		if r.SourceLocation == nil {
			t.Fatalf("resource %d has no location", i)
		}
		if r.SourceLocation.File != "app.bicep" || r.SourceLocation.Line != want.line {
			t.Errorf("resource %d location = %s:%d, want app.bicep:%d",
				i, r.SourceLocation.File, r.SourceLocation.Line, want.line)
		}
	}

	frontend := doc.Resources[1]
	wantProps := map[string]any{"image": "shop/frontend:1.4", "containerPort": 80}
	if !reflect.DeepEqual(frontend.Properties, wantProps) {
		t.Errorf("frontend properties = %v, want %v", frontend.Properties, wantProps)
	}

	wantConns := []model.ConnectionDoc{
		{SourceID: "frontend", TargetID: "backend"},
		{SourceID: "frontend", TargetID: "db"},
	}
	if !reflect.DeepEqual(doc.Connections, wantConns) {
		t.Errorf("connections = %v, want %v", doc.Connections, wantConns)
	}
}

func TestExtractRoundTripsThroughParse(t *testing.T) {
	doc := Extract("app.bicep", []byte(shopBicep))

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	snap, err := model.ParseSnapshot(data)
	if err != nil {
		t.Fatalf("ParseSnapshot: %v", err)
	}

	wantKeys := []string{"app", "frontend", "backend", "db"}
	if got := snap.Resources.Keys(); !reflect.DeepEqual(got, wantKeys) {
		t.Errorf("keys = %v, want %v", got, wantKeys)
	}
	if !snap.Connections.Has(model.Connection{Source: "frontend", Target: "db"}) {
		t.Error("missing frontend->db connection after round trip")
	}
}

func TestExtractDedupesConnections(t *testing.T) {
	src := `resource web 'Applications.Core/containers@v1' = {
  name: 'web'
  properties: {
    connections: {
      db: {
        source: db.id
      }
    }
  }
}

resource db 'Applications.Datastores/sqlDatabases@v1' = {
  name: 'db'
}
`
	doc := Extract("app.bicep", []byte(src))

	want := []model.ConnectionDoc{{SourceID: "web", TargetID: "db"}}
	if !reflect.DeepEqual(doc.Connections, want) {
		t.Errorf("connections = %v, want %v", doc.Connections, want)
	}
}

func TestExtractNothing(t *testing.T) {
	doc := Extract("app.bicep", []byte("param environment string\n"))

	if len(doc.Resources) != 0 || len(doc.Connections) != 0 {
		t.Errorf("want empty document, got %d resources, %d connections",
			len(doc.Resources), len(doc.Connections))
	}
}
