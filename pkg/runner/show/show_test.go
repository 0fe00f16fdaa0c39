package show

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"

	"tableflip.dev/livedex/pkg/app"
	"tableflip.dev/livedex/pkg/dex"
	"tableflip.dev/livedex/pkg/kv"
)

func init() {
	color.NoColor = true
}

func openHome(t *testing.T) *app.Tracker {
	t.Helper()
	catalog, _ := dex.Builtin()
	store := kv.NewMemory()
	_ = store.Set("home-pokedex-1-v2", `{"entries":[{"speciesId":1,"formId":1},{"speciesId":2,"formId":2},{"speciesId":3,"formId":3}]}`)
	_ = store.Set("home-species-names-v1", `{"1":"Bulbasaur","2":"Ivysaur","3":"Venusaur"}`)
	tr, err := (&app.Env{Catalog: catalog, Store: store}).Tracker(context.Background(), "home")
	if err != nil {
		t.Fatal(err)
	}
	return tr
}

func TestShowGrid(t *testing.T) {
	tr := openHome(t)
	_, _ = tr.Toggle(2)

	var buf bytes.Buffer
	if err := (&Show{Tracker: tr, Offline: true, Out: &buf}).Do(context.Background()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Pokémon Home", "1/3 caught (33%)", "Box 1", "001 Bulbasaur", "003 Venusaur"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := (&Show{Tracker: tr, Offline: true, Uncaught: true, Out: &buf}).Do(context.Background()); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "Ivysaur") {
		t.Error("uncaught view still lists a caught slot")
	}
}

func TestShowJSON(t *testing.T) {
	tr := openHome(t)
	_, _ = tr.Toggle(3)

	var buf bytes.Buffer
	if err := (&Show{Tracker: tr, Offline: true, Output: "json", Out: &buf}).Do(context.Background()); err != nil {
		t.Fatal(err)
	}
	var got showJSON
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Game != "home" || len(got.Boxes) != 1 || len(got.Caught) != 1 || got.Caught[0] != 3 {
		t.Fatalf("json %+v", got)
	}
	if got.Names[1] != "Bulbasaur" {
		t.Fatalf("names %v", got.Names)
	}
}

func TestShowUnknownSection(t *testing.T) {
	tr := openHome(t)
	if err := (&Show{Tracker: tr, Offline: true, Section: "dlc", Out: &bytes.Buffer{}}).Do(context.Background()); err == nil {
		t.Fatal("expected an error for an inactive section")
	}
}
