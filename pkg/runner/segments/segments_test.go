package segments

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

func openSwsh(t *testing.T) *app.Tracker {
	t.Helper()
	catalog, _ := dex.Builtin()
	store := kv.NewMemory()
	_ = store.Set("swsh-pokedex-27-v2", `{"entries":[{"speciesId":810,"formId":810},{"speciesId":811,"formId":811}]}`)
	_ = store.Set("swsh-pokedex-28-v2", `{"entries":[{"speciesId":79,"formId":10164}]}`)
	tr, err := (&app.Env{Catalog: catalog, Store: store}).Tracker(context.Background(), "swsh")
	if err != nil {
		t.Fatal(err)
	}
	return tr
}

func TestEnableSegment(t *testing.T) {
	tr := openSwsh(t)
	var buf bytes.Buffer
	if err := (&Segments{Tracker: tr, Key: "armor", Enable: true, Out: &buf}).Do(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "armor enabled, 3 slots now active") {
		t.Fatalf("output %q", buf.String())
	}

	buf.Reset()
	if err := (&Segments{Tracker: tr, Output: "json", Out: &buf}).Do(context.Background()); err != nil {
		t.Fatal(err)
	}
	var rows []segmentJSON
	if err := json.Unmarshal(buf.Bytes(), &rows); err != nil {
		t.Fatal(err)
	}
	byKey := map[string]segmentJSON{}
	for _, r := range rows {
		byKey[r.Key] = r
	}
	if !byKey["base"].Enabled || byKey["base"].Entries != 2 {
		t.Fatalf("base %+v", byKey["base"])
	}
	if !byKey["armor"].Enabled || byKey["armor"].Entries != 1 {
		t.Fatalf("armor %+v", byKey["armor"])
	}
	if byKey["tundra"].Enabled || byKey["forms"].Enabled {
		t.Fatalf("unexpected optional segments on: %+v", rows)
	}
}

func TestEnableRequiredSegmentFails(t *testing.T) {
	tr := openSwsh(t)
	err := (&Segments{Tracker: tr, Key: "base", Enable: false}).Do(context.Background())
	if err == nil {
		t.Fatal("base is not optional")
	}
	if err := (&Segments{Tracker: tr, Key: "nope", Enable: true}).Do(context.Background()); err == nil {
		t.Fatal("unknown segment should fail")
	}
}
