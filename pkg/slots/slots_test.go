package slots

import (
	"reflect"
	"testing"

	"tableflip.dev/livedex/pkg/caught"
	"tableflip.dev/livedex/pkg/dex"
)

func section(key string, n, firstSpecies int) dex.Section {
	s := dex.Section{Key: key, Title: key, Kind: dex.KindBase}
	for i := 0; i < n; i++ {
		s.Entries = append(s.Entries, dex.Entry{SpeciesID: firstSpecies + i, FormID: firstSpecies + i})
	}
	return s
}

func TestAssignExample(t *testing.T) {
	// base [1,4,7], forms [10161]
	l := Assign([]dex.Section{
		{Key: "base", Entries: []dex.Entry{{SpeciesID: 1, FormID: 1}, {SpeciesID: 4, FormID: 4}, {SpeciesID: 7, FormID: 7}}},
		{Key: "forms", Kind: dex.KindForms, Entries: []dex.Entry{{SpeciesID: 52, FormID: 10161}}},
	})
	if got := l.SlotCount(); got != 4 {
		t.Fatalf("SlotCount = %d, want 4", got)
	}
	if slot, ok := l.SlotOf("forms", 0); !ok || slot != 4 {
		t.Fatalf("SlotOf(forms,0) = %d, %v", slot, ok)
	}
	if d, ok := l.LocalDisplay("forms", 0); !ok || d != "001" {
		t.Fatalf("LocalDisplay(forms,0) = %q, %v", d, ok)
	}
	c, ok := l.At(4)
	if !ok || c.SpeciesID != 52 || c.FormID != 10161 || c.Section != "forms" {
		t.Fatalf("At(4) = %+v, %v", c, ok)
	}
}

func TestAssignBoundaries(t *testing.T) {
	l := Assign([]dex.Section{section("a", 2, 1)})
	tests := []struct {
		name    string
		section string
		local   int
	}{
		{"unknown section", "zz", 0},
		{"negative", "a", -1},
		{"past end", "a", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := l.SlotOf(tt.section, tt.local); ok {
				t.Fatal("expected no slot")
			}
			if _, ok := l.LocalDisplay(tt.section, tt.local); ok {
				t.Fatal("expected no display")
			}
		})
	}
	if _, ok := l.At(0); ok {
		t.Fatal("slot 0 must not exist")
	}
	if _, ok := l.At(3); ok {
		t.Fatal("slot 3 must not exist")
	}
}

func TestSlotCountIsSumOfEntries(t *testing.T) {
	l := Assign([]dex.Section{section("a", 31, 1), section("b", 0, 100), section("c", 5, 200)})
	if got := l.SlotCount(); got != 36 {
		t.Fatalf("SlotCount = %d, want 36", got)
	}
	if slot, _ := l.SlotOf("c", 0); slot != 32 {
		t.Fatalf("first slot of c = %d, want 32", slot)
	}
	if first, last, ok := l.SectionRange("c"); !ok || first != 32 || last != 36 {
		t.Fatalf("SectionRange(c) = %d,%d,%v", first, last, ok)
	}
	if _, _, ok := l.SectionRange("b"); ok {
		t.Fatal("empty section has no range")
	}
}

func TestAssignIsDeterministic(t *testing.T) {
	secs := []dex.Section{section("base", 40, 1), section("dlc", 12, 500)}
	a, b := Assign(secs), Assign(secs)
	if !reflect.DeepEqual(a.Cells(), b.Cells()) {
		t.Fatal("same input produced different layouts")
	}
}

func TestDisableAndReenableRestoresSlots(t *testing.T) {
	base, dlc := section("base", 10, 1), section("dlc", 3, 100)
	full := Assign([]dex.Section{base, dlc})
	dlcFirst, _ := full.SlotOf("dlc", 0)

	reduced := Assign([]dex.Section{base})
	if reduced.SlotCount() != 10 {
		t.Fatalf("reduced SlotCount = %d", reduced.SlotCount())
	}
	again := Assign([]dex.Section{base, dlc})
	if slot, _ := again.SlotOf("dlc", 0); slot != dlcFirst {
		t.Fatalf("re-enabled dlc starts at %d, want %d", slot, dlcFirst)
	}
}

func TestBoxes(t *testing.T) {
	l := Assign([]dex.Section{
		{Key: "base", Title: "Galar Pokédex", Entries: section("x", 31, 1).Entries},
		{Key: "dlc", Title: "Isle of Armor", Entries: section("x", 2, 500).Entries},
	})
	boxes := l.Boxes()
	if len(boxes) != 3 {
		t.Fatalf("got %d boxes, want 3", len(boxes))
	}
	for i, b := range boxes {
		if b.Index != i {
			t.Errorf("box %d has index %d", i, b.Index)
		}
		if len(b.Cells) != BoxCapacity {
			t.Errorf("box %d has %d cells", i, len(b.Cells))
		}
	}
	if boxes[0].Label != "Galar Pokédex — #001–030" {
		t.Errorf("label = %q", boxes[0].Label)
	}
	if boxes[1].Label != "Galar Pokédex — #031–031" || boxes[1].FirstSlot != 31 || boxes[1].LastSlot != 31 {
		t.Errorf("second box = %q %d-%d", boxes[1].Label, boxes[1].FirstSlot, boxes[1].LastSlot)
	}
	if boxes[1].Filled() != 1 {
		t.Errorf("second box filled = %d", boxes[1].Filled())
	}
	if c := boxes[1].Cells[1]; !c.Placeholder || c.Slot != 0 {
		t.Errorf("padding cell = %+v", c)
	}
	if boxes[2].FirstSlot != 32 || boxes[2].LastSlot != 33 || boxes[2].Section != "dlc" {
		t.Errorf("dlc box = %+v", boxes[2])
	}
	if _, ok := l.Box(3); ok {
		t.Error("box 3 should not exist")
	}
}

func TestBoxCaughtHelpers(t *testing.T) {
	l := Assign([]dex.Section{section("a", 3, 1)})
	b, _ := l.Box(0)
	st := caught.State{1: true, 2: true}
	if b.AllCaught(st) {
		t.Fatal("box is not fully caught")
	}
	if got := b.CaughtCount(st); got != 2 {
		t.Fatalf("CaughtCount = %d", got)
	}
	st[3] = true
	if !b.AllCaught(st) {
		t.Fatal("box should be fully caught; placeholders do not count")
	}
}

func TestSearch(t *testing.T) {
	l := Assign([]dex.Section{
		{Key: "base", Entries: []dex.Entry{{SpeciesID: 25, FormID: 25}, {SpeciesID: 52, FormID: 52}, {SpeciesID: 122, FormID: 122}}},
		{Key: "forms", Entries: []dex.Entry{{SpeciesID: 52, FormID: 10161}}},
	})
	names := map[int]string{25: "Pikachu", 52: "Meowth", 122: "Mr Mime"}
	slotsOf := func(cells []Cell) []int {
		var out []int
		for _, c := range cells {
			out = append(out, c.Slot)
		}
		return out
	}

	tests := []struct {
		query string
		want  []int
	}{
		{"", nil},
		{"   ", nil},
		{"meow", []int{2, 4}},
		{"MR", []int{3}},
		{"#2", []int{2}},
		{"25", []int{1}},
		{"#52", []int{2, 4}},
		{"4", []int{4}},
		{"zzz", nil},
	}
	for _, tt := range tests {
		if got := slotsOf(l.Search(tt.query, names)); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Search(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}

	// Without names, a cell is labelled #<species>.
	if got := slotsOf(l.Search("#122", nil)); !reflect.DeepEqual(got, []int{3}) {
		t.Errorf("Search(#122) without names = %v", got)
	}
	if got := slotsOf(l.Search("#12", nil)); len(got) != 0 {
		t.Errorf("name substring must not apply to numeric queries, got %v", got)
	}
}
