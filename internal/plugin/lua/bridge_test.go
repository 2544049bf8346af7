package lua_test

import (
	"reflect"
	"testing"

	glua "github.com/yuin/gopher-lua"

	plua "github.com/arlenmoss/herald/internal/plugin/lua"
)

func TestToGoValueScalars(t *testing.T) {
	tests := []struct {
		name string
		in   glua.LValue
		want any
	}{
		{"bool", glua.LTrue, true},
		{"integer number", glua.LNumber(7), int64(7)},
		{"float number", glua.LNumber(2.5), 2.5},
		{"string", glua.LString("hi"), "hi"},
		{"nil", glua.LNil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := plua.ToGoValue(tt.in); got != tt.want {
				t.Errorf("ToGoValue(%v) = %v (%T), want %v", tt.in, got, got, tt.want)
			}
		})
	}
}

func TestToGoValueArrayTable(t *testing.T) {
	s := plua.NewState()
	defer s.Close()
	L := s.Raw()

	tbl := L.NewTable()
	tbl.Append(glua.LString("a"))
	tbl.Append(glua.LString("b"))

	got := plua.ToGoValue(tbl)
	want := []any{"a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ToGoValue = %v, want %v", got, want)
	}
}

func TestToGoValueMapTable(t *testing.T) {
	s := plua.NewState()
	defer s.Close()
	L := s.Raw()

	tbl := L.NewTable()
	tbl.RawSetString("name", glua.LString("Red"))
	tbl.RawSetString("size", glua.LNumber(4))

	got := plua.ToGoValue(tbl)
	want := map[string]any{"name": "Red", "size": int64(4)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ToGoValue = %v, want %v", got, want)
	}
}

func TestToGoValueCircularTable(t *testing.T) {
	s := plua.NewState()
	defer s.Close()
	L := s.Raw()

	tbl := L.NewTable()
	tbl.RawSetString("self", tbl)

	got, ok := plua.ToGoValue(tbl).(map[string]any)
	if !ok {
		t.Fatalf("expected map, got %T", plua.ToGoValue(tbl))
	}
	if got["self"] != nil {
		t.Errorf("circular reference should break to nil, got %v", got["self"])
	}
}

func TestToLuaValueRoundTrip(t *testing.T) {
	s := plua.NewState()
	defer s.Close()
	L := s.Raw()

	in := map[string]any{
		"team":    "Red",
		"count":   int64(3),
		"open":    true,
		"members": []any{"ayla", "bran"},
	}
	got := plua.ToGoValue(plua.ToLuaValue(L, in))
	if !reflect.DeepEqual(got, in) {
		t.Errorf("round trip = %v, want %v", got, in)
	}
}

func TestStringsToTable(t *testing.T) {
	s := plua.NewState()
	defer s.Close()
	L := s.Raw()

	tbl := plua.StringsToTable(L, []string{"set", "home"})
	if tbl.Len() != 2 {
		t.Fatalf("Len = %d, want 2", tbl.Len())
	}
	if tbl.RawGetInt(1) != glua.LString("set") || tbl.RawGetInt(2) != glua.LString("home") {
		t.Error("table contents mismatch")
	}

	back := plua.TableToStrings(tbl)
	if !reflect.DeepEqual(back, []string{"set", "home"}) {
		t.Errorf("TableToStrings = %v", back)
	}
}
