package raw

import (
	"reflect"
	"testing"
)

func TestGet(t *testing.T) {
	t.Setenv("LOG_LEVEL", "  debug ")
	t.Setenv("LOG_FILE_MAX_MB", "128")

	log := New().Prefix("LOG_")
	if got := log.Get("LEVEL", "info"); got != "debug" {
		t.Fatalf("LEVEL = %q", got)
	}
	if got := log.Get("FORMAT", "console"); got != "console" {
		t.Fatalf("FORMAT = %q", got)
	}
	if got := log.Prefix("FILE_").Get("MAX_MB", ""); got != "128" {
		t.Fatalf("nested prefix = %q", got)
	}
}

func TestGetBool(t *testing.T) {
	c := New().Prefix("LOG_")
	tests := []struct {
		val  string
		def  bool
		want bool
	}{
		{"true", false, true},
		{"1", false, true},
		{"YES", false, true},
		{" on ", false, true},
		{"false", true, false},
		{"0", true, false},
		{"no", true, false},
		{"maybe", true, true},
		{"", false, false},
	}
	for _, tc := range tests {
		t.Run(tc.val, func(t *testing.T) {
			t.Setenv("LOG_CALLER", tc.val)
			if got := c.GetBool("CALLER", tc.def); got != tc.want {
				t.Fatalf("GetBool(%q, %v) = %v", tc.val, tc.def, got)
			}
		})
	}
}

func TestGetInt(t *testing.T) {
	c := New().Prefix("LOG_")
	tests := []struct {
		val  string
		want int
	}{
		{"42", 42},
		{" 7 ", 7},
		{"0", 0},
		{"12x", 3},
		{"-5", 3},
		{"", 3},
	}
	for _, tc := range tests {
		t.Run(tc.val, func(t *testing.T) {
			t.Setenv("LOG_SAMPLE_EVERY", tc.val)
			if got := c.GetInt("SAMPLE_EVERY", 3); got != tc.want {
				t.Fatalf("GetInt(%q) = %d", tc.val, got)
			}
		})
	}
}

func TestGetFields(t *testing.T) {
	t.Setenv("LOG_FIELDS", "region=eu-central, pod = api-1,broken,=x")
	got := New().Prefix("LOG_").GetFields("FIELDS")
	want := map[string]string{"region": "eu-central", "pod": "api-1"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("fields = %v", got)
	}
	if New().GetFields("UNSET_FIELDS_FOR_TEST") != nil {
		t.Fatal("unset should be nil")
	}
}
