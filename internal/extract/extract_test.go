package extract

import (
	"encoding/json"
	"testing"
)

func TestObject_DirectJSON(t *testing.T) {
	got := Object(`{"toplam_risk_skoru": 65, "riskler": [{"seviye": "YÜKSEK"}]}`)
	if got["toplam_risk_skoru"] != float64(65) {
		t.Errorf("expected toplam_risk_skoru=65, got %v", got["toplam_risk_skoru"])
	}
	if _, ok := got["riskler"].([]any); !ok {
		t.Errorf("expected riskler to be an array, got %T", got["riskler"])
	}
}

func TestObject_RoundTrip(t *testing.T) {
	src := map[string]any{
		"ozet":   "kısa özet",
		"sayi":   float64(42),
		"aktif":  true,
		"liste":  []any{"a", "b"},
		"ic":     map[string]any{"k": "v"},
		"bos":    nil,
	}
	raw, err := json.Marshal(src)
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name  string
		input string
	}{
		{"bare", string(raw)},
		{"fenced", "```json\n" + string(raw) + "\n```"},
		{"fenced untagged", "```\n" + string(raw) + "\n```"},
		{"embedded in prose", "Here is the analysis you asked for:\n" + string(raw) + "\nLet me know if you need more."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Object(tc.input)
			gotRaw, err := json.Marshal(got)
			if err != nil {
				t.Fatal(err)
			}
			var want, have map[string]any
			if err := json.Unmarshal(raw, &want); err != nil {
				t.Fatal(err)
			}
			if err := json.Unmarshal(gotRaw, &have); err != nil {
				t.Fatal(err)
			}
			if len(have) != len(want) {
				t.Errorf("expected %d keys, got %d: %s", len(want), len(have), gotRaw)
			}
			for k := range want {
				if _, ok := have[k]; !ok {
					t.Errorf("missing key %q in %s", k, gotRaw)
				}
			}
		})
	}
}

func TestObject_FencedWithSurroundingProse(t *testing.T) {
	raw := "Sure! The extracted data:\n```json\n{\"belgeler\": [\"imza sirküleri\"]}\n```\nHope this helps."
	got := Object(raw)
	if _, ok := got["belgeler"]; !ok {
		t.Errorf("expected belgeler key, got %v", got)
	}
}

func TestObject_BraceScanFallback(t *testing.T) {
	raw := `The model says {"cezalar": [], "toplam": 0} end of response`
	got := Object(raw)
	if got["toplam"] != float64(0) {
		t.Errorf("expected toplam=0, got %v", got)
	}
}

func TestObject_Unrecoverable(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace", "   \n\t"},
		{"gibberish", "the model had a bad day and returned prose only"},
		{"broken json", `{"key": "value`},
		{"array not object", `[1, 2, 3]`},
		{"braces but invalid", "prefix { not json at all } suffix"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Object(tc.input)
			if got == nil {
				t.Fatal("result must never be nil")
			}
			if len(got) != 0 {
				t.Errorf("expected empty map, got %v", got)
			}
		})
	}
}

func TestObject_NestedBracesInStrings(t *testing.T) {
	raw := `noise {"aciklama": "ceza oranı %0,1 {günlük}", "adet": 3} noise`
	got := Object(raw)
	if got["adet"] != float64(3) {
		t.Errorf("expected adet=3, got %v", got)
	}
}
